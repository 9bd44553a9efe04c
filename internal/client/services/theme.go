package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/sermonmate/sermonmate/internal/client/models"
	"github.com/sermonmate/sermonmate/internal/client/repositories/metadata"
	"github.com/sermonmate/sermonmate/internal/logging"
)

// KeyValueStore is the local storage the theme is persisted in.
type KeyValueStore interface {
	Get(ctx context.Context, key metadata.Key) ([]byte, error)
	Set(ctx context.Context, key metadata.Key, value []byte) error
}

// ThemeService keeps the light/dark preference.
type ThemeService interface {
	Initialize(ctx context.Context) models.Theme
	Theme() models.Theme
	SetTheme(ctx context.Context, theme models.Theme) error
	Toggle(ctx context.Context) (models.Theme, error)
}

type themeService struct {
	store  KeyValueStore
	system func() models.Theme
	log    logging.Logger

	mu    sync.Mutex
	theme models.Theme
}

// NewThemeService constructs a ThemeService. system reports the platform's
// preferred theme and is consulted only when nothing valid is stored.
func NewThemeService(store KeyValueStore, system func() models.Theme, log logging.Logger) ThemeService {
	return &themeService{store: store, system: system, log: log, theme: models.ThemeLight}
}

func (s *themeService) Initialize(ctx context.Context) models.Theme {
	stored, err := s.store.Get(ctx, metadata.Theme)
	if err != nil {
		s.log.Error(ctx, "failed to read theme", "error", err)
		return s.set(models.ThemeLight)
	}

	if t := models.Theme(stored); t.Valid() {
		return s.set(t)
	}

	t := models.ThemeLight
	if s.system != nil && s.system() == models.ThemeDark {
		t = models.ThemeDark
	}
	if err := s.store.Set(ctx, metadata.Theme, []byte(t)); err != nil {
		s.log.Error(ctx, "failed to persist theme", "error", err)
		return s.set(models.ThemeLight)
	}
	return s.set(t)
}

func (s *themeService) Theme() models.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

// SetTheme persists first; the in-memory value changes only if that worked.
func (s *themeService) SetTheme(ctx context.Context, theme models.Theme) error {
	if !theme.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownTheme, theme)
	}
	if err := s.store.Set(ctx, metadata.Theme, []byte(theme)); err != nil {
		return fmt.Errorf("failed to persist theme: %w", err)
	}
	s.set(theme)
	return nil
}

func (s *themeService) Toggle(ctx context.Context) (models.Theme, error) {
	next := s.Theme().Opposite()
	if err := s.SetTheme(ctx, next); err != nil {
		return s.Theme(), err
	}
	return next, nil
}

func (s *themeService) set(t models.Theme) models.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = t
	return t
}
