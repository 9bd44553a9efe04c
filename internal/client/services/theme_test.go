package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sermonmate/sermonmate/internal/client/localdb"
	"github.com/sermonmate/sermonmate/internal/client/models"
	"github.com/sermonmate/sermonmate/internal/client/repositories/metadata"
	"github.com/sermonmate/sermonmate/internal/logging"
)

type memKV struct {
	data   map[metadata.Key][]byte
	getErr error
	setErr error
}

func newMemKV() *memKV { return &memKV{data: map[metadata.Key][]byte{}} }

func (m *memKV) Get(_ context.Context, key metadata.Key) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.data[key], nil
}

func (m *memKV) Set(_ context.Context, key metadata.Key, value []byte) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

func system(t models.Theme) func() models.Theme {
	return func() models.Theme { return t }
}

func TestThemeInitialize(t *testing.T) {
	tests := []struct {
		name      string
		stored    string
		system    models.Theme
		want      models.Theme
		persisted string
	}{
		{name: "stored dark", stored: "dark", system: models.ThemeLight, want: models.ThemeDark, persisted: "dark"},
		{name: "stored light", stored: "light", system: models.ThemeDark, want: models.ThemeLight, persisted: "light"},
		{name: "nothing stored uses system", stored: "", system: models.ThemeDark, want: models.ThemeDark, persisted: "dark"},
		{name: "garbage stored uses system", stored: "sepia", system: models.ThemeLight, want: models.ThemeLight, persisted: "light"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := newMemKV()
			if tt.stored != "" {
				kv.data[metadata.Theme] = []byte(tt.stored)
			}
			svc := NewThemeService(kv, system(tt.system), logging.Nop())

			assert.Equal(t, tt.want, svc.Initialize(context.Background()))
			assert.Equal(t, tt.want, svc.Theme())
			assert.Equal(t, tt.persisted, string(kv.data[metadata.Theme]))
		})
	}
}

func TestThemeInitialize_StorageErrorFallsBackToLight(t *testing.T) {
	kv := newMemKV()
	kv.getErr = errors.New("io")
	svc := NewThemeService(kv, system(models.ThemeDark), logging.Nop())
	assert.Equal(t, models.ThemeLight, svc.Initialize(context.Background()))

	kv = newMemKV()
	kv.setErr = errors.New("io")
	svc = NewThemeService(kv, system(models.ThemeDark), logging.Nop())
	assert.Equal(t, models.ThemeLight, svc.Initialize(context.Background()))
}

func TestSetTheme(t *testing.T) {
	kv := newMemKV()
	svc := NewThemeService(kv, nil, logging.Nop())
	ctx := context.Background()

	require.ErrorIs(t, svc.SetTheme(ctx, "blue"), ErrUnknownTheme)
	require.NoError(t, svc.SetTheme(ctx, models.ThemeDark))
	assert.Equal(t, models.ThemeDark, svc.Theme())
	assert.Equal(t, "dark", string(kv.data[metadata.Theme]))

	kv.setErr = errors.New("io")
	require.Error(t, svc.SetTheme(ctx, models.ThemeLight))
	assert.Equal(t, models.ThemeDark, svc.Theme())

	_, err := svc.Toggle(ctx)
	require.Error(t, err)
	assert.Equal(t, models.ThemeDark, svc.Theme())
}

func TestToggle_PersistsAcrossRestart(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "cache.db")

	db, err := localdb.InitDatabase(ctx, dsn)
	require.NoError(t, err)

	first := NewThemeService(metadata.NewSQLiteRepository(db), system(models.ThemeLight), logging.Nop())
	require.Equal(t, models.ThemeLight, first.Initialize(ctx))
	next, err := first.Toggle(ctx)
	require.NoError(t, err)
	require.Equal(t, models.ThemeDark, next)
	require.NoError(t, db.Close())

	db, err = localdb.InitDatabase(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	second := NewThemeService(metadata.NewSQLiteRepository(db), system(models.ThemeLight), logging.Nop())
	assert.Equal(t, models.ThemeDark, second.Initialize(ctx))
}
