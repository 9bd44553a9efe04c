package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sermonmate/sermonmate/internal/client/api"
	"github.com/sermonmate/sermonmate/internal/client/events"
	"github.com/sermonmate/sermonmate/internal/client/models"
	"github.com/sermonmate/sermonmate/internal/client/repositories/drafts"
	"github.com/sermonmate/sermonmate/internal/logging"
)

const (
	defaultColor = "1"
	dateLayout   = "01/02/2006"
	maxPages     = 1000
)

// SermonPage is one mapped page of the user's sermons.
type SermonPage struct {
	Sermons     []models.SavedSermon
	CurrentPage int
	LastPage    int
	PerPage     int
	Total       int
}

// SermonService is the server-backed sermon CRUD plus the local draft cache.
type SermonService interface {
	List(ctx context.Context) ([]models.SavedSermon, error)
	ListPage(ctx context.Context, page int) (*SermonPage, error)
	Save(ctx context.Context, s models.NewSermon) (*models.SavedSermon, error)
	Update(ctx context.Context, s models.SavedSermon) (*models.SavedSermon, error)
	Delete(ctx context.Context, id string) error

	SaveDraft(ctx context.Context, topic string, s models.SavedSermon) (*models.Draft, error)
	Drafts(ctx context.Context) ([]models.Draft, error)
	DeleteDraft(ctx context.Context, id string) error
	PublishDraft(ctx context.Context, id string) (*models.SavedSermon, error)
}

type sermonService struct {
	backend Backend
	drafts  drafts.Repository
	log     logging.Logger
	loc     *time.Location
	now     func() time.Time
}

// NewSermonService constructs a SermonService. The draft cache is cleared
// whenever the session ends.
func NewSermonService(backend Backend, draftRepo drafts.Repository, bus *events.Bus, log logging.Logger) SermonService {
	s := &sermonService{backend: backend, drafts: draftRepo, log: log, loc: time.Local, now: time.Now}
	bus.Subscribe(s.onSessionEnded)
	return s
}

func (s *sermonService) onSessionEnded(ctx context.Context, _ events.Reason) {
	if err := s.drafts.Clear(ctx); err != nil {
		s.log.Error(ctx, "failed to clear drafts", "error", err)
	}
}

type sermonListPayload struct {
	Data        []models.BackendSermon `json:"data"`
	CurrentPage int                    `json:"current_page"`
	LastPage    int                    `json:"last_page"`
	PerPage     int                    `json:"per_page"`
	Total       int                    `json:"total"`
}

func (s *sermonService) ListPage(ctx context.Context, page int) (*SermonPage, error) {
	if page < 1 {
		page = 1
	}
	resp, err := s.backend.Get(ctx, "/sermons?page="+strconv.Itoa(page))
	if err != nil {
		return nil, api.WithFallback(err, "Failed to fetch sermons")
	}

	var p sermonListPayload
	if err := resp.Decode("sermons", &p); err != nil {
		return nil, api.WithFallback(err, "Failed to fetch sermons")
	}

	out := &SermonPage{
		Sermons:     make([]models.SavedSermon, 0, len(p.Data)),
		CurrentPage: p.CurrentPage,
		LastPage:    p.LastPage,
		PerPage:     p.PerPage,
		Total:       p.Total,
	}
	for _, b := range p.Data {
		out.Sermons = append(out.Sermons, mapBackendSermon(b, s.loc))
	}
	return out, nil
}

// List walks every page.
func (s *sermonService) List(ctx context.Context) ([]models.SavedSermon, error) {
	var all []models.SavedSermon
	for page := 1; page <= maxPages; page++ {
		p, err := s.ListPage(ctx, page)
		if err != nil {
			return nil, err
		}
		all = append(all, p.Sermons...)
		if p.CurrentPage >= p.LastPage || len(p.Sermons) == 0 {
			break
		}
	}
	if all == nil {
		all = []models.SavedSermon{}
	}
	return all, nil
}

type saveSermonRequest struct {
	Title          string   `json:"title"`
	Verses         []string `json:"verses"`
	Interpretation string   `json:"interpretation"`
	Story          string   `json:"story"`
	Color          string   `json:"color"`
	IsPublic       bool     `json:"is_public"`
	Topic          string   `json:"topic,omitempty"`
}

type updateSermonRequest struct {
	Title          string   `json:"title"`
	Verses         []string `json:"verses"`
	Interpretation string   `json:"interpretation"`
	Story          string   `json:"story"`
	Color          string   `json:"color"`
}

func (s *sermonService) Save(ctx context.Context, in models.NewSermon) (*models.SavedSermon, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrEmptyTitle
	}

	req := saveSermonRequest{
		Title:          in.Title,
		Verses:         nonNilStrings(in.Verses),
		Interpretation: in.Interpretation,
		Story:          in.Story,
		Color:          orDefault(in.Color, defaultColor),
		IsPublic:       false,
		Topic:          in.Topic,
	}

	resp, err := s.backend.Post(ctx, "/sermons", req)
	if err != nil {
		return nil, api.WithFallback(err, "Failed to save sermon")
	}
	return s.decodeSermon(resp, "Failed to save sermon")
}

func (s *sermonService) Update(ctx context.Context, in models.SavedSermon) (*models.SavedSermon, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrEmptyTitle
	}
	if in.ID == "" {
		return nil, fmt.Errorf("update sermon: missing id")
	}

	req := updateSermonRequest{
		Title:          in.Title,
		Verses:         nonNilStrings(in.Verses),
		Interpretation: in.Interpretation,
		Story:          in.Story,
		Color:          orDefault(in.Color, defaultColor),
	}

	resp, err := s.backend.Put(ctx, "/sermons/"+url.PathEscape(in.ID), req)
	if err != nil {
		return nil, api.WithFallback(err, "Failed to update sermon")
	}
	return s.decodeSermon(resp, "Failed to update sermon")
}

func (s *sermonService) Delete(ctx context.Context, id string) error {
	if _, err := s.backend.Delete(ctx, "/sermons/"+url.PathEscape(id)); err != nil {
		return api.WithFallback(err, "Failed to delete sermon")
	}
	return nil
}

func (s *sermonService) decodeSermon(resp *api.Response, fallback string) (*models.SavedSermon, error) {
	var b models.BackendSermon
	if err := resp.Decode("sermon", &b); err != nil {
		return nil, api.WithFallback(err, fallback)
	}
	saved := mapBackendSermon(b, s.loc)
	return &saved, nil
}

// SaveDraft upserts a draft. A sermon without an id gets a new local UUID.
func (s *sermonService) SaveDraft(ctx context.Context, topic string, in models.SavedSermon) (*models.Draft, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrEmptyTitle
	}
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	in.Verses = nonNilStrings(in.Verses)
	in.Color = orDefault(in.Color, defaultColor)

	d := &models.Draft{ID: in.ID, Topic: topic, Sermon: in, UpdatedAt: s.now().UnixNano()}
	if err := s.drafts.Upsert(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to save draft: %w", err)
	}
	return d, nil
}

func (s *sermonService) Drafts(ctx context.Context) ([]models.Draft, error) {
	all, err := s.drafts.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load drafts: %w", err)
	}
	for i := range all {
		all[i].Sermon.ID = all[i].ID
	}
	return all, nil
}

func (s *sermonService) DeleteDraft(ctx context.Context, id string) error {
	if err := s.drafts.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}

// PublishDraft saves the draft on the server and drops it locally. The
// returned sermon carries the server id, never the draft's.
func (s *sermonService) PublishDraft(ctx context.Context, id string) (*models.SavedSermon, error) {
	d, err := s.drafts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}

	saved, err := s.Save(ctx, models.NewSermon{
		Title:          d.Sermon.Title,
		Verses:         d.Sermon.Verses,
		Interpretation: d.Sermon.Interpretation,
		Story:          d.Sermon.Story,
		Color:          d.Sermon.Color,
		Topic:          d.Topic,
	})
	if err != nil {
		return nil, err
	}

	if err := s.drafts.DeleteByID(ctx, id); err != nil {
		s.log.Warn(ctx, "published draft not removed", "draft_id", id, "error", err)
	}
	return saved, nil
}

var createdAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// mapBackendSermon converts the backend record to the display shape.
func mapBackendSermon(b models.BackendSermon, loc *time.Location) models.SavedSermon {
	return models.SavedSermon{
		ID:             strconv.FormatInt(b.ID, 10),
		Title:          b.Title,
		Verses:         nonNilStrings(b.Verses),
		Interpretation: b.Interpretation,
		Story:          b.Story,
		Date:           formatDate(b.CreatedAt, loc),
		Color:          orDefault(b.Color, defaultColor),
		IsPublic:       b.IsPublic,
	}
}

// formatDate renders created_at as MM/DD/YYYY in loc, or "" when unparsable.
func formatDate(createdAt string, loc *time.Location) string {
	for _, layout := range createdAtLayouts {
		t, err := time.Parse(layout, createdAt)
		if err == nil {
			return t.In(loc).Format(dateLayout)
		}
	}
	return ""
}

func nonNilStrings(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
