// Package services contains server-side business logic. This file implements
// ProfileService, which applies Clerk user events to the profile store.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/sermonmate/sermonmate/internal/logging"
	"github.com/sermonmate/sermonmate/internal/server/models"
	"github.com/sermonmate/sermonmate/internal/server/repositories/profiles"
	"github.com/sermonmate/sermonmate/internal/server/repositories/repomanager"
)

const (
	EventUserCreated = "user.created"
	EventUserUpdated = "user.updated"
	EventUserDeleted = "user.deleted"
)

// Outcome tells the caller what an event did to the store.
type Outcome string

const (
	OutcomeUpserted Outcome = "upserted"
	OutcomeDeleted  Outcome = "deleted"
	OutcomeIgnored  Outcome = "ignored"
)

var (
	ErrInvalidEvent = errors.New("invalid event payload")
	ErrStore        = errors.New("profile store failure")
)

// ProfileService keeps one profile per Clerk user:
//   - user.created and user.updated upsert by Clerk id; credits start at 0
//     and are never touched by updates
//   - user.deleted removes the profile
//   - every other event type is ignored
type ProfileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewProfileService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *ProfileService {
	return &ProfileService{
		db:          db,
		repomanager: m,
		logger:      logger.With("module", "profiles"),
	}
}

// EventType extracts the "type" field of a webhook payload.
func EventType(payload []byte) string {
	return gjson.GetBytes(payload, "type").String()
}

// HandleEvent applies a verified webhook payload. Store failures are
// returned wrapped in ErrStore, malformed payloads as ErrInvalidEvent.
func (s *ProfileService) HandleEvent(ctx context.Context, payload []byte) (Outcome, error) {
	if !gjson.ValidBytes(payload) {
		return "", ErrInvalidEvent
	}

	evtType := EventType(payload)
	switch evtType {
	case EventUserCreated, EventUserUpdated:
		p, err := profileFromEvent(payload)
		if err != nil {
			return "", err
		}
		saved, err := s.repomanager.Profiles(s.db).Upsert(ctx, p)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrStore, err)
		}
		s.logger.Info(ctx, "profile saved", "event", evtType, "clerk_user_id", saved.ClerkUserID, "id", saved.ID)
		return OutcomeUpserted, nil

	case EventUserDeleted:
		id := gjson.GetBytes(payload, "data.id").String()
		if id == "" {
			return "", ErrInvalidEvent
		}
		err := s.repomanager.Profiles(s.db).DeleteByClerkUserID(ctx, id)
		if errors.Is(err, profiles.ErrNotFound) {
			s.logger.Info(ctx, "no profile to delete", "clerk_user_id", id)
			return OutcomeIgnored, nil
		}
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrStore, err)
		}
		s.logger.Info(ctx, "profile deleted", "clerk_user_id", id)
		return OutcomeDeleted, nil

	default:
		s.logger.Debug(ctx, "event ignored", "event", evtType)
		return OutcomeIgnored, nil
	}
}

// profileFromEvent maps a Clerk user object: email is the first address or
// nil, name is "first last" trimmed.
func profileFromEvent(payload []byte) (*models.Profile, error) {
	data := gjson.GetBytes(payload, "data")
	id := data.Get("id").String()
	if id == "" {
		return nil, ErrInvalidEvent
	}

	p := &models.Profile{
		ClerkUserID: id,
		Name:        strings.TrimSpace(data.Get("first_name").String() + " " + data.Get("last_name").String()),
		Credits:     0,
	}
	if email := data.Get("email_addresses.0.email_address").String(); email != "" {
		p.Email = &email
	}
	return p, nil
}
