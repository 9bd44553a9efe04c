// Package profiles stores Clerk user profiles in PostgreSQL.
package profiles

import (
	"context"
	"errors"

	"github.com/sermonmate/sermonmate/internal/server/models"
)

var ErrNotFound = errors.New("profile not found")

type Repository interface {
	// Upsert inserts p keyed by ClerkUserID or refreshes email and name of
	// the existing row. Credits are only set on insert.
	Upsert(ctx context.Context, p *models.Profile) (*models.Profile, error)
	DeleteByClerkUserID(ctx context.Context, clerkUserID string) error
}
