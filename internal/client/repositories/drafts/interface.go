// Package drafts persists sermons that were generated or edited locally but
// not yet saved to the backend.
package drafts

import (
	"context"

	"github.com/sermonmate/sermonmate/internal/client/models"
)

type Repository interface {
	Upsert(ctx context.Context, d *models.Draft) error
	GetAll(ctx context.Context) ([]models.Draft, error)
	GetByID(ctx context.Context, id string) (*models.Draft, error)
	DeleteByID(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}
