package profiles

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/sermonmate/sermonmate/internal/dbx"
	"github.com/sermonmate/sermonmate/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, p *models.Profile) (*models.Profile, error) {

	query :=
		`INSERT INTO profiles (id, clerk_user_id, email, name, credits)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (clerk_user_id) DO UPDATE
		 SET email = EXCLUDED.email, name = EXCLUDED.name, updated_at = now()
		 RETURNING id, credits, created_at, updated_at
		 `

	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	err := r.db.QueryRowContext(ctx, query,
		p.ID, p.ClerkUserID, p.Email, p.Name, p.Credits).Scan(&p.ID, &p.Credits, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return p, nil
}

func (r *PostgresRepository) DeleteByClerkUserID(ctx context.Context, clerkUserID string) error {
	query := `DELETE FROM profiles WHERE clerk_user_id = $1`

	res, err := r.db.ExecContext(ctx, query, clerkUserID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
