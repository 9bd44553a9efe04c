package drafts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sermonmate/sermonmate/internal/client/models"
	"github.com/sermonmate/sermonmate/internal/dbx"
)

var ErrNotFound = errors.New("draft not found")

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Upsert inserts a draft or replaces the stored one with the same id.
func (r *SQLiteRepository) Upsert(ctx context.Context, d *models.Draft) error {
	verses, err := json.Marshal(nonNil(d.Sermon.Verses))
	if err != nil {
		return fmt.Errorf("failed to encode verses: %w", err)
	}

	query := `INSERT INTO drafts (id, title, verses, interpretation, story, color, topic, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET title = excluded.title,
				verses = excluded.verses,
				interpretation = excluded.interpretation,
				story = excluded.story,
				color = excluded.color,
				topic = excluded.topic,
				updated_at = excluded.updated_at
	`
	_, err = r.db.ExecContext(ctx, query,
		d.ID, d.Sermon.Title, string(verses), d.Sermon.Interpretation, d.Sermon.Story,
		d.Sermon.Color, d.Topic, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert draft: %w", err)
	}
	return nil
}

// GetAll lists drafts, most recently edited first.
func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Draft, error) {
	query := `SELECT id, title, verses, interpretation, story, color, topic, updated_at
		FROM drafts ORDER BY updated_at DESC, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select drafts: %w", err)
	}
	defer rows.Close()

	var result []models.Draft
	for rows.Next() {
		item, err := scanDraft(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate drafts: %w", err)
	}
	return result, nil
}

// GetByID returns ErrNotFound when no draft has the given id.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Draft, error) {
	query := `SELECT id, title, verses, interpretation, story, color, topic, updated_at
		FROM drafts WHERE id = ?`
	item, err := scanDraft(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteByID expects exactly one row to be affected.
func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM drafts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra != 1 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM drafts`); err != nil {
		return fmt.Errorf("failed to clear drafts: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDraft(s scanner) (*models.Draft, error) {
	var (
		d      models.Draft
		verses string
	)
	err := s.Scan(&d.ID, &d.Sermon.Title, &verses, &d.Sermon.Interpretation, &d.Sermon.Story,
		&d.Sermon.Color, &d.Topic, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan draft: %w", err)
	}
	if err := json.Unmarshal([]byte(verses), &d.Sermon.Verses); err != nil {
		return nil, fmt.Errorf("failed to decode verses: %w", err)
	}
	d.Sermon.Verses = nonNil(d.Sermon.Verses)
	return &d, nil
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
