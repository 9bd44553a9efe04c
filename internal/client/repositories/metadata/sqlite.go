package metadata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sermonmate/sermonmate/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, key Key) ([]byte, error) {
	if !key.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}

	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, string(key)).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read setting %s: %w", key, err)
	}
	return value, nil
}

// Set inserts or replaces the value for key.
func (r *SQLiteRepository) Set(ctx context.Context, key Key, value []byte) error {
	if !key.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO metadata (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		string(key), value)
	if err != nil {
		return fmt.Errorf("failed to write setting %s: %w", key, err)
	}
	return nil
}

// Delete is a no-op for a missing key.
func (r *SQLiteRepository) Delete(ctx context.Context, key Key) error {
	if !key.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM metadata WHERE key = ?`, string(key)); err != nil {
		return fmt.Errorf("failed to remove setting %s: %w", key, err)
	}
	return nil
}
