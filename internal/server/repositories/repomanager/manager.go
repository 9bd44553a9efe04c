package repomanager

import (
	"context"
	"database/sql"

	"github.com/sermonmate/sermonmate/internal/dbx"
	"github.com/sermonmate/sermonmate/internal/server/repositories/profiles"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Profiles(db dbx.DBTX) profiles.Repository
}
