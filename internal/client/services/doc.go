// Package services contains the application services the SermonMate CLI is
// built from: authentication, sermons and drafts, credits, theme and
// coaching.
//
// Each service is constructed once (see cli.NewApp) and shared by reference.
// Services that keep per-session state subscribe to the events.Bus and reset
// it when the session ends.
package services

import (
	"context"
	"errors"

	"github.com/sermonmate/sermonmate/internal/client/api"
)

var (
	ErrEmptyTitle       = errors.New("title is required")
	ErrUnknownTheme     = errors.New("unknown theme")
	ErrUnknownPackage   = errors.New("unknown credit package")
	ErrNotAuthenticated = errors.New("not signed in")
)

// Backend is the subset of *api.Client the services call.
type Backend interface {
	Get(ctx context.Context, path string) (*api.Response, error)
	Post(ctx context.Context, path string, body any) (*api.Response, error)
	Put(ctx context.Context, path string, body any) (*api.Response, error)
	Delete(ctx context.Context, path string) (*api.Response, error)
}

// TokenStore persists the session token.
type TokenStore interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string) error
	Delete(ctx context.Context) error
}
