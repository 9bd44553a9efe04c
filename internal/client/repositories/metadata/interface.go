// Package metadata is the local key-value table behind the theme preference
// and the encrypted session token.
package metadata

import (
	"context"
	"errors"

	"github.com/sermonmate/sermonmate/internal/common"
)

// Key names one of the client's settings rows.
type Key string

const (
	// AuthToken holds the sealed session token.
	AuthToken Key = common.AuthTokenKey
	// Theme holds "light" or "dark".
	Theme Key = common.ThemeKey
	// DeviceSalt holds the Argon2id salt for the token key.
	DeviceSalt Key = "device_salt"
)

var ErrUnknownKey = errors.New("unknown metadata key")

// Valid reports whether k is one of the known settings.
func (k Key) Valid() bool {
	switch k {
	case AuthToken, Theme, DeviceSalt:
		return true
	}
	return false
}

// Repository stores settings by key. Get returns (nil, nil) for a missing
// key; unknown keys fail with ErrUnknownKey.
type Repository interface {
	Get(ctx context.Context, key Key) ([]byte, error)
	Set(ctx context.Context, key Key, value []byte) error
	Delete(ctx context.Context, key Key) error
}
