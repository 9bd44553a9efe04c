// Package securestore keeps the session token encrypted at rest in the local
// metadata table.
//
// The AES-GCM key is derived with Argon2id from a per-device secret file and a
// random salt that is created on first write and stored next to the token.
package securestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/sermonmate/sermonmate/internal/client/repositories/metadata"
	"github.com/sermonmate/sermonmate/internal/common"
	"github.com/sermonmate/sermonmate/internal/cryptox"
	"github.com/sermonmate/sermonmate/internal/dbx"
	"github.com/sermonmate/sermonmate/internal/filex"
)

const (
	saltSize       = 16
	deviceSecret   = "device.key"
	deviceKeyBytes = 32
)

var ErrUndecryptable = errors.New("stored token cannot be decrypted")

// TokenStore stores a single bearer token under metadata.AuthToken.
type TokenStore struct {
	db     *sql.DB
	secret []byte

	mu  sync.Mutex
	key []byte
}

func New(db *sql.DB, secret []byte) *TokenStore {
	return &TokenStore{db: db, secret: secret}
}

// Open reads (or creates) the device secret inside dataDir.
func Open(db *sql.DB, dataDir string) (*TokenStore, error) {
	secret, err := filex.ReadOrCreateSecret(filepath.Join(dataDir, deviceSecret), deviceKeyBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to load device secret: %w", err)
	}
	return New(db, secret), nil
}

// Get returns "" when no token is stored.
func (s *TokenStore) Get(ctx context.Context) (string, error) {
	repo := metadata.NewSQLiteRepository(s.db)

	sealed, err := repo.Get(ctx, metadata.AuthToken)
	if err != nil {
		return "", err
	}
	if sealed == nil {
		return "", nil
	}

	key, err := s.deriveKey(ctx, repo, false)
	if err != nil {
		return "", err
	}
	plain, err := cryptox.Open(sealed, key)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUndecryptable, err)
	}
	return string(plain), nil
}

// Set replaces the stored token. The salt and the ciphertext are written in
// one transaction.
func (s *TokenStore) Set(ctx context.Context, token string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)

		key, err := s.deriveKey(ctx, repo, true)
		if err != nil {
			return err
		}
		sealed, err := cryptox.Seal([]byte(token), key)
		if err != nil {
			return fmt.Errorf("failed to seal token: %w", err)
		}
		return repo.Set(ctx, metadata.AuthToken, sealed)
	})
}

// Delete is idempotent.
func (s *TokenStore) Delete(ctx context.Context) error {
	return metadata.NewSQLiteRepository(s.db).Delete(ctx, metadata.AuthToken)
}

func (s *TokenStore) deriveKey(ctx context.Context, repo metadata.Repository, create bool) ([]byte, error) {
	s.mu.Lock()
	cached := s.key
	s.mu.Unlock()
	if cached != nil {
		return cached, nil
	}

	salt, err := repo.Get(ctx, metadata.DeviceSalt)
	if err != nil {
		return nil, err
	}
	if salt == nil {
		if !create {
			return nil, fmt.Errorf("%w: salt missing", ErrUndecryptable)
		}
		salt = common.GenerateRandByteArray(saltSize)
		if err := repo.Set(ctx, metadata.DeviceSalt, salt); err != nil {
			return nil, err
		}
		// Not cached: the transaction may still roll back.
		return cryptox.DeriveKey(s.secret, salt), nil
	}

	key := cryptox.DeriveKey(s.secret, salt)
	s.mu.Lock()
	s.key = key
	s.mu.Unlock()
	return key, nil
}
