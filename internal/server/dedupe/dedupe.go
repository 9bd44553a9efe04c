// Package dedupe remembers which webhook deliveries were already applied.
//
// A delivery is claimed before it is processed and released again if
// processing fails, so the sender's retry is applied.
package dedupe

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type Store interface {
	// Claim reports whether id was not seen within the TTL and marks it seen.
	Claim(ctx context.Context, id string) (bool, error)
	Release(ctx context.Context, id string) error
}

// memoryCapacity bounds the number of remembered deliveries; the oldest
// claims are dropped first once it is reached.
const memoryCapacity = 100_000

// MemoryStore keeps claims in a bounded in-process LRU with expiry.
type MemoryStore struct {
	mu   sync.Mutex
	seen *expirable.LRU[string, struct{}]
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return newMemoryStore(memoryCapacity, ttl)
}

func newMemoryStore(size int, ttl time.Duration) *MemoryStore {
	return &MemoryStore{seen: expirable.NewLRU[string, struct{}](size, nil, ttl)}
}

func (s *MemoryStore) Claim(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.seen.Peek(id); ok {
		return false, nil
	}
	s.seen.Add(id, struct{}{})
	return true, nil
}

func (s *MemoryStore) Release(_ context.Context, id string) error {
	s.seen.Remove(id)
	return nil
}
