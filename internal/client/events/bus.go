// Package events carries the process-wide session-ended notification.
package events

import (
	"context"
	"sync"
)

// Reason says why the session ended.
type Reason string

const (
	ReasonLogout       Reason = "logout"
	ReasonUnauthorized Reason = "unauthorized"
	ReasonInvalidToken Reason = "invalid_token"
)

// SessionEndedHandler resets whatever per-session state its owner keeps.
type SessionEndedHandler func(ctx context.Context, reason Reason)

// Bus fans session-ended notifications out to its subscribers in
// registration order. The zero value is ready to use.
type Bus struct {
	mu       sync.RWMutex
	handlers []SessionEndedHandler
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) Subscribe(h SessionEndedHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Publish calls every handler synchronously. Handlers must not publish.
func (b *Bus) Publish(ctx context.Context, reason Reason) {
	b.mu.RLock()
	handlers := make([]SessionEndedHandler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, h := range handlers {
		h(ctx, reason)
	}
}
