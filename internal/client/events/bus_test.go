package events

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBus_PublishInOrder(t *testing.T) {
	var b Bus
	var got []string

	b.Subscribe(func(_ context.Context, r Reason) { got = append(got, "a:"+string(r)) })
	b.Subscribe(func(_ context.Context, r Reason) { got = append(got, "b:"+string(r)) })

	b.Publish(context.Background(), ReasonLogout)
	require.Equal(t, []string{"a:logout", "b:logout"}, got)
}

func TestBus_PublishWithoutSubscribers(t *testing.T) {
	require.NotPanics(t, func() { NewBus().Publish(context.Background(), ReasonUnauthorized) })
}

func TestBus_ConcurrentUse(t *testing.T) {
	b := NewBus()
	var mu sync.Mutex
	count := 0

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			b.Subscribe(func(context.Context, Reason) {
				mu.Lock()
				count++
				mu.Unlock()
			})
		}()
		go func() {
			defer wg.Done()
			b.Publish(context.Background(), ReasonInvalidToken)
		}()
	}
	wg.Wait()

	count = 0
	b.Publish(context.Background(), ReasonInvalidToken)
	require.Equal(t, 10, count)
}
