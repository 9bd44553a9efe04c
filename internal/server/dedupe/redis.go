package dedupe

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "sermonmate:webhook:"

// redisClient is the part of *redis.Client the store uses.
type redisClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisStore shares claims between webhook replicas with SETNX.
type RedisStore struct {
	client redisClient
	ttl    time.Duration
}

func NewRedisStore(client redisClient, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// NewRedisClient connects to addr and pings it.
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	c := redis.NewClient(&redis.Options{Addr: addr})
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return c, nil
}

func (s *RedisStore) Claim(ctx context.Context, id string) (bool, error) {
	ok, err := s.client.SetNX(ctx, keyPrefix+id, 1, s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim %s: %w", id, err)
	}
	return ok, nil
}

func (s *RedisStore) Release(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("failed to release %s: %w", id, err)
	}
	return nil
}
