package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis key prefix for login state tokens.
const stateKeyPrefix = "authgate:state:"

// RedisStore keeps state tokens in Redis so multiple gateway instances
// share one CSRF registry. Expiry uses native TTLs; GETDEL makes the
// consume a single atomic check-and-delete.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore wraps an existing Redis client. The client lifecycle is
// managed by the caller.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Create mints a token and stores the origin with the configured TTL.
func (s *RedisStore) Create(ctx context.Context, originURL string) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}

	if err := s.client.Set(ctx, stateKeyPrefix+token, originURL, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store state token: %w", err)
	}
	return token, nil
}

// Consume fetches and deletes the token in one round trip.
func (s *RedisStore) Consume(ctx context.Context, token string) (string, error) {
	origin, err := s.client.GetDel(ctx, stateKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("consume state token: %w", err)
	}
	return origin, nil
}
