// Package idempotency remembers create requests by caller-supplied key so a
// retried request is not applied twice.
package idempotency

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "idempotency:"
	keyTTL    = 24 * time.Hour
)

// Store claims keys in Redis.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(client *redis.Client) *Store {
	return &Store{client: client, ttl: keyTTL}
}

// Acquire claims key for method. It returns false when the key was already
// claimed within the retention window.
func (s *Store) Acquire(ctx context.Context, method, key string) (bool, error) {
	return s.client.SetNX(ctx, redisKey(method, key), 1, s.ttl).Result()
}

// Release forgets a claim so a failed request can be retried with the same key.
func (s *Store) Release(ctx context.Context, method, key string) error {
	return s.client.Del(ctx, redisKey(method, key)).Err()
}

func redisKey(method, key string) string {
	return keyPrefix + method + ":" + key
}
