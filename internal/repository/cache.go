package repository

import (
	"context"
	"time"
)

// Cache abstracts the TTL key-value cache in front of hot read paths.
// Implementations: Redis (production) or in-memory (local dev / tests).
// A nil value with a nil error means "not cached".
type Cache interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}
