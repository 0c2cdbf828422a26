package ports

import (
	"context"
	"time"
)

// ConfigCache defines a short-TTL cache for public popup configurations.
// A miss is (""), not an error; cache failures must never fail the caller.
type ConfigCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
