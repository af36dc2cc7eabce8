// Package cache abstracts the key-value store behind the caching invoker.
// The in-memory implementation is the default; Redis serves deployments
// where several pipeline workers should share memoized results.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a key does not exist or has expired.
var ErrNotFound = errors.New("cache: key not found")

// Cache is a TTL'd key-value store, safe for concurrent use.
type Cache interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key. A zero ttl means no expiration.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key; deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the implementation.
	Close() error
}
