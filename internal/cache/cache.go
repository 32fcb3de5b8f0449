// Package cache stores small serialized values for reuse across requests.
package cache

import (
	"context"
	"time"
)

// Store is a byte-value cache with per-entry TTL.
type Store interface {
	// Get returns the value and true on a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}
