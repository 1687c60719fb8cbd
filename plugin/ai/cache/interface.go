// Package cache fronts session-log reads with an in-memory LRU and an
// optional shared Redis tier.
package cache

import (
	"context"
	"time"
)

// CacheService stores opaque byte values by key.
type CacheService interface {
	// Get returns the value and whether it was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores a value. ttl <= 0 uses the implementation default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Invalidate removes one key, or every key sharing a prefix when the
	// pattern ends with '*' (e.g. "log:patient-1:*").
	Invalidate(ctx context.Context, pattern string) error
}

// Key joins key parts with ':'.
func Key(parts ...string) string {
	n := len(parts) - 1
	for _, p := range parts {
		n += len(p)
	}
	b := make([]byte, 0, n)
	for i, p := range parts {
		if i > 0 {
			b = append(b, ':')
		}
		b = append(b, p...)
	}
	return string(b)
}
