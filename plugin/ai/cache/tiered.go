package cache

import (
	"context"
	"log/slog"
	"time"
)

// TieredCache checks a fast local tier before an optional shared tier.
// Values found only in L2 are promoted to L1.
type TieredCache struct {
	l1 CacheService
	l2 CacheService
}

// NewTieredCache combines two tiers. l2 may be nil.
func NewTieredCache(l1, l2 CacheService) *TieredCache {
	return &TieredCache{l1: l1, l2: l2}
}

func (t *TieredCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if value, ok := t.l1.Get(ctx, key); ok {
		return value, true
	}
	if t.l2 == nil {
		return nil, false
	}
	value, ok := t.l2.Get(ctx, key)
	if !ok {
		return nil, false
	}
	if err := t.l1.Set(ctx, key, value, 0); err != nil {
		slog.Debug("l1 promote failed", "key", key, "error", err)
	}
	return value, true
}

// Set writes both tiers. An L2 failure is logged but not returned since L1
// already holds the value.
func (t *TieredCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := t.l1.Set(ctx, key, value, ttl); err != nil {
		return err
	}
	if t.l2 != nil {
		if err := t.l2.Set(ctx, key, value, ttl); err != nil {
			slog.Warn("l2 cache set failed", "key", key, "error", err)
		}
	}
	return nil
}

// Invalidate clears both tiers and returns the first error.
func (t *TieredCache) Invalidate(ctx context.Context, pattern string) error {
	err := t.l1.Invalidate(ctx, pattern)
	if t.l2 != nil {
		if err2 := t.l2.Invalidate(ctx, pattern); err == nil {
			err = err2
		}
	}
	return err
}

var _ CacheService = (*TieredCache)(nil)
