package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService(t *testing.T) {
	ctx := context.Background()
	s := NewService(ServiceConfig{Capacity: 2, CleanupInterval: 10 * time.Millisecond})
	defer s.Close()

	require.NoError(t, s.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, s.Set(ctx, "b", []byte("2"), 20*time.Millisecond))
	v, ok := s.Get(ctx, "a")
	assert.True(t, ok)
	assert.Equal(t, []byte("1"), v)

	assert.Eventually(t, func() bool { return s.Size() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, s.Invalidate(ctx, "a"))
	_, ok = s.Get(ctx, "a")
	assert.False(t, ok)
	assert.Greater(t, s.HitRate(), 0.0)

	s.Close()
	s.Close()
}

func TestTieredCache(t *testing.T) {
	ctx := context.Background()
	l1 := NewMockCacheService()
	l2 := NewMockCacheService()
	tc := NewTieredCache(l1, l2)

	require.NoError(t, l2.Set(ctx, "only-l2", []byte("x"), 0))
	v, ok := tc.Get(ctx, "only-l2")
	assert.True(t, ok)
	assert.Equal(t, []byte("x"), v)
	assert.True(t, l1.Has("only-l2"), "L2 hit is promoted to L1")

	require.NoError(t, tc.Set(ctx, "both", []byte("y"), 0))
	assert.True(t, l1.Has("both"))
	assert.True(t, l2.Has("both"))

	l2.SetErr = errors.New("redis down")
	require.NoError(t, tc.Set(ctx, "l1-only", []byte("z"), 0))
	assert.True(t, l1.Has("l1-only"))

	require.NoError(t, tc.Invalidate(ctx, "*"))
	assert.Equal(t, 0, l1.Size())
	assert.Equal(t, 0, l2.Size())

	l1.InvErr = errors.New("boom")
	assert.EqualError(t, tc.Invalidate(ctx, "x"), "boom")

	_, ok = NewTieredCache(NewMockCacheService(), nil).Get(ctx, "nothing")
	assert.False(t, ok)
}

// TestRedisCache runs against a real Redis when REHEARSE_TEST_REDIS_ADDR is set.
func TestRedisCache(t *testing.T) {
	addr := os.Getenv("REHEARSE_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("REHEARSE_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	rc, err := NewRedisCache(ctx, RedisConfig{Addr: addr, KeyPrefix: "rehearse-test:"})
	require.NoError(t, err)
	defer rc.Close()

	require.NoError(t, rc.Set(ctx, "log:p1:s1", []byte("1"), time.Minute))
	require.NoError(t, rc.Set(ctx, "log:p1:s2", []byte("2"), time.Minute))
	v, ok := rc.Get(ctx, "log:p1:s1")
	assert.True(t, ok)
	assert.Equal(t, []byte("1"), v)

	require.NoError(t, rc.Invalidate(ctx, "log:p1:*"))
	_, ok = rc.Get(ctx, "log:p1:s2")
	assert.False(t, ok)
}
