package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_AllowsUpToMax(t *testing.T) {
	l := New(3, time.Minute, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res := l.Allow(ctx, "1.2.3.4", "/api/feed")
		assert.True(t, res.Allowed, "request %d should be allowed", i+1)
		assert.Equal(t, 3, res.Limit)
		assert.Equal(t, 3-(i+1), res.Remaining)
	}

	res := l.Allow(ctx, "1.2.3.4", "/api/feed")
	assert.False(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)
	assert.Greater(t, res.RetryAfter, 0)
}

func TestLimiter_KeysAreScopedToAddressAndPath(t *testing.T) {
	l := New(1, time.Minute, nil)
	ctx := context.Background()

	assert.True(t, l.Allow(ctx, "1.2.3.4", "/api/feed").Allowed)
	assert.False(t, l.Allow(ctx, "1.2.3.4", "/api/feed").Allowed)

	// A different path and a different client each get a fresh window.
	assert.True(t, l.Allow(ctx, "1.2.3.4", "/api/posts").Allowed)
	assert.True(t, l.Allow(ctx, "5.6.7.8", "/api/feed").Allowed)
}

func TestLimiter_RemainingNeverNegative(t *testing.T) {
	l := New(2, time.Minute, nil)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		res := l.Allow(ctx, "1.2.3.4", "/api/feed")
		assert.GreaterOrEqual(t, res.Remaining, 0)
	}
}

func TestLimiter_UsesRedisWhenAvailable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	l := New(5, time.Minute, NewRedisCounter(client))
	ctx := context.Background()

	res := l.Allow(ctx, "1.2.3.4", "/api/feed")
	assert.True(t, res.Allowed)
	assert.False(t, res.FromFallback)
	assert.True(t, mr.Exists(Key("1.2.3.4", "/api/feed")))
}

func TestLimiter_FallsBackWhenRedisFails(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	l := New(2, time.Minute, NewRedisCounter(client))
	ctx := context.Background()

	mr.Close()

	// A dead Redis must not produce an error response; requests are counted
	// in process and the limit still enforced.
	res := l.Allow(ctx, "1.2.3.4", "/api/feed")
	assert.True(t, res.Allowed)
	assert.True(t, res.FromFallback)
	assert.Equal(t, 1, res.Remaining, "the fallback-counted request still spends the budget")

	res = l.Allow(ctx, "1.2.3.4", "/api/feed")
	assert.True(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)

	res = l.Allow(ctx, "1.2.3.4", "/api/feed")
	assert.False(t, res.Allowed)
	assert.True(t, res.FromFallback)
	assert.Greater(t, res.RetryAfter, 0)
}

func TestLimiter_ResetWithoutRedisIsNoop(t *testing.T) {
	l := New(1, time.Minute, nil)
	ctx := context.Background()

	assert.True(t, l.Allow(ctx, "1.2.3.4", "/api/feed").Allowed)
	require.NoError(t, l.Reset(ctx, "1.2.3.4", ""))

	// The in-process fallback is intentionally untouched by Reset.
	assert.False(t, l.Allow(ctx, "1.2.3.4", "/api/feed").Allowed)
}

func TestLimiter_ResetClearsRedisCounters(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	l := New(1, time.Minute, NewRedisCounter(client))
	ctx := context.Background()

	assert.True(t, l.Allow(ctx, "1.2.3.4", "/api/feed").Allowed)
	assert.False(t, l.Allow(ctx, "1.2.3.4", "/api/feed").Allowed)

	require.NoError(t, l.Reset(ctx, "1.2.3.4", ""))

	assert.True(t, l.Allow(ctx, "1.2.3.4", "/api/feed").Allowed)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "ratelimit:1.2.3.4:/api/feed", Key("1.2.3.4", "/api/feed"))
}
