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

func setupRedis(t *testing.T) (*miniredis.Miniredis, *RedisCounter) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return mr, NewRedisCounter(client)
}

func TestRedisCounter_IncrSetsExpiryOnFirstHit(t *testing.T) {
	mr, c := setupRedis(t)
	ctx := context.Background()

	count, err := c.Incr(ctx, "ratelimit:1.2.3.4:/api/feed", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, time.Minute, mr.TTL("ratelimit:1.2.3.4:/api/feed"))

	count, err = c.Incr(ctx, "ratelimit:1.2.3.4:/api/feed", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestRedisCounter_SubSecondWindowGetsOneSecondExpiry(t *testing.T) {
	mr, c := setupRedis(t)
	ctx := context.Background()

	_, err := c.Incr(ctx, "key", 100*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, time.Second, mr.TTL("key"))
}

func TestRedisCounter_TTL(t *testing.T) {
	_, c := setupRedis(t)
	ctx := context.Background()

	_, err := c.Incr(ctx, "key", time.Minute)
	require.NoError(t, err)

	ttl, err := c.TTL(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, time.Minute, ttl)

	// Missing keys report no remaining window instead of Redis' -2 sentinel.
	ttl, err = c.TTL(ctx, "missing")
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), ttl)
}

func TestRedisCounter_ClearSingleKey(t *testing.T) {
	mr, c := setupRedis(t)
	ctx := context.Background()

	_, err := c.Incr(ctx, Key("1.2.3.4", "/api/feed"), time.Minute)
	require.NoError(t, err)
	_, err = c.Incr(ctx, Key("1.2.3.4", "/api/posts"), time.Minute)
	require.NoError(t, err)

	require.NoError(t, c.Clear(ctx, "1.2.3.4", "/api/feed"))

	assert.False(t, mr.Exists(Key("1.2.3.4", "/api/feed")))
	assert.True(t, mr.Exists(Key("1.2.3.4", "/api/posts")))
}

func TestRedisCounter_ClearAllPathsForAddress(t *testing.T) {
	mr, c := setupRedis(t)
	ctx := context.Background()

	_, err := c.Incr(ctx, Key("1.2.3.4", "/api/feed"), time.Minute)
	require.NoError(t, err)
	_, err = c.Incr(ctx, Key("1.2.3.4", "/api/posts"), time.Minute)
	require.NoError(t, err)
	_, err = c.Incr(ctx, Key("5.6.7.8", "/api/feed"), time.Minute)
	require.NoError(t, err)

	require.NoError(t, c.Clear(ctx, "1.2.3.4", ""))

	assert.False(t, mr.Exists(Key("1.2.3.4", "/api/feed")))
	assert.False(t, mr.Exists(Key("1.2.3.4", "/api/posts")))
	assert.True(t, mr.Exists(Key("5.6.7.8", "/api/feed")), "other clients keep their counters")
}
