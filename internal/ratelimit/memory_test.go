package ratelimit

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCounter_CountsWithinWindow(t *testing.T) {
	c := NewMemoryCounter()
	ctx := context.Background()

	for i := int64(1); i <= 5; i++ {
		count, err := c.Incr(ctx, "ratelimit:1.2.3.4:/api/feed", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, i, count)
	}
}

func TestMemoryCounter_IndependentKeys(t *testing.T) {
	c := NewMemoryCounter()
	ctx := context.Background()

	count, err := c.Incr(ctx, "ratelimit:1.2.3.4:/api/feed", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = c.Incr(ctx, "ratelimit:1.2.3.4:/api/posts", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = c.Incr(ctx, "ratelimit:5.6.7.8:/api/feed", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestMemoryCounter_WindowExpiryResetsCount(t *testing.T) {
	c := NewMemoryCounter()
	ctx := context.Background()

	current := time.Now()
	c.now = func() time.Time { return current }

	for i := 0; i < 3; i++ {
		_, err := c.Incr(ctx, "key", time.Minute)
		require.NoError(t, err)
	}

	current = current.Add(time.Minute + time.Second)

	count, err := c.Incr(ctx, "key", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "expired window should restart the count")
}

func TestMemoryCounter_TTL(t *testing.T) {
	c := NewMemoryCounter()
	ctx := context.Background()

	current := time.Now()
	c.now = func() time.Time { return current }

	_, err := c.Incr(ctx, "key", time.Minute)
	require.NoError(t, err)

	ttl, err := c.TTL(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, time.Minute, ttl)

	current = current.Add(30 * time.Second)
	ttl, err = c.TTL(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, ttl)

	ttl, err = c.TTL(ctx, "missing")
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), ttl)
}

func TestMemoryCounter_PrunesExpiredEntries(t *testing.T) {
	c := NewMemoryCounter()
	ctx := context.Background()

	current := time.Now()
	c.now = func() time.Time { return current }

	for i := 0; i <= pruneThreshold; i++ {
		_, err := c.Incr(ctx, fmt.Sprintf("key-%d", i), time.Minute)
		require.NoError(t, err)
	}
	require.Greater(t, c.size(), pruneThreshold)

	// All previous windows expire; the next insert triggers the prune.
	current = current.Add(2 * time.Minute)
	_, err := c.Incr(ctx, "fresh", time.Minute)
	require.NoError(t, err)

	assert.Equal(t, 1, c.size())
}

func TestMemoryCounter_PruneKeepsLiveWindows(t *testing.T) {
	c := NewMemoryCounter()
	ctx := context.Background()

	current := time.Now()
	c.now = func() time.Time { return current }

	for i := 0; i <= pruneThreshold; i++ {
		_, err := c.Incr(ctx, fmt.Sprintf("key-%d", i), time.Hour)
		require.NoError(t, err)
	}

	_, err := c.Incr(ctx, "fresh", time.Hour)
	require.NoError(t, err)

	// Nothing expired, so nothing should have been dropped.
	assert.Equal(t, pruneThreshold+2, c.size())
}
