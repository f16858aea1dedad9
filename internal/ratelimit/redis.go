package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCounter implements Counter on a shared Redis instance so counts are
// consistent across server replicas.
type RedisCounter struct {
	client *redis.Client
}

func NewRedisCounter(client *redis.Client) *RedisCounter {
	return &RedisCounter{client: client}
}

var _ Counter = (*RedisCounter)(nil)

func (c *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	count, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("rate limit incr: %w", err)
	}
	if count == 1 {
		// Redis expiry is whole seconds; floor the window but never let a
		// fresh key expire immediately.
		if err := c.client.Expire(ctx, key, windowSeconds(window)).Err(); err != nil {
			return 0, fmt.Errorf("rate limit expire: %w", err)
		}
	}
	return count, nil
}

func (c *RedisCounter) TTL(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := c.client.TTL(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("rate limit ttl: %w", err)
	}
	if ttl < 0 {
		return 0, nil
	}
	return ttl, nil
}

// Clear removes rate limit state for a client address. With a path it deletes
// that single counter; without one it scans for every counter the address
// owns and deletes them all.
func (c *RedisCounter) Clear(ctx context.Context, addr, path string) error {
	if path != "" {
		return c.client.Del(ctx, Key(addr, path)).Err()
	}

	pattern := fmt.Sprintf("ratelimit:%s:*", addr)
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("rate limit clear %s: %w", iter.Val(), err)
		}
	}
	return iter.Err()
}

func windowSeconds(window time.Duration) time.Duration {
	secs := int64(window / time.Second)
	if secs < 1 {
		secs = 1
	}
	return time.Duration(secs) * time.Second
}
