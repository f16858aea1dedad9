// Package ratelimit implements fixed-window request throttling keyed by
// client address and route path, with a Redis-backed counter shared across
// instances and an in-process fallback when Redis is unavailable.
package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// Counter is the shared-counter capability behind the limiter.
// Implementations: RedisCounter (distributed), MemoryCounter (in-process).
type Counter interface {
	// Incr increments the counter for key and returns the post-increment
	// count. A count of 1 means the window was just opened; the
	// implementation must arrange for the key to expire after window.
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
	// TTL returns the remaining time until the key's window resets.
	TTL(ctx context.Context, key string) (time.Duration, error)
}

// Result is the outcome of a single rate limit check.
type Result struct {
	Allowed      bool
	Limit        int
	Remaining    int
	Reset        time.Time
	RetryAfter   int // seconds until the window resets, set when denied
	FromFallback bool
}

// Key builds the counter key for a client address and route path.
func Key(addr, path string) string {
	return fmt.Sprintf("ratelimit:%s:%s", addr, path)
}
