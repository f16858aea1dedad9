package ratelimit

import (
	"context"
	"log"
	"math"
	"time"
)

// Limiter enforces a fixed-window limit of max requests per window for each
// (client address, route path) pair. It counts on Redis when available and
// degrades to the in-process counter when a Redis call fails, preferring
// availability over cross-instance accuracy.
type Limiter struct {
	max      int
	window   time.Duration
	primary  *RedisCounter
	fallback *MemoryCounter
	now      func() time.Time
}

// New constructs a Limiter. primary may be nil, in which case every request
// is counted in process.
func New(max int, window time.Duration, primary *RedisCounter) *Limiter {
	return &Limiter{
		max:      max,
		window:   window,
		primary:  primary,
		fallback: NewMemoryCounter(),
		now:      time.Now,
	}
}

// Allow records one request for the client address and path and reports
// whether it is within the limit.
func (l *Limiter) Allow(ctx context.Context, addr, path string) Result {
	key := Key(addr, path)

	if l.primary != nil {
		count, err := l.primary.Incr(ctx, key, l.window)
		if err == nil {
			return l.decide(ctx, l.primary, key, count, false)
		}
		// A failing shared store must never reject the request itself;
		// count this one request locally instead.
		log.Printf("rate limiter: redis unavailable, using in-process fallback: %v", err)
	}

	// The memory counter never fails.
	count, _ := l.fallback.Incr(ctx, key, l.window)
	return l.decide(ctx, l.fallback, key, count, true)
}

// Reset clears shared counters for a client address, optionally scoped to one
// path. Without Redis this is a no-op; the in-process fallback is not
// clearable.
func (l *Limiter) Reset(ctx context.Context, addr, path string) error {
	if l.primary == nil {
		return nil
	}
	return l.primary.Clear(ctx, addr, path)
}

func (l *Limiter) Max() int { return l.max }

func (l *Limiter) Window() time.Duration { return l.window }

func (l *Limiter) decide(ctx context.Context, counter Counter, key string, count int64, fromFallback bool) Result {
	res := Result{
		Limit:        l.max,
		Reset:        l.now().Add(l.window),
		FromFallback: fromFallback,
	}

	if count > int64(l.max) {
		res.Allowed = false
		res.Remaining = 0
		res.RetryAfter = l.retryAfter(ctx, counter, key)
		return res
	}

	res.Allowed = true
	res.Remaining = l.max - int(count)
	if res.Remaining < 0 {
		res.Remaining = 0
	}
	return res
}

func (l *Limiter) retryAfter(ctx context.Context, counter Counter, key string) int {
	ttl, err := counter.TTL(ctx, key)
	if err != nil || ttl <= 0 {
		return int(math.Ceil(l.window.Seconds()))
	}
	return int(math.Ceil(ttl.Seconds()))
}
