package ratelimit

import (
	"context"
	"sync"
	"time"
)

// pruneThreshold bounds fallback memory growth. When the map exceeds this
// many entries, expired windows are dropped before inserting new ones.
const pruneThreshold = 10000

type memoryEntry struct {
	count     int64
	resetTime time.Time
}

// MemoryCounter implements Counter with a process-local map. Counts are not
// shared across replicas and do not survive restarts; this is the accepted
// degraded mode when Redis is unavailable.
type MemoryCounter struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	now     func() time.Time
}

func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{
		entries: make(map[string]*memoryEntry),
		now:     time.Now,
	}
}

var _ Counter = (*MemoryCounter)(nil)

func (c *MemoryCounter) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) > pruneThreshold {
		c.prune(now)
	}

	entry, ok := c.entries[key]
	if !ok || now.After(entry.resetTime) {
		c.entries[key] = &memoryEntry{count: 1, resetTime: now.Add(window)}
		return 1, nil
	}

	entry.count++
	return entry.count, nil
}

func (c *MemoryCounter) TTL(_ context.Context, key string) (time.Duration, error) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok || now.After(entry.resetTime) {
		return 0, nil
	}
	return entry.resetTime.Sub(now), nil
}

// prune drops expired entries. Soft cleanup only; live windows are kept
// regardless of map size.
func (c *MemoryCounter) prune(now time.Time) {
	for key, entry := range c.entries {
		if now.After(entry.resetTime) {
			delete(c.entries, key)
		}
	}
}

func (c *MemoryCounter) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
