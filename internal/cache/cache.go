// Package cache provides a best-effort TTL cache for derived monetary
// values. The cache is purely an optimization: callers must always be able
// to fall back to the underlying aggregation query, and a failed or skipped
// invalidation only widens staleness within the TTL bound, never breaks
// correctness.
package cache

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Cache is the capability the services depend on.
type Cache interface {
	// Get returns the cached value for key and whether it was present and
	// unexpired.
	Get(key string) (decimal.Decimal, bool)

	// Set stores value under key for ttl.
	Set(key string, value decimal.Decimal, ttl time.Duration)

	// Invalidate drops the entry for key, if any.
	Invalidate(key string)
}

type entry struct {
	value     decimal.Decimal
	expiresAt time.Time
}

// TTLCache is an in-process Cache implementation.
type TTLCache struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

var _ Cache = (*TTLCache)(nil)

// New creates an empty TTLCache.
func New() *TTLCache {
	return &TTLCache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the value for key if present and unexpired. Expired entries
// are evicted lazily on access.
func (c *TTLCache) Get(key string) (decimal.Decimal, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return decimal.Zero, false
	}
	if c.now().After(e.expiresAt) {
		delete(c.entries, key)
		return decimal.Zero, false
	}
	return e.value, true
}

// Set stores value under key for ttl. Non-positive TTLs store nothing.
func (c *TTLCache) Set(key string, value decimal.Decimal, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{value: value, expiresAt: c.now().Add(ttl)}
}

// Invalidate drops the entry for key.
func (c *TTLCache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}
