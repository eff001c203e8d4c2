package skills

import (
	"sync"
	"time"
)

// DefaultCacheTTL bounds cache entry lifetime unless overridden per instance.
const DefaultCacheTTL = 5 * time.Minute

type cacheEntry[T any] struct {
	data     T
	storedAt time.Time
}

// Cache is a TTL-bounded key/value store. Eviction is lazy and per-key:
// an expired entry is removed the first time a read observes it, and
// there is no background sweep. Reads never refresh an entry's lifetime.
type Cache[T any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cacheEntry[T]
}

// NewCache creates a cache with the given TTL; non-positive values fall
// back to DefaultCacheTTL.
func NewCache[T any](ttl time.Duration) *Cache[T] {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache[T]{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry[T]),
	}
}

// Get returns the cached value for key. A hit requires the entry to be
// present and within its TTL; an expired entry is evicted and reported
// as a miss.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		var zero T
		return zero, false
	}
	if c.now().Sub(entry.storedAt) > c.ttl {
		delete(c.entries, key)
		var zero T
		return zero, false
	}
	return entry.data, true
}

// Set stores value under key, resetting its TTL window.
func (c *Cache[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry[T]{data: value, storedAt: c.now()}
}

// Delete removes key if present.
func (c *Cache[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Clear drops all entries.
func (c *Cache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry[T])
}

// Len reports the number of stored entries, expired ones included
// until a read evicts them.
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
