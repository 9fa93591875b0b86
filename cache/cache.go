// Package cache provides a bounded in-memory TTL cache used to avoid
// redundant upstream searches within a short window.
package cache

import (
	"sync"
	"time"
)

type entry[T any] struct {
	value   T
	addedAt time.Time
	expiry  time.Time
}

// Cache is a concurrency-safe key/value cache with per-cache TTL and a
// maximum entry count. When full, the oldest entry is evicted.
type Cache[T any] struct {
	mu         sync.RWMutex
	entries    map[string]entry[T]
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// New creates a cache holding at most maxEntries values for ttl each.
// A non-positive maxEntries means unbounded.
func New[T any](ttl time.Duration, maxEntries int) *Cache[T] {
	return &Cache[T]{
		entries:    make(map[string]entry[T]),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get returns the live value for key, if any. Expired entries are removed
// on access.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		var zero T
		return zero, false
	}
	if c.now().After(e.expiry) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		var zero T
		return zero, false
	}
	return e.value, true
}

// Set stores value under key, evicting the oldest entry if the cache is
// at capacity.
func (c *Cache[T]) Set(key string, value T) {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		c.evictOldestLocked()
	}
	c.entries[key] = entry[T]{value: value, addedAt: now, expiry: now.Add(c.ttl)}
}

// Len returns the number of stored entries, including any not yet swept.
func (c *Cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache[T]) evictOldestLocked() {
	var oldestKey string
	var oldestAt time.Time
	first := true
	for k, e := range c.entries {
		if first || e.addedAt.Before(oldestAt) {
			oldestKey, oldestAt = k, e.addedAt
			first = false
		}
	}
	if !first {
		delete(c.entries, oldestKey)
	}
}
