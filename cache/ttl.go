// cache/ttl.go
package cache

import (
	"sync"
	"time"
)

// entry holds a cached value and its insertion timestamp.
type entry[V any] struct {
	value    V
	storedAt time.Time
}

// TTLCache is a generic key/value store with per-entry expiry. Entries older
// than the configured TTL are never returned; expired entries are evicted
// lazily when the key is next read. There is no size bound and no background
// sweep. Safe for concurrent use.
//
// Staleness, not recency, is what matters for this cache: the values it holds
// change deterministically with wall-clock age, so TTL is used instead of LRU.
type TTLCache[K comparable, V any] struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[K]entry[V]

	now func() time.Time // overridable in tests
}

// New creates a TTLCache whose entries expire ttl after insertion.
// A non-positive ttl means entries never expire.
func New[K comparable, V any](ttl time.Duration) *TTLCache[K, V] {
	return &TTLCache[K, V]{
		ttl:     ttl,
		entries: make(map[K]entry[V]),
		now:     time.Now,
	}
}

// Get returns the cached value for key. found is false when the key was
// never stored or its entry has outlived the TTL; a stale entry is evicted
// as part of the call.
func (c *TTLCache[K, V]) Get(key K) (value V, found bool) {
	c.mu.RLock()
	ent, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return value, false
	}

	if c.expired(ent) {
		c.mu.Lock()
		// Re-check under the write lock; a concurrent Put may have
		// refreshed the entry.
		if ent, ok = c.entries[key]; ok && c.expired(ent) {
			delete(c.entries, key)
			ok = false
		}
		c.mu.Unlock()
		if !ok {
			return value, false
		}
	}
	return ent.value, true
}

// Put stores or overwrites the entry for key with a fresh timestamp.
func (c *TTLCache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	c.entries[key] = entry[V]{value: value, storedAt: c.now()}
	c.mu.Unlock()
}

// Delete removes the entry for key, if present.
func (c *TTLCache[K, V]) Delete(key K) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Len returns the number of entries currently held, including entries that
// have expired but not yet been evicted.
func (c *TTLCache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *TTLCache[K, V]) expired(ent entry[V]) bool {
	return c.ttl > 0 && c.now().Sub(ent.storedAt) > c.ttl
}
