// Package cache provides a generational cache for per-frame layout and
// glyph data.
//
// Entries live in two generations. Every access moves an entry into the
// current generation; Trim drops whatever is still in the previous one and
// starts a new generation. An entry therefore survives a Trim exactly when
// it was used since the Trim before.
package cache

import (
	"sync"
	"sync/atomic"
)

// Option configures a Cache.
type Option[K comparable, V any] func(*Cache[K, V])

// WithEvictHandler registers fn to be called, under the cache lock, for
// every entry dropped by Trim, Delete or Clear.
func WithEvictHandler[K comparable, V any](fn func(K, V)) Option[K, V] {
	return func(c *Cache[K, V]) {
		c.onEvict = fn
	}
}

// Cache is a thread-safe two-generation cache.
//
// It never evicts on insertion: its size is bounded only by how much is
// used between two calls to Trim.
type Cache[K comparable, V any] struct {
	mu       sync.Mutex
	current  map[K]V
	previous map[K]V
	onEvict  func(K, V)

	// Statistics (atomic for lock-free reads)
	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
	trims     atomic.Uint64
}

// New creates an empty cache.
func New[K comparable, V any](opts ...Option[K, V]) *Cache[K, V] {
	c := &Cache[K, V]{
		current:  make(map[K]V),
		previous: make(map[K]V),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get retrieves a value and marks it as used in the current generation.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.lookup(key)
	if !ok {
		c.misses.Add(1)
		return v, false
	}
	c.hits.Add(1)
	return v, true
}

// Peek retrieves a value without touching its generation or the statistics.
func (c *Cache[K, V]) Peek(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.current[key]; ok {
		return v, true
	}
	v, ok := c.previous[key]
	return v, ok
}

// Set stores a value in the current generation.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.previous, key)
	c.current[key] = value
}

// GetOrCreate returns the cached value for key or stores the result of
// create. create runs with the cache lock held.
func (c *Cache[K, V]) GetOrCreate(key K, create func() V) V {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.lookup(key); ok {
		c.hits.Add(1)
		return v
	}
	c.misses.Add(1)
	v := create()
	c.current[key] = v
	return v
}

// Delete removes an entry. Returns true if the entry existed.
func (c *Cache[K, V]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, gen := range [...]map[K]V{c.current, c.previous} {
		if v, ok := gen[key]; ok {
			delete(gen, key)
			c.evict(key, v)
			return true
		}
	}
	return false
}

// Trim drops every entry not used since the previous Trim and starts a new
// generation. It returns the number of dropped entries.
func (c *Cache[K, V]) Trim() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.previous)
	for k, v := range c.previous {
		c.evict(k, v)
	}
	clear(c.previous)
	c.previous, c.current = c.current, c.previous
	c.trims.Add(1)
	return n
}

// Clear removes all entries.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, gen := range [...]map[K]V{c.current, c.previous} {
		for k, v := range gen {
			c.evict(k, v)
		}
		clear(gen)
	}
}

// Len returns the number of entries in both generations.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.current) + len(c.previous)
}

// Stats returns current cache statistics.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	current, previous := len(c.current), len(c.previous)
	c.mu.Unlock()

	hits := c.hits.Load()
	misses := c.misses.Load()

	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return Stats{
		Len:       current + previous,
		Current:   current,
		Previous:  previous,
		Hits:      hits,
		Misses:    misses,
		HitRate:   hitRate,
		Evictions: c.evictions.Load(),
		Trims:     c.trims.Load(),
	}
}

// ResetStats resets all statistics counters to zero.
func (c *Cache[K, V]) ResetStats() {
	c.hits.Store(0)
	c.misses.Store(0)
	c.evictions.Store(0)
	c.trims.Store(0)
}

// lookup finds key and promotes it to the current generation.
// Must be called with c.mu held.
func (c *Cache[K, V]) lookup(key K) (V, bool) {
	if v, ok := c.current[key]; ok {
		return v, true
	}
	v, ok := c.previous[key]
	if ok {
		delete(c.previous, key)
		c.current[key] = v
	}
	return v, ok
}

// evict must be called with c.mu held.
func (c *Cache[K, V]) evict(key K, value V) {
	c.evictions.Add(1)
	if c.onEvict != nil {
		c.onEvict(key, value)
	}
}
