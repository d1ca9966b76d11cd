package render

import (
	"sync"
	"time"

	"github.com/hunterjsb/pokebot/internal/janitor"
)

// Cache is a small TTL cache safe for concurrent use, with periodic cleanup
type Cache[K comparable, V any] struct {
	mu    sync.RWMutex
	ttl   time.Duration
	items map[K]cachedItem[V]

	janitor janitor.Janitor
}

// cachedItem wraps a cached value with an expiration time.
type cachedItem[T any] struct {
	value     T
	expiresAt time.Time
}

// NewCache creates a cache whose entries live for ttl.
// If ttl <= 0, entries live for one hour.
func NewCache[K comparable, V any](ttl time.Duration) *Cache[K, V] {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cache[K, V]{
		ttl:   ttl,
		items: make(map[K]cachedItem[V]),
	}
}

func (c *Cache[K, V]) Set(key K, value V) {
	if c == nil {
		return
	}
	exp := time.Now().Add(c.ttl)

	c.mu.Lock()
	c.items[key] = cachedItem[V]{value: value, expiresAt: exp}
	c.mu.Unlock()
}

// Get returns a cached value, if present and not expired.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	var zero V
	if c == nil {
		return zero, false
	}

	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return zero, false
	}

	if time.Now().After(item.expiresAt) {
		// Expired - evict eagerly
		c.mu.Lock()
		delete(c.items, key)
		c.mu.Unlock()
		return zero, false
	}

	return item.value, true
}

// PurgeExpired removes expired entries.
// This can be called manually or via the janitor.
func (c *Cache[K, V]) PurgeExpired() {
	if c == nil {
		return
	}
	now := time.Now()

	c.mu.Lock()
	for k, v := range c.items {
		if now.After(v.expiresAt) {
			delete(c.items, k)
		}
	}
	c.mu.Unlock()
}

// Len returns the number of non-expired entries
func (c *Cache[K, V]) Len() int {
	if c == nil {
		return 0
	}
	c.PurgeExpired()

	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// StartJanitor purges expired entries every interval until the returned
// function is called. If interval <= 0, a default of 5 minutes is used.
func (c *Cache[K, V]) StartJanitor(interval time.Duration) func() {
	if c == nil {
		return func() {}
	}
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return c.janitor.Start(interval, c.PurgeExpired)
}
