package fetch

import (
	"sync"
	"time"
)

// cacheEntry stores one payload with its expiry and last-access time.
type cacheEntry struct {
	payload   []byte
	expiresAt time.Time
	usedAt    time.Time
}

// Cache is a bounded-TTL memoization of idempotent read requests, keyed by
// request signature. Expired entries are treated as absent and evicted
// lazily; an optional entry cap evicts expired entries first, then the
// least-recently-used live ones.
type Cache struct {
	maxEntries int
	now        func() time.Time

	mu      sync.Mutex
	entries map[string]*cacheEntry
}

// NewCache creates a cache. maxEntries <= 0 means unbounded by count
// (TTL still bounds memory growth).
func NewCache(maxEntries int) *Cache {
	return &Cache{
		maxEntries: maxEntries,
		now:        time.Now,
		entries:    make(map[string]*cacheEntry),
	}
}

// Get returns the cached payload for sig, or false if absent or expired.
func (c *Cache) Get(sig Signature) ([]byte, bool) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[sig.Key()]
	if !ok {
		return nil, false
	}
	if !now.Before(e.expiresAt) {
		delete(c.entries, sig.Key())
		return nil, false
	}
	e.usedAt = now
	return e.payload, true
}

// Put stores payload for sig with the given ttl, overwriting any existing
// entry (last-write-wins; upstream calls are idempotent reads).
func (c *Cache) Put(sig Signature, payload []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[sig.Key()] = &cacheEntry{
		payload:   payload,
		expiresAt: now.Add(ttl),
		usedAt:    now,
	}

	if c.maxEntries > 0 && len(c.entries) > c.maxEntries {
		c.evictLocked(now)
	}
}

// Len returns the current entry count, including not-yet-evicted expired
// entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// evictLocked trims the cache back to maxEntries. Expired entries always go
// before live ones; live entries go in least-recently-used order.
func (c *Cache) evictLocked(now time.Time) {
	for key, e := range c.entries {
		if len(c.entries) <= c.maxEntries {
			return
		}
		if !now.Before(e.expiresAt) {
			delete(c.entries, key)
		}
	}

	for len(c.entries) > c.maxEntries {
		var oldestKey string
		var oldestUsed time.Time
		for key, e := range c.entries {
			if oldestKey == "" || e.usedAt.Before(oldestUsed) {
				oldestKey = key
				oldestUsed = e.usedAt
			}
		}
		delete(c.entries, oldestKey)
	}
}
