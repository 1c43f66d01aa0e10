package server

import (
	"sync"
	"time"

	"github.com/mj1618/a11y-audit/internal/scan"
)

// cacheEntry holds a cached scan result with its timestamp.
type cacheEntry struct {
	result    scan.Result
	timestamp time.Time
}

// ResultCache is a TTL cache of scan results keyed by a hash of the
// document content and scan options.
type ResultCache struct {
	mu      sync.Mutex
	entries map[uint64]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewResultCache creates a new cache. A ttl of 0 disables caching.
func NewResultCache(ttl time.Duration) *ResultCache {
	return &ResultCache{
		entries: make(map[uint64]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached result for key if it is within the TTL.
func (c *ResultCache) Get(key uint64) (scan.Result, bool) {
	if c.ttl == 0 {
		return scan.Result{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		return scan.Result{}, false
	}
	if c.now().Sub(entry.timestamp) >= c.ttl {
		delete(c.entries, key)
		return scan.Result{}, false
	}
	return entry.result, true
}

// Put stores result under key and drops expired entries.
func (c *ResultCache) Put(key uint64, result scan.Result) {
	if c.ttl == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for k, e := range c.entries {
		if now.Sub(e.timestamp) >= c.ttl {
			delete(c.entries, k)
		}
	}
	c.entries[key] = cacheEntry{result: result, timestamp: now}
}

// InvalidateAll clears the entire cache.
func (c *ResultCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[uint64]cacheEntry)
}

// Len returns the number of entries, expired ones included.
func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
