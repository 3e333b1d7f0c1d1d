package pagescope

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	DefaultCountCacheSize = 1024
	DefaultCountCacheTTL  = time.Minute
)

// CountCache shares total counts between scopes. Entries are keyed by the
// SQL of the count statement with its arguments inlined, so changing the
// filter of a scope never reuses a stale count; the TTL bounds staleness
// caused by writes to the table.
//
// CountCache is safe for concurrent use.
type CountCache struct {
	lru *expirable.LRU[string, int64]
}

// NewCountCache creates a cache holding up to size counts for ttl each.
// Non-positive arguments select DefaultCountCacheSize and DefaultCountCacheTTL.
func NewCountCache(size int, ttl time.Duration) *CountCache {
	if size <= 0 {
		size = DefaultCountCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultCountCacheTTL
	}

	return &CountCache{
		lru: expirable.NewLRU[string, int64](size, nil, ttl),
	}
}

// Get returns the cached count for key.
func (c *CountCache) Get(key string) (int64, bool) {
	if c == nil || key == "" {
		return 0, false
	}

	return c.lru.Get(key)
}

// Add stores count under key.
func (c *CountCache) Add(key string, count int64) {
	if c == nil || key == "" {
		return
	}

	c.lru.Add(key, count)
}

// Purge drops every entry, e.g. after a bulk import.
func (c *CountCache) Purge() {
	if c == nil {
		return
	}

	c.lru.Purge()
}

// Len returns the number of cached counts.
func (c *CountCache) Len() int {
	if c == nil {
		return 0
	}

	return c.lru.Len()
}
