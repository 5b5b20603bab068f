// Package cache is the best-effort store for upstream API results. Nothing
// in it is required for correctness; it can be dropped at any time.
package cache

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/vrsandeep/showtime-go/internal/metrics"
)

// Cache is what upstream clients depend on.
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
	Delete(key string)
	EvictExpired() int
	Len() int
}

// TTLCache expires items after a fixed TTL and holds at most maxItems.
type TTLCache struct {
	items    *gocache.Cache
	maxItems int
	mu       sync.Mutex
}

// New creates a TTL cache. maxItems <= 0 means unbounded.
func New(ttl time.Duration, maxItems int) *TTLCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	// Expiry sweeps are driven by the cache-sweep job, not by go-cache.
	return &TTLCache{
		items:    gocache.New(ttl, 0),
		maxItems: maxItems,
	}
}

func (c *TTLCache) Get(key string) (any, bool) {
	v, ok := c.items.Get(key)
	if ok {
		metrics.CacheHitsTotal.Inc()
	} else {
		metrics.CacheMissesTotal.Inc()
	}
	return v, ok
}

// Set stores value under the default TTL. When the cache is full, expired
// items go first and then the ones closest to expiry.
func (c *TTLCache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxItems > 0 && c.items.ItemCount() >= c.maxItems {
		if _, exists := c.items.Get(key); !exists {
			c.makeRoom()
		}
	}
	c.items.SetDefault(key, value)
	metrics.CacheEntries.Set(float64(c.items.ItemCount()))
}

func (c *TTLCache) Delete(key string) {
	c.items.Delete(key)
}

// makeRoom must be called with mu held.
func (c *TTLCache) makeRoom() {
	c.evictExpired()
	excess := c.items.ItemCount() - c.maxItems + 1
	if excess <= 0 {
		return
	}

	type candidate struct {
		key     string
		expires int64
	}
	var soonest []candidate
	for k, item := range c.items.Items() {
		soonest = append(soonest, candidate{k, item.Expiration})
	}
	// Partial selection; excess is almost always 1.
	for i := 0; i < excess && i < len(soonest); i++ {
		first := i
		for j := i + 1; j < len(soonest); j++ {
			if soonest[j].expires < soonest[first].expires {
				first = j
			}
		}
		soonest[i], soonest[first] = soonest[first], soonest[i]
		c.items.Delete(soonest[i].key)
		metrics.CacheEvictionsTotal.Inc()
	}
}

func (c *TTLCache) evictExpired() int {
	before := c.items.ItemCount()
	c.items.DeleteExpired()
	removed := before - c.items.ItemCount()
	if removed > 0 {
		metrics.CacheEvictionsTotal.Add(float64(removed))
	}
	return removed
}

// EvictExpired drops every expired item and returns how many were removed.
func (c *TTLCache) EvictExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := c.evictExpired()
	metrics.CacheEntries.Set(float64(c.items.ItemCount()))
	return removed
}

// Len counts stored items, including expired ones not yet evicted.
func (c *TTLCache) Len() int {
	return c.items.ItemCount()
}

// GetAs fetches key and asserts its type.
func GetAs[T any](c Cache, key string) (T, bool) {
	var zero T
	if c == nil {
		return zero, false
	}
	v, ok := c.Get(key)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}
