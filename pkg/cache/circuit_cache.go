// Package cache memoizes derived measurement circuits so that terms needing
// several sampling jobs do not rebuild the same circuit per job.
package cache

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/snow-ghost/quanta/core"
)

// Stats holds cache counters.
type Stats struct {
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
	Size      int   `json:"size"`
	MaxSize   int   `json:"max_size"`
}

// HitRate returns hits / (hits + misses), or 0 before any lookup.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// LookupFunc observes the outcome of each cache lookup, e.g. to record
// metrics.
type LookupFunc func(key string, hit bool)

// CircuitCache is an LRU cache of circuits keyed by term key.
type CircuitCache struct {
	cache    *lru.Cache[string, core.Circuit]
	mu       sync.Mutex
	stats    Stats
	onLookup LookupFunc
}

// DefaultMaxSize bounds the cache when no size is given.
const DefaultMaxSize = 256

// NewCircuitCache creates a circuit cache holding at most maxSize entries.
func NewCircuitCache(maxSize int) (*CircuitCache, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	inner, err := lru.New[string, core.Circuit](maxSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create LRU cache: %w", err)
	}
	return &CircuitCache{
		cache: inner,
		stats: Stats{MaxSize: maxSize},
	}, nil
}

// OnLookup registers a lookup observer. The observer is called outside the
// cache lock.
func (c *CircuitCache) OnLookup(fn LookupFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onLookup = fn
}

// Get returns the cached circuit for key, if present.
func (c *CircuitCache) Get(key string) (core.Circuit, bool) {
	c.mu.Lock()
	circuit, ok := c.cache.Get(key)
	if ok {
		c.stats.Hits++
	} else {
		c.stats.Misses++
	}
	fn := c.onLookup
	c.mu.Unlock()

	if fn != nil {
		fn(key, ok)
	}
	return circuit, ok
}

// Set stores a circuit under key, evicting the least recently used entry
// when full.
func (c *CircuitCache) Set(key string, circuit core.Circuit) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cache.Add(key, circuit) {
		c.stats.Evictions++
	}
}

// GetOrBuild returns the cached circuit for key, building and storing it on
// a miss.
func (c *CircuitCache) GetOrBuild(key string, build func() core.Circuit) core.Circuit {
	if circuit, ok := c.Get(key); ok {
		return circuit
	}
	circuit := build()
	c.Set(key, circuit)
	return circuit
}

// Len returns the number of cached circuits.
func (c *CircuitCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache.Len()
}

// Purge removes every entry.
func (c *CircuitCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Purge()
}

// Stats returns a snapshot of the cache counters.
func (c *CircuitCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := c.stats
	stats.Size = c.cache.Len()
	return stats
}
