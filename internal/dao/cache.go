package dao

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	// DefaultCacheSize is the number of distinct snapshots retained.
	DefaultCacheSize = 32

	// DefaultStaleTime is how long a cached page is served without refetching.
	DefaultStaleTime = 5 * time.Minute
)

// CacheStats tracks cache effectiveness.
type CacheStats struct {
	Size      int
	Hits      int64
	Misses    int64
	Evictions int64
}

// QueryCache keeps the result pages of recently used snapshots.
// Eviction is least-recently-used; entries also expire after the stale time.
type QueryCache struct {
	lru       *expirable.LRU[string, *ResultPage]
	stats     CacheStats
	evictions atomic.Int64
	mx        sync.Mutex
}

// NewQueryCache creates a cache holding at most size snapshots for ttl.
// Non positive values fall back to the defaults.
func NewQueryCache(size int, ttl time.Duration) *QueryCache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultStaleTime
	}
	c := &QueryCache{}
	c.lru = expirable.NewLRU[string, *ResultPage](size, c.onEvict, ttl)
	return c
}

// onEvict may run on the expiry goroutine, outside mx.
func (c *QueryCache) onEvict(string, *ResultPage) {
	c.evictions.Add(1)
}

// Get returns the cached page for the snapshot, if present and fresh.
func (c *QueryCache) Get(snap QuerySnapshot) (*ResultPage, bool) {
	return c.GetKey(snap.Key())
}

// GetKey returns the cached page for a snapshot key.
func (c *QueryCache) GetKey(key string) (*ResultPage, bool) {
	c.mx.Lock()
	defer c.mx.Unlock()

	page, ok := c.lru.Get(key)
	if !ok {
		c.stats.Misses++
		return nil, false
	}
	c.stats.Hits++
	return page, true
}

// Set stores a page under the snapshot key.
func (c *QueryCache) Set(snap QuerySnapshot, page *ResultPage) {
	c.SetKey(snap.Key(), page)
}

// SetKey stores a page under key.
func (c *QueryCache) SetKey(key string, page *ResultPage) {
	c.mx.Lock()
	defer c.mx.Unlock()

	c.lru.Add(key, page)
}

// Invalidate removes the entry for a snapshot.
func (c *QueryCache) Invalidate(snap QuerySnapshot) {
	c.mx.Lock()
	defer c.mx.Unlock()

	c.lru.Remove(snap.Key())
}

// Clear removes all entries.
func (c *QueryCache) Clear() {
	c.mx.Lock()
	defer c.mx.Unlock()

	c.lru.Purge()
}

// Len returns the number of live entries.
func (c *QueryCache) Len() int {
	c.mx.Lock()
	defer c.mx.Unlock()

	return c.lru.Len()
}

// Stats returns a copy of the cache statistics.
func (c *QueryCache) Stats() CacheStats {
	c.mx.Lock()
	defer c.mx.Unlock()

	s := c.stats
	s.Size = c.lru.Len()
	s.Evictions = c.evictions.Load()
	return s
}
