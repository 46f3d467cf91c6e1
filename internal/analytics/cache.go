package analytics

import (
	"sync"
	"time"
)

// cacheEntry wraps one memoized analysis result.
type cacheEntry struct {
	result   *Result
	cachedAt time.Time
	hitCount int
}

// resultCache memoizes analysis results keyed by a content hash of the raw
// input plus the contamination parameter. It is a pure optimization layer:
// correctness never depends on it, and a zero-size cache disables it.
type resultCache struct {
	entries   map[string]cacheEntry
	mutex     sync.RWMutex
	maxSize   int
	hitCount  int64
	missCount int64
}

// newResultCache creates a cache holding at most maxSize entries.
func newResultCache(maxSize int) *resultCache {
	return &resultCache{
		entries: make(map[string]cacheEntry),
		maxSize: maxSize,
	}
}

// Get retrieves a memoized result
func (c *resultCache) Get(key string) (*Result, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, exists := c.entries[key]
	if !exists {
		c.missCount++
		return nil, false
	}

	entry.hitCount++
	c.entries[key] = entry
	c.hitCount++
	return entry.result, true
}

// Set stores a result, evicting the oldest entry when full
func (c *resultCache) Set(key string, result *Result) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.maxSize <= 0 {
		return
	}
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	c.entries[key] = cacheEntry{
		result:   result,
		cachedAt: time.Now(),
	}
}

// evictOldest removes the entry with the oldest insertion time. Caller
// holds the lock.
func (c *resultCache) evictOldest() {
	var oldestKey string
	var oldestTime time.Time
	for key, entry := range c.entries {
		if oldestKey == "" || entry.cachedAt.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.cachedAt
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

// Stats returns hit/miss counters and the current size
func (c *resultCache) Stats() (hits, misses int64, size int) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.hitCount, c.missCount, len(c.entries)
}
