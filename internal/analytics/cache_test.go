package analytics

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultCacheGetSet(t *testing.T) {
	cache := newResultCache(4)

	_, ok := cache.Get("missing")
	assert.False(t, ok)

	result := &Result{Empty: true}
	cache.Set("key", result)

	got, ok := cache.Get("key")
	require.True(t, ok)
	assert.Same(t, result, got)

	hits, misses, size := cache.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
	assert.Equal(t, 1, size)
}

func TestResultCacheEvictsOldest(t *testing.T) {
	cache := newResultCache(2)

	cache.Set("a", &Result{})
	time.Sleep(2 * time.Millisecond)
	cache.Set("b", &Result{})
	time.Sleep(2 * time.Millisecond)
	cache.Set("c", &Result{})

	_, ok := cache.Get("a")
	assert.False(t, ok, "oldest entry should have been evicted")
	_, ok = cache.Get("b")
	assert.True(t, ok)
	_, ok = cache.Get("c")
	assert.True(t, ok)
}

func TestResultCacheZeroSizeDisabled(t *testing.T) {
	cache := newResultCache(0)

	cache.Set("key", &Result{})
	_, ok := cache.Get("key")
	assert.False(t, ok)
}

func TestCacheKey(t *testing.T) {
	data := []byte("InvoiceDate,Quantity,UnitPrice\n")

	assert.Equal(t, cacheKey(data, 0.01), cacheKey(data, 0.01))
	assert.NotEqual(t, cacheKey(data, 0.01), cacheKey(data, 0.02))
	assert.NotEqual(t, cacheKey(data, 0.01), cacheKey([]byte("other"), 0.01))
}

func TestResultCacheConcurrentAccess(t *testing.T) {
	cache := newResultCache(16)

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func(i int) {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("key-%d", j%20)
				cache.Set(key, &Result{})
				cache.Get(key)
			}
		}(i)
	}
	for i := 0; i < 8; i++ {
		<-done
	}

	_, _, size := cache.Stats()
	assert.LessOrEqual(t, size, 16)
}
