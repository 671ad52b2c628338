package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/theclubco2025/osint/internal/platform/errors"
	"github.com/theclubco2025/osint/internal/testutil"
)

func TestNewMemoryCache(t *testing.T) {
	t.Run("creates cache with specified capacity", func(t *testing.T) {
		cache := NewMemoryCache(100)
		testutil.AssertEqual(t, cache.Capacity(), 100, "capacity should match")
		testutil.AssertEqual(t, cache.Size(), 0, "new cache should be empty")
	})

	t.Run("uses default capacity for invalid values", func(t *testing.T) {
		cache := NewMemoryCache(0)
		testutil.AssertEqual(t, cache.Capacity(), 100, "should use default capacity")

		cache = NewMemoryCache(-10)
		testutil.AssertEqual(t, cache.Capacity(), 100, "should use default capacity for negative")
	})
}

func TestMemoryCache_SetAndGet(t *testing.T) {
	t.Run("stores and retrieves value", func(t *testing.T) {
		cache := NewMemoryCache(10)
		cache.Set("key1", "value1", 0)

		value, found := cache.Get("key1")
		testutil.AssertTrue(t, found, "should find stored value")
		testutil.AssertEqual(t, value, "value1", "value should match")
	})

	t.Run("returns false for missing key", func(t *testing.T) {
		cache := NewMemoryCache(10)
		value, found := cache.Get("missing")

		testutil.AssertTrue(t, !found, "should not find missing key")
		testutil.AssertTrue(t, value == nil, "value should be nil")
	})

	t.Run("updates existing key", func(t *testing.T) {
		cache := NewMemoryCache(10)
		cache.Set("key1", "value1", 0)
		cache.Set("key1", "value2", 0)

		value, found := cache.Get("key1")
		testutil.AssertTrue(t, found, "should find key")
		testutil.AssertEqual(t, value, "value2", "should have updated value")
		testutil.AssertEqual(t, cache.Size(), 1, "size should still be 1")
	})
}

func TestMemoryCache_TTL(t *testing.T) {
	t.Run("expires item after TTL", func(t *testing.T) {
		cache := NewMemoryCache(10)
		cache.Set("key1", "value1", 100*time.Millisecond)

		value, found := cache.Get("key1")
		testutil.AssertTrue(t, found, "should find key before expiration")
		testutil.AssertEqual(t, value, "value1", "value should match")

		time.Sleep(150 * time.Millisecond)

		value, found = cache.Get("key1")
		testutil.AssertTrue(t, !found, "should not find expired key")
		testutil.AssertTrue(t, value == nil, "value should be nil for expired key")
	})

	t.Run("zero TTL means no expiration", func(t *testing.T) {
		cache := NewMemoryCache(10)
		cache.Set("key1", "value1", 0)

		time.Sleep(50 * time.Millisecond)

		value, found := cache.Get("key1")
		testutil.AssertTrue(t, found, "should find key with zero TTL")
		testutil.AssertEqual(t, value, "value1", "value should match")
	})
}

func TestMemoryCache_LRUEviction(t *testing.T) {
	t.Run("evicts LRU item when at capacity", func(t *testing.T) {
		cache := NewMemoryCache(3)

		cache.Set("key1", "value1", 0)
		cache.Set("key2", "value2", 0)
		cache.Set("key3", "value3", 0)

		testutil.AssertEqual(t, cache.Size(), 3, "should have 3 items")

		cache.Set("key4", "value4", 0)

		testutil.AssertEqual(t, cache.Size(), 3, "should still have 3 items")

		_, found := cache.Get("key1")
		testutil.AssertTrue(t, !found, "oldest key should be evicted")

		_, found = cache.Get("key4")
		testutil.AssertTrue(t, found, "new key should exist")
	})

	t.Run("get marks item as recently used", func(t *testing.T) {
		cache := NewMemoryCache(3)

		cache.Set("key1", "value1", 0)
		cache.Set("key2", "value2", 0)
		cache.Set("key3", "value3", 0)

		cache.Get("key1")

		cache.Set("key4", "value4", 0)

		_, found := cache.Get("key1")
		testutil.AssertTrue(t, found, "recently used key should not be evicted")

		_, found = cache.Get("key2")
		testutil.AssertTrue(t, !found, "LRU key should be evicted")
	})
}

func TestMemoryCache_GetOrFetch(t *testing.T) {
	t.Run("fetches on miss and caches result", func(t *testing.T) {
		cache := NewMemoryCache(10)
		calls := 0

		fetch := func(ctx context.Context) (interface{}, error) {
			calls++
			return "fetched", nil
		}

		v, err := cache.GetOrFetch(context.Background(), "rdap:example.com", time.Minute, fetch)
		testutil.AssertNoError(t, err, "fetch should succeed")
		testutil.AssertEqual(t, v, "fetched", "should return fetched value")
		testutil.AssertEqual(t, calls, 1, "fetch should run once")

		v, err = cache.GetOrFetch(context.Background(), "rdap:example.com", time.Minute, fetch)
		testutil.AssertNoError(t, err, "cached read should succeed")
		testutil.AssertEqual(t, v, "fetched", "should return cached value")
		testutil.AssertEqual(t, calls, 1, "second call should hit the cache")
	})

	t.Run("does not cache fetch errors", func(t *testing.T) {
		cache := NewMemoryCache(10)
		calls := 0

		failing := func(ctx context.Context) (interface{}, error) {
			calls++
			return nil, errors.ErrServiceUnavailable
		}

		_, err := cache.GetOrFetch(context.Background(), "crtsh:example.com", time.Minute, failing)
		testutil.AssertTrue(t, errors.IsServiceUnavailable(err), "error should pass through")

		_, err = cache.GetOrFetch(context.Background(), "crtsh:example.com", time.Minute, failing)
		testutil.AssertTrue(t, errors.IsServiceUnavailable(err), "error should pass through again")
		testutil.AssertEqual(t, calls, 2, "failed fetches should not be cached")
	})

	t.Run("collapses concurrent fetches for the same key", func(t *testing.T) {
		cache := NewMemoryCache(10)
		var calls int32

		slow := func(ctx context.Context) (interface{}, error) {
			atomic.AddInt32(&calls, 1)
			time.Sleep(50 * time.Millisecond)
			return "shared", nil
		}

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				v, err := cache.GetOrFetch(context.Background(), "dns:example.com", time.Minute, slow)
				if err != nil || v != "shared" {
					t.Errorf("unexpected result: %v, %v", v, err)
				}
			}()
		}
		wg.Wait()

		testutil.AssertEqual(t, atomic.LoadInt32(&calls), int32(1), "concurrent callers should share one fetch")
	})
}

func TestMemoryCache_Delete(t *testing.T) {
	t.Run("deletes existing key", func(t *testing.T) {
		cache := NewMemoryCache(10)
		cache.Set("key1", "value1", 0)
		cache.Set("key2", "value2", 0)

		cache.Delete("key1")

		testutil.AssertEqual(t, cache.Size(), 1, "size should decrease")

		_, found := cache.Get("key1")
		testutil.AssertTrue(t, !found, "deleted key should not be found")

		_, found = cache.Get("key2")
		testutil.AssertTrue(t, found, "other keys should remain")
	})

	t.Run("delete non-existent key is safe", func(t *testing.T) {
		cache := NewMemoryCache(10)
		cache.Delete("missing")
		testutil.AssertEqual(t, cache.Size(), 0, "size should remain 0")
	})
}

func TestMemoryCache_Clear(t *testing.T) {
	cache := NewMemoryCache(10)
	cache.Set("key1", "value1", 0)
	cache.Set("key2", "value2", 0)

	cache.Clear()

	testutil.AssertEqual(t, cache.Size(), 0, "cache should be empty")

	_, found := cache.Get("key1")
	testutil.AssertTrue(t, !found, "all keys should be removed")
}

func TestMemoryCache_CleanExpired(t *testing.T) {
	cache := NewMemoryCache(10)

	cache.Set("key1", "value1", 50*time.Millisecond)
	cache.Set("key2", "value2", 200*time.Millisecond)
	cache.Set("key3", "value3", 0) // no expiration

	time.Sleep(100 * time.Millisecond)

	removed := cache.CleanExpired()
	testutil.AssertEqual(t, removed, 1, "should remove 1 expired item")
	testutil.AssertEqual(t, cache.Size(), 2, "should have 2 items remaining")
}

func TestMemoryCache_StartCleanupWorker(t *testing.T) {
	cache := NewMemoryCache(10)

	cache.Set("key1", "value1", 100*time.Millisecond)
	cache.Set("key2", "value2", 100*time.Millisecond)
	cache.Set("key3", "value3", 0)

	stop := cache.StartCleanupWorker(50 * time.Millisecond)
	defer stop()

	time.Sleep(200 * time.Millisecond)

	testutil.AssertEqual(t, cache.Size(), 1, "expired items should be cleaned")

	_, found := cache.Get("key3")
	testutil.AssertTrue(t, found, "permanent key should remain")
}

func TestMemoryCache_ConcurrentAccess(t *testing.T) {
	cache := NewMemoryCache(100)
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			cache.Set(string(rune('A'+n)), n, 0)
		}(i)
	}

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			cache.Get(string(rune('A' + n)))
		}(i)
	}

	wg.Wait()

	testutil.AssertTrue(t, cache.Size() <= 100, "size should not exceed capacity")
}

func TestMemoryCache_Interface(t *testing.T) {
	var _ Cache = (*MemoryCache)(nil) // compile-time interface check
}

func BenchmarkMemoryCache_Get(b *testing.B) {
	cache := NewMemoryCache(10000)

	for i := 0; i < 1000; i++ {
		cache.Set(string(rune(i)), i, 0)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cache.Get(string(rune(i % 1000)))
	}
}
