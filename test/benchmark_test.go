package test

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/Humphrey-He/tiercache/pkg/cache"
)

// newBenchCache creates a cache sized so the working set spans all tiers.
//
// newBenchCache 创建一个缓存，使工作集跨越所有层。
func newBenchCache(b *testing.B, hotSize int) cache.ICache {
	b.Helper()
	c, err := cache.NewWithOptions("benchmark-cache",
		cache.WithTierLayout(
			cache.TierConfig{Name: "hot", MaxSize: hotSize, DefaultTTL: time.Hour, Weight: 100},
			cache.TierConfig{Name: "warm", MaxSize: hotSize * 4, DefaultTTL: time.Hour, Weight: 50},
			cache.TierConfig{Name: "cold", MaxSize: hotSize * 16, DefaultTTL: time.Hour, Weight: 10},
		),
		cache.WithCleanupInterval(time.Hour),
	)
	if err != nil {
		b.Fatalf("Failed to create cache: %v", err)
	}
	return c
}

// BenchmarkCacheSet measures raw write throughput under eviction pressure.
//
// BenchmarkCacheSet 测量淘汰压力下的原始写入吞吐量。
func BenchmarkCacheSet(b *testing.B) {
	for _, hotSize := range []int{100, 1000} {
		b.Run(fmt.Sprintf("HotSize=%d", hotSize), func(b *testing.B) {
			c := newBenchCache(b, hotSize)
			defer c.Close()
			ctx := context.Background()

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				key := fmt.Sprintf("key:%d", i%(hotSize*32))
				if err := c.Set(ctx, key, i); err != nil {
					b.Fatalf("Failed to set: %v", err)
				}
			}
		})
	}
}

// BenchmarkCacheGet measures read throughput on a pre-populated cache.
//
// BenchmarkCacheGet 测量预填充缓存上的读取吞吐量。
func BenchmarkCacheGet(b *testing.B) {
	c := newBenchCache(b, 1000)
	defer c.Close()
	ctx := context.Background()

	const keySpace = 10000
	for i := 0; i < keySpace; i++ {
		if err := c.Set(ctx, fmt.Sprintf("key:%d", i), i); err != nil {
			b.Fatalf("Failed to populate: %v", err)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := c.Get(ctx, fmt.Sprintf("key:%d", i%keySpace)); err != nil {
			b.Fatalf("Failed to get: %v", err)
		}
	}
}

// BenchmarkCacheMixed measures an 80/20 read/write mix from parallel
// goroutines, the pattern the cache sees in front of a backing store.
//
// BenchmarkCacheMixed 测量并行 goroutine 下 80/20 的读写混合，
// 这是缓存在后端存储前面遇到的典型模式。
func BenchmarkCacheMixed(b *testing.B) {
	c := newBenchCache(b, 1000)
	defer c.Close()
	ctx := context.Background()

	const keySpace = 10000
	for i := 0; i < keySpace; i++ {
		if err := c.Set(ctx, fmt.Sprintf("key:%d", i), i); err != nil {
			b.Fatalf("Failed to populate: %v", err)
		}
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		for pb.Next() {
			key := fmt.Sprintf("key:%d", rng.Intn(keySpace))
			if rng.Intn(100) < 80 {
				if _, _, err := c.Get(ctx, key); err != nil {
					b.Fatalf("Failed to get: %v", err)
				}
			} else {
				if err := c.Set(ctx, key, key); err != nil {
					b.Fatalf("Failed to set: %v", err)
				}
			}
		}
	})
}
