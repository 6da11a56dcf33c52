// Package test provides regression and benchmark tests for the TierCache
// library. It exercises the full cache stack under concurrent and mixed
// workloads rather than individual packages.
//
// Package test 为 TierCache 库提供回归测试和基准测试。
// 它在并发和混合工作负载下测试完整的缓存栈，而不是单个包。
package test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Humphrey-He/tiercache/pkg/cache"
)

// createTestCache creates a tiered cache instance sized for regression runs.
//
// createTestCache 创建一个适合回归测试规模的分层缓存实例。
func createTestCache(t *testing.T, name string, tierSize int) cache.ICache {
	t.Helper()
	c, err := cache.NewWithOptions(name,
		cache.WithTierLayout(
			cache.TierConfig{Name: "hot", MaxSize: tierSize, DefaultTTL: time.Hour, Weight: 100},
			cache.TierConfig{Name: "warm", MaxSize: tierSize * 4, DefaultTTL: time.Hour, Weight: 50},
			cache.TierConfig{Name: "cold", MaxSize: tierSize * 16, DefaultTTL: time.Hour, Weight: 10},
		),
		cache.WithCleanupInterval(time.Hour),
	)
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}
	return c
}

// TestRegressionCacheConcurrency verifies that the cache stays consistent
// when many goroutines set, get and delete disjoint key ranges at once.
//
// TestRegressionCacheConcurrency 验证当多个 goroutine 同时对不相交的键范围
// 进行设置、读取和删除时，缓存保持一致。
func TestRegressionCacheConcurrency(t *testing.T) {
	c := createTestCache(t, "regression-concurrency", 1000)
	defer c.Close()

	ctx := context.Background()

	const numGoroutines = 50
	const numOperations = 200

	var wg sync.WaitGroup
	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()

			for j := 0; j < numOperations; j++ {
				key := fmt.Sprintf("key:%d:%d", id, j)
				value := fmt.Sprintf("value:%d:%d", id, j)

				if err := c.Set(ctx, key, value); err != nil {
					t.Errorf("Failed to set %s: %v", key, err)
					return
				}

				val, found, err := c.Get(ctx, key)
				if err != nil {
					t.Errorf("Failed to get %s: %v", key, err)
					return
				}
				if found && val != value {
					t.Errorf("Expected value %s, got %v", value, val)
					return
				}

				if j%10 == 0 {
					if _, err := c.Delete(ctx, key); err != nil {
						t.Errorf("Failed to delete %s: %v", key, err)
						return
					}
					if _, found, _ := c.Get(ctx, key); found {
						t.Errorf("Expected key %s to be deleted", key)
						return
					}
				}
			}
		}(i)
	}
	wg.Wait()

	// Total occupancy must never exceed the combined tier capacity,
	// regardless of how the concurrent evictions and demotions interleaved.
	// 无论并发淘汰和降级如何交错，总占用量都不得超过各层容量之和。
	sizes, err := c.Size(ctx)
	if err != nil {
		t.Fatalf("Failed to read sizes: %v", err)
	}
	for _, s := range sizes {
		if s.Items > s.MaxSize {
			t.Errorf("Tier %s over capacity: %d > %d", s.Tier, s.Items, s.MaxSize)
		}
	}
}

// TestRegressionEvictionPressure verifies that sustained writes beyond the
// total capacity keep the cache bounded and produce demotions before
// evictions.
//
// TestRegressionEvictionPressure 验证超出总容量的持续写入能使缓存保持有界，
// 并且在淘汰之前产生降级。
func TestRegressionEvictionPressure(t *testing.T) {
	c := createTestCache(t, "regression-pressure", 10)
	defer c.Close()

	ctx := context.Background()

	// Total capacity is 10+40+160 = 210; write well past it.
	// 总容量为 10+40+160 = 210；写入远超此数。
	for i := 0; i < 1000; i++ {
		key := fmt.Sprintf("pressure:%d", i)
		if err := c.Set(ctx, key, i); err != nil {
			t.Fatalf("Failed to set %s: %v", key, err)
		}
	}

	stats, err := c.Stats(ctx)
	if err != nil {
		t.Fatalf("Failed to read stats: %v", err)
	}
	if stats.Demotions == 0 {
		t.Error("Expected demotions under write pressure")
	}
	if stats.Evictions == 0 {
		t.Error("Expected evictions once the lowest tier filled")
	}

	var total int64
	sizes, err := c.Size(ctx)
	if err != nil {
		t.Fatalf("Failed to read sizes: %v", err)
	}
	for _, s := range sizes {
		total += int64(s.Items)
	}
	if total > 210 {
		t.Errorf("Cache over total capacity: %d entries", total)
	}
}

// TestRegressionPromotionUnderLoad verifies that a small set of frequently
// read keys ends up in the hottest tier while cold traffic churns below.
//
// TestRegressionPromotionUnderLoad 验证一小组频繁读取的键最终进入最热层，
// 而冷流量在下层流转。
func TestRegressionPromotionUnderLoad(t *testing.T) {
	c := createTestCache(t, "regression-promotion", 10)
	defer c.Close()

	ctx := context.Background()

	hotKeys := []string{"popular:1", "popular:2", "popular:3"}
	for _, key := range hotKeys {
		if err := c.Set(ctx, key, "hot-value"); err != nil {
			t.Fatalf("Failed to set %s: %v", key, err)
		}
	}

	// Interleave popular reads with churn writes so the popular keys are
	// read often enough to be promoted back whenever they get demoted.
	// 将热门读取与流转写入交错，使热门键即使被降级也会因频繁读取被重新提升。
	for round := 0; round < 50; round++ {
		for _, key := range hotKeys {
			if _, _, err := c.Get(ctx, key); err != nil {
				t.Fatalf("Failed to get %s: %v", key, err)
			}
		}
		if err := c.Set(ctx, fmt.Sprintf("churn:%d", round), round); err != nil {
			t.Fatalf("Failed to set churn key: %v", err)
		}
	}

	for _, key := range hotKeys {
		if _, found, _ := c.Get(ctx, key); !found {
			t.Errorf("Expected popular key %s to survive churn", key)
		}
	}

	stats, err := c.Stats(ctx)
	if err != nil {
		t.Fatalf("Failed to read stats: %v", err)
	}
	if stats.Promotions == 0 {
		t.Error("Expected promotions for frequently read keys")
	}
}
