package ttl

import (
	"sync/atomic"
	"testing"
	"time"
)

// countingSweeper 记录扫描次数并返回固定的删除数
type countingSweeper struct {
	sweeps  atomic.Int64
	removed int
}

func (s *countingSweeper) SweepExpired() int {
	s.sweeps.Add(1)
	return s.removed
}

// TestCleanerPeriodicSweep verifies the background loop drives the sweeper
// on schedule.
//
// TestCleanerPeriodicSweep 验证后台循环按计划驱动清扫器。
func TestCleanerPeriodicSweep(t *testing.T) {
	sweeper := &countingSweeper{removed: 2}
	cleaner := NewCleaner(sweeper, 20*time.Millisecond)
	defer cleaner.Close()

	deadline := time.Now().Add(time.Second)
	for sweeper.sweeps.Load() < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("Sweeper ran %d times, want at least 2", sweeper.sweeps.Load())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// TestCleanerForceClean 验证立即清扫及其统计信息
func TestCleanerForceClean(t *testing.T) {
	sweeper := &countingSweeper{removed: 3}
	cleaner := NewCleaner(sweeper, time.Hour)
	defer cleaner.Close()

	if removed := cleaner.ForceClean(); removed != 3 {
		t.Errorf("ForceClean = %d, want 3", removed)
	}

	stats := cleaner.GetStats()
	if stats["sweep_count"].(uint64) != 1 {
		t.Errorf("sweep_count = %v, want 1", stats["sweep_count"])
	}
	if stats["expired_count"].(uint64) != 3 {
		t.Errorf("expired_count = %v, want 3", stats["expired_count"])
	}
}

// TestCleanerClose verifies the loop stops and repeated Close is harmless.
// TestCleanerClose 验证循环停止且重复Close无害。
func TestCleanerClose(t *testing.T) {
	sweeper := &countingSweeper{}
	cleaner := NewCleaner(sweeper, 10*time.Millisecond)

	cleaner.Close()
	cleaner.Close()

	before := sweeper.sweeps.Load()
	time.Sleep(40 * time.Millisecond)
	if after := sweeper.sweeps.Load(); after != before {
		t.Errorf("Sweeper ran after Close: %d -> %d", before, after)
	}
}
