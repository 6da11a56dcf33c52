package metrics

import (
	"testing"
)

func newTestMetrics() *Metrics {
	return New([]TierInfo{
		{Name: "hot", MaxSize: 2},
		{Name: "cold", MaxSize: 4},
	})
}

// TestMetricsCounters 验证各计数器的记录与快照
func TestMetricsCounters(t *testing.T) {
	m := newTestMetrics()

	m.RecordHit(0)
	m.RecordHit(1)
	m.RecordMiss()
	m.RecordTierMiss(0)
	m.RecordEviction(1)
	m.RecordPromotion()
	m.RecordDemotion()
	m.RecordExpired(3)
	m.RecordSet()
	m.RecordDelete()
	m.RecordFallbackHit()
	m.RecordStoreError()
	m.RecordMirrorDrop()

	snap := m.GetSnapshot()
	if snap.Hits != 3 { // Two tier hits plus the fallback hit / 两次层级命中加一次回退命中
		t.Errorf("Hits = %d, want 3", snap.Hits)
	}
	if snap.Misses != 1 {
		t.Errorf("Misses = %d, want 1", snap.Misses)
	}
	if snap.Evictions != 1 || snap.Promotions != 1 || snap.Demotions != 1 {
		t.Errorf("Evictions/Promotions/Demotions = %d/%d/%d, want 1/1/1",
			snap.Evictions, snap.Promotions, snap.Demotions)
	}
	if snap.Expired != 3 {
		t.Errorf("Expired = %d, want 3", snap.Expired)
	}
	if snap.FallbackHits != 1 || snap.StoreErrors != 1 || snap.MirrorDrops != 1 {
		t.Errorf("FallbackHits/StoreErrors/MirrorDrops = %d/%d/%d, want 1/1/1",
			snap.FallbackHits, snap.StoreErrors, snap.MirrorDrops)
	}

	if len(snap.Tiers) != 2 {
		t.Fatalf("Tiers = %d, want 2", len(snap.Tiers))
	}
	if snap.Tiers[0].Name != "hot" || snap.Tiers[0].Hits != 1 || snap.Tiers[0].Misses != 1 {
		t.Errorf("hot tier snapshot = %+v", snap.Tiers[0])
	}
	if snap.Tiers[1].Name != "cold" || snap.Tiers[1].Hits != 1 || snap.Tiers[1].Evictions != 1 {
		t.Errorf("cold tier snapshot = %+v", snap.Tiers[1])
	}
	if snap.Tiers[1].MaxSize != 4 {
		t.Errorf("cold MaxSize = %d, want 4", snap.Tiers[1].MaxSize)
	}
}

// TestMetricsItemTracking 验证条目计数的增减与覆盖
func TestMetricsItemTracking(t *testing.T) {
	m := newTestMetrics()

	m.AddItems(0, 1)
	m.AddItems(0, 1)
	m.AddItems(0, -1)
	if got := m.Items(0); got != 1 {
		t.Errorf("Items(0) = %d, want 1", got)
	}

	m.SetItems(1, 7)
	if got := m.Items(1); got != 7 {
		t.Errorf("Items(1) = %d, want 7", got)
	}

	snap := m.GetSnapshot()
	if snap.Tiers[0].Items != 1 || snap.Tiers[1].Items != 7 {
		t.Errorf("Snapshot items = %d/%d, want 1/7", snap.Tiers[0].Items, snap.Tiers[1].Items)
	}
}

// TestMetricsSnapshotIsolation verifies the snapshot is a deep copy that
// does not change as counters keep moving.
//
// TestMetricsSnapshotIsolation 验证快照是深拷贝，不会随计数器继续变动而改变。
func TestMetricsSnapshotIsolation(t *testing.T) {
	m := newTestMetrics()
	m.RecordHit(0)

	snap := m.GetSnapshot()
	m.RecordHit(0)
	m.RecordMiss()
	m.AddItems(0, 5)

	if snap.Hits != 1 || snap.Misses != 0 || snap.Tiers[0].Items != 0 {
		t.Errorf("Snapshot mutated after capture: %+v", snap)
	}
}

// TestMetricsReset 验证Reset将所有计数器归零
func TestMetricsReset(t *testing.T) {
	m := newTestMetrics()
	m.RecordHit(0)
	m.RecordMiss()
	m.AddItems(1, 3)

	m.Reset()
	snap := m.GetSnapshot()
	if snap.Hits != 0 || snap.Misses != 0 || snap.Tiers[1].Items != 0 {
		t.Errorf("Counters nonzero after Reset: %+v", snap)
	}
}
