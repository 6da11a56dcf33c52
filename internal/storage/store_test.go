package storage

import (
	"fmt"
	"testing"
	"time"
)

// newEntry 构造具有给定访问令牌的测试条目
func newEntry(key string, token uint64) *Entry {
	return &Entry{
		Key:          key,
		Value:        key,
		LastAccessed: token,
		CreatedAt:    time.Now(),
		ExpiresAt:    time.Now().Add(time.Hour),
	}
}

// TestTierStoreBasicOps 覆盖Put/Get/Remove/Len/Full的基本行为
func TestTierStoreBasicOps(t *testing.T) {
	ts := NewTierStore("hot", 2, time.Minute, 10)

	if ts.Name() != "hot" || ts.Weight() != 10 || ts.MaxSize() != 2 {
		t.Errorf("Tier metadata = (%s, %d, %d), want (hot, 10, 2)", ts.Name(), ts.Weight(), ts.MaxSize())
	}
	if ts.DefaultTTL() != time.Minute {
		t.Errorf("DefaultTTL = %v, want 1m", ts.DefaultTTL())
	}

	ts.Put(newEntry("a", 1))
	if e, ok := ts.Get("a"); !ok || e.Key != "a" {
		t.Fatal("Expected to read back a")
	}
	if e, _ := ts.Get("a"); e.Tier != "hot" {
		t.Errorf("Put did not assign tier, got %q", e.Tier)
	}

	if ts.Full() {
		t.Error("Tier reported full at 1/2")
	}
	ts.Put(newEntry("b", 2))
	if !ts.Full() {
		t.Error("Tier not reported full at 2/2")
	}

	if _, ok := ts.Remove("a"); !ok {
		t.Error("Remove(a) reported missing")
	}
	if _, ok := ts.Remove("a"); ok {
		t.Error("Second Remove(a) reported found")
	}
	if ts.Len() != 1 {
		t.Errorf("Len = %d, want 1", ts.Len())
	}
}

// TestTierStoreLRU verifies the linear minimum scan picks the entry with the
// smallest access token, regardless of insertion order.
//
// TestTierStoreLRU 验证线性最小扫描选取访问令牌最小的条目，与插入顺序无关。
func TestTierStoreLRU(t *testing.T) {
	ts := NewTierStore("hot", 10, time.Minute, 10)

	tokens := []uint64{7, 3, 9, 5}
	for i, tok := range tokens {
		ts.Put(newEntry(fmt.Sprintf("k%d", i), tok))
	}

	victim := ts.LRU()
	if victim == nil || victim.Key != "k1" {
		t.Fatalf("LRU = %v, want k1 (token 3)", victim)
	}

	// Refreshing the victim's token must move the LRU elsewhere.
	// 刷新受害者的令牌必须使LRU转移到别处。
	victim.LastAccessed = 100
	if next := ts.LRU(); next == nil || next.Key != "k3" {
		t.Fatalf("LRU after refresh = %v, want k3 (token 5)", next)
	}
}

// TestTierStoreLRUEmpty 验证空层级的LRU返回nil
func TestTierStoreLRUEmpty(t *testing.T) {
	ts := NewTierStore("hot", 2, time.Minute, 10)
	if ts.LRU() != nil {
		t.Error("LRU on empty tier should be nil")
	}
}

// TestTierStoreExpiredKeys 验证过期键收集只返回已过期的键
func TestTierStoreExpiredKeys(t *testing.T) {
	ts := NewTierStore("hot", 10, time.Minute, 10)
	now := time.Now()

	stale := newEntry("stale", 1)
	stale.ExpiresAt = now.Add(-time.Second)
	ts.Put(stale)
	ts.Put(newEntry("fresh", 2))

	keys := ts.ExpiredKeys(now)
	if len(keys) != 1 || keys[0] != "stale" {
		t.Errorf("ExpiredKeys = %v, want [stale]", keys)
	}
}

// TestEntryIsExpired 验证零值过期时间表示永不过期
func TestEntryIsExpired(t *testing.T) {
	now := time.Now()

	e := &Entry{ExpiresAt: now.Add(-time.Nanosecond)}
	if !e.IsExpired(now) {
		t.Error("Past expiry should report expired")
	}

	e = &Entry{ExpiresAt: now.Add(time.Minute)}
	if e.IsExpired(now) {
		t.Error("Future expiry should not report expired")
	}

	e = &Entry{}
	if e.IsExpired(now) {
		t.Error("Zero expiry should never expire")
	}
}

// TestTierStoreClearAndForEach 验证Clear清空映射且ForEach可提前终止
func TestTierStoreClearAndForEach(t *testing.T) {
	ts := NewTierStore("hot", 10, time.Minute, 10)
	for i := 0; i < 5; i++ {
		ts.Put(newEntry(fmt.Sprintf("k%d", i), uint64(i+1)))
	}

	visited := 0
	ts.ForEach(func(e *Entry) bool {
		visited++
		return visited < 3
	})
	if visited != 3 {
		t.Errorf("ForEach visited %d entries after early stop, want 3", visited)
	}

	ts.Clear()
	if ts.Len() != 0 {
		t.Errorf("Len after Clear = %d, want 0", ts.Len())
	}
}
