// Package storage provides the bounded per-tier entry store.
// Package storage 提供按层级划分的有界条目存储。
//
// Each tier owns one TierStore: a capacity-bounded map of key to entry.
// The TierStore performs no locking of its own; the engine serializes all
// access under a single mutex, so every method here is plain map and field
// manipulation. Strict LRU ordering comes from a monotonic sequence token
// assigned by the engine on every access, not from wall-clock time.
//
// 每个层级拥有一个TierStore：容量有界的键到条目映射。
// TierStore自身不加锁；引擎在单个互斥锁下串行化所有访问，
// 因此这里的每个方法都是普通的映射和字段操作。严格的LRU顺序来自
// 引擎在每次访问时分配的单调序列令牌，而不是墙钟时间。
package storage

import (
	"time"
)

// Entry represents one cached value and its bookkeeping.
// Entry 表示一个缓存值及其簿记信息。
type Entry struct {
	Key          string      // Unique across the whole engine / 在整个引擎中唯一
	Value        interface{} // Cached payload, opaque to the engine / 缓存负载，对引擎不透明
	Tier         string      // Name of the tier currently holding the entry / 当前持有条目的层级名称
	AccessCount  uint64      // Hits since creation / 创建以来的命中次数
	LastAccessed uint64      // Monotonic sequence token for strict LRU / 用于严格LRU的单调序列令牌
	Size         int64       // Caller-supplied weight, 0 when unspecified / 调用者提供的权重，未指定时为0
	CreatedAt    time.Time   // Creation timestamp / 创建时间
	ExpiresAt    time.Time   // Expiry timestamp / 过期时间
}

// IsExpired 判断条目在给定时刻是否已过期
func (e *Entry) IsExpired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

// TierStore is the bounded entry map for a single tier.
// TierStore 是单个层级的有界条目映射。
type TierStore struct {
	name       string            // Tier name, unique within the engine / 层级名称，在引擎内唯一
	maxSize    int               // Maximum number of entries / 最大条目数
	defaultTTL time.Duration     // TTL applied when a write carries none / 写入未指定时应用的TTL
	weight     int               // Rank; higher is checked first / 权重；越高越先检查
	entries    map[string]*Entry // Live entries / 活动条目
}

// NewTierStore 创建一个层级存储
func NewTierStore(name string, maxSize int, defaultTTL time.Duration, weight int) *TierStore {
	return &TierStore{
		name:       name,
		maxSize:    maxSize,
		defaultTTL: defaultTTL,
		weight:     weight,
		entries:    make(map[string]*Entry, maxSize),
	}
}

// Name 返回层级名称
func (t *TierStore) Name() string {
	return t.name
}

// Weight 返回层级权重
func (t *TierStore) Weight() int {
	return t.weight
}

// MaxSize 返回层级容量
func (t *TierStore) MaxSize() int {
	return t.maxSize
}

// DefaultTTL 返回层级默认TTL
func (t *TierStore) DefaultTTL() time.Duration {
	return t.defaultTTL
}

// Len 返回当前条目数量
func (t *TierStore) Len() int {
	return len(t.entries)
}

// Full 判断层级是否已满
func (t *TierStore) Full() bool {
	return len(t.entries) >= t.maxSize
}

// Get 获取指定键的条目
func (t *TierStore) Get(key string) (*Entry, bool) {
	e, ok := t.entries[key]
	return e, ok
}

// Put 插入或覆盖条目，并同步更新其层级归属
func (t *TierStore) Put(e *Entry) {
	e.Tier = t.name
	t.entries[e.Key] = e
}

// Remove 删除并返回条目
func (t *TierStore) Remove(key string) (*Entry, bool) {
	e, ok := t.entries[key]
	if ok {
		delete(t.entries, key)
	}
	return e, ok
}

// LRU returns the entry with the smallest LastAccessed token, or nil when
// the tier is empty. A linear scan is deliberate: tiers are bounded and the
// sequence token gives a total order, so the scan is both simple and exact.
//
// LRU 返回LastAccessed令牌最小的条目，层级为空时返回nil。
// 线性扫描是有意为之：层级是有界的，序列令牌给出全序，
// 因此扫描既简单又精确。
func (t *TierStore) LRU() *Entry {
	var victim *Entry
	for _, e := range t.entries {
		if victim == nil || e.LastAccessed < victim.LastAccessed {
			victim = e
		}
	}
	return victim
}

// ExpiredKeys 收集在给定时刻已过期的键
func (t *TierStore) ExpiredKeys(now time.Time) []string {
	var keys []string
	for k, e := range t.entries {
		if e.IsExpired(now) {
			keys = append(keys, k)
		}
	}
	return keys
}

// ForEach 遍历所有条目，回调返回false时停止
func (t *TierStore) ForEach(f func(e *Entry) bool) {
	for _, e := range t.entries {
		if !f(e) {
			return
		}
	}
}

// Clear 清空层级
func (t *TierStore) Clear() {
	t.entries = make(map[string]*Entry, t.maxSize)
}
