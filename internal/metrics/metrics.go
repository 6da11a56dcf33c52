// Package metrics provides cache runtime metrics collection, statistics, and reporting.
// Package metrics 提供缓存运行时指标采集、统计和输出功能。
//
// This package implements metrics collection with minimal impact on the main business
// path. Global counters track hits, misses, evictions, promotions and demotions across
// the whole engine; per-tier counters break the same figures down by tier. All counters
// are updated atomically. Per-tier item counts are mutated by the engine in the same
// critical section as the tier map itself, so they never drift from the live map size.
//
// 本包实现了对主业务路径影响最小的指标收集。全局计数器跟踪整个引擎的命中、
// 未命中、淘汰、提升和降级；按层级计数器按层级细分相同的数据。所有计数器
// 都是原子更新的。按层级的条目计数由引擎在与层级映射相同的临界区中变更，
// 因此它们永远不会与活动映射大小产生偏差。
package metrics

import (
	"sync/atomic"
	"time"
)

// TierInfo identifies one tier for per-tier metric registration.
// TierInfo 标识用于按层级指标注册的一个层级。
type TierInfo struct {
	Name    string // Tier name / 层级名称
	MaxSize int    // Configured capacity / 配置的容量
}

// Metrics is the cache metrics collector.
// It uses atomic operations to ensure thread safety in high-concurrency environments.
//
// Metrics 是缓存指标收集器。
// 使用原子操作确保高并发环境下的线程安全。
type Metrics struct {
	// Global counters
	// 全局计数器
	hits       uint64 // In-memory and fallback hits / 内存和回退命中次数
	misses     uint64 // Lookups that found nothing anywhere / 任何地方都未找到的查找次数
	evictions  uint64 // Entries discarded for capacity / 因容量而丢弃的条目数
	promotions uint64 // Entries moved to a higher tier / 移到更高层级的条目数
	demotions  uint64 // Entries moved to a lower tier / 移到更低层级的条目数
	expired    uint64 // Entries removed because their TTL passed / 因TTL过期而删除的条目数
	sets       uint64 // Set operations / 设置次数
	deletes    uint64 // Explicit delete operations / 显式删除次数

	// Persistent store interaction counters
	// 持久存储交互计数器
	fallbackHits uint64 // Misses served from the persistent store / 由持久存储服务的未命中次数
	storeErrors  uint64 // Best-effort store calls that failed / 失败的尽力而为存储调用次数
	mirrorDrops  uint64 // Write-through tasks dropped on queue saturation / 队列饱和时丢弃的写穿任务数

	// Per-tier counters, indexed by tier position (highest weight first)
	// 按层级计数器，按层级位置索引（最高权重优先）
	tiers []tierCounters

	// Tier identities, fixed at construction
	// 层级标识，构造时固定
	infos []TierInfo

	// Last snapshot timestamp (Unix nano)
	// 最后快照时间（Unix纳秒）
	lastSnapshot int64
}

// tierCounters 单个层级的计数器
type tierCounters struct {
	items     int64
	hits      uint64
	misses    uint64
	evictions uint64
}

// New creates a metrics collector for the given tiers.
// Tier order must match the engine's descending-weight order.
//
// New 为给定的层级创建指标收集器。
// 层级顺序必须与引擎的权重降序一致。
//
// Parameters:
//   - infos: Tier identities in engine order
//
// Returns:
//   - *Metrics: A new metrics collector
func New(infos []TierInfo) *Metrics {
	return &Metrics{
		tiers: make([]tierCounters, len(infos)),
		infos: infos,
	}
}

// RecordHit 记录全局命中及指定层级的命中
func (m *Metrics) RecordHit(tier int) {
	atomic.AddUint64(&m.hits, 1)
	atomic.AddUint64(&m.tiers[tier].hits, 1)
}

// RecordFallbackHit 记录由持久存储服务的命中
func (m *Metrics) RecordFallbackHit() {
	atomic.AddUint64(&m.hits, 1)
	atomic.AddUint64(&m.fallbackHits, 1)
}

// RecordMiss 记录全局未命中
func (m *Metrics) RecordMiss() {
	atomic.AddUint64(&m.misses, 1)
}

// RecordTierMiss 记录扫描过但未找到键的层级
func (m *Metrics) RecordTierMiss(tier int) {
	atomic.AddUint64(&m.tiers[tier].misses, 1)
}

// RecordEviction 记录指定层级的淘汰
func (m *Metrics) RecordEviction(tier int) {
	atomic.AddUint64(&m.evictions, 1)
	atomic.AddUint64(&m.tiers[tier].evictions, 1)
}

// RecordPromotion 记录提升
func (m *Metrics) RecordPromotion() {
	atomic.AddUint64(&m.promotions, 1)
}

// RecordDemotion 记录降级
func (m *Metrics) RecordDemotion() {
	atomic.AddUint64(&m.demotions, 1)
}

// RecordExpired 记录过期删除的条目数
func (m *Metrics) RecordExpired(n int) {
	atomic.AddUint64(&m.expired, uint64(n))
}

// RecordSet 记录设置操作
func (m *Metrics) RecordSet() {
	atomic.AddUint64(&m.sets, 1)
}

// RecordDelete 记录显式删除操作
func (m *Metrics) RecordDelete() {
	atomic.AddUint64(&m.deletes, 1)
}

// RecordStoreError 记录失败的持久存储调用
func (m *Metrics) RecordStoreError() {
	atomic.AddUint64(&m.storeErrors, 1)
}

// RecordMirrorDrop 记录被丢弃的写穿任务
func (m *Metrics) RecordMirrorDrop() {
	atomic.AddUint64(&m.mirrorDrops, 1)
}

// AddItems adjusts a tier's live item count. The engine calls this in the
// same critical section that mutates the tier map.
//
// AddItems 调整层级的活动条目计数。引擎在变更层级映射的同一临界区中调用它。
func (m *Metrics) AddItems(tier int, delta int64) {
	atomic.AddInt64(&m.tiers[tier].items, delta)
}

// SetItems 将层级的条目计数重置为给定值
func (m *Metrics) SetItems(tier int, n int64) {
	atomic.StoreInt64(&m.tiers[tier].items, n)
}

// Items 返回层级的活动条目计数
func (m *Metrics) Items(tier int) int64 {
	return atomic.LoadInt64(&m.tiers[tier].items)
}

// Snapshot is an immutable copy of all counters at one instant.
// Snapshot 是某一时刻所有计数器的不可变副本。
type Snapshot struct {
	Hits         uint64         `json:"hits"`
	Misses       uint64         `json:"misses"`
	Evictions    uint64         `json:"evictions"`
	Promotions   uint64         `json:"promotions"`
	Demotions    uint64         `json:"demotions"`
	Expired      uint64         `json:"expired"`
	Sets         uint64         `json:"sets"`
	Deletes      uint64         `json:"deletes"`
	FallbackHits uint64         `json:"fallback_hits"`
	StoreErrors  uint64         `json:"store_errors"`
	MirrorDrops  uint64         `json:"mirror_drops"`
	Tiers        []TierSnapshot `json:"tiers"`
	Timestamp    time.Time      `json:"timestamp"`
}

// TierSnapshot 单个层级计数器的快照
type TierSnapshot struct {
	Name      string `json:"name"`
	Items     int64  `json:"items"`
	MaxSize   int    `json:"max_size"`
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Evictions uint64 `json:"evictions"`
}

// GetSnapshot returns a deep copy of the current counters.
// The returned snapshot does not change as the cache keeps running.
//
// GetSnapshot 返回当前计数器的深拷贝。
// 返回的快照不会随着缓存继续运行而改变。
//
// Returns:
//   - *Snapshot: An immutable snapshot of all counters
func (m *Metrics) GetSnapshot() *Snapshot {
	now := time.Now()
	atomic.StoreInt64(&m.lastSnapshot, now.UnixNano())

	snap := &Snapshot{
		Hits:         atomic.LoadUint64(&m.hits),
		Misses:       atomic.LoadUint64(&m.misses),
		Evictions:    atomic.LoadUint64(&m.evictions),
		Promotions:   atomic.LoadUint64(&m.promotions),
		Demotions:    atomic.LoadUint64(&m.demotions),
		Expired:      atomic.LoadUint64(&m.expired),
		Sets:         atomic.LoadUint64(&m.sets),
		Deletes:      atomic.LoadUint64(&m.deletes),
		FallbackHits: atomic.LoadUint64(&m.fallbackHits),
		StoreErrors:  atomic.LoadUint64(&m.storeErrors),
		MirrorDrops:  atomic.LoadUint64(&m.mirrorDrops),
		Tiers:        make([]TierSnapshot, len(m.tiers)),
		Timestamp:    now,
	}

	for i := range m.tiers {
		snap.Tiers[i] = TierSnapshot{
			Name:      m.infos[i].Name,
			Items:     atomic.LoadInt64(&m.tiers[i].items),
			MaxSize:   m.infos[i].MaxSize,
			Hits:      atomic.LoadUint64(&m.tiers[i].hits),
			Misses:    atomic.LoadUint64(&m.tiers[i].misses),
			Evictions: atomic.LoadUint64(&m.tiers[i].evictions),
		}
	}
	return snap
}

// Reset 将所有计数器清零，仅用于测试
func (m *Metrics) Reset() {
	atomic.StoreUint64(&m.hits, 0)
	atomic.StoreUint64(&m.misses, 0)
	atomic.StoreUint64(&m.evictions, 0)
	atomic.StoreUint64(&m.promotions, 0)
	atomic.StoreUint64(&m.demotions, 0)
	atomic.StoreUint64(&m.expired, 0)
	atomic.StoreUint64(&m.sets, 0)
	atomic.StoreUint64(&m.deletes, 0)
	atomic.StoreUint64(&m.fallbackHits, 0)
	atomic.StoreUint64(&m.storeErrors, 0)
	atomic.StoreUint64(&m.mirrorDrops, 0)
	for i := range m.tiers {
		atomic.StoreInt64(&m.tiers[i].items, 0)
		atomic.StoreUint64(&m.tiers[i].hits, 0)
		atomic.StoreUint64(&m.tiers[i].misses, 0)
		atomic.StoreUint64(&m.tiers[i].evictions, 0)
	}
}
