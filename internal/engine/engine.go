// Package engine implements the tiered cache core: an ordered set of bounded
// in-memory tiers with frequency-based promotion, LRU demotion and eviction,
// TTL expiry, and best-effort write-through to a persistent store.
//
// Package engine 实现分层缓存核心：一组有序的有界内存层级，
// 具有基于频率的提升、LRU降级和淘汰、TTL过期以及到持久存储的尽力而为写穿。
//
// A single mutex guards every tier map and all bookkeeping. Persistent store
// calls never happen while the mutex is held: reads release it before the
// fallback lookup, and writes go through a bounded background queue. The
// store is strictly optional; every store failure degrades the operation to
// memory-only behavior and is logged, never surfaced to the caller.
//
// 单个互斥锁保护每个层级映射和所有簿记。持有互斥锁时从不进行持久存储调用：
// 读取在回退查找之前释放它，写入通过有界后台队列进行。存储是严格可选的；
// 每次存储失败都会将操作降级为仅内存行为并记录日志，从不向调用者暴露。
package engine

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/Humphrey-He/tiercache/internal/metrics"
	"github.com/Humphrey-He/tiercache/internal/storage"
	"github.com/Humphrey-He/tiercache/pkg/codec"
	"github.com/Humphrey-He/tiercache/pkg/errors"
	"github.com/Humphrey-He/tiercache/pkg/store"
)

const (
	// defaultPromotionThreshold is the access count at which an entry is
	// promoted one tier up.
	//
	// defaultPromotionThreshold 是条目被提升一个层级的访问计数。
	defaultPromotionThreshold = 5

	// defaultMirrorQueueSize bounds the write-through task queue.
	// defaultMirrorQueueSize 限制写穿任务队列的大小。
	defaultMirrorQueueSize = 256

	// purgePageSize is the page size used when clearing the persistent store.
	// purgePageSize 是清除持久存储时使用的分页大小。
	purgePageSize = 100
)

// TierConfig describes one tier, immutable after engine construction.
// TierConfig 描述一个层级，引擎构造后不可变。
type TierConfig struct {
	Name       string        // Unique tier name / 唯一层级名称
	MaxSize    int           // Maximum entry count / 最大条目数
	DefaultTTL time.Duration // TTL applied when a write carries none / 写入未指定时应用的TTL
	Weight     int           // Rank; higher weight is consulted first / 权重；越高越先查询
}

// Config assembles everything the engine needs.
// Config 汇集引擎所需的一切。
type Config struct {
	Name               string       // Cache instance name, used in logs / 缓存实例名称，用于日志
	Tiers              []TierConfig // Tier declarations / 层级声明
	PromotionThreshold uint64       // Access count triggering promotion; 0 means default / 触发提升的访问计数；0表示默认值
	MirrorQueueSize    int          // Write-through queue capacity; 0 means default / 写穿队列容量；0表示默认值
	Store              store.Store  // Optional persistent store / 可选的持久存储
	Codec              codec.Codec  // Serialization at the store boundary; nil means JSON / 存储边界的序列化；nil表示JSON
	Logger             *zap.Logger  // Structured logger; nil means no-op / 结构化日志器；nil表示空操作
}

// SetOptions carries the per-call options of a Set.
// SetOptions 携带Set调用的每次选项。
type SetOptions struct {
	Tier string        // Destination tier; empty means the highest-weight tier / 目标层级；为空表示最高权重层级
	TTL  time.Duration // Entry TTL; 0 means the tier default / 条目TTL；0表示层级默认值
	Size int64         // Caller-supplied weight for capacity accounting / 调用者提供的容量核算权重
}

// TierSize reports one tier's live occupancy against its capacity.
// TierSize 报告一个层级的活动占用与其容量的对比。
type TierSize struct {
	Tier    string `json:"tier"`
	Items   int    `json:"items"`
	MaxSize int    `json:"max_size"`
}

// Engine is the tiered cache core.
// All exported methods are safe for concurrent use.
//
// Engine 是分层缓存核心。
// 所有导出的方法都支持并发安全使用。
type Engine struct {
	name string

	mu    sync.Mutex           // Guards tiers and all entry bookkeeping / 保护层级和所有条目簿记
	tiers []*storage.TierStore // Descending weight, declaration order breaks ties / 权重降序，声明顺序打破平局
	index map[string]int       // Tier name to position / 层级名称到位置

	seq       atomic.Uint64 // Monotonic access token source / 单调访问令牌源
	threshold uint64

	store   store.Store
	codec   codec.Codec
	logger  *zap.Logger
	metrics *metrics.Metrics
	mirror  *mirror

	closed atomic.Bool
}

// persistedEntry is the envelope written to the persistent store.
// The expiry travels with the value so a fallback hit can restore it.
//
// persistedEntry 是写入持久存储的信封。
// 过期时间随值一起传输，因此回退命中可以恢复它。
type persistedEntry struct {
	Value     interface{} `json:"v"`
	ExpiresAt int64       `json:"exp,omitempty"` // Unix nanoseconds, 0 when absent / Unix纳秒，缺失时为0
}

// New constructs an engine from a validated configuration.
// Duplicate tier names, empty tier lists, and non-positive capacities fail fast.
//
// New 从经过验证的配置构造引擎。
// 重复的层级名称、空层级列表和非正容量会快速失败。
//
// Parameters:
//   - cfg: The engine configuration
//
// Returns:
//   - *Engine: The constructed engine
//   - error: A configuration error, if any
func New(cfg Config) (*Engine, error) {
	if len(cfg.Tiers) == 0 {
		return nil, errors.ErrNoTiers
	}

	seen := make(map[string]struct{}, len(cfg.Tiers))
	for _, tc := range cfg.Tiers {
		if _, dup := seen[tc.Name]; dup {
			return nil, errors.NewTierError(tc.Name, errors.ErrDuplicateTier)
		}
		seen[tc.Name] = struct{}{}
		if tc.MaxSize <= 0 {
			return nil, errors.NewTierError(tc.Name, errors.ErrInvalidTierSize)
		}
		if tc.DefaultTTL <= 0 {
			return nil, errors.NewTierError(tc.Name, errors.ErrInvalidTTL)
		}
	}

	// Order tiers by descending weight; stable sort preserves declaration
	// order among equal weights.
	// 按权重降序排列层级；稳定排序在相等权重之间保留声明顺序。
	ordered := make([]TierConfig, len(cfg.Tiers))
	copy(ordered, cfg.Tiers)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Weight > ordered[j].Weight
	})

	threshold := cfg.PromotionThreshold
	if threshold == 0 {
		threshold = defaultPromotionThreshold
	}
	queueSize := cfg.MirrorQueueSize
	if queueSize <= 0 {
		queueSize = defaultMirrorQueueSize
	}
	cdc := cfg.Codec
	if cdc == nil {
		cdc = codec.DefaultCodec()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	e := &Engine{
		name:      cfg.Name,
		tiers:     make([]*storage.TierStore, len(ordered)),
		index:     make(map[string]int, len(ordered)),
		threshold: threshold,
		store:     cfg.Store,
		codec:     cdc,
		logger:    logger,
	}

	infos := make([]metrics.TierInfo, len(ordered))
	for i, tc := range ordered {
		e.tiers[i] = storage.NewTierStore(tc.Name, tc.MaxSize, tc.DefaultTTL, tc.Weight)
		e.index[tc.Name] = i
		infos[i] = metrics.TierInfo{Name: tc.Name, MaxSize: tc.MaxSize}
	}
	e.metrics = metrics.New(infos)

	if e.store != nil {
		e.mirror = newMirror(e.store, queueSize, logger, e.metrics)
	}

	return e, nil
}

// nextToken 分配下一个严格递增的访问令牌
func (e *Engine) nextToken() uint64 {
	return e.seq.Add(1)
}

// Get retrieves a value, scanning tiers from highest to lowest weight.
// Expired entries found along the way are removed. On a full in-memory miss
// the persistent store is consulted; a fresh store hit repopulates the
// highest tier and counts as a hit.
//
// Get 检索值，从最高权重到最低权重扫描层级。
// 途中发现的过期条目会被删除。在完全的内存未命中时查询持久存储；
// 新鲜的存储命中会重新填充最高层级并计为命中。
//
// Parameters:
//   - ctx: Context for the store fallback lookup
//   - key: The key to retrieve
//
// Returns:
//   - interface{}: The cached value if found
//   - bool: True if the key was found and is valid
//   - error: ErrKeyEmpty or ErrClosed; never a store failure
func (e *Engine) Get(ctx context.Context, key string) (interface{}, bool, error) {
	if key == "" {
		return nil, false, errors.ErrKeyEmpty
	}
	if e.closed.Load() {
		return nil, false, errors.ErrClosed
	}

	now := time.Now()

	e.mu.Lock()
	for i, tier := range e.tiers {
		entry, ok := tier.Get(key)
		if !ok {
			e.metrics.RecordTierMiss(i)
			continue
		}

		if entry.IsExpired(now) {
			// Passive expiry: cleanup, not an eviction. Keep scanning so a
			// stale copy never shadows a fresher one in a lower tier.
			// 被动过期：清理，而非淘汰。继续扫描，使陈旧副本永远不会
			// 遮蔽更低层级中更新鲜的副本。
			tier.Remove(key)
			e.metrics.AddItems(i, -1)
			e.metrics.RecordExpired(1)
			e.metrics.RecordTierMiss(i)
			continue
		}

		entry.AccessCount++
		entry.LastAccessed = e.nextToken()
		e.metrics.RecordHit(i)

		if entry.AccessCount >= e.threshold && i > 0 {
			e.promote(i, entry)
		}

		value := entry.Value
		e.mu.Unlock()
		return value, true, nil
	}
	e.mu.Unlock()

	if e.store == nil {
		e.metrics.RecordMiss()
		return nil, false, nil
	}
	return e.fallback(ctx, key, now)
}

// fallback consults the persistent store after an in-memory miss and
// repopulates the highest tier on success. Store and decode failures are
// logged and reported as a plain miss.
//
// fallback 在内存未命中后查询持久存储，成功时重新填充最高层级。
// 存储和解码失败会被记录并报告为普通未命中。
func (e *Engine) fallback(ctx context.Context, key string, now time.Time) (interface{}, bool, error) {
	data, ok, err := e.store.Get(ctx, key)
	if err != nil {
		e.logger.Warn("persistent store lookup failed",
			zap.String("cache", e.name),
			zap.String("key", key),
			zap.Error(err))
		e.metrics.RecordStoreError()
		e.metrics.RecordMiss()
		return nil, false, nil
	}
	if !ok {
		e.metrics.RecordMiss()
		return nil, false, nil
	}

	var persisted persistedEntry
	if err := e.codec.Unmarshal(data, &persisted); err != nil {
		e.logger.Warn("persistent store payload undecodable",
			zap.String("cache", e.name),
			zap.String("key", key),
			zap.String("codec", e.codec.Name()),
			zap.Error(err))
		e.metrics.RecordStoreError()
		e.metrics.RecordMiss()
		return nil, false, nil
	}

	var expiresAt time.Time
	if persisted.ExpiresAt > 0 {
		expiresAt = time.Unix(0, persisted.ExpiresAt)
		if !now.Before(expiresAt) {
			// The store's own TTL should have collected this; help it along.
			// 存储自身的TTL本应回收它；顺手帮忙清理。
			if e.mirror != nil {
				e.mirror.enqueueDelete(key)
			}
			e.metrics.RecordMiss()
			return nil, false, nil
		}
	}

	e.mu.Lock()
	// Another goroutine may have repopulated the key while the store call
	// was in flight; prefer the in-memory copy.
	// 当存储调用进行时，另一个goroutine可能已重新填充该键；优先使用内存副本。
	for i, tier := range e.tiers {
		if entry, ok := tier.Get(key); ok && !entry.IsExpired(now) {
			entry.AccessCount++
			entry.LastAccessed = e.nextToken()
			e.metrics.RecordHit(i)
			value := entry.Value
			e.mu.Unlock()
			return value, true, nil
		}
	}

	top := e.tiers[0]
	if expiresAt.IsZero() {
		expiresAt = now.Add(top.DefaultTTL())
	}
	if top.Full() {
		e.makeRoom(0)
	}
	top.Put(&storage.Entry{
		Key:          key,
		Value:        persisted.Value,
		AccessCount:  0,
		LastAccessed: e.nextToken(),
		CreatedAt:    now,
		ExpiresAt:    expiresAt,
	})
	e.metrics.AddItems(0, 1)
	e.metrics.RecordFallbackHit()
	e.mu.Unlock()

	return persisted.Value, true, nil
}

// Set writes a value into the destination tier, making room first when the
// tier is full so capacity is never transiently exceeded. Any copy of the
// key held by another tier is removed, keeping single residency. Writes to
// the highest-weight tier are mirrored to the persistent store
// asynchronously, best-effort.
//
// Set 将值写入目标层级，层级已满时先腾出空间，因此容量永远不会瞬时超出。
// 任何其他层级持有的该键副本都会被删除，保持单一驻留。
// 对最高权重层级的写入会异步、尽力而为地镜像到持久存储。
//
// Parameters:
//   - ctx: Context for the operation
//   - key: The key under which to store the value
//   - value: The value to store
//   - opts: Per-call tier, TTL and size options
//
// Returns:
//   - error: A configuration error (unknown tier, invalid TTL); never a store failure
func (e *Engine) Set(ctx context.Context, key string, value interface{}, opts SetOptions) error {
	if key == "" {
		return errors.ErrKeyEmpty
	}
	if e.closed.Load() {
		return errors.ErrClosed
	}

	dest := 0
	if opts.Tier != "" {
		idx, ok := e.index[opts.Tier]
		if !ok {
			return errors.NewTierError(opts.Tier, errors.ErrTierNotFound)
		}
		dest = idx
	}
	if opts.TTL < 0 {
		return errors.ErrInvalidTTL
	}

	now := time.Now()
	ttl := opts.TTL
	if ttl == 0 {
		ttl = e.tiers[dest].DefaultTTL()
	}
	expiresAt := now.Add(ttl)

	e.mu.Lock()
	// Single residency: drop any copy living in another tier before writing.
	// 单一驻留：写入前删除任何存在于其他层级的副本。
	for i, tier := range e.tiers {
		if i == dest {
			continue
		}
		if _, ok := tier.Remove(key); ok {
			e.metrics.AddItems(i, -1)
		}
	}

	target := e.tiers[dest]
	if entry, ok := target.Get(key); ok {
		// Overwrite in place; no capacity check needed.
		// 原地覆盖；无需容量检查。
		entry.Value = value
		entry.ExpiresAt = expiresAt
		entry.LastAccessed = e.nextToken()
		entry.Size = opts.Size
	} else {
		if target.Full() {
			e.makeRoom(dest)
		}
		target.Put(&storage.Entry{
			Key:          key,
			Value:        value,
			AccessCount:  0,
			LastAccessed: e.nextToken(),
			CreatedAt:    now,
			ExpiresAt:    expiresAt,
			Size:         opts.Size,
		})
		e.metrics.AddItems(dest, 1)
	}
	e.mu.Unlock()

	e.metrics.RecordSet()

	// Write-through applies to the highest-weight tier only.
	// 写穿仅适用于最高权重层级。
	if dest == 0 && e.mirror != nil {
		data, err := e.codec.Marshal(persistedEntry{
			Value:     value,
			ExpiresAt: expiresAt.UnixNano(),
		})
		if err != nil {
			e.logger.Warn("write-through serialization failed",
				zap.String("cache", e.name),
				zap.String("key", key),
				zap.String("codec", e.codec.Name()),
				zap.Error(err))
			e.metrics.RecordStoreError()
			return nil
		}
		e.mirror.enqueuePut(key, data, ttl)
	}

	return nil
}

// Delete removes a key from whichever tier holds it and best-effort deletes
// it from the persistent store. Deleting a missing key is a no-op.
//
// Delete 从持有该键的层级中删除它，并尽力而为地从持久存储中删除。
// 删除缺失的键是空操作。
//
// Parameters:
//   - ctx: Context for the operation
//   - key: The key to remove
//
// Returns:
//   - bool: True if the key was found in memory and removed
//   - error: ErrKeyEmpty or ErrClosed
func (e *Engine) Delete(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, errors.ErrKeyEmpty
	}
	if e.closed.Load() {
		return false, errors.ErrClosed
	}

	found := false
	e.mu.Lock()
	for i, tier := range e.tiers {
		if _, ok := tier.Remove(key); ok {
			e.metrics.AddItems(i, -1)
			found = true
			break
		}
	}
	e.mu.Unlock()

	e.metrics.RecordDelete()
	if e.mirror != nil {
		e.mirror.enqueueDelete(key)
	}
	return found, nil
}

// Clear empties every tier and best-effort purges the persistent store
// namespace using cursor-paginated listing.
//
// Clear 清空每个层级，并使用游标分页列表尽力而为地清除持久存储命名空间。
//
// Parameters:
//   - ctx: Context for the store purge
//
// Returns:
//   - error: ErrClosed; never a store failure
func (e *Engine) Clear(ctx context.Context) error {
	if e.closed.Load() {
		return errors.ErrClosed
	}

	e.mu.Lock()
	for i, tier := range e.tiers {
		tier.Clear()
		e.metrics.SetItems(i, 0)
	}
	e.mu.Unlock()

	if e.store != nil {
		e.purgeStore(ctx)
	}
	return nil
}

// ClearTier empties one named tier. Clearing the write-through tier also
// purges the persistent store.
//
// ClearTier 清空一个命名层级。清除写穿层级也会清除持久存储。
//
// Parameters:
//   - ctx: Context for the store purge
//   - name: The tier to clear
//
// Returns:
//   - error: ErrTierNotFound for unknown names; ErrClosed
func (e *Engine) ClearTier(ctx context.Context, name string) error {
	if e.closed.Load() {
		return errors.ErrClosed
	}

	idx, ok := e.index[name]
	if !ok {
		return errors.NewTierError(name, errors.ErrTierNotFound)
	}

	e.mu.Lock()
	e.tiers[idx].Clear()
	e.metrics.SetItems(idx, 0)
	e.mu.Unlock()

	if idx == 0 && e.store != nil {
		e.purgeStore(ctx)
	}
	return nil
}

// purgeStore 分页删除持久存储中的所有键，错误记录后继续
func (e *Engine) purgeStore(ctx context.Context) {
	cursor := ""
	for {
		result, err := e.store.List(ctx, store.ListOptions{Cursor: cursor, Limit: purgePageSize})
		if err != nil {
			e.logger.Warn("persistent store purge listing failed",
				zap.String("cache", e.name),
				zap.Error(err))
			e.metrics.RecordStoreError()
			return
		}
		for _, key := range result.Keys {
			if err := e.store.Delete(ctx, key); err != nil {
				e.logger.Warn("persistent store purge delete failed",
					zap.String("cache", e.name),
					zap.String("key", key),
					zap.Error(err))
				e.metrics.RecordStoreError()
			}
		}
		if result.Cursor == "" {
			return
		}
		cursor = result.Cursor
	}
}

// SweepExpired removes every expired entry from every tier and returns how
// many were removed. The cleanup task calls this periodically; Get already
// self-heals, so the sweep only bounds memory held by never-read keys.
//
// SweepExpired 从每个层级中删除所有过期条目并返回删除数量。
// 清理任务定期调用它；Get已经自我修复，因此扫描只是限制
// 从未被读取的键占用的内存。
//
// Returns:
//   - int: The number of entries removed
func (e *Engine) SweepExpired() int {
	now := time.Now()
	removed := 0

	e.mu.Lock()
	for i, tier := range e.tiers {
		for _, key := range tier.ExpiredKeys(now) {
			tier.Remove(key)
			e.metrics.AddItems(i, -1)
			removed++
		}
	}
	e.mu.Unlock()

	if removed > 0 {
		e.metrics.RecordExpired(removed)
	}
	return removed
}

// Stats returns an immutable snapshot of all counters.
//
// Stats 返回所有计数器的不可变快照。
//
// Returns:
//   - *metrics.Snapshot: A deep copy of the current counters
func (e *Engine) Stats() *metrics.Snapshot {
	return e.metrics.GetSnapshot()
}

// Size reports, per tier, the live item count against the configured capacity.
//
// Size 报告每个层级的活动条目数与配置容量的对比。
//
// Returns:
//   - []TierSize: One element per tier, ordered by descending weight
func (e *Engine) Size() []TierSize {
	e.mu.Lock()
	defer e.mu.Unlock()

	sizes := make([]TierSize, len(e.tiers))
	for i, tier := range e.tiers {
		sizes[i] = TierSize{
			Tier:    tier.Name(),
			Items:   tier.Len(),
			MaxSize: tier.MaxSize(),
		}
	}
	return sizes
}

// Flush blocks until every write-through task queued so far has been
// applied to the persistent store. Mainly useful in tests and during
// graceful shutdown.
//
// Flush 阻塞直到到目前为止排队的每个写穿任务都已应用到持久存储。
// 主要用于测试和优雅关闭。
func (e *Engine) Flush() {
	if e.mirror != nil {
		e.mirror.flush()
	}
}

// Close shuts the engine down, draining the write-through queue.
// After Close, every operation returns ErrClosed.
//
// Close 关闭引擎，清空写穿队列。
// Close之后，每个操作都返回ErrClosed。
//
// Returns:
//   - error: Always nil; kept for interface symmetry
func (e *Engine) Close() error {
	if e.closed.Swap(true) {
		return nil
	}
	if e.mirror != nil {
		e.mirror.close()
	}
	return nil
}

// Metrics exposes the underlying collector for Prometheus integration.
//
// Metrics 暴露底层收集器以用于Prometheus集成。
//
// Returns:
//   - *metrics.Metrics: The engine's metrics collector
func (e *Engine) Metrics() *metrics.Metrics {
	return e.metrics
}

// Name 返回缓存实例名称
func (e *Engine) Name() string {
	return e.name
}
