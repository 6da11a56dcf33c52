// Package cache provides a thread-safe, tiered in-process cache.
// Entries live in a configurable hierarchy of bounded tiers; frequently read
// entries are promoted toward the fastest tier, capacity pressure demotes the
// least recently used entries downward before discarding anything, and an
// optional persistent store backs the top tier for write-through and
// fallback reads.
//
// Package cache 提供线程安全的分层进程内缓存。
// 条目存在于可配置的有界层级结构中；频繁读取的条目被提升到最快的层级，
// 容量压力先将最近最少使用的条目向下降级然后才丢弃任何内容，
// 可选的持久存储为顶层提供写穿和回退读取支持。
package cache

import (
	"context"
	"time"
)

// ICache defines the interface for the tiered cache.
// All methods are thread-safe and can be called concurrently.
//
// ICache 定义分层缓存的接口。
// 所有方法都是线程安全的，可以并发调用。
type ICache interface {
	// Get retrieves a value from the cache, scanning tiers from highest to
	// lowest weight and falling back to the persistent store on a full
	// in-memory miss. If the key is not found or has expired,
	// (nil, false, nil) is returned. Persistent store failures are logged
	// and reported as a miss, never as an error.
	//
	// Get 从缓存中检索值，从最高权重到最低权重扫描层级，
	// 在完全内存未命中时回退到持久存储。
	// 如果未找到键或键已过期，则返回 (nil, false, nil)。
	// 持久存储失败会被记录并报告为未命中，绝不作为错误。
	//
	// Parameters:
	//   - ctx: Context for the operation, can be used for cancellation
	//   - key: The key to retrieve
	//
	// Returns:
	//   - interface{}: The cached value if found
	//   - bool: True if the key was found and is valid
	//   - error: Error if the retrieval operation failed
	Get(ctx context.Context, key string) (interface{}, bool, error)

	// Set adds a value to the cache. Without options the value lands in the
	// highest-weight tier with that tier's default TTL; WithTier, WithSetTTL
	// and WithSize override the destination, expiry and size accounting.
	// If the key already exists in the destination tier, its value is
	// updated in place.
	//
	// Set 将值添加到缓存。不带选项时，值进入最高权重层级并使用该层级的
	// 默认TTL；WithTier、WithSetTTL和WithSize覆盖目标、过期和大小核算。
	// 如果键已存在于目标层级中，则原地更新其值。
	//
	// Parameters:
	//   - ctx: Context for the operation, can be used for cancellation
	//   - key: The key under which to store the value
	//   - value: The value to store
	//   - opts: Optional per-call settings
	//
	// Returns:
	//   - error: Error if the set operation failed
	Set(ctx context.Context, key string, value interface{}, opts ...SetOption) error

	// Delete removes a value from whichever tier holds it and best-effort
	// deletes it from the persistent store.
	// Returns true if the key was found in memory and removed.
	//
	// Delete 从持有该值的层级中删除它，并尽力而为地从持久存储中删除。
	// 如果在内存中找到并删除了键，则返回true。
	//
	// Parameters:
	//   - ctx: Context for the operation, can be used for cancellation
	//   - key: The key to remove
	//
	// Returns:
	//   - bool: True if the key was found and removed
	//   - error: Error if the delete operation failed
	Delete(ctx context.Context, key string) (bool, error)

	// Clear removes all values from every tier and best-effort purges the
	// persistent store namespace.
	//
	// Clear 删除每个层级中的所有值，并尽力而为地清除持久存储命名空间。
	//
	// Parameters:
	//   - ctx: Context for the operation, can be used for cancellation
	//
	// Returns:
	//   - error: Error if the clear operation failed
	Clear(ctx context.Context) error

	// ClearTier removes all values from one named tier. Clearing the
	// write-through (highest-weight) tier also purges the persistent store.
	//
	// ClearTier 删除一个命名层级中的所有值。
	// 清除写穿（最高权重）层级也会清除持久存储。
	//
	// Parameters:
	//   - ctx: Context for the operation, can be used for cancellation
	//   - tier: The name of the tier to clear
	//
	// Returns:
	//   - error: ErrTierNotFound if the tier does not exist
	ClearTier(ctx context.Context, tier string) error

	// Stats returns an immutable snapshot of cache statistics.
	//
	// Stats 返回缓存统计信息的不可变快照。
	//
	// Parameters:
	//   - ctx: Context for the operation, can be used for cancellation
	//
	// Returns:
	//   - *Stats: Cache statistics
	//   - error: Error if retrieving statistics failed
	Stats(ctx context.Context) (*Stats, error)

	// Size reports, per tier, the live item count against the configured
	// capacity, ordered from highest to lowest weight.
	//
	// Size 按层级报告活动条目数与配置容量的对比，按权重从高到低排序。
	//
	// Parameters:
	//   - ctx: Context for the operation, can be used for cancellation
	//
	// Returns:
	//   - []TierSize: One element per tier
	//   - error: Error if retrieving sizes failed
	Size(ctx context.Context) ([]TierSize, error)

	// Close cleans up resources used by the cache: the cleanup task stops
	// and the write-through queue is drained.
	// After calling Close, the cache should not be used anymore.
	//
	// Close 清理缓存使用的资源：清理任务停止，写穿队列被清空。
	// 调用Close后，不应再使用缓存。
	//
	// Returns:
	//   - error: Error if the close operation failed
	Close() error
}

// Stats represents cache statistics.
// These metrics are collected during cache operations and can be used
// to monitor performance and adjust tier parameters.
//
// Stats 表示缓存统计信息。
// 这些指标在缓存操作期间收集，可用于监控性能和调整层级参数。
type Stats struct {
	// Hits is the number of successful retrievals, including persistent
	// store fallback hits
	// Hits 是成功检索的次数，包括持久存储回退命中
	Hits uint64 `json:"hits"`

	// Misses is the number of retrievals where the key was found nowhere
	// Misses 是在任何地方都未找到键的检索次数
	Misses uint64 `json:"misses"`

	// Evictions is the number of entries discarded because no lower tier
	// had capacity
	// Evictions 是因为没有更低层级有容量而被丢弃的条目数
	Evictions uint64 `json:"evictions"`

	// Promotions is the number of entries moved to a higher tier
	// Promotions 是移动到更高层级的条目数
	Promotions uint64 `json:"promotions"`

	// Demotions is the number of entries moved to a lower tier
	// Demotions 是移动到更低层级的条目数
	Demotions uint64 `json:"demotions"`

	// Expired is the number of entries removed because their TTL passed
	// Expired 是因TTL过期而删除的条目数
	Expired uint64 `json:"expired"`

	// Sets and Deletes count write operations
	// Sets和Deletes统计写操作
	Sets    uint64 `json:"sets"`
	Deletes uint64 `json:"deletes"`

	// FallbackHits is the number of hits served from the persistent store
	// FallbackHits 是由持久存储提供的命中次数
	FallbackHits uint64 `json:"fallback_hits"`

	// StoreErrors counts failed best-effort persistent store calls
	// StoreErrors 统计失败的尽力而为持久存储调用
	StoreErrors uint64 `json:"store_errors"`

	// MirrorDrops counts write-through tasks dropped due to a full queue
	// MirrorDrops 统计因队列已满而丢弃的写穿任务
	MirrorDrops uint64 `json:"mirror_drops"`

	// Tiers holds the per-tier breakdown, ordered by descending weight
	// Tiers 保存按权重降序排列的每层级细分
	Tiers []TierStats `json:"tiers"`
}

// TierStats 单个层级的统计信息
type TierStats struct {
	Name      string `json:"name"`
	Items     int64  `json:"items"`
	MaxSize   int    `json:"max_size"`
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Evictions uint64 `json:"evictions"`
}

// TierSize reports one tier's live occupancy against its capacity.
// TierSize 报告一个层级的活动占用与其容量的对比。
type TierSize struct {
	Tier    string `json:"tier"`
	Items   int    `json:"items"`
	MaxSize int    `json:"max_size"`
}

// TierConfig describes a single cache tier.
//
// TierConfig 描述单个缓存层级。
type TierConfig struct {
	// Name uniquely identifies the tier
	// Name 唯一标识层级
	Name string `json:"name" yaml:"name"`

	// MaxSize is the maximum number of entries the tier may hold
	// MaxSize 是层级可以容纳的最大条目数
	MaxSize int `json:"max_size" yaml:"max_size"`

	// DefaultTTL is applied to writes that do not carry their own TTL
	// DefaultTTL 应用于未携带自己TTL的写入
	DefaultTTL time.Duration `json:"default_ttl" yaml:"default_ttl"`

	// Weight ranks the tier; the highest weight is consulted first and
	// receives default writes
	// Weight 对层级进行排名；最高权重最先被查询并接收默认写入
	Weight int `json:"weight" yaml:"weight"`
}
