package cache

import (
	"time"

	"go.uber.org/zap"

	"github.com/Humphrey-He/tiercache/pkg/codec"
	"github.com/Humphrey-He/tiercache/pkg/store"
)

// Option is a function that configures a Config.
// This pattern allows for flexible and readable configuration of cache instances.
//
// Option 是一个配置Config的函数。
// 这种模式允许灵活且可读地配置缓存实例。
type Option func(*Config)

// WithTierLayout replaces the tier hierarchy.
//
// WithTierLayout 替换层级结构。
//
// Parameters:
//   - tiers: The tier declarations, ties between equal weights broken by order
//
// Returns:
//   - Option: A configuration option
func WithTierLayout(tiers ...TierConfig) Option {
	return func(c *Config) {
		c.Tiers = tiers
	}
}

// WithPromotionThreshold sets the access count at which an entry is promoted
// one tier up.
//
// WithPromotionThreshold 设置条目被提升一个层级的访问计数。
//
// Parameters:
//   - threshold: The access count; 0 keeps the default of 5
//
// Returns:
//   - Option: A configuration option
func WithPromotionThreshold(threshold uint64) Option {
	return func(c *Config) {
		c.PromotionThreshold = threshold
	}
}

// WithCleanupInterval sets the period of the background expiry sweep.
//
// WithCleanupInterval 设置后台过期清扫的周期。
//
// Parameters:
//   - interval: The sweep interval; 0 keeps the default of 60 seconds
//
// Returns:
//   - Option: A configuration option
func WithCleanupInterval(interval time.Duration) Option {
	return func(c *Config) {
		c.CleanupInterval = interval
	}
}

// WithMirrorQueueSize bounds the asynchronous write-through queue.
//
// WithMirrorQueueSize 限制异步写穿队列。
//
// Parameters:
//   - size: The queue capacity; 0 keeps the default of 256
//
// Returns:
//   - Option: A configuration option
func WithMirrorQueueSize(size int) Option {
	return func(c *Config) {
		c.MirrorQueueSize = size
	}
}

// WithStore attaches a persistent backing store. Writes to the
// highest-weight tier are mirrored there and in-memory misses fall back
// to it.
//
// WithStore 附加持久后备存储。对最高权重层级的写入会镜像到那里，
// 内存未命中会回退到它。
//
// Parameters:
//   - st: The store implementation
//
// Returns:
//   - Option: A configuration option
func WithStore(st store.Store) Option {
	return func(c *Config) {
		c.Store = st
	}
}

// WithCodec sets the serialization codec used at the store boundary.
//
// WithCodec 设置在存储边界使用的序列化编解码器。
//
// Parameters:
//   - cdc: The codec implementation
//
// Returns:
//   - Option: A configuration option
func WithCodec(cdc codec.Codec) Option {
	return func(c *Config) {
		c.Codec = cdc
	}
}

// WithLogger sets the structured logger for operational events.
//
// WithLogger 设置操作事件的结构化日志器。
//
// Parameters:
//   - logger: The zap logger
//
// Returns:
//   - Option: A configuration option
func WithLogger(logger *zap.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// SetOptions carries the per-call settings of a Set operation.
//
// SetOptions 携带Set操作的每次调用设置。
type SetOptions struct {
	// Tier is the destination tier name; empty selects the highest-weight tier
	// Tier 是目标层级名称；为空选择最高权重层级
	Tier string

	// TTL overrides the destination tier's default TTL when positive
	// TTL 为正时覆盖目标层级的默认TTL
	TTL time.Duration

	// Size is an optional caller-supplied weight for capacity accounting
	// Size 是可选的调用者提供的容量核算权重
	Size int64
}

// SetOption configures a single Set call.
//
// SetOption 配置单次Set调用。
type SetOption func(*SetOptions)

// WithTier directs the write to a named tier instead of the default
// highest-weight tier.
//
// WithTier 将写入定向到命名层级而不是默认的最高权重层级。
//
// Parameters:
//   - name: The destination tier name
//
// Returns:
//   - SetOption: A per-call option
func WithTier(name string) SetOption {
	return func(o *SetOptions) {
		o.Tier = name
	}
}

// WithSetTTL overrides the tier's default TTL for this entry.
//
// WithSetTTL 为此条目覆盖层级的默认TTL。
//
// Parameters:
//   - ttl: The time-to-live for the entry
//
// Returns:
//   - SetOption: A per-call option
func WithSetTTL(ttl time.Duration) SetOption {
	return func(o *SetOptions) {
		o.TTL = ttl
	}
}

// WithSize records a caller-supplied size for the entry.
//
// WithSize 为条目记录调用者提供的大小。
//
// Parameters:
//   - size: The entry size in bytes
//
// Returns:
//   - SetOption: A per-call option
func WithSize(size int64) SetOption {
	return func(o *SetOptions) {
		o.Size = size
	}
}
