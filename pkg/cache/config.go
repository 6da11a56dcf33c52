package cache

import (
	"time"

	"go.uber.org/zap"

	"github.com/Humphrey-He/tiercache/pkg/codec"
	"github.com/Humphrey-He/tiercache/pkg/errors"
	"github.com/Humphrey-He/tiercache/pkg/store"
)

// Default tier layout: a small fast tier backed by progressively larger,
// longer-lived ones.
// 默认层级布局：一个小而快的层级，由逐渐更大、更长寿的层级支撑。
const (
	defaultCleanupInterval    = 60 * time.Second
	defaultPromotionThreshold = 5
	defaultMirrorQueueSize    = 256
)

// Config holds the configuration for a tiered cache instance.
// It can be built directly, through the With* builder methods, through
// functional options, or decoded from a JSON/YAML document.
//
// Config 保存分层缓存实例的配置。
// 它可以直接构建、通过With*构建器方法、通过函数式选项构建，
// 或从JSON/YAML文档解码。
type Config struct {
	// Name identifies the cache instance in logs and metrics
	// Name 在日志和指标中标识缓存实例
	Name string `json:"name" yaml:"name"`

	// Tiers declares the tier hierarchy. Order of declaration breaks ties
	// between equal weights.
	// Tiers 声明层级结构。声明顺序打破相等权重之间的平局。
	Tiers []TierConfig `json:"tiers" yaml:"tiers"`

	// PromotionThreshold is the access count at which an entry moves one
	// tier up. Zero selects the default of 5.
	// PromotionThreshold 是条目向上移动一个层级的访问计数。零选择默认值5。
	PromotionThreshold uint64 `json:"promotion_threshold" yaml:"promotion_threshold"`

	// CleanupInterval is the period of the background expiry sweep.
	// Zero selects the default of 60 seconds.
	// CleanupInterval 是后台过期清扫的周期。零选择默认的60秒。
	CleanupInterval time.Duration `json:"cleanup_interval" yaml:"cleanup_interval"`

	// MirrorQueueSize bounds the asynchronous write-through queue.
	// Zero selects the default of 256.
	// MirrorQueueSize 限制异步写穿队列。零选择默认值256。
	MirrorQueueSize int `json:"mirror_queue_size" yaml:"mirror_queue_size"`

	// Store is the optional persistent backing store. It cannot be decoded
	// from a document and must be attached programmatically.
	// Store 是可选的持久后备存储。它无法从文档解码，必须以编程方式附加。
	Store store.Store `json:"-" yaml:"-"`

	// Codec serializes values at the persistent store boundary.
	// Nil selects JSON.
	// Codec 在持久存储边界序列化值。nil选择JSON。
	Codec codec.Codec `json:"-" yaml:"-"`

	// Logger receives structured operational logs. Nil selects a no-op logger.
	// Logger 接收结构化操作日志。nil选择空操作日志器。
	Logger *zap.Logger `json:"-" yaml:"-"`
}

// NewDefaultConfig creates a configuration with a three-tier layout suitable
// as a starting point: hot(1024, 5m), warm(4096, 30m), cold(16384, 2h).
//
// NewDefaultConfig 创建具有三层布局的配置，适合作为起点：
// hot(1024, 5m)、warm(4096, 30m)、cold(16384, 2h)。
//
// Returns:
//   - *Config: A configuration with default values
func NewDefaultConfig() *Config {
	return &Config{
		Name: "tiercache",
		Tiers: []TierConfig{
			{Name: "hot", MaxSize: 1024, DefaultTTL: 5 * time.Minute, Weight: 100},
			{Name: "warm", MaxSize: 4096, DefaultTTL: 30 * time.Minute, Weight: 50},
			{Name: "cold", MaxSize: 16384, DefaultTTL: 2 * time.Hour, Weight: 10},
		},
		PromotionThreshold: defaultPromotionThreshold,
		CleanupInterval:    defaultCleanupInterval,
		MirrorQueueSize:    defaultMirrorQueueSize,
	}
}

// Validate checks the configuration for errors.
// It fails fast on empty tier lists, duplicate or empty tier names,
// non-positive capacities and non-positive default TTLs.
//
// Validate 检查配置是否有错误。
// 它对空层级列表、重复或空的层级名称、非正容量和非正默认TTL快速失败。
//
// Returns:
//   - error: The first configuration error found, or nil
func (c *Config) Validate() error {
	if len(c.Tiers) == 0 {
		return errors.ErrNoTiers
	}

	seen := make(map[string]struct{}, len(c.Tiers))
	for _, tier := range c.Tiers {
		if tier.Name == "" {
			return errors.NewTierError(tier.Name, errors.ErrTierNotFound)
		}
		if _, dup := seen[tier.Name]; dup {
			return errors.NewTierError(tier.Name, errors.ErrDuplicateTier)
		}
		seen[tier.Name] = struct{}{}
		if tier.MaxSize <= 0 {
			return errors.NewTierError(tier.Name, errors.ErrInvalidTierSize)
		}
		if tier.DefaultTTL <= 0 {
			return errors.NewTierError(tier.Name, errors.ErrInvalidTTL)
		}
	}

	if c.CleanupInterval < 0 {
		return errors.ErrInvalidTTL
	}
	return nil
}

// WithName sets the cache instance name.
//
// WithName 设置缓存实例名称。
//
// Parameters:
//   - name: The cache name
//
// Returns:
//   - *Config: The config for method chaining
func (c *Config) WithName(name string) *Config {
	c.Name = name
	return c
}

// WithTiers replaces the tier hierarchy.
//
// WithTiers 替换层级结构。
//
// Parameters:
//   - tiers: The new tier declarations
//
// Returns:
//   - *Config: The config for method chaining
func (c *Config) WithTiers(tiers ...TierConfig) *Config {
	c.Tiers = tiers
	return c
}

// AddTier appends one tier to the hierarchy.
//
// AddTier 向层级结构追加一个层级。
//
// Parameters:
//   - name: The tier name
//   - maxSize: The maximum number of entries
//   - defaultTTL: The default time-to-live
//   - weight: The tier rank
//
// Returns:
//   - *Config: The config for method chaining
func (c *Config) AddTier(name string, maxSize int, defaultTTL time.Duration, weight int) *Config {
	c.Tiers = append(c.Tiers, TierConfig{
		Name:       name,
		MaxSize:    maxSize,
		DefaultTTL: defaultTTL,
		Weight:     weight,
	})
	return c
}

// WithPromotionThreshold sets the access count triggering promotion.
//
// WithPromotionThreshold 设置触发提升的访问计数。
//
// Parameters:
//   - threshold: The access count
//
// Returns:
//   - *Config: The config for method chaining
func (c *Config) WithPromotionThreshold(threshold uint64) *Config {
	c.PromotionThreshold = threshold
	return c
}

// WithCleanupInterval sets the background sweep period.
//
// WithCleanupInterval 设置后台清扫周期。
//
// Parameters:
//   - interval: The sweep interval
//
// Returns:
//   - *Config: The config for method chaining
func (c *Config) WithCleanupInterval(interval time.Duration) *Config {
	c.CleanupInterval = interval
	return c
}

// WithMirrorQueueSize sets the write-through queue capacity.
//
// WithMirrorQueueSize 设置写穿队列容量。
//
// Parameters:
//   - size: The queue capacity
//
// Returns:
//   - *Config: The config for method chaining
func (c *Config) WithMirrorQueueSize(size int) *Config {
	c.MirrorQueueSize = size
	return c
}

// WithStore attaches a persistent backing store.
//
// WithStore 附加持久后备存储。
//
// Parameters:
//   - st: The store implementation
//
// Returns:
//   - *Config: The config for method chaining
func (c *Config) WithStore(st store.Store) *Config {
	c.Store = st
	return c
}

// WithCodec sets the serialization codec used at the store boundary.
//
// WithCodec 设置在存储边界使用的序列化编解码器。
//
// Parameters:
//   - cdc: The codec implementation
//
// Returns:
//   - *Config: The config for method chaining
func (c *Config) WithCodec(cdc codec.Codec) *Config {
	c.Codec = cdc
	return c
}

// WithLogger sets the structured logger.
//
// WithLogger 设置结构化日志器。
//
// Parameters:
//   - logger: The zap logger
//
// Returns:
//   - *Config: The config for method chaining
func (c *Config) WithLogger(logger *zap.Logger) *Config {
	c.Logger = logger
	return c
}
