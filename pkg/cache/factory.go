package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/Humphrey-He/tiercache/internal/engine"
	"github.com/Humphrey-He/tiercache/internal/metrics"
	"github.com/Humphrey-He/tiercache/internal/ttl"
)

// tieredCache binds the cache engine to its background cleanup task.
//
// tieredCache 将缓存引擎与其后台清理任务绑定。
type tieredCache struct {
	name    string
	engine  *engine.Engine
	cleaner *ttl.Cleaner

	closeOnce sync.Once
	closeErr  error
}

// New creates a new tiered cache instance from the provided configuration.
//
// New 从提供的配置创建新的分层缓存实例。
//
// Parameters:
//   - config: The cache configuration
//
// Returns:
//   - ICache: The created cache instance
//   - error: An error if the configuration is invalid
func New(config *Config) (ICache, error) {
	if config == nil {
		config = NewDefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid cache configuration: %w", err)
	}

	tiers := make([]engine.TierConfig, len(config.Tiers))
	for i, tc := range config.Tiers {
		tiers[i] = engine.TierConfig{
			Name:       tc.Name,
			MaxSize:    tc.MaxSize,
			DefaultTTL: tc.DefaultTTL,
			Weight:     tc.Weight,
		}
	}

	eng, err := engine.New(engine.Config{
		Name:               config.Name,
		Tiers:              tiers,
		PromotionThreshold: config.PromotionThreshold,
		MirrorQueueSize:    config.MirrorQueueSize,
		Store:              config.Store,
		Codec:              config.Codec,
		Logger:             config.Logger,
	})
	if err != nil {
		return nil, err
	}

	return &tieredCache{
		name:    config.Name,
		engine:  eng,
		cleaner: ttl.NewCleaner(eng, config.CleanupInterval),
	}, nil
}

// NewWithOptions creates a new cache instance with the provided options
// applied on top of the default configuration.
//
// NewWithOptions 创建一个新缓存实例，在默认配置之上应用提供的选项。
//
// Parameters:
//   - name: The name of the cache instance
//   - options: A list of option functions to configure the cache
//
// Returns:
//   - ICache: The created cache instance
//   - error: An error if the cache creation fails
func NewWithOptions(name string, options ...Option) (ICache, error) {
	config := NewDefaultConfig()
	config.Name = name

	// Apply all options
	// 应用所有选项
	for _, option := range options {
		option(config)
	}

	return New(config)
}

// NewFromJSON creates a cache instance from a JSON configuration document.
// Durations are expressed in nanoseconds; the configs package offers a
// friendlier file format with unit-bearing fields.
//
// NewFromJSON 从JSON配置文档创建缓存实例。
// 持续时间以纳秒表示；configs包提供带单位字段的更友好文件格式。
//
// Parameters:
//   - reader: The JSON document source
//
// Returns:
//   - ICache: The created cache instance
//   - error: An error if decoding or validation fails
func NewFromJSON(reader io.Reader) (ICache, error) {
	config := NewDefaultConfig()
	if err := json.NewDecoder(reader).Decode(config); err != nil {
		return nil, fmt.Errorf("failed to parse JSON config: %w", err)
	}
	return New(config)
}

// NewFromYAML creates a cache instance from a YAML configuration document.
//
// NewFromYAML 从YAML配置文档创建缓存实例。
//
// Parameters:
//   - reader: The YAML document source
//
// Returns:
//   - ICache: The created cache instance
//   - error: An error if decoding or validation fails
func NewFromYAML(reader io.Reader) (ICache, error) {
	config := NewDefaultConfig()
	if err := yaml.NewDecoder(reader).Decode(config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	return New(config)
}

// NewFromFile creates a cache instance from a configuration file.
// The format is chosen by file extension: .json, .yaml, or .yml.
//
// NewFromFile 从配置文件创建缓存实例。
// 格式由文件扩展名选择：.json、.yaml或.yml。
//
// Parameters:
//   - filename: The path to the configuration file
//
// Returns:
//   - ICache: The created cache instance
//   - error: An error if reading or decoding fails
func NewFromFile(filename string) (ICache, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	switch {
	case hasExtension(filename, ".json"):
		return NewFromJSON(file)
	case hasExtension(filename, ".yaml"), hasExtension(filename, ".yml"):
		return NewFromYAML(file)
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", filename)
	}
}

// hasExtension 检查文件名是否以给定扩展名结尾（不区分大小写）
func hasExtension(filename, ext string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ext)
}

// Get 实现ICache.Get
func (c *tieredCache) Get(ctx context.Context, key string) (interface{}, bool, error) {
	return c.engine.Get(ctx, key)
}

// Set 实现ICache.Set
func (c *tieredCache) Set(ctx context.Context, key string, value interface{}, opts ...SetOption) error {
	var options SetOptions
	for _, opt := range opts {
		opt(&options)
	}
	return c.engine.Set(ctx, key, value, engine.SetOptions{
		Tier: options.Tier,
		TTL:  options.TTL,
		Size: options.Size,
	})
}

// Delete 实现ICache.Delete
func (c *tieredCache) Delete(ctx context.Context, key string) (bool, error) {
	return c.engine.Delete(ctx, key)
}

// Clear 实现ICache.Clear
func (c *tieredCache) Clear(ctx context.Context) error {
	return c.engine.Clear(ctx)
}

// ClearTier 实现ICache.ClearTier
func (c *tieredCache) ClearTier(ctx context.Context, tier string) error {
	return c.engine.ClearTier(ctx, tier)
}

// Stats 实现ICache.Stats
func (c *tieredCache) Stats(ctx context.Context) (*Stats, error) {
	snap := c.engine.Stats()
	return statsFromSnapshot(snap), nil
}

// Size 实现ICache.Size
func (c *tieredCache) Size(ctx context.Context) ([]TierSize, error) {
	engineSizes := c.engine.Size()
	sizes := make([]TierSize, len(engineSizes))
	for i, s := range engineSizes {
		sizes[i] = TierSize{Tier: s.Tier, Items: s.Items, MaxSize: s.MaxSize}
	}
	return sizes, nil
}

// ForceClean runs one expiry sweep immediately. Not part of ICache; exposed
// for administrative surfaces that want deterministic cleanup.
//
// ForceClean 立即执行一次过期清扫。不属于ICache；
// 为需要确定性清理的管理界面暴露。
//
// Returns:
//   - int: The number of expired entries removed
func (c *tieredCache) ForceClean() int {
	return c.cleaner.ForceClean()
}

// Metrics exposes the engine's collector for Prometheus registration.
//
// Metrics 暴露引擎的收集器以用于Prometheus注册。
//
// Returns:
//   - *metrics.Metrics: The underlying metrics collector
func (c *tieredCache) Metrics() *metrics.Metrics {
	return c.engine.Metrics()
}

// Close 实现ICache.Close
func (c *tieredCache) Close() error {
	c.closeOnce.Do(func() {
		c.cleaner.Close()
		c.closeErr = c.engine.Close()
	})
	return c.closeErr
}

// statsFromSnapshot 将内部快照转换为公共统计类型
func statsFromSnapshot(snap *metrics.Snapshot) *Stats {
	stats := &Stats{
		Hits:         snap.Hits,
		Misses:       snap.Misses,
		Evictions:    snap.Evictions,
		Promotions:   snap.Promotions,
		Demotions:    snap.Demotions,
		Expired:      snap.Expired,
		Sets:         snap.Sets,
		Deletes:      snap.Deletes,
		FallbackHits: snap.FallbackHits,
		StoreErrors:  snap.StoreErrors,
		MirrorDrops:  snap.MirrorDrops,
		Tiers:        make([]TierStats, len(snap.Tiers)),
	}
	for i, tier := range snap.Tiers {
		stats.Tiers[i] = TierStats{
			Name:      tier.Name,
			Items:     tier.Items,
			MaxSize:   tier.MaxSize,
			Hits:      tier.Hits,
			Misses:    tier.Misses,
			Evictions: tier.Evictions,
		}
	}
	return stats
}
