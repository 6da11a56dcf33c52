// Package configs provides configuration structures and utilities for the
// tiered cache. It offers mechanisms for loading, validating, and saving
// configuration from JSON and YAML files, and for assembling a running cache
// instance (including its persistent store and logger) from a document.
//
// Package configs 提供分层缓存的配置结构和工具。
// 它提供从JSON和YAML文件加载、验证和保存配置的机制，
// 以及从文档组装运行中的缓存实例（包括其持久存储和日志器）的机制。
package configs

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Humphrey-He/tiercache/pkg/cache"
	"github.com/Humphrey-He/tiercache/pkg/store"
	redisstore "github.com/Humphrey-He/tiercache/pkg/store/redis"
)

// Store engine names accepted by StoreConfig.Engine.
// StoreConfig.Engine 接受的存储引擎名称。
const (
	StoreEngineNone   = "none"
	StoreEngineMemory = "memory"
	StoreEngineRedis  = "redis"
)

// Config represents the complete configuration for a tiered cache deployment.
// It contains all settings needed to configure the cache, its persistent
// store, metrics exposure, the admin HTTP surface, and logging, organized
// into logical sections.
//
// Config 表示分层缓存部署的完整配置。
// 它包含配置缓存、其持久存储、指标暴露、管理HTTP界面和日志所需的
// 所有设置，按逻辑部分组织。
type Config struct {
	// Cache contains the tier layout and engine tunables
	// Cache 包含层级布局和引擎可调参数
	Cache CacheConfig `json:"cache" yaml:"cache" mapstructure:"cache"`

	// Store selects and configures the persistent backing store
	// Store 选择并配置持久后备存储
	Store StoreConfig `json:"store" yaml:"store" mapstructure:"store"`

	// Metrics configures Prometheus metrics exposure
	// Metrics 配置Prometheus指标暴露
	Metrics MetricsConfig `json:"metrics" yaml:"metrics" mapstructure:"metrics"`

	// HTTP configures the administrative HTTP surface
	// HTTP 配置管理HTTP界面
	HTTP HTTPConfig `json:"http" yaml:"http" mapstructure:"http"`

	// Log configures the logging behavior
	// Log 配置日志行为
	Log LogConfig `json:"log" yaml:"log" mapstructure:"log"`

	// Extensions configures optional features like hot reloading
	// Extensions 配置可选功能，如热重载
	Extensions ExtensionsConfig `json:"extensions" yaml:"extensions" mapstructure:"extensions"`
}

// TierConfig declares one cache tier in a configuration document.
//
// TierConfig 在配置文档中声明一个缓存层级。
type TierConfig struct {
	// Name uniquely identifies the tier
	// Name 唯一标识层级
	Name string `json:"name" yaml:"name" mapstructure:"name"`

	// MaxSize is the maximum number of entries the tier may hold
	// MaxSize 是层级可以容纳的最大条目数
	MaxSize int `json:"max_size" yaml:"max_size" mapstructure:"max_size"`

	// DefaultTTL is applied to writes that carry no TTL of their own.
	// Viper-loaded documents may use unit strings such as "5m".
	// DefaultTTL 应用于未携带自己TTL的写入。
	// Viper加载的文档可以使用诸如"5m"的单位字符串。
	DefaultTTL time.Duration `json:"default_ttl" yaml:"default_ttl" mapstructure:"default_ttl"`

	// Weight ranks the tier; highest weight is consulted first
	// Weight 对层级进行排名；最高权重最先被查询
	Weight int `json:"weight" yaml:"weight" mapstructure:"weight"`
}

// CacheConfig contains the tier layout and core engine settings.
//
// CacheConfig 包含层级布局和核心引擎设置。
type CacheConfig struct {
	// Enable determines whether the cache is active
	// Enable 确定缓存是否处于活动状态
	Enable bool `json:"enable" yaml:"enable" mapstructure:"enable"`

	// Name is the identifier for this cache instance
	// Name 是此缓存实例的标识符
	Name string `json:"name" yaml:"name" mapstructure:"name"`

	// Tiers declares the tier hierarchy
	// Tiers 声明层级结构
	Tiers []TierConfig `json:"tiers" yaml:"tiers" mapstructure:"tiers"`

	// PromotionThreshold is the access count triggering promotion
	// PromotionThreshold 是触发提升的访问计数
	PromotionThreshold uint64 `json:"promotion_threshold" yaml:"promotion_threshold" mapstructure:"promotion_threshold"`

	// CleanupInterval is the period of the background expiry sweep
	// CleanupInterval 是后台过期清扫的周期
	CleanupInterval time.Duration `json:"cleanup_interval" yaml:"cleanup_interval" mapstructure:"cleanup_interval"`

	// MirrorQueueSize bounds the asynchronous write-through queue
	// MirrorQueueSize 限制异步写穿队列
	MirrorQueueSize int `json:"mirror_queue_size" yaml:"mirror_queue_size" mapstructure:"mirror_queue_size"`
}

// StoreConfig selects the persistent store backing the cache.
//
// StoreConfig 选择支持缓存的持久存储。
type StoreConfig struct {
	// Engine determines the store implementation: "none", "memory" or "redis"
	// Engine 确定存储实现："none"、"memory"或"redis"
	Engine string `json:"engine" yaml:"engine" mapstructure:"engine"`

	// Redis holds connection settings when Engine is "redis"
	// Redis 在Engine为"redis"时保存连接设置
	Redis redisstore.Config `json:"redis" yaml:"redis" mapstructure:"redis"`
}

// MetricsConfig contains settings for metrics exposure.
//
// MetricsConfig 包含指标暴露的设置。
type MetricsConfig struct {
	// Enable determines whether the Prometheus collector is registered
	// Enable 确定是否注册Prometheus收集器
	Enable bool `json:"enable" yaml:"enable" mapstructure:"enable"`

	// Path is the HTTP path serving the Prometheus scrape endpoint
	// Path 是提供Prometheus抓取端点的HTTP路径
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// HTTPConfig contains settings for the admin HTTP surface.
//
// HTTPConfig 包含管理HTTP界面的设置。
type HTTPConfig struct {
	// Enable determines whether the HTTP surface is served
	// Enable 确定是否提供HTTP界面
	Enable bool `json:"enable" yaml:"enable" mapstructure:"enable"`

	// Addr is the listen address, e.g. ":8080"
	// Addr 是监听地址，例如":8080"
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`
}

// LogConfig contains settings for logging.
//
// LogConfig 包含日志记录的设置。
type LogConfig struct {
	// Level sets the minimum log level ("debug", "info", "warn", "error")
	// Level 设置最低日志级别（"debug"、"info"、"warn"、"error"）
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format specifies the log format ("console", "json")
	// Format 指定日志格式（"console"、"json"）
	Format string `json:"format" yaml:"format" mapstructure:"format"`

	// Output determines where logs are written ("stdout", "stderr", or a file path)
	// Output 确定日志写入的位置（"stdout"、"stderr"或文件路径）
	Output string `json:"output" yaml:"output" mapstructure:"output"`
}

// ExtensionsConfig contains settings for optional features.
//
// ExtensionsConfig 包含可选功能的设置。
type ExtensionsConfig struct {
	// HotReload contains settings for dynamic configuration reloading
	// HotReload 包含动态配置重新加载的设置
	HotReload HotReloadConfig `json:"hot_reload" yaml:"hot_reload" mapstructure:"hot_reload"`
}

// HotReloadConfig contains settings for hot reloading.
//
// HotReloadConfig 包含热重载的设置。
type HotReloadConfig struct {
	// Enable determines whether hot reloading is active
	// Enable 确定是否启用热重载
	Enable bool `json:"enable" yaml:"enable" mapstructure:"enable"`

	// WatchInterval is how often the polling watcher checks for changes
	// WatchInterval 是轮询监视器检查更改的频率
	WatchInterval time.Duration `json:"watch_interval" yaml:"watch_interval" mapstructure:"watch_interval"`
}

// DefaultConfig returns a new Config with default values.
// This provides a starting point with a three-tier layout, no persistent
// store, and console logging, which can then be customized as needed.
//
// DefaultConfig 返回具有默认值的新Config。
// 这提供了一个起点：三层布局、无持久存储和控制台日志，
// 然后可以根据需要进行自定义。
//
// Returns:
//   - *Config: A new configuration instance with default values
func DefaultConfig() *Config {
	return &Config{
		Cache: CacheConfig{
			Enable: true,
			Name:   "tiercache",
			Tiers: []TierConfig{
				{Name: "hot", MaxSize: 1024, DefaultTTL: 5 * time.Minute, Weight: 100},
				{Name: "warm", MaxSize: 4096, DefaultTTL: 30 * time.Minute, Weight: 50},
				{Name: "cold", MaxSize: 16384, DefaultTTL: 2 * time.Hour, Weight: 10},
			},
			PromotionThreshold: 5,
			CleanupInterval:    60 * time.Second,
			MirrorQueueSize:    256,
		},
		Store: StoreConfig{
			Engine: StoreEngineNone,
			Redis: redisstore.Config{
				Addr:      "localhost:6379",
				KeyPrefix: "tiercache:",
			},
		},
		Metrics: MetricsConfig{
			Enable: true,
			Path:   "/metrics",
		},
		HTTP: HTTPConfig{
			Enable: false,
			Addr:   ":8080",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
			Output: "stdout",
		},
		Extensions: ExtensionsConfig{
			HotReload: HotReloadConfig{
				Enable:        false,
				WatchInterval: 30 * time.Second,
			},
		},
	}
}

// LoadFromFile loads configuration from a file.
// The format is chosen by file extension: .json, .yaml, or .yml.
//
// LoadFromFile 从文件加载配置。
// 格式由文件扩展名选择：.json、.yaml或.yml。
//
// Parameters:
//   - filename: Path to the configuration file
//
// Returns:
//   - *Config: The loaded configuration
//   - error: An error if loading fails
func LoadFromFile(filename string) (*Config, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open configuration file: %w", err)
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(filename))
	return LoadFromReader(file, strings.TrimPrefix(ext, "."))
}

// LoadFromReader loads configuration from an io.Reader.
// This allows loading configuration from sources other than files,
// such as network streams or in-memory data.
//
// LoadFromReader 从io.Reader加载配置。
// 这允许从文件以外的源加载配置，如网络流或内存中的数据。
//
// Parameters:
//   - r: The reader providing the configuration data
//   - format: The format of the data ("json", "yaml", or "yml")
//
// Returns:
//   - *Config: The loaded configuration
//   - error: An error if loading fails
func LoadFromReader(r io.Reader, format string) (*Config, error) {
	config := DefaultConfig()
	var err error

	switch strings.ToLower(format) {
	case "yaml", "yml":
		err = yaml.NewDecoder(r).Decode(config)
	case "json":
		err = json.NewDecoder(r).Decode(config)
	default:
		return nil, fmt.Errorf("unsupported configuration format: %s", format)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	return config, nil
}

// SaveToFile saves configuration to a file.
// It supports both YAML and JSON formats, automatically selecting the
// format based on the file extension.
//
// SaveToFile 将配置保存到文件。
// 它支持YAML和JSON格式，根据文件扩展名自动选择格式。
//
// Parameters:
//   - filename: Path where the configuration will be saved
//
// Returns:
//   - error: An error if saving fails
func (c *Config) SaveToFile(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create configuration file: %w", err)
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".yaml", ".yml":
		encoder := yaml.NewEncoder(file)
		defer encoder.Close()
		err = encoder.Encode(c)
	case ".json":
		encoder := json.NewEncoder(file)
		encoder.SetIndent("", "  ")
		err = encoder.Encode(c)
	default:
		return fmt.Errorf("unsupported configuration file format: %s", ext)
	}

	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	return nil
}

// Validate validates the configuration.
// It checks that all settings have valid values and that there are no
// conflicts or inconsistencies.
//
// Validate 验证配置。
// 它检查所有设置是否具有有效值，并且没有冲突或不一致。
//
// Returns:
//   - error: An error describing the validation failure, or nil if valid
func (c *Config) Validate() error {
	if len(c.Cache.Tiers) == 0 {
		return fmt.Errorf("cache.tiers must declare at least one tier")
	}
	seen := make(map[string]struct{}, len(c.Cache.Tiers))
	for _, tier := range c.Cache.Tiers {
		if tier.Name == "" {
			return fmt.Errorf("cache.tiers: tier name must not be empty")
		}
		if _, dup := seen[tier.Name]; dup {
			return fmt.Errorf("cache.tiers: duplicate tier name %q", tier.Name)
		}
		seen[tier.Name] = struct{}{}
		if tier.MaxSize <= 0 {
			return fmt.Errorf("cache.tiers: tier %q max_size must be positive", tier.Name)
		}
		if tier.DefaultTTL <= 0 {
			return fmt.Errorf("cache.tiers: tier %q default_ttl must be positive", tier.Name)
		}
	}

	if c.Cache.CleanupInterval < time.Second {
		return fmt.Errorf("cache.cleanup_interval must be at least 1 second")
	}
	if c.Cache.MirrorQueueSize < 0 {
		return fmt.Errorf("cache.mirror_queue_size must be non-negative")
	}

	switch c.Store.Engine {
	case "", StoreEngineNone, StoreEngineMemory:
	case StoreEngineRedis:
		if c.Store.Redis.Addr == "" {
			return fmt.Errorf("store.redis.addr must be set when store.engine is %q", StoreEngineRedis)
		}
	default:
		return fmt.Errorf("store.engine must be one of %q, %q, %q",
			StoreEngineNone, StoreEngineMemory, StoreEngineRedis)
	}

	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error")
	}
	switch c.Log.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json")
	}

	if c.HTTP.Enable && c.HTTP.Addr == "" {
		return fmt.Errorf("http.addr must be set when http.enable is true")
	}
	return nil
}

// BuildLogger constructs a zap logger from the Log section.
//
// BuildLogger 从Log部分构造zap日志器。
//
// Returns:
//   - *zap.Logger: The configured logger
//   - error: An error if the configuration cannot be built
func (c *Config) BuildLogger() (*zap.Logger, error) {
	zapConfig := zap.NewProductionConfig()
	if c.Log.Format == "console" || c.Log.Format == "" {
		zapConfig = zap.NewDevelopmentConfig()
	}

	level, err := zap.ParseAtomicLevel(defaultString(c.Log.Level, "info"))
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	zapConfig.Level = level
	zapConfig.OutputPaths = []string{defaultString(c.Log.Output, "stdout")}

	return zapConfig.Build()
}

// BuildStore constructs the persistent store named by the Store section.
// A "none" engine yields a nil store, which runs the cache memory-only.
//
// BuildStore 构造Store部分命名的持久存储。
// "none"引擎产生nil存储，使缓存仅在内存中运行。
//
// Returns:
//   - store.Store: The constructed store, or nil for the "none" engine
//   - error: An error for unknown engines
func (c *Config) BuildStore() (store.Store, error) {
	switch c.Store.Engine {
	case "", StoreEngineNone:
		return nil, nil
	case StoreEngineMemory:
		return store.NewMemoryStore(), nil
	case StoreEngineRedis:
		return redisstore.New(c.Store.Redis), nil
	default:
		return nil, fmt.Errorf("unknown store engine: %s", c.Store.Engine)
	}
}

// BuildCache assembles a running cache instance from the configuration:
// the logger, the persistent store, and the tier layout.
//
// BuildCache 从配置组装运行中的缓存实例：日志器、持久存储和层级布局。
//
// Returns:
//   - cache.ICache: The running cache instance
//   - error: An error if any component cannot be built
func (c *Config) BuildCache() (cache.ICache, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	logger, err := c.BuildLogger()
	if err != nil {
		return nil, err
	}
	backing, err := c.BuildStore()
	if err != nil {
		return nil, err
	}

	tiers := make([]cache.TierConfig, len(c.Cache.Tiers))
	for i, tier := range c.Cache.Tiers {
		tiers[i] = cache.TierConfig{
			Name:       tier.Name,
			MaxSize:    tier.MaxSize,
			DefaultTTL: tier.DefaultTTL,
			Weight:     tier.Weight,
		}
	}

	cacheConfig := cache.NewDefaultConfig().
		WithName(c.Cache.Name).
		WithTiers(tiers...).
		WithPromotionThreshold(c.Cache.PromotionThreshold).
		WithCleanupInterval(c.Cache.CleanupInterval).
		WithMirrorQueueSize(c.Cache.MirrorQueueSize).
		WithStore(backing).
		WithLogger(logger)

	return cache.New(cacheConfig)
}

// defaultString 返回s，若s为空则返回fallback
func defaultString(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
