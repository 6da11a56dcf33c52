// Package configs provides configuration structures and utilities for the
// tiered cache. This file implements Viper-based configuration management
// with hot reloading support.
//
// Package configs 提供分层缓存的配置结构和工具。
// 本文件实现基于Viper的配置管理，支持热重载。
package configs

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// ViperConfig wraps a Config with Viper functionality for hot reloading.
// It provides thread-safe access to configuration and supports dynamic
// updates when the underlying configuration file changes.
//
// ViperConfig 使用Viper功能包装Config以支持热重载。
// 它提供对配置的线程安全访问，并支持在底层配置文件更改时进行动态更新。
type ViperConfig struct {
	*Config                     // Embedded configuration / 嵌入的配置
	viper       *viper.Viper    // Viper instance for configuration management / 用于配置管理的Viper实例
	configFile  string          // Path to the configuration file / 配置文件路径
	mu          sync.RWMutex    // Mutex for thread-safe access / 用于线程安全访问的互斥锁
	subscribers []func(*Config) // Subscribers notified on config changes / 配置更改时通知的订阅者
}

// NewViperConfig creates a new ViperConfig.
// It loads configuration from the specified file and validates it.
// Duration fields accept unit strings such as "5m" or "60s".
//
// NewViperConfig 创建一个新的ViperConfig。
// 它从指定的文件加载配置并验证它。
// 持续时间字段接受诸如"5m"或"60s"的单位字符串。
//
// Parameters:
//   - configFile: Path to the configuration file
//
// Returns:
//   - *ViperConfig: A new ViperConfig instance
//   - error: An error if loading or validation fails
func NewViperConfig(configFile string) (*ViperConfig, error) {
	v := viper.New()

	v.SetConfigFile(configFile)
	ext := filepath.Ext(configFile)
	v.SetConfigType(strings.TrimPrefix(ext, "."))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &ViperConfig{
		Config:      config,
		viper:       v,
		configFile:  configFile,
		subscribers: make([]func(*Config), 0),
	}, nil
}

// EnableHotReload enables hot reloading of the configuration file.
// When the configuration file changes on disk, the configuration is
// automatically reloaded and all subscribers are notified. Invalid updates
// are logged and discarded, keeping the previous configuration active.
//
// EnableHotReload 启用配置文件的热重载。
// 当配置文件在磁盘上更改时，配置会自动重新加载，并通知所有订阅者。
// 无效的更新会被记录并丢弃，保持先前的配置生效。
func (vc *ViperConfig) EnableHotReload() {
	vc.viper.WatchConfig()
	vc.viper.OnConfigChange(func(e fsnotify.Event) {
		log.Printf("Config file changed: %s", e.Name)

		newConfig := DefaultConfig()
		if err := vc.viper.Unmarshal(newConfig); err != nil {
			log.Printf("Failed to unmarshal config: %v", err)
			return
		}
		if err := newConfig.Validate(); err != nil {
			log.Printf("Invalid configuration: %v", err)
			return
		}

		vc.mu.Lock()
		vc.Config = newConfig
		subscribers := make([]func(*Config), len(vc.subscribers))
		copy(subscribers, vc.subscribers)
		vc.mu.Unlock()

		for _, subscriber := range subscribers {
			subscriber(newConfig)
		}
	})
}

// Subscribe registers a function to be called whenever the configuration
// is reloaded.
//
// Subscribe 注册一个在配置重新加载时调用的函数。
//
// Parameters:
//   - subscriber: The function to call with the new configuration
func (vc *ViperConfig) Subscribe(subscriber func(*Config)) {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	vc.subscribers = append(vc.subscribers, subscriber)
}

// Get returns the current configuration.
// The returned pointer must be treated as read-only; a reload swaps the
// whole Config rather than mutating it.
//
// Get 返回当前配置。
// 返回的指针必须被视为只读；重新加载会替换整个Config而不是修改它。
//
// Returns:
//   - *Config: The current configuration
func (vc *ViperConfig) Get() *Config {
	vc.mu.RLock()
	defer vc.mu.RUnlock()
	return vc.Config
}

// LoadViperConfig loads a configuration file, optionally enabling
// fsnotify-based hot reloading.
//
// LoadViperConfig 加载配置文件，可选择启用基于fsnotify的热重载。
//
// Parameters:
//   - configFile: Path to the configuration file
//   - enableHotReload: Whether to watch the file for changes
//
// Returns:
//   - *ViperConfig: The loaded configuration wrapper
//   - error: An error if loading fails
func LoadViperConfig(configFile string, enableHotReload bool) (*ViperConfig, error) {
	vc, err := NewViperConfig(configFile)
	if err != nil {
		return nil, err
	}
	if enableHotReload {
		vc.EnableHotReload()
	}
	return vc, nil
}

// LoadViperConfigWithWatcher loads a configuration file and polls it for
// changes on a fixed interval. This is an alternative to fsnotify-based
// reloading for filesystems where change notification is unreliable,
// such as some network mounts.
//
// LoadViperConfigWithWatcher 加载配置文件并以固定间隔轮询其更改。
// 这是基于fsnotify的重载的替代方案，适用于更改通知不可靠的文件系统，
// 例如某些网络挂载。
//
// Parameters:
//   - configFile: Path to the configuration file
//   - watchInterval: How often to re-read the file
//
// Returns:
//   - *ViperConfig: The loaded configuration wrapper
//   - error: An error if loading fails
func LoadViperConfigWithWatcher(configFile string, watchInterval time.Duration) (*ViperConfig, error) {
	vc, err := NewViperConfig(configFile)
	if err != nil {
		return nil, err
	}

	go func() {
		ticker := time.NewTicker(watchInterval)
		defer ticker.Stop()

		for range ticker.C {
			if err := vc.viper.ReadInConfig(); err != nil {
				log.Printf("Failed to read config file: %v", err)
				continue
			}

			newConfig := DefaultConfig()
			if err := vc.viper.Unmarshal(newConfig); err != nil {
				log.Printf("Failed to unmarshal config: %v", err)
				continue
			}
			if err := newConfig.Validate(); err != nil {
				log.Printf("Invalid configuration: %v", err)
				continue
			}

			vc.mu.RLock()
			changed := !configsEqual(vc.Config, newConfig)
			vc.mu.RUnlock()
			if !changed {
				continue
			}

			log.Printf("Config file changed: %s", configFile)

			vc.mu.Lock()
			vc.Config = newConfig
			subscribers := make([]func(*Config), len(vc.subscribers))
			copy(subscribers, vc.subscribers)
			vc.mu.Unlock()

			for _, subscriber := range subscribers {
				subscriber(newConfig)
			}
		}
	}()

	return vc, nil
}

// configsEqual checks if two configs are equal by comparing their string
// representations. Good enough for change detection on small documents.
//
// configsEqual 通过比较字符串表示来检查两个配置是否相等。
// 对于小文档的变更检测足够了。
func configsEqual(c1, c2 *Config) bool {
	return fmt.Sprintf("%v", c1) == fmt.Sprintf("%v", c2)
}
