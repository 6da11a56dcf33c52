package configs

import (
	"testing"
	"time"
)

const viperTestDoc = `
cache:
  enable: true
  name: viper-cache
  promotion_threshold: 3
  cleanup_interval: 90s
  tiers:
    - name: fast
      max_size: 100
      default_ttl: 5m
      weight: 2
    - name: slow
      max_size: 1000
      default_ttl: 1h
      weight: 1
store:
  engine: memory
log:
  level: warn
`

// TestNewViperConfig verifies loading a YAML document through Viper,
// including unit-bearing duration strings.
//
// TestNewViperConfig 验证通过Viper加载YAML文档，包括带单位的持续时间字符串。
func TestNewViperConfig(t *testing.T) {
	path := writeTempConfig(t, "config.yaml", viperTestDoc)

	vc, err := NewViperConfig(path)
	if err != nil {
		t.Fatalf("NewViperConfig failed: %v", err)
	}

	config := vc.Get()
	if config.Cache.Name != "viper-cache" {
		t.Errorf("Name = %q, want viper-cache", config.Cache.Name)
	}
	if config.Cache.PromotionThreshold != 3 {
		t.Errorf("PromotionThreshold = %d, want 3", config.Cache.PromotionThreshold)
	}
	if config.Cache.CleanupInterval != 90*time.Second {
		t.Errorf("CleanupInterval = %v, want 90s", config.Cache.CleanupInterval)
	}
	if len(config.Cache.Tiers) != 2 {
		t.Fatalf("Tiers = %d, want 2", len(config.Cache.Tiers))
	}
	if config.Cache.Tiers[0].DefaultTTL != 5*time.Minute {
		t.Errorf("Tier TTL = %v, want 5m", config.Cache.Tiers[0].DefaultTTL)
	}
	if config.Store.Engine != StoreEngineMemory {
		t.Errorf("Store engine = %q, want memory", config.Store.Engine)
	}
	if config.Log.Level != "warn" {
		t.Errorf("Log level = %q, want warn", config.Log.Level)
	}
}

// TestNewViperConfigInvalid 验证无效文档被拒绝
func TestNewViperConfigInvalid(t *testing.T) {
	path := writeTempConfig(t, "config.yaml", `
cache:
  tiers:
    - name: only
      max_size: 0
      default_ttl: 5m
      weight: 1
`)

	if _, err := NewViperConfig(path); err == nil {
		t.Error("Expected error for invalid tier size")
	}
}

// TestViperConfigMissingFile 验证缺失文件返回错误
func TestViperConfigMissingFile(t *testing.T) {
	if _, err := NewViperConfig("/nonexistent/config.yaml"); err == nil {
		t.Error("Expected error for missing file")
	}
}

// TestViperConfigSubscribe 验证订阅者注册不会干扰读取
func TestViperConfigSubscribe(t *testing.T) {
	path := writeTempConfig(t, "config.yaml", viperTestDoc)

	vc, err := LoadViperConfig(path, false)
	if err != nil {
		t.Fatalf("LoadViperConfig failed: %v", err)
	}

	notified := make(chan *Config, 1)
	vc.Subscribe(func(c *Config) { notified <- c })

	// Without hot reload the subscriber is dormant but reads keep working.
	// 没有热重载时订阅者处于休眠状态，但读取继续工作。
	if vc.Get().Cache.Name != "viper-cache" {
		t.Errorf("Get after Subscribe returned wrong config")
	}
	select {
	case <-notified:
		t.Error("Subscriber fired without a config change")
	default:
	}
}
