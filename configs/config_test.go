package configs

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestDefaultConfig 验证默认配置通过验证且层级布局完整
func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if err := config.Validate(); err != nil {
		t.Errorf("Default config failed validation: %v", err)
	}
	if len(config.Cache.Tiers) != 3 {
		t.Errorf("Default tiers = %d, want 3", len(config.Cache.Tiers))
	}
	if config.Cache.Tiers[0].Name != "hot" || config.Cache.Tiers[0].Weight != 100 {
		t.Errorf("Top tier = %+v, want hot with weight 100", config.Cache.Tiers[0])
	}
	if config.Store.Engine != StoreEngineNone {
		t.Errorf("Default store engine = %q, want none", config.Store.Engine)
	}
}

// TestValidate 覆盖验证的失败路径
func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no tiers", func(c *Config) { c.Cache.Tiers = nil }},
		{"empty tier name", func(c *Config) { c.Cache.Tiers[0].Name = "" }},
		{"duplicate tier", func(c *Config) { c.Cache.Tiers[1].Name = c.Cache.Tiers[0].Name }},
		{"zero tier size", func(c *Config) { c.Cache.Tiers[0].MaxSize = 0 }},
		{"zero tier ttl", func(c *Config) { c.Cache.Tiers[0].DefaultTTL = 0 }},
		{"short cleanup interval", func(c *Config) { c.Cache.CleanupInterval = 100 * time.Millisecond }},
		{"unknown store engine", func(c *Config) { c.Store.Engine = "cassandra" }},
		{"redis without addr", func(c *Config) {
			c.Store.Engine = StoreEngineRedis
			c.Store.Redis.Addr = ""
		}},
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }},
		{"http without addr", func(c *Config) {
			c.HTTP.Enable = true
			c.HTTP.Addr = ""
		}},
	}

	for _, tc := range cases {
		config := DefaultConfig()
		tc.mutate(config)
		if err := config.Validate(); err == nil {
			t.Errorf("Validate(%s): expected error", tc.name)
		}
	}
}

// TestSaveAndLoadRoundTrip verifies a config survives a save/load cycle in
// both supported formats.
//
// TestSaveAndLoadRoundTrip 验证配置在两种支持的格式中都能经受保存/加载循环。
func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"config.yaml", "config.json"} {
		path := filepath.Join(dir, name)

		original := DefaultConfig()
		original.Cache.Name = "round-trip"
		original.Cache.PromotionThreshold = 7
		if err := original.SaveToFile(path); err != nil {
			t.Fatalf("SaveToFile(%s) failed: %v", name, err)
		}

		loaded, err := LoadFromFile(path)
		if err != nil {
			t.Fatalf("LoadFromFile(%s) failed: %v", name, err)
		}
		if loaded.Cache.Name != "round-trip" {
			t.Errorf("%s: loaded name = %q, want round-trip", name, loaded.Cache.Name)
		}
		if loaded.Cache.PromotionThreshold != 7 {
			t.Errorf("%s: loaded threshold = %d, want 7", name, loaded.Cache.PromotionThreshold)
		}
		if len(loaded.Cache.Tiers) != 3 {
			t.Errorf("%s: loaded tiers = %d, want 3", name, len(loaded.Cache.Tiers))
		}
	}
}

// TestLoadFromReader 验证从内存文档加载与未知格式拒绝
func TestLoadFromReader(t *testing.T) {
	doc := `{"cache": {"name": "from-reader"}}`
	config, err := LoadFromReader(strings.NewReader(doc), "json")
	if err != nil {
		t.Fatalf("LoadFromReader failed: %v", err)
	}
	if config.Cache.Name != "from-reader" {
		t.Errorf("Name = %q, want from-reader", config.Cache.Name)
	}
	// Sections absent from the document keep defaults.
	// 文档中缺失的部分保留默认值。
	if len(config.Cache.Tiers) != 3 {
		t.Errorf("Tiers = %d, want 3 defaults", len(config.Cache.Tiers))
	}

	if _, err := LoadFromReader(strings.NewReader("x"), "toml"); err == nil {
		t.Error("Expected error for unsupported format")
	}
}

// TestLoadFromFileMissing 验证缺失文件返回错误
func TestLoadFromFileMissing(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "nosuch.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}

// TestBuildCache 验证从配置组装可工作的缓存实例
func TestBuildCache(t *testing.T) {
	config := DefaultConfig()
	config.Cache.Name = "built"
	config.Store.Engine = StoreEngineMemory

	c, err := config.BuildCache()
	if err != nil {
		t.Fatalf("BuildCache failed: %v", err)
	}
	defer c.Close()

	sizes, err := c.Size(context.Background())
	if err != nil {
		t.Fatalf("Size failed: %v", err)
	}
	if len(sizes) != 3 {
		t.Errorf("Built cache has %d tiers, want 3", len(sizes))
	}
}

// TestBuildStore 验证各存储引擎的构造
func TestBuildStore(t *testing.T) {
	config := DefaultConfig()

	if st, err := config.BuildStore(); err != nil || st != nil {
		t.Errorf("BuildStore(none) = (%v, %v), want (nil, nil)", st, err)
	}

	config.Store.Engine = StoreEngineMemory
	if st, err := config.BuildStore(); err != nil || st == nil {
		t.Errorf("BuildStore(memory) = (%v, %v), want store", st, err)
	}

	config.Store.Engine = "invalid"
	if _, err := config.BuildStore(); err == nil {
		t.Error("Expected error for unknown engine")
	}
}

// TestBuildLogger 验证日志器构造与无效级别拒绝
func TestBuildLogger(t *testing.T) {
	config := DefaultConfig()
	logger, err := config.BuildLogger()
	if err != nil {
		t.Fatalf("BuildLogger failed: %v", err)
	}
	logger.Sync()

	config.Log.Level = "shout"
	if _, err := config.BuildLogger(); err == nil {
		t.Error("Expected error for invalid log level")
	}
}

// writeTempConfig 将文档写入临时文件并返回其路径
func writeTempConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write temp config: %v", err)
	}
	return path
}
