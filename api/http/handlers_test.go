package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Humphrey-He/tiercache/pkg/cache"
)

// newTestRouter 构建带有小型缓存的测试路由器
func newTestRouter(t *testing.T) (*gin.Engine, cache.ICache) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	c, err := cache.NewWithOptions("admin-test",
		cache.WithTierLayout(
			cache.TierConfig{Name: "hot", MaxSize: 4, DefaultTTL: time.Hour, Weight: 10},
			cache.TierConfig{Name: "cold", MaxSize: 8, DefaultTTL: time.Hour, Weight: 1},
		),
		cache.WithCleanupInterval(time.Hour),
	)
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}
	t.Cleanup(func() { c.Close() })

	return NewRouter(c, nil, nil), c
}

// do 执行一次测试请求并返回记录器
func do(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	router.ServeHTTP(w, req)
	return w
}

// TestStatsEndpoint 验证统计端点返回计数器
func TestStatsEndpoint(t *testing.T) {
	router, c := newTestRouter(t)
	ctx := context.Background()

	c.Set(ctx, "k", "v")
	c.Get(ctx, "k")
	c.Get(ctx, "missing")

	w := do(router, http.MethodGet, "/cache/stats")
	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", w.Code)
	}

	var stats cache.Stats
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("Hits/Misses = %d/%d, want 1/1", stats.Hits, stats.Misses)
	}
	if len(stats.Tiers) != 2 {
		t.Errorf("Tiers = %d, want 2", len(stats.Tiers))
	}
}

// TestSizeEndpoint 验证占用端点
func TestSizeEndpoint(t *testing.T) {
	router, c := newTestRouter(t)
	c.Set(context.Background(), "k", "v")

	w := do(router, http.MethodGet, "/cache/size")
	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", w.Code)
	}

	var body struct {
		Tiers []cache.TierSize `json:"tiers"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(body.Tiers) != 2 || body.Tiers[0].Items != 1 {
		t.Errorf("Tiers = %+v, want hot tier with 1 item", body.Tiers)
	}
}

// TestClearEndpoints 验证整体与定向清除端点
func TestClearEndpoints(t *testing.T) {
	router, c := newTestRouter(t)
	ctx := context.Background()

	c.Set(ctx, "h", 1)
	c.Set(ctx, "c", 1, cache.WithTier("cold"))

	if w := do(router, http.MethodDelete, "/cache/tiers/cold"); w.Code != http.StatusOK {
		t.Fatalf("Clear tier status = %d, want 200", w.Code)
	}
	if _, found, _ := c.Get(ctx, "c"); found {
		t.Error("Expected cold entry gone")
	}
	if _, found, _ := c.Get(ctx, "h"); !found {
		t.Error("Expected hot entry to survive")
	}

	if w := do(router, http.MethodDelete, "/cache/tiers/nosuch"); w.Code != http.StatusNotFound {
		t.Errorf("Unknown tier status = %d, want 404", w.Code)
	}

	if w := do(router, http.MethodDelete, "/cache"); w.Code != http.StatusOK {
		t.Fatalf("Clear status = %d, want 200", w.Code)
	}
	if _, found, _ := c.Get(ctx, "h"); found {
		t.Error("Expected all entries gone")
	}
}

// TestCleanupEndpoint 验证按需清扫端点删除过期条目
func TestCleanupEndpoint(t *testing.T) {
	router, c := newTestRouter(t)
	ctx := context.Background()

	c.Set(ctx, "stale", 1, cache.WithSetTTL(20*time.Millisecond))
	time.Sleep(50 * time.Millisecond)

	w := do(router, http.MethodPost, "/cache/cleanup")
	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", w.Code)
	}

	var body struct {
		Removed int `json:"removed"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body.Removed != 1 {
		t.Errorf("Removed = %d, want 1", body.Removed)
	}
}

// TestCleanupNotSupported 验证不支持清扫的实现返回501
func TestCleanupNotSupported(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := cache.NewMockCache("mock", 10)
	router := NewRouter(mock, nil, nil)

	if w := do(router, http.MethodPost, "/cache/cleanup"); w.Code != http.StatusNotImplemented {
		t.Errorf("Status = %d, want 501", w.Code)
	}
}

// TestHealthzEndpoint 验证存活探针
func TestHealthzEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	if w := do(router, http.MethodGet, "/healthz"); w.Code != http.StatusOK {
		t.Errorf("Status = %d, want 200", w.Code)
	}
}

// TestMetricsEndpoint verifies the Prometheus scrape endpoint serves
// registered collectors.
//
// TestMetricsEndpoint 验证Prometheus抓取端点提供已注册的收集器。
func TestMetricsEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)

	registry := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_counter_total"})
	registry.MustRegister(counter)
	counter.Inc()

	mock := cache.NewMockCache("mock", 10)
	router := NewRouter(mock, nil, registry)

	w := do(router, http.MethodGet, "/metrics")
	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", w.Code)
	}
	if body := w.Body.String(); !strings.Contains(body, "test_counter_total 1") {
		t.Errorf("Metrics body missing counter, got:\n%s", body)
	}
}
