// Package http provides a Gin-based administrative HTTP surface for a
// tiered cache instance: statistics, per-tier occupancy, clearing,
// health checking, and Prometheus metrics exposure.
//
// Package http 为分层缓存实例提供基于Gin的管理HTTP界面：
// 统计信息、每层级占用、清除、健康检查和Prometheus指标暴露。
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Humphrey-He/tiercache/pkg/cache"
	"github.com/Humphrey-He/tiercache/pkg/errors"
)

// forceCleaner is implemented by cache instances that can run an expiry
// sweep on demand.
//
// forceCleaner 由可以按需运行过期清扫的缓存实例实现。
type forceCleaner interface {
	ForceClean() int
}

// Handler serves administrative endpoints for one cache instance.
//
// Handler 为一个缓存实例提供管理端点。
type Handler struct {
	cache  cache.ICache
	logger *zap.Logger
}

// NewHandler creates an admin handler for a cache instance.
//
// NewHandler 为缓存实例创建管理处理器。
//
// Parameters:
//   - c: The cache instance to administer
//   - logger: Structured logger; nil selects a no-op logger
//
// Returns:
//   - *Handler: The admin handler
func NewHandler(c cache.ICache, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{cache: c, logger: logger}
}

// Register wires the admin endpoints onto a router:
//
//	GET    /cache/stats        statistics snapshot
//	GET    /cache/size         per-tier occupancy
//	DELETE /cache              clear every tier and the persistent store
//	DELETE /cache/tiers/:name  clear one tier
//	POST   /cache/cleanup      run an expiry sweep immediately
//	GET    /healthz            liveness probe
//
// Register 将管理端点接到路由器上。
//
// Parameters:
//   - router: The Gin router or route group to attach to
func (h *Handler) Register(router gin.IRouter) {
	router.GET("/cache/stats", h.getStats)
	router.GET("/cache/size", h.getSize)
	router.DELETE("/cache", h.clear)
	router.DELETE("/cache/tiers/:name", h.clearTier)
	router.POST("/cache/cleanup", h.cleanup)
	router.GET("/healthz", h.healthz)
}

// RegisterMetrics exposes a Prometheus scrape endpoint on the router.
//
// RegisterMetrics 在路由器上暴露Prometheus抓取端点。
//
// Parameters:
//   - router: The Gin router or route group to attach to
//   - path: The scrape path, e.g. "/metrics"
//   - gatherer: The Prometheus gatherer to serve
func (h *Handler) RegisterMetrics(router gin.IRouter, path string, gatherer prometheus.Gatherer) {
	handler := promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
	router.GET(path, gin.WrapH(handler))
}

// getStats GET /cache/stats
func (h *Handler) getStats(c *gin.Context) {
	stats, err := h.cache.Stats(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to collect cache stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to collect cache stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// getSize GET /cache/size
func (h *Handler) getSize(c *gin.Context) {
	sizes, err := h.cache.Size(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to collect tier sizes", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to collect tier sizes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tiers": sizes})
}

// clear DELETE /cache
func (h *Handler) clear(c *gin.Context) {
	if err := h.cache.Clear(c.Request.Context()); err != nil {
		h.logger.Error("failed to clear cache", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear cache"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

// clearTier DELETE /cache/tiers/:name
func (h *Handler) clearTier(c *gin.Context) {
	name := c.Param("name")
	if err := h.cache.ClearTier(c.Request.Context(), name); err != nil {
		if errors.IsTierNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown tier", "tier": name})
			return
		}
		h.logger.Error("failed to clear tier", zap.String("tier", name), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear tier"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cleared", "tier": name})
}

// cleanup POST /cache/cleanup
func (h *Handler) cleanup(c *gin.Context) {
	cleaner, ok := h.cache.(forceCleaner)
	if !ok {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "cache does not support on-demand cleanup"})
		return
	}
	removed := cleaner.ForceClean()
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

// healthz GET /healthz
func (h *Handler) healthz(c *gin.Context) {
	// The cache degrades to memory-only on store failures, so liveness is
	// simply "the instance answers".
	// 缓存在存储失败时降级为仅内存，因此存活性就是"实例有响应"。
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// NewRouter builds a ready-to-serve Gin engine with the admin endpoints
// and, when a gatherer is supplied, a /metrics scrape endpoint.
//
// NewRouter 构建一个随时可用的Gin引擎，包含管理端点，
// 并在提供gatherer时包含/metrics抓取端点。
//
// Parameters:
//   - c: The cache instance to administer
//   - logger: Structured logger; nil selects a no-op logger
//   - gatherer: Optional Prometheus gatherer; nil skips /metrics
//
// Returns:
//   - *gin.Engine: The configured router
func NewRouter(c cache.ICache, logger *zap.Logger, gatherer prometheus.Gatherer) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	handler := NewHandler(c, logger)
	handler.Register(router)
	if gatherer != nil {
		handler.RegisterMetrics(router, "/metrics", gatherer)
	}
	return router
}
