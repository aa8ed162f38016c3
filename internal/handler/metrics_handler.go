package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type metricsSource interface {
	Handler() http.Handler
}

// MetricsHandler exposes the client's observability endpoints.
type MetricsHandler struct {
	metrics metricsSource
}

// NewMetricsHandler constructs a metrics handler.
func NewMetricsHandler(metrics metricsSource) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

// Register mounts /metrics and /healthz on r.
func (h *MetricsHandler) Register(r gin.IRoutes) {
	r.GET("/metrics", h.Prometheus)
	r.GET("/healthz", h.Health)
}

// Prometheus serves the Prometheus scrape endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Health responds with a generic OK payload for liveness checks.
func (h *MetricsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// NewMetricsRouter builds the gin engine serving the metrics endpoints.
func NewMetricsRouter(metrics metricsSource) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	NewMetricsHandler(metrics).Register(r)
	return r
}
