package handler

import (
	"context"
	"net/http"
	"time"
	"volunteer-match/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const healthCheckTimeout = 2 * time.Second

// HealthChecker is implemented by every backing store the service depends on.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// HealthHandler reports the state of the data store and, when configured, the
// session cache. A failing cache degrades the service but does not make it
// unhealthy.
type HealthHandler struct {
	database HealthChecker
	cache    HealthChecker
}

// NewHealthHandler creates a health handler. cache may be nil.
func NewHealthHandler(database, cache HealthChecker) *HealthHandler {
	return &HealthHandler{database: database, cache: cache}
}

func (h *HealthHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/health", h.Health)
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	if err := h.database.Health(ctx); err != nil {
		logger.Error("Database health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"message": "Database connection failed",
		})
		return
	}

	cacheStatus := "disabled"
	if h.cache != nil {
		cacheStatus = "healthy"
		if err := h.cache.Health(ctx); err != nil {
			logger.Warn("Session cache health check failed", zap.Error(err))
			cacheStatus = "degraded"
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "Service is running",
		"cache":   cacheStatus,
	})
}
