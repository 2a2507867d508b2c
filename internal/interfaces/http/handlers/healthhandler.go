package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/carelog-health/carelog/internal/shared/logger"
)

// HealthHandler reports process liveness and dependency reachability.
type HealthHandler struct {
	db     *gorm.DB
	redis  *redis.Client
	logger logger.Interface
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *gorm.DB, redisClient *redis.Client, logger logger.Interface) *HealthHandler {
	return &HealthHandler{
		db:     db,
		redis:  redisClient,
		logger: logger,
	}
}

// Check handles GET /healthz. The load balancer polls this; a degraded
// dependency turns into a 503 so the instance drains.
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := gin.H{
		"status":  "healthy",
		"service": "carelog-entitlements",
	}
	healthy := true

	if sqlDB, err := h.db.DB(); err != nil {
		status["database"] = "error"
		healthy = false
	} else if err := sqlDB.PingContext(ctx); err != nil {
		h.logger.Warnw("health check database ping failed", "error", err)
		status["database"] = "unreachable"
		healthy = false
	} else {
		status["database"] = "ok"
	}

	if err := h.redis.Ping(ctx).Err(); err != nil {
		h.logger.Warnw("health check redis ping failed", "error", err)
		status["redis"] = "unreachable"
		healthy = false
	} else {
		status["redis"] = "ok"
	}

	if !healthy {
		status["status"] = "degraded"
		c.JSON(http.StatusServiceUnavailable, status)
		return
	}

	c.JSON(http.StatusOK, status)
}
