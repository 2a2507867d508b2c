// Package routes provides HTTP route configurations.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/carelog-health/carelog/internal/interfaces/http/handlers"
	"github.com/carelog-health/carelog/internal/interfaces/http/middleware"
)

// EntitlementRouteConfig holds dependencies for entitlement routes.
type EntitlementRouteConfig struct {
	EntitlementHandler *handlers.EntitlementHandler
	AuthMiddleware     *middleware.AuthMiddleware
	RateLimiter        *middleware.RateLimiter
}

// SetupEntitlementRoutes configures the entitlement surface the mobile apps
// call. Every route requires authentication; the per-user rate limit keeps a
// misbehaving client from hammering the consume path.
func SetupEntitlementRoutes(engine *gin.Engine, cfg *EntitlementRouteConfig) {
	entitlements := engine.Group("/api/v1/entitlements")
	entitlements.Use(cfg.AuthMiddleware.RequireAuth())
	entitlements.Use(cfg.RateLimiter.LimitPerUser())
	{
		entitlements.GET("", cfg.EntitlementHandler.GetEntitlements)
		entitlements.GET("/check", cfg.EntitlementHandler.CheckFeature)
		entitlements.POST("/consume", cfg.EntitlementHandler.ConsumeFeature)
		entitlements.POST("/shields/use", cfg.EntitlementHandler.UseStreakShield)
	}
}
