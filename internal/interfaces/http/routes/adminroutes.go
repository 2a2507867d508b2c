package routes

import (
	"github.com/gin-gonic/gin"

	adminHandlers "github.com/carelog-health/carelog/internal/interfaces/http/handlers/admin"
	"github.com/carelog-health/carelog/internal/interfaces/http/middleware"
)

// AdminRouteConfig holds dependencies for admin-only routes.
type AdminRouteConfig struct {
	AdminEntitlementHandler *adminHandlers.AdminEntitlementHandler
	AuthMiddleware          *middleware.AuthMiddleware
}

// SetupAdminRoutes configures the support console routes.
func SetupAdminRoutes(engine *gin.Engine, cfg *AdminRouteConfig) {
	adminUsers := engine.Group("/api/v1/admin/users/:user_id")
	adminUsers.Use(cfg.AuthMiddleware.RequireAuth(), middleware.RequireAdmin())
	{
		adminUsers.GET("/entitlements", cfg.AdminEntitlementHandler.GetUserEntitlements)
		adminUsers.POST("/tokens", cfg.AdminEntitlementHandler.CreditTokens)
		adminUsers.GET("/billing-events", cfg.AdminEntitlementHandler.ListBillingEvents)
	}
}
