package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/carelog-health/carelog/internal/interfaces/http/handlers"
	"github.com/carelog-health/carelog/internal/interfaces/http/middleware"
)

// BillingRouteConfig holds dependencies for billing webhook routes.
type BillingRouteConfig struct {
	BillingWebhookHandler *handlers.BillingWebhookHandler
	WebhookAuthMiddleware *middleware.WebhookAuthMiddleware
	RateLimiter           *middleware.RateLimiter
}

// SetupBillingRoutes configures the billing provider webhook. The route is
// authenticated by the shared secret header, not by user tokens; the IP rate
// limit caps the damage if the secret leaks.
func SetupBillingRoutes(engine *gin.Engine, cfg *BillingRouteConfig) {
	billing := engine.Group("/api/v1/billing")
	billing.Use(cfg.RateLimiter.Limit())
	billing.Use(cfg.WebhookAuthMiddleware.RequireWebhookSecret())
	{
		billing.POST("/webhook", cfg.BillingWebhookHandler.HandleBillingEvent)
	}
}
