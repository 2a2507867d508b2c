package http

import (
	"context"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/carelog-health/carelog/internal/interfaces/http/middleware"
	"github.com/carelog-health/carelog/internal/interfaces/http/routes"

	_ "github.com/carelog-health/carelog/docs"
)

// SetupRoutes configures all HTTP routes.
func (c *Container) SetupRoutes() {
	c.engine.Use(middleware.Logger(c.log))
	c.engine.Use(middleware.Recovery(c.log))
	c.engine.Use(middleware.CORS(c.cfg.Server.AllowedOrigins))
	c.engine.Use(middleware.SecurityHeaders())

	c.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	c.engine.GET("/healthz", c.hdlrs.healthHandler.Check)

	routes.SetupEntitlementRoutes(c.engine, &routes.EntitlementRouteConfig{
		EntitlementHandler: c.hdlrs.entitlementHandler,
		AuthMiddleware:     c.authMiddleware,
		RateLimiter:        c.rateLimiter,
	})

	routes.SetupProductRoutes(c.engine, &routes.ProductRouteConfig{
		ProductHandler: c.hdlrs.productHandler,
		AuthMiddleware: c.authMiddleware,
	})

	routes.SetupBillingRoutes(c.engine, &routes.BillingRouteConfig{
		BillingWebhookHandler: c.hdlrs.billingWebhookHandler,
		WebhookAuthMiddleware: c.webhookAuthMiddleware,
		RateLimiter:           c.rateLimiter,
	})

	routes.SetupAdminRoutes(c.engine, &routes.AdminRouteConfig{
		AdminEntitlementHandler: c.hdlrs.adminEntitlementHandler,
		AuthMiddleware:          c.authMiddleware,
	})
}

// GetEngine returns the Gin engine.
func (c *Container) GetEngine() *gin.Engine {
	return c.engine
}

// Run starts the HTTP server.
func (c *Container) Run(addr string) error {
	return c.engine.Run(addr)
}

// StartScheduler starts the lapsed-subscription sweep in the background.
func (c *Container) StartScheduler(ctx context.Context) {
	if c.entitlementScheduler != nil {
		c.entitlementScheduler.Start(ctx)
	}
}

// Shutdown gracefully stops background services and closes the Redis client.
// The HTTP server itself is shut down by the caller.
func (c *Container) Shutdown() {
	if c.entitlementScheduler != nil {
		c.entitlementScheduler.Stop()
	}

	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Errorw("failed to close redis client", "error", err)
		}
	}
}
