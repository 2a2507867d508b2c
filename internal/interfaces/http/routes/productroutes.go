package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/carelog-health/carelog/internal/interfaces/http/handlers"
	"github.com/carelog-health/carelog/internal/interfaces/http/middleware"
)

// ProductRouteConfig holds dependencies for product catalog routes.
type ProductRouteConfig struct {
	ProductHandler *handlers.ProductHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// SetupProductRoutes configures the catalog routes. The catalog holds no user
// data, so the routes accept anonymous requests; the marketing site reads the
// same prices the in-app paywall does.
func SetupProductRoutes(engine *gin.Engine, cfg *ProductRouteConfig) {
	products := engine.Group("/api/v1/products")
	products.Use(cfg.AuthMiddleware.OptionalAuth())
	{
		products.GET("", cfg.ProductHandler.ListProducts)
		products.GET("/:id", cfg.ProductHandler.GetProduct)
	}
}
