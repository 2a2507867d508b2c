package http

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	entitlementUsecases "github.com/carelog-health/carelog/internal/application/entitlement/usecases"
	"github.com/carelog-health/carelog/internal/domain/catalog"
	"github.com/carelog-health/carelog/internal/domain/entitlement"
	"github.com/carelog-health/carelog/internal/infrastructure/auth"
	"github.com/carelog-health/carelog/internal/infrastructure/cache"
	"github.com/carelog-health/carelog/internal/infrastructure/config"
	"github.com/carelog-health/carelog/internal/infrastructure/scheduler"
	"github.com/carelog-health/carelog/internal/interfaces/http/middleware"
	"github.com/carelog-health/carelog/internal/shared/logger"
)

// Container holds all infrastructure components, repositories, use cases,
// handlers, and background services. It is responsible for wiring everything
// together and providing a Shutdown() method for graceful termination.
type Container struct {
	// Core infrastructure
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	// Repositories
	repos *repositories

	// Use cases
	ucs *allUseCases

	// Handlers
	hdlrs *allHandlers

	// Middlewares
	authMiddleware        *middleware.AuthMiddleware
	webhookAuthMiddleware *middleware.WebhookAuthMiddleware
	rateLimiter           *middleware.RateLimiter

	// Auth infrastructure
	jwtSvc *auth.JWTService

	// Entitlement core shared across use cases
	entitlementCache *cache.RedisEntitlementStateCache
	snapshots        *entitlementUsecases.SnapshotService
	gate             *entitlement.Gate
	catalog          *catalog.Catalog

	// Background services
	entitlementScheduler *scheduler.EntitlementScheduler
}

// NewContainer creates a new Container with all dependencies wired together.
func NewContainer(db *gorm.DB, cfg *config.Config, log logger.Interface) *Container {
	c := &Container{
		engine: gin.New(),
		db:     db,
		cfg:    cfg,
		log:    log,
	}

	// Section 1: Infrastructure - Redis, repositories, auth, middlewares
	c.initInfrastructure()

	// Section 2: Entitlement - snapshot service, gate, use cases, sweep
	c.initEntitlement()

	// Section 3: Catalog - embedded products, markdown rendering
	c.initCatalog()

	// Section 4: Handlers
	c.initHandlers()

	return c
}
