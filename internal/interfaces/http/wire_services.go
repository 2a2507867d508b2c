package http

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carelog-health/carelog/internal/infrastructure/auth"
	"github.com/carelog-health/carelog/internal/infrastructure/cache"
	"github.com/carelog-health/carelog/internal/infrastructure/config"
	"github.com/carelog-health/carelog/internal/interfaces/http/middleware"
	"github.com/carelog-health/carelog/internal/shared/logger"
)

// ============================================================
// Section 1: Infrastructure - Redis, Repositories, Basic Services
// ============================================================

// initInfrastructure initializes Redis, repositories, the JWT verifier, and
// the middlewares that do not depend on use cases.
func (c *Container) initInfrastructure() {
	cfg := c.cfg
	log := c.log
	db := c.db

	// Initialize Redis client
	c.redis = initRedis(cfg, log)

	// Initialize all repositories
	c.repos = newRepositories(db, log)

	// Initialize auth services. This service only verifies tokens issued by
	// the account service; both share the signing secret.
	c.jwtSvc = auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.AccessExpMinutes, cfg.Auth.JWT.RefreshExpDays)

	// Initialize early middlewares
	c.authMiddleware = middleware.NewAuthMiddleware(c.jwtSvc, log)
	c.webhookAuthMiddleware = middleware.NewWebhookAuthMiddleware(cfg.Billing.WebhookSecret, log)
	c.rateLimiter = middleware.NewRateLimiter(c.redis, 100, 1*time.Minute)

	// Initialize entitlement snapshot cache
	cacheTTL := time.Duration(cfg.Entitlement.CacheTTLMinutes) * time.Minute
	c.entitlementCache = cache.NewRedisEntitlementStateCache(c.redis, cacheTTL, log.Named("cache"))
}

// initRedis creates and tests the Redis client connection.
func initRedis(cfg *config.Config, log logger.Interface) *redis.Client {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalw("failed to connect to Redis", "error", err)
	}
	log.Infow("Redis connection established successfully")

	return redisClient
}
