package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	entitlementUsecases "github.com/carelog-health/carelog/internal/application/entitlement/usecases"
	"github.com/carelog-health/carelog/internal/infrastructure/cache"
	"github.com/carelog-health/carelog/internal/infrastructure/config"
	"github.com/carelog-health/carelog/internal/infrastructure/database"
	"github.com/carelog-health/carelog/internal/infrastructure/repository"
	"github.com/carelog-health/carelog/internal/infrastructure/scheduler"
	"github.com/carelog-health/carelog/internal/shared/biztime"
	"github.com/carelog-health/carelog/internal/shared/logger"
)

// The worker runs the lapsed-subscription sweep as a standalone process for
// deployments that keep background work out of the API pods. The API server
// runs the same sweep in-process; exactly one of the two should have it
// enabled per environment.
func main() {
	// Parse environment from command line or env variable
	env := "development"
	if len(os.Args) > 1 {
		env = os.Args[1]
	}
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	// Load configuration
	cfg, err := config.Load(env)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(&cfg.Logger, "release"); err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger()
	log.Infow("starting entitlement sweep worker", "environment", env)

	if err := biztime.Init(cfg.Entitlement.DefaultTimezone); err != nil {
		log.Fatalw("failed to initialize default timezone", "error", err)
	}

	// Initialize database
	if err := database.Init(&cfg.Database); err != nil {
		log.Fatalw("failed to initialize database", "error", err)
	}
	defer database.Close()

	// Initialize Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	// Test Redis connection
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalw("failed to connect to redis", "error", err)
	}
	log.Infow("redis connection established", "address", cfg.Redis.GetAddr())

	// The sweep shares the cache with the API so downgrades invalidate the
	// snapshots the server would otherwise keep serving until TTL.
	entitlementRepo := repository.NewUserEntitlementStateRepository(database.Get(), log)
	entitlementCache := cache.NewRedisEntitlementStateCache(
		redisClient,
		time.Duration(cfg.Entitlement.CacheTTLMinutes)*time.Minute,
		log,
	)
	snapshots := entitlementUsecases.NewSnapshotService(entitlementRepo, entitlementCache, log)
	expireLapsedUC := entitlementUsecases.NewExpireLapsedUseCase(
		snapshots,
		entitlementRepo,
		log,
		cfg.Billing.GraceDays,
		0,
	)

	sweepInterval := time.Duration(cfg.Entitlement.SweepIntervalMinutes) * time.Minute
	sweeper := scheduler.NewEntitlementScheduler(expireLapsedUC, log.Named("scheduler"), sweepInterval)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sweeper.Start(ctx)
	log.Infow("entitlement sweep worker started", "interval", sweepInterval)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	log.Infow("received signal, shutting down", "signal", sig)
	sweeper.Stop()
	log.Infow("entitlement sweep worker stopped")
}
