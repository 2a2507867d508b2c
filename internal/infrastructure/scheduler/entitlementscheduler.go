package scheduler

import (
	"context"
	"sync"
	"time"

	entitlementUsecases "github.com/carelog-health/carelog/internal/application/entitlement/usecases"
	"github.com/carelog-health/carelog/internal/shared/goroutine"
	"github.com/carelog-health/carelog/internal/shared/logger"
)

// EntitlementScheduler periodically downgrades pro users whose billing
// period lapsed without a renewal webhook. Webhooks are the primary path;
// the sweep catches deliveries that never arrived.
type EntitlementScheduler struct {
	expireLapsedUC *entitlementUsecases.ExpireLapsedUseCase
	logger         logger.Interface
	stopChan       chan struct{}
	stopOnce       sync.Once
	wg             sync.WaitGroup
	interval       time.Duration
}

// NewEntitlementScheduler creates a new EntitlementScheduler
func NewEntitlementScheduler(
	expireLapsedUC *entitlementUsecases.ExpireLapsedUseCase,
	logger logger.Interface,
	interval time.Duration,
) *EntitlementScheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	return &EntitlementScheduler{
		expireLapsedUC: expireLapsedUC,
		logger:         logger,
		stopChan:       make(chan struct{}),
		interval:       interval,
	}
}

// Start starts the scheduler
func (s *EntitlementScheduler) Start(ctx context.Context) {
	s.logger.Infow("starting entitlement scheduler", "interval", s.interval)

	s.wg.Add(1)
	goroutine.SafeGo(s.logger, "entitlement-scheduler", func() {
		defer s.wg.Done()
		s.runLoop(ctx)
	})
}

// Stop stops the scheduler gracefully
func (s *EntitlementScheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Infow("stopping entitlement scheduler")
		close(s.stopChan)
		s.wg.Wait()
		s.logger.Infow("entitlement scheduler stopped")
	})
}

func (s *EntitlementScheduler) runLoop(ctx context.Context) {
	// Run immediately on startup to clear any backlog from downtime. Each
	// sweep recovers its own panics so the loop keeps ticking.
	goroutine.Recovered(s.logger, "lapsed-subscription-sweep", func() {
		s.processLapsedSubscriptions(ctx)
	})

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Infow("entitlement scheduler stopped due to context cancellation")
			return
		case <-s.stopChan:
			s.logger.Infow("entitlement scheduler stopped")
			return
		case <-ticker.C:
			goroutine.Recovered(s.logger, "lapsed-subscription-sweep", func() {
				s.processLapsedSubscriptions(ctx)
			})
		}
	}
}

func (s *EntitlementScheduler) processLapsedSubscriptions(ctx context.Context) {
	s.logger.Debugw("lapsed subscription sweep started")

	startTime := time.Now()

	result, err := s.expireLapsedUC.Execute(ctx)
	if err != nil {
		s.logger.Errorw("failed to sweep lapsed subscriptions",
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	if result.Downgraded > 0 || result.Skipped > 0 {
		s.logger.Infow("lapsed subscriptions processed",
			"scanned", result.Scanned,
			"downgraded", result.Downgraded,
			"skipped", result.Skipped,
			"duration", time.Since(startTime),
		)
	} else {
		s.logger.Debugw("no lapsed subscriptions to process",
			"duration", time.Since(startTime),
		)
	}
}
