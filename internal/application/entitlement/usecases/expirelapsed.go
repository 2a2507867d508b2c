package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/carelog-health/carelog/internal/domain/entitlement"
	"github.com/carelog-health/carelog/internal/shared/biztime"
	"github.com/carelog-health/carelog/internal/shared/logger"
)

const (
	defaultLapseGraceDays = 3
	defaultLapseBatchSize = 100
)

// ExpireLapsedResult reports one sweep of the lapse downgrade job.
type ExpireLapsedResult struct {
	Scanned    int
	Downgraded int
	Skipped    int
}

// ExpireLapsedUseCase downgrades pro users whose billing period ended and
// was never renewed. Webhooks normally handle this; the sweep is the safety
// net for deliveries that never arrived.
type ExpireLapsedUseCase struct {
	snapshots *SnapshotService
	repo      entitlement.Repository
	logger    logger.Interface
	graceDays int
	batchSize int
}

func NewExpireLapsedUseCase(
	snapshots *SnapshotService,
	repo entitlement.Repository,
	logger logger.Interface,
	graceDays int,
	batchSize int,
) *ExpireLapsedUseCase {
	if graceDays < 0 {
		graceDays = defaultLapseGraceDays
	}
	if batchSize <= 0 {
		batchSize = defaultLapseBatchSize
	}
	return &ExpireLapsedUseCase{
		snapshots: snapshots,
		repo:      repo,
		logger:    logger,
		graceDays: graceDays,
		batchSize: batchSize,
	}
}

func (uc *ExpireLapsedUseCase) Execute(ctx context.Context) (*ExpireLapsedResult, error) {
	cutoff := biztime.NowUTC().AddDate(0, 0, -uc.graceDays)

	lapsed, err := uc.repo.ListLapsedPro(ctx, cutoff, uc.batchSize)
	if err != nil {
		uc.logger.Errorw("failed to list lapsed pro users", "error", err)
		return nil, fmt.Errorf("failed to list lapsed pro users: %w", err)
	}

	result := &ExpireLapsedResult{Scanned: len(lapsed)}
	for _, u := range lapsed {
		periodEnded := u.CurrentPeriodEnd()
		if err := uc.downgrade(ctx, u); err != nil {
			if errors.Is(err, entitlement.ErrVersionConflict) {
				// A webhook or another sweep got there first; the next
				// run picks the user up again if anything is left to do.
				result.Skipped++
				continue
			}
			uc.logger.Errorw("failed to downgrade lapsed user", "error", err, "user_id", u.UserID())
			result.Skipped++
			continue
		}
		result.Downgraded++
		uc.logger.Infow("lapsed pro downgraded",
			"user_id", u.UserID(),
			"period_ended", periodEnded.Format(time.RFC3339),
		)
	}

	if result.Downgraded > 0 || result.Skipped > 0 {
		uc.logger.Infow("lapse sweep finished",
			"scanned", result.Scanned,
			"downgraded", result.Downgraded,
			"skipped", result.Skipped,
		)
	}
	return result, nil
}

func (uc *ExpireLapsedUseCase) downgrade(ctx context.Context, u *entitlement.UserEntitlements) error {
	if err := u.ApplySubscriptionChange(entitlement.TierFree, entitlement.StatusNone, time.Time{}, time.Time{}, false); err != nil {
		return err
	}
	u.ApplyRollover(biztime.NowUTC())
	if err := uc.repo.Save(ctx, u); err != nil {
		return err
	}
	uc.snapshots.InvalidateCache(ctx, u.UserID())
	return nil
}
