package usecases

import (
	"context"
	"errors"

	"github.com/carelog-health/carelog/internal/application/entitlement/dto"
	"github.com/carelog-health/carelog/internal/domain/entitlement"
	apperrors "github.com/carelog-health/carelog/internal/shared/errors"
	"github.com/carelog-health/carelog/internal/shared/logger"
)

type UseStreakShieldCommand struct {
	UserID string
}

type UseStreakShieldUseCase struct {
	snapshots   *SnapshotService
	repo        entitlement.Repository
	logger      logger.Interface
	maxAttempts int
}

func NewUseStreakShieldUseCase(
	snapshots *SnapshotService,
	repo entitlement.Repository,
	logger logger.Interface,
	maxAttempts int,
) *UseStreakShieldUseCase {
	if maxAttempts <= 0 {
		maxAttempts = defaultConsumeAttempts
	}
	return &UseStreakShieldUseCase{
		snapshots:   snapshots,
		repo:        repo,
		logger:      logger,
		maxAttempts: maxAttempts,
	}
}

// Execute spends one streak shield. An empty balance is a successful result
// with Success=false and a streak-risk upsell, not an error.
func (uc *UseStreakShieldUseCase) Execute(ctx context.Context, cmd UseStreakShieldCommand) (*dto.StreakShieldResultDTO, error) {
	for attempt := 1; attempt <= uc.maxAttempts; attempt++ {
		u, err := uc.snapshots.LoadForUpdate(ctx, cmd.UserID, "")
		if err != nil {
			return nil, err
		}

		if err := u.ConsumeStreakShield(); err != nil {
			if errors.Is(err, entitlement.ErrNoStreakShields) {
				return &dto.StreakShieldResultDTO{
					Success:       false,
					StreakShields: 0,
					UpsellTrigger: entitlement.UpsellStreakRisk.String(),
				}, nil
			}
			uc.logger.Errorw("failed to consume streak shield", "error", err, "user_id", cmd.UserID)
			return nil, err
		}

		if err := uc.repo.Save(ctx, u); err != nil {
			if errors.Is(err, entitlement.ErrVersionConflict) {
				uc.logger.Debugw("entitlements changed concurrently, retrying",
					"user_id", cmd.UserID,
					"attempt", attempt,
				)
				continue
			}
			uc.logger.Errorw("failed to save entitlements", "error", err, "user_id", cmd.UserID)
			return nil, apperrors.NewUnavailableError("entitlement storage unavailable")
		}

		uc.snapshots.CacheStore(ctx, u)
		uc.logger.Infow("streak shield used", "user_id", cmd.UserID, "shields_left", u.StreakShields())

		return &dto.StreakShieldResultDTO{
			Success:       true,
			StreakShields: u.StreakShields(),
		}, nil
	}

	uc.logger.Warnw("streak shield retries exhausted", "user_id", cmd.UserID, "attempts", uc.maxAttempts)
	return nil, apperrors.NewConflictError("entitlements were modified concurrently, please retry")
}
