package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/carelog-health/carelog/internal/application/entitlement/dto"
	"github.com/carelog-health/carelog/internal/domain/entitlement"
	apperrors "github.com/carelog-health/carelog/internal/shared/errors"
	"github.com/carelog-health/carelog/internal/shared/logger"
)

// defaultConsumeAttempts bounds the optimistic-lock retry loop. Each retry
// reloads a fresh snapshot, so contention resolves quickly in practice.
const defaultConsumeAttempts = 3

type ConsumeFeatureCommand struct {
	UserID       string
	Feature      string
	Quantity     int
	PreferTokens bool
}

type ConsumeFeatureUseCase struct {
	snapshots   *SnapshotService
	gate        *entitlement.Gate
	repo        entitlement.Repository
	logger      logger.Interface
	maxAttempts int
}

func NewConsumeFeatureUseCase(
	snapshots *SnapshotService,
	gate *entitlement.Gate,
	repo entitlement.Repository,
	logger logger.Interface,
	maxAttempts int,
) *ConsumeFeatureUseCase {
	if maxAttempts <= 0 {
		maxAttempts = defaultConsumeAttempts
	}
	return &ConsumeFeatureUseCase{
		snapshots:   snapshots,
		gate:        gate,
		repo:        repo,
		logger:      logger,
		maxAttempts: maxAttempts,
	}
}

// Execute atomically checks and debits one feature use. A denial is returned
// as a successful result with Success=false and an upsell trigger; nothing is
// persisted on that path. Unknown features on consume are a client error,
// unlike check where the gate decides.
func (uc *ConsumeFeatureUseCase) Execute(ctx context.Context, cmd ConsumeFeatureCommand) (*dto.ConsumeResultDTO, error) {
	feature, err := entitlement.NewFeature(cmd.Feature)
	if err != nil {
		return nil, apperrors.NewValidationError("unknown feature", cmd.Feature)
	}
	if !feature.IsConsumable() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("feature %s cannot be consumed", feature))
	}

	quantity := cmd.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return nil, apperrors.NewValidationError("quantity must be positive")
	}

	for attempt := 1; attempt <= uc.maxAttempts; attempt++ {
		u, err := uc.snapshots.LoadForUpdate(ctx, cmd.UserID, "")
		if err != nil {
			return nil, err
		}

		decision := uc.gate.Check(u, feature, quantity)
		if !decision.Allowed {
			uc.logger.Infow("feature consumption denied",
				"user_id", cmd.UserID,
				"feature", feature,
				"quantity", quantity,
				"reason", decision.Reason,
			)
			return dto.ToDeniedResultDTO(cmd.Feature, decision, u), nil
		}

		breakdown, err := u.Debit(feature, quantity, cmd.PreferTokens)
		if err != nil {
			uc.logger.Errorw("failed to debit feature", "error", err, "user_id", cmd.UserID, "feature", feature)
			return nil, fmt.Errorf("failed to debit feature %s: %w", feature, err)
		}

		if err := uc.repo.Save(ctx, u); err != nil {
			if errors.Is(err, entitlement.ErrVersionConflict) {
				uc.logger.Debugw("entitlements changed concurrently, retrying",
					"user_id", cmd.UserID,
					"feature", feature,
					"attempt", attempt,
				)
				continue
			}
			uc.logger.Errorw("failed to save entitlements", "error", err, "user_id", cmd.UserID)
			return nil, apperrors.NewUnavailableError("entitlement storage unavailable")
		}

		uc.snapshots.CacheStore(ctx, u)
		uc.logger.Infow("feature consumed",
			"user_id", cmd.UserID,
			"feature", feature,
			"quantity", quantity,
			"from_quota", breakdown.FromQuota,
			"from_tokens", breakdown.FromTokens,
		)

		remaining := uc.gate.Check(u, feature, 1).Remaining
		return dto.ToConsumedResultDTO(cmd.Feature, breakdown, remaining, u), nil
	}

	uc.logger.Warnw("consume retries exhausted", "user_id", cmd.UserID, "feature", feature, "attempts", uc.maxAttempts)
	return nil, apperrors.NewConflictError("entitlements were modified concurrently, please retry")
}
