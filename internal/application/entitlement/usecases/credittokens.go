package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/carelog-health/carelog/internal/application/entitlement/dto"
	"github.com/carelog-health/carelog/internal/domain/billing"
	"github.com/carelog-health/carelog/internal/domain/entitlement"
	apperrors "github.com/carelog-health/carelog/internal/shared/errors"
	"github.com/carelog-health/carelog/internal/shared/id"
	"github.com/carelog-health/carelog/internal/shared/logger"
)

type CreditTokensCommand struct {
	UserID string
	Kind   string
	Amount int
	Reason string
}

// CreditTokensUseCase grants tokens or shields outside the purchase flow,
// for support compensation and promotions. Every grant leaves a synthesized
// billing event behind so balances stay explainable.
type CreditTokensUseCase struct {
	snapshots *SnapshotService
	entRepo   entitlement.Repository
	eventRepo billing.Repository
	txMgr     TransactionRunner
	logger    logger.Interface
}

func NewCreditTokensUseCase(
	snapshots *SnapshotService,
	entRepo entitlement.Repository,
	eventRepo billing.Repository,
	txMgr TransactionRunner,
	logger logger.Interface,
) *CreditTokensUseCase {
	return &CreditTokensUseCase{
		snapshots: snapshots,
		entRepo:   entRepo,
		eventRepo: eventRepo,
		txMgr:     txMgr,
		logger:    logger,
	}
}

func (uc *CreditTokensUseCase) Execute(ctx context.Context, cmd CreditTokensCommand) (*dto.BalancesDTO, error) {
	kind := entitlement.TokenKind(cmd.Kind)
	if !kind.IsValid() {
		return nil, apperrors.NewValidationError("invalid token kind", cmd.Kind)
	}
	if cmd.Amount <= 0 {
		return nil, apperrors.NewValidationError("amount must be positive")
	}

	sid, err := id.NewBillingEventSID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate event SID: %w", err)
	}
	event, err := billing.NewBillingEvent(sid, billing.EventTypeAdminCredit, cmd.UserID, map[string]interface{}{
		"source": "admin",
		"kind":   cmd.Kind,
		"amount": cmd.Amount,
		"reason": cmd.Reason,
	})
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	var balances dto.BalancesDTO
	err = uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.eventRepo.Create(txCtx, event); err != nil {
			return fmt.Errorf("failed to record billing event: %w", err)
		}

		u, err := uc.snapshots.LoadForUpdate(txCtx, cmd.UserID, "")
		if err != nil {
			return err
		}
		if err := u.CreditTokens(kind, cmd.Amount); err != nil {
			return apperrors.NewValidationError(err.Error())
		}
		if err := uc.entRepo.Save(txCtx, u); err != nil {
			return fmt.Errorf("failed to save entitlements: %w", err)
		}

		balances = dto.ToBalancesDTO(u)
		return nil
	})
	if err != nil {
		if errors.Is(err, entitlement.ErrVersionConflict) {
			return nil, apperrors.NewConflictError("entitlements were modified concurrently, please retry")
		}
		if apperrors.IsAppError(err) {
			return nil, err
		}
		uc.logger.Errorw("failed to credit tokens", "error", err, "user_id", cmd.UserID, "kind", cmd.Kind)
		return nil, fmt.Errorf("failed to credit tokens: %w", err)
	}

	uc.snapshots.InvalidateCache(ctx, cmd.UserID)
	uc.logger.Infow("tokens credited",
		"user_id", cmd.UserID,
		"kind", cmd.Kind,
		"amount", cmd.Amount,
		"reason", cmd.Reason,
	)
	return &balances, nil
}
