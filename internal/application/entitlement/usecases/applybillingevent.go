package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/carelog-health/carelog/internal/application/entitlement/dto"
	"github.com/carelog-health/carelog/internal/domain/billing"
	"github.com/carelog-health/carelog/internal/domain/catalog"
	"github.com/carelog-health/carelog/internal/domain/entitlement"
	"github.com/carelog-health/carelog/internal/shared/biztime"
	apperrors "github.com/carelog-health/carelog/internal/shared/errors"
	"github.com/carelog-health/carelog/internal/shared/logger"
)

// errEventAlreadyProcessed signals a webhook retry for an event whose SID is
// already recorded. The surrounding transaction rolls back as a no-op.
var errEventAlreadyProcessed = errors.New("billing event already processed")

type ApplyBillingEventCommand struct {
	SID       string
	EventType string
	UserID    string

	// Subscription fields, set for subscription.updated events.
	Tier               string
	Status             string
	CurrentPeriodStart time.Time
	CurrentPeriodEnd   time.Time
	CancelAtPeriodEnd  bool

	// Purchase fields, set for purchase.completed events.
	ProductID string
	Quantity  int

	// Payload is the raw webhook body, stored for audit.
	Payload map[string]interface{}
}

// ApplyBillingEventUseCase applies provider webhook events to entitlement
// state. The idempotency record and the entitlement update commit in one
// transaction: a version conflict rolls both back and the provider retry
// replays the event cleanly.
type ApplyBillingEventUseCase struct {
	snapshots *SnapshotService
	entRepo   entitlement.Repository
	eventRepo billing.Repository
	catalog   *catalog.Catalog
	txMgr     TransactionRunner
	logger    logger.Interface
}

func NewApplyBillingEventUseCase(
	snapshots *SnapshotService,
	entRepo entitlement.Repository,
	eventRepo billing.Repository,
	catalog *catalog.Catalog,
	txMgr TransactionRunner,
	logger logger.Interface,
) *ApplyBillingEventUseCase {
	return &ApplyBillingEventUseCase{
		snapshots: snapshots,
		entRepo:   entRepo,
		eventRepo: eventRepo,
		catalog:   catalog,
		txMgr:     txMgr,
		logger:    logger,
	}
}

func (uc *ApplyBillingEventUseCase) Execute(ctx context.Context, cmd ApplyBillingEventCommand) (*dto.BillingEventResultDTO, error) {
	event, err := billing.NewBillingEvent(cmd.SID, billing.EventType(cmd.EventType), cmd.UserID, cmd.Payload)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	err = uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.eventRepo.Create(txCtx, event); err != nil {
			if apperrors.IsDuplicateError(err) {
				return errEventAlreadyProcessed
			}
			return fmt.Errorf("failed to record billing event: %w", err)
		}

		u, err := uc.snapshots.LoadForUpdate(txCtx, cmd.UserID, "")
		if err != nil {
			return err
		}

		switch event.EventType() {
		case billing.EventTypeSubscriptionUpdated:
			err = uc.applySubscriptionUpdate(u, cmd)
		case billing.EventTypePurchaseCompleted:
			err = uc.applyPurchase(u, cmd)
		}
		if err != nil {
			return err
		}

		// A changed billing period moves the quota anchor; let the reset
		// and shield grant land in the same save.
		u.ApplyRollover(biztime.NowUTC())

		if err := uc.entRepo.Save(txCtx, u); err != nil {
			return fmt.Errorf("failed to save entitlements: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errEventAlreadyProcessed) {
			uc.logger.Infow("billing event already processed", "sid", cmd.SID, "type", cmd.EventType)
			return &dto.BillingEventResultDTO{SID: cmd.SID, AlreadyProcessed: true}, nil
		}
		if errors.Is(err, entitlement.ErrVersionConflict) {
			uc.logger.Warnw("billing event lost a version race, provider retry will replay it",
				"sid", cmd.SID, "user_id", cmd.UserID)
			return nil, apperrors.NewConflictError("entitlements were modified concurrently, please retry")
		}
		if apperrors.IsAppError(err) {
			return nil, err
		}
		uc.logger.Errorw("failed to apply billing event", "error", err, "sid", cmd.SID, "user_id", cmd.UserID)
		return nil, fmt.Errorf("failed to apply billing event %s: %w", cmd.SID, err)
	}

	uc.snapshots.InvalidateCache(ctx, cmd.UserID)
	uc.logger.Infow("billing event applied",
		"sid", cmd.SID,
		"type", cmd.EventType,
		"user_id", cmd.UserID,
	)
	return &dto.BillingEventResultDTO{SID: cmd.SID, Applied: true}, nil
}

func (uc *ApplyBillingEventUseCase) applySubscriptionUpdate(u *entitlement.UserEntitlements, cmd ApplyBillingEventCommand) error {
	tier, err := entitlement.NewTier(cmd.Tier)
	if err != nil {
		return apperrors.NewValidationError(err.Error())
	}
	status, err := entitlement.NewSubscriptionStatus(cmd.Status)
	if err != nil {
		return apperrors.NewValidationError(err.Error())
	}
	if err := u.ApplySubscriptionChange(tier, status, cmd.CurrentPeriodStart, cmd.CurrentPeriodEnd, cmd.CancelAtPeriodEnd); err != nil {
		return apperrors.NewValidationError(err.Error())
	}
	return nil
}

func (uc *ApplyBillingEventUseCase) applyPurchase(u *entitlement.UserEntitlements, cmd ApplyBillingEventCommand) error {
	product, err := uc.catalog.ProductFor(cmd.ProductID)
	if err != nil {
		return apperrors.NewNotFoundError("unknown product", cmd.ProductID)
	}
	if product.IsSubscription() {
		return apperrors.NewValidationError("subscription products are activated through subscription.updated events", cmd.ProductID)
	}

	quantity := cmd.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	for _, credit := range product.Grant.Credits() {
		if err := u.CreditTokens(credit.Kind, credit.Amount*quantity); err != nil {
			return apperrors.NewValidationError(err.Error())
		}
	}
	return nil
}
