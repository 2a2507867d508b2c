package usecases

import (
	"context"
	"fmt"

	"github.com/carelog-health/carelog/internal/application/entitlement/dto"
	"github.com/carelog-health/carelog/internal/domain/billing"
	apperrors "github.com/carelog-health/carelog/internal/shared/errors"
	"github.com/carelog-health/carelog/internal/shared/logger"
)

const defaultEventListLimit = 50

type ListBillingEventsQuery struct {
	UserID string
	Limit  int
}

// ListBillingEventsUseCase returns the processed billing history for one
// user, newest first. Support uses it to explain how a balance got where
// it is.
type ListBillingEventsUseCase struct {
	eventRepo billing.Repository
	logger    logger.Interface
}

func NewListBillingEventsUseCase(eventRepo billing.Repository, logger logger.Interface) *ListBillingEventsUseCase {
	return &ListBillingEventsUseCase{
		eventRepo: eventRepo,
		logger:    logger,
	}
}

func (uc *ListBillingEventsUseCase) Execute(ctx context.Context, query ListBillingEventsQuery) ([]*dto.BillingEventDTO, error) {
	if query.UserID == "" {
		return nil, apperrors.NewValidationError("user ID is required")
	}
	limit := query.Limit
	if limit <= 0 {
		limit = defaultEventListLimit
	}

	events, err := uc.eventRepo.ListByUserID(ctx, query.UserID, limit)
	if err != nil {
		uc.logger.Errorw("failed to list billing events", "error", err, "user_id", query.UserID)
		return nil, fmt.Errorf("failed to list billing events: %w", err)
	}

	return dto.ToBillingEventDTOList(events), nil
}
