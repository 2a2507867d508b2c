package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/carelog-health/carelog/internal/domain/billing"
	"github.com/carelog-health/carelog/internal/infrastructure/persistence/mappers"
	"github.com/carelog-health/carelog/internal/infrastructure/persistence/models"
	"github.com/carelog-health/carelog/internal/shared/db"
	"github.com/carelog-health/carelog/internal/shared/logger"
)

// BillingEventRepositoryImpl implements the billing.Repository interface
type BillingEventRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.BillingEventMapper
	logger logger.Interface
}

// NewBillingEventRepository creates a new billing event repository instance
func NewBillingEventRepository(database *gorm.DB, logger logger.Interface) billing.Repository {
	return &BillingEventRepositoryImpl{
		db:     database,
		mapper: mappers.NewBillingEventMapper(),
		logger: logger,
	}
}

// Create persists a processed event. Duplicate key errors pass through
// wrapped; the caller reads them as a webhook redelivery.
func (r *BillingEventRepositoryImpl) Create(ctx context.Context, event *billing.BillingEvent) error {
	model, err := r.mapper.ToModel(event)
	if err != nil {
		r.logger.Errorw("failed to map billing event entity to model", "sid", event.SID(), "error", err)
		return fmt.Errorf("failed to map billing event entity: %w", err)
	}

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to create billing event: %w", err)
	}

	if err := event.SetID(model.ID); err != nil {
		r.logger.Errorw("failed to set billing event ID", "sid", event.SID(), "error", err)
		return fmt.Errorf("failed to set billing event ID: %w", err)
	}

	return nil
}

// GetBySID retrieves the event with the given SID, nil when absent
func (r *BillingEventRepositoryImpl) GetBySID(ctx context.Context, sid string) (*billing.BillingEvent, error) {
	var model models.BillingEventModel

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("sid = ?", sid).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get billing event by SID", "sid", sid, "error", err)
		return nil, fmt.Errorf("failed to get billing event: %w", err)
	}

	entity, err := r.mapper.ToEntity(&model)
	if err != nil {
		r.logger.Errorw("failed to map billing event model to entity", "sid", sid, "error", err)
		return nil, fmt.Errorf("failed to map billing event: %w", err)
	}

	return entity, nil
}

// ListByUserID retrieves the most recently processed events for a user
func (r *BillingEventRepositoryImpl) ListByUserID(ctx context.Context, userID string, limit int) ([]*billing.BillingEvent, error) {
	var modelList []*models.BillingEventModel

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.
		Where("user_id = ?", userID).
		Order("processed_at DESC, id DESC").
		Limit(limit).
		Find(&modelList).Error; err != nil {
		r.logger.Errorw("failed to list billing events", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list billing events: %w", err)
	}

	entities, err := r.mapper.ToEntities(modelList)
	if err != nil {
		r.logger.Errorw("failed to map billing event models", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to map billing events: %w", err)
	}

	return entities, nil
}
