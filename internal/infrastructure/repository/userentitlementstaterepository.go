package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/carelog-health/carelog/internal/domain/entitlement"
	"github.com/carelog-health/carelog/internal/infrastructure/persistence/mappers"
	"github.com/carelog-health/carelog/internal/infrastructure/persistence/models"
	"github.com/carelog-health/carelog/internal/shared/db"
	"github.com/carelog-health/carelog/internal/shared/logger"
)

// UserEntitlementStateRepositoryImpl implements the entitlement.Repository interface
type UserEntitlementStateRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.EntitlementStateMapper
	logger logger.Interface
}

// NewUserEntitlementStateRepository creates a new entitlement state repository instance
func NewUserEntitlementStateRepository(database *gorm.DB, logger logger.Interface) entitlement.Repository {
	return &UserEntitlementStateRepositoryImpl{
		db:     database,
		mapper: mappers.NewEntitlementStateMapper(),
		logger: logger,
	}
}

// FindByUserID retrieves the entitlement state for a user, nil when absent
func (r *UserEntitlementStateRepositoryImpl) FindByUserID(ctx context.Context, userID string) (*entitlement.UserEntitlements, error) {
	var model models.UserEntitlementStateModel

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("user_id = ?", userID).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to find entitlement state", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to find entitlement state: %w", err)
	}

	entity, err := r.mapper.ToEntity(&model)
	if err != nil {
		r.logger.Errorw("failed to map entitlement state model to entity", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to map entitlement state: %w", err)
	}

	return entity, nil
}

// Create persists a new entitlement state and assigns its ID. Duplicate key
// errors pass through wrapped; the caller treats them as a concurrent
// first-touch and reloads.
func (r *UserEntitlementStateRepositoryImpl) Create(ctx context.Context, entitlements *entitlement.UserEntitlements) error {
	model, err := r.mapper.ToModel(entitlements)
	if err != nil {
		r.logger.Errorw("failed to map entitlement state entity to model", "error", err)
		return fmt.Errorf("failed to map entitlement state entity: %w", err)
	}

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Create(model).Error; err != nil {
		r.logger.Errorw("failed to create entitlement state",
			"user_id", entitlements.UserID(),
			"error", err)
		return fmt.Errorf("failed to create entitlement state: %w", err)
	}

	if err := entitlements.SetID(model.ID); err != nil {
		r.logger.Errorw("failed to set entitlement state ID", "error", err)
		return fmt.Errorf("failed to set entitlement state ID: %w", err)
	}
	entitlements.MarkPersisted()

	r.logger.Infow("entitlement state created",
		"id", model.ID,
		"user_id", model.UserID,
		"tier", model.Tier)

	return nil
}

// Save persists mutated entitlement state guarded by the version the row
// carried at load time. Zero matched rows means another writer moved the
// version first; the caller reloads and retries.
func (r *UserEntitlementStateRepositoryImpl) Save(ctx context.Context, entitlements *entitlement.UserEntitlements) error {
	model, err := r.mapper.ToModel(entitlements)
	if err != nil {
		r.logger.Errorw("failed to map entitlement state entity to model", "id", entitlements.ID(), "error", err)
		return fmt.Errorf("failed to map entitlement state entity: %w", err)
	}

	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Model(&models.UserEntitlementStateModel{}).
		Where("id = ? AND version = ?", model.ID, entitlements.StoredVersion()).
		Updates(map[string]interface{}{
			"tier":                       model.Tier,
			"status":                     model.Status,
			"current_period_start":       model.CurrentPeriodStart,
			"current_period_end":         model.CurrentPeriodEnd,
			"cancel_at_period_end":       model.CancelAtPeriodEnd,
			"timezone":                   model.Timezone,
			"ai_meal_plans_used":         model.AIMealPlansUsed,
			"ai_recipe_suggestions_used": model.AIRecipeSuggestionsUsed,
			"pdf_exports_used":           model.PDFExportsUsed,
			"barcode_scans_today":        model.BarcodeScansToday,
			"day_anchor":                 model.DayAnchor,
			"month_anchor":               model.MonthAnchor,
			"ai_tokens":                  model.AITokens,
			"export_tokens":              model.ExportTokens,
			"streak_shields":             model.StreakShields,
			"version":                    model.Version,
			"updated_at":                 model.UpdatedAt,
		})

	if result.Error != nil {
		r.logger.Errorw("failed to save entitlement state", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to save entitlement state: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return entitlement.ErrVersionConflict
	}

	entitlements.MarkPersisted()
	return nil
}

// ListLapsedPro retrieves pro states whose billing period ended before cutoff
func (r *UserEntitlementStateRepositoryImpl) ListLapsedPro(ctx context.Context, cutoff time.Time, limit int) ([]*entitlement.UserEntitlements, error) {
	var modelList []*models.UserEntitlementStateModel

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.
		Where("tier = ?", entitlement.TierPro.String()).
		Where("current_period_end IS NOT NULL AND current_period_end < ?", cutoff).
		Order("current_period_end ASC").
		Limit(limit).
		Find(&modelList).Error; err != nil {
		r.logger.Errorw("failed to list lapsed pro states", "cutoff", cutoff, "error", err)
		return nil, fmt.Errorf("failed to list lapsed pro states: %w", err)
	}

	entities, err := r.mapper.ToEntities(modelList)
	if err != nil {
		r.logger.Errorw("failed to map lapsed entitlement states", "error", err)
		return nil, fmt.Errorf("failed to map lapsed entitlement states: %w", err)
	}

	return entities, nil
}
