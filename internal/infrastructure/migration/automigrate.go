package migration

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/carelog-health/carelog/internal/infrastructure/persistence/models"
	"github.com/carelog-health/carelog/internal/shared/logger"
)

// GormAutoMigrateStrategy derives the schema from the model structs.
// Development only; test and production run versioned SQL scripts.
type GormAutoMigrateStrategy struct {
	logger logger.Interface
}

// NewGormAutoMigrateStrategy creates a new GORM AutoMigrate strategy
func NewGormAutoMigrateStrategy() *GormAutoMigrateStrategy {
	return &GormAutoMigrateStrategy{
		logger: logger.NewLogger().With("component", "migration.automigrate"),
	}
}

// Migrate runs GORM AutoMigrate over the given models, defaulting to the
// full model list when none are passed
func (s *GormAutoMigrateStrategy) Migrate(db *gorm.DB, modelList ...interface{}) error {
	if len(modelList) == 0 {
		modelList = AutoMigrateModels()
	}

	s.logger.Infow("starting gorm automigrate", "models_count", len(modelList))

	if err := db.AutoMigrate(modelList...); err != nil {
		s.logger.Errorw("automigrate failed", "error", err)
		return fmt.Errorf("failed to auto-migrate models: %w", err)
	}

	s.logger.Infow("gorm automigrate completed successfully")
	return nil
}

// GetName returns the strategy name
func (s *GormAutoMigrateStrategy) GetName() string {
	return "gorm_auto_migrate"
}

// AutoMigrateModels returns every persistence model the schema carries
func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.UserEntitlementStateModel{},
		&models.BillingEventModel{},
	}
}
