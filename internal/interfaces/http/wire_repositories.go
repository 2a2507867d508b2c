package http

import (
	"gorm.io/gorm"

	"github.com/carelog-health/carelog/internal/domain/billing"
	"github.com/carelog-health/carelog/internal/domain/entitlement"
	"github.com/carelog-health/carelog/internal/infrastructure/repository"
	"github.com/carelog-health/carelog/internal/shared/logger"
)

// repositories holds all repository instances used by the application.
// Types match the return types of the repository constructors.
type repositories struct {
	entitlementRepo  entitlement.Repository
	billingEventRepo billing.Repository
}

// newRepositories creates all repository instances from the database connection.
func newRepositories(db *gorm.DB, log logger.Interface) *repositories {
	return &repositories{
		entitlementRepo:  repository.NewUserEntitlementStateRepository(db, log),
		billingEventRepo: repository.NewBillingEventRepository(db, log),
	}
}
