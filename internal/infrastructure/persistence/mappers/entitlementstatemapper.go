package mappers

import (
	"fmt"
	"time"

	"github.com/carelog-health/carelog/internal/domain/entitlement"
	"github.com/carelog-health/carelog/internal/infrastructure/persistence/models"
)

// EntitlementStateMapper handles the conversion between the entitlement
// aggregate and its persistence model
type EntitlementStateMapper interface {
	// ToEntity converts a persistence model to a domain entity
	ToEntity(model *models.UserEntitlementStateModel) (*entitlement.UserEntitlements, error)

	// ToModel converts a domain entity to a persistence model
	ToModel(entity *entitlement.UserEntitlements) (*models.UserEntitlementStateModel, error)

	// ToEntities converts multiple persistence models to domain entities
	ToEntities(models []*models.UserEntitlementStateModel) ([]*entitlement.UserEntitlements, error)
}

// entitlementStateMapper is the concrete implementation of EntitlementStateMapper
type entitlementStateMapper struct{}

// NewEntitlementStateMapper creates a new entitlement state mapper
func NewEntitlementStateMapper() EntitlementStateMapper {
	return &entitlementStateMapper{}
}

// ToEntity converts a persistence model to a domain entity
func (m *entitlementStateMapper) ToEntity(model *models.UserEntitlementStateModel) (*entitlement.UserEntitlements, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := entitlement.ReconstructUserEntitlements(entitlement.ReconstructParams{
		ID:                      model.ID,
		UserID:                  model.UserID,
		Tier:                    entitlement.Tier(model.Tier),
		Status:                  entitlement.SubscriptionStatus(model.Status),
		CurrentPeriodStart:      timeOrZero(model.CurrentPeriodStart),
		CurrentPeriodEnd:        timeOrZero(model.CurrentPeriodEnd),
		CancelAtPeriodEnd:       model.CancelAtPeriodEnd,
		Timezone:                model.Timezone,
		AIMealPlansUsed:         model.AIMealPlansUsed,
		AIRecipeSuggestionsUsed: model.AIRecipeSuggestionsUsed,
		PDFExportsUsed:          model.PDFExportsUsed,
		BarcodeScansToday:       model.BarcodeScansToday,
		DayAnchor:               model.DayAnchor,
		MonthAnchor:             model.MonthAnchor,
		AITokens:                model.AITokens,
		ExportTokens:            model.ExportTokens,
		StreakShields:           model.StreakShields,
		Version:                 model.Version,
		CreatedAt:               model.CreatedAt,
		UpdatedAt:               model.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct entitlement state: %w", err)
	}

	return entity, nil
}

// ToModel converts a domain entity to a persistence model.
// Zero billing periods become NULL columns so free rows carry no dates.
func (m *entitlementStateMapper) ToModel(entity *entitlement.UserEntitlements) (*models.UserEntitlementStateModel, error) {
	if entity == nil {
		return nil, nil
	}

	model := &models.UserEntitlementStateModel{
		ID:                      entity.ID(),
		UserID:                  entity.UserID(),
		Tier:                    entity.Tier().String(),
		Status:                  entity.Status().String(),
		CurrentPeriodStart:      timePtrOrNil(entity.CurrentPeriodStart()),
		CurrentPeriodEnd:        timePtrOrNil(entity.CurrentPeriodEnd()),
		CancelAtPeriodEnd:       entity.CancelAtPeriodEnd(),
		Timezone:                entity.Timezone(),
		AIMealPlansUsed:         entity.AIMealPlansUsed(),
		AIRecipeSuggestionsUsed: entity.AIRecipeSuggestionsUsed(),
		PDFExportsUsed:          entity.PDFExportsUsed(),
		BarcodeScansToday:       entity.BarcodeScansToday(),
		DayAnchor:               entity.DayAnchor(),
		MonthAnchor:             entity.MonthAnchor(),
		AITokens:                entity.AITokens(),
		ExportTokens:            entity.ExportTokens(),
		StreakShields:           entity.StreakShields(),
		Version:                 entity.Version(),
		CreatedAt:               entity.CreatedAt(),
		UpdatedAt:               entity.UpdatedAt(),
	}

	return model, nil
}

// ToEntities converts multiple persistence models to domain entities
func (m *entitlementStateMapper) ToEntities(modelList []*models.UserEntitlementStateModel) ([]*entitlement.UserEntitlements, error) {
	entities := make([]*entitlement.UserEntitlements, 0, len(modelList))

	for i, model := range modelList {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, fmt.Errorf("failed to map model at index %d (ID %d): %w", i, model.ID, err)
		}
		if entity != nil {
			entities = append(entities, entity)
		}
	}

	return entities, nil
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func timePtrOrNil(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
