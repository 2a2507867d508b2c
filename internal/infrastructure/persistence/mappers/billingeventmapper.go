package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/carelog-health/carelog/internal/domain/billing"
	"github.com/carelog-health/carelog/internal/infrastructure/persistence/models"
)

// BillingEventMapper handles the conversion between billing events and their
// persistence model
type BillingEventMapper interface {
	// ToEntity converts a persistence model to a domain entity
	ToEntity(model *models.BillingEventModel) (*billing.BillingEvent, error)

	// ToModel converts a domain entity to a persistence model
	ToModel(entity *billing.BillingEvent) (*models.BillingEventModel, error)

	// ToEntities converts multiple persistence models to domain entities
	ToEntities(models []*models.BillingEventModel) ([]*billing.BillingEvent, error)
}

// billingEventMapper is the concrete implementation of BillingEventMapper
type billingEventMapper struct{}

// NewBillingEventMapper creates a new billing event mapper
func NewBillingEventMapper() BillingEventMapper {
	return &billingEventMapper{}
}

// ToEntity converts a persistence model to a domain entity
func (m *billingEventMapper) ToEntity(model *models.BillingEventModel) (*billing.BillingEvent, error) {
	if model == nil {
		return nil, nil
	}

	var payload map[string]interface{}
	if len(model.Payload) > 0 {
		if err := json.Unmarshal(model.Payload, &payload); err != nil {
			return nil, fmt.Errorf("failed to unmarshal billing event payload: %w", err)
		}
	}

	entity, err := billing.ReconstructBillingEvent(
		model.ID,
		model.SID,
		billing.EventType(model.EventType),
		model.UserID,
		payload,
		model.ProcessedAt,
		model.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct billing event: %w", err)
	}

	return entity, nil
}

// ToModel converts a domain entity to a persistence model
func (m *billingEventMapper) ToModel(entity *billing.BillingEvent) (*models.BillingEventModel, error) {
	if entity == nil {
		return nil, nil
	}

	payload, err := json.Marshal(entity.Payload())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal billing event payload: %w", err)
	}

	model := &models.BillingEventModel{
		ID:          entity.ID(),
		SID:         entity.SID(),
		EventType:   entity.EventType().String(),
		UserID:      entity.UserID(),
		Payload:     datatypes.JSON(payload),
		ProcessedAt: entity.ProcessedAt(),
		CreatedAt:   entity.CreatedAt(),
	}

	return model, nil
}

// ToEntities converts multiple persistence models to domain entities
func (m *billingEventMapper) ToEntities(modelList []*models.BillingEventModel) ([]*billing.BillingEvent, error) {
	entities := make([]*billing.BillingEvent, 0, len(modelList))

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
