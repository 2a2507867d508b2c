package usecases

import (
	"context"

	"github.com/carelog-health/carelog/internal/application/entitlement/dto"
	"github.com/carelog-health/carelog/internal/domain/entitlement"
	"github.com/carelog-health/carelog/internal/shared/logger"
)

type CheckFeatureQuery struct {
	UserID   string
	Feature  string
	Quantity int
}

type CheckFeatureUseCase struct {
	snapshots *SnapshotService
	gate      *entitlement.Gate
	logger    logger.Interface
}

func NewCheckFeatureUseCase(
	snapshots *SnapshotService,
	gate *entitlement.Gate,
	logger logger.Interface,
) *CheckFeatureUseCase {
	return &CheckFeatureUseCase{
		snapshots: snapshots,
		gate:      gate,
		logger:    logger,
	}
}

// Execute answers whether the user could perform the feature right now.
// A denial is a successful answer, not an error: unknown features come back
// as allowed or denied according to the gate's strict mode.
func (uc *CheckFeatureUseCase) Execute(ctx context.Context, query CheckFeatureQuery) (*dto.CheckResultDTO, error) {
	u, err := uc.snapshots.LoadForRead(ctx, query.UserID, "")
	if err != nil {
		return nil, err
	}

	decision := uc.gate.Check(u, entitlement.Feature(query.Feature), query.Quantity)
	return dto.ToCheckResultDTO(query.Feature, decision), nil
}
