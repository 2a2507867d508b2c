package usecases

import (
	"context"

	"github.com/carelog-health/carelog/internal/application/entitlement/dto"
	"github.com/carelog-health/carelog/internal/domain/entitlement"
	"github.com/carelog-health/carelog/internal/shared/biztime"
	"github.com/carelog-health/carelog/internal/shared/logger"
)

type GetEntitlementsQuery struct {
	UserID   string
	Timezone string
}

type GetEntitlementsUseCase struct {
	snapshots *SnapshotService
	gate      *entitlement.Gate
	logger    logger.Interface
}

func NewGetEntitlementsUseCase(
	snapshots *SnapshotService,
	gate *entitlement.Gate,
	logger logger.Interface,
) *GetEntitlementsUseCase {
	return &GetEntitlementsUseCase{
		snapshots: snapshots,
		gate:      gate,
		logger:    logger,
	}
}

func (uc *GetEntitlementsUseCase) Execute(ctx context.Context, query GetEntitlementsQuery) (*dto.EntitlementSnapshotDTO, error) {
	u, err := uc.snapshots.LoadForRead(ctx, query.UserID, query.Timezone)
	if err != nil {
		return nil, err
	}

	return dto.ToSnapshotDTO(u, remainingByFeature(uc.gate, u), biztime.NowUTC()), nil
}

// remainingByFeature evaluates the remaining allowance per feature through
// the gate, so the snapshot shows exactly what enforcement would decide.
func remainingByFeature(gate *entitlement.Gate, u *entitlement.UserEntitlements) map[string]int {
	features := entitlement.AllFeatures()
	out := make(map[string]int, len(features))
	for _, f := range features {
		out[f.String()] = gate.Check(u, f, 1).Remaining
	}
	return out
}
