package handlers

import (
	"context"

	entdto "github.com/carelog-health/carelog/internal/application/entitlement/dto"
	"github.com/carelog-health/carelog/internal/application/entitlement/usecases"
)

// Use case interfaces for EntitlementHandler

type getEntitlementsUseCase interface {
	Execute(ctx context.Context, query usecases.GetEntitlementsQuery) (*entdto.EntitlementSnapshotDTO, error)
}

type checkFeatureUseCase interface {
	Execute(ctx context.Context, query usecases.CheckFeatureQuery) (*entdto.CheckResultDTO, error)
}

type consumeFeatureUseCase interface {
	Execute(ctx context.Context, cmd usecases.ConsumeFeatureCommand) (*entdto.ConsumeResultDTO, error)
}

type useStreakShieldUseCase interface {
	Execute(ctx context.Context, cmd usecases.UseStreakShieldCommand) (*entdto.StreakShieldResultDTO, error)
}
