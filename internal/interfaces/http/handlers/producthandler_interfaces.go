package handlers

import (
	"context"

	catalogdto "github.com/carelog-health/carelog/internal/application/catalog/dto"
	catalogUsecases "github.com/carelog-health/carelog/internal/application/catalog/usecases"
)

// Use case interfaces for ProductHandler

type listProductsUseCase interface {
	Execute(ctx context.Context) ([]*catalogdto.ProductDTO, error)
}

type getProductUseCase interface {
	Execute(ctx context.Context, query catalogUsecases.GetProductQuery) (*catalogdto.ProductDTO, error)
}
