package usecases

import (
	"context"
	"errors"

	"github.com/carelog-health/carelog/internal/application/catalog/dto"
	"github.com/carelog-health/carelog/internal/domain/catalog"
	apperrors "github.com/carelog-health/carelog/internal/shared/errors"
	"github.com/carelog-health/carelog/internal/shared/logger"
	"github.com/carelog-health/carelog/internal/shared/services/markdown"
)

// GetProductQuery fetches a single catalog entry by ID.
type GetProductQuery struct {
	ProductID string
}

// GetProductUseCase resolves any catalog entry, retired ones included, so
// clients can render old receipts. The Active flag tells them apart.
type GetProductUseCase struct {
	catalog  *catalog.Catalog
	markdown markdown.MarkdownService
	logger   logger.Interface
}

func NewGetProductUseCase(
	catalog *catalog.Catalog,
	markdown markdown.MarkdownService,
	logger logger.Interface,
) *GetProductUseCase {
	return &GetProductUseCase{
		catalog:  catalog,
		markdown: markdown,
		logger:   logger,
	}
}

func (uc *GetProductUseCase) Execute(ctx context.Context, query GetProductQuery) (*dto.ProductDTO, error) {
	if query.ProductID == "" {
		return nil, apperrors.NewValidationError("product ID is required")
	}

	p, err := uc.catalog.ProductFor(query.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			return nil, apperrors.NewNotFoundError("product not found", query.ProductID)
		}
		uc.logger.Errorw("failed to resolve product", "product_id", query.ProductID, "error", err)
		return nil, err
	}

	descriptionHTML := ""
	if p.Description != "" {
		descriptionHTML, err = uc.markdown.ToHTMLSanitized(p.Description)
		if err != nil {
			uc.logger.Warnw("failed to render product description", "product_id", p.ID, "error", err)
			descriptionHTML = ""
		}
	}

	return dto.ToProductDTO(p, descriptionHTML), nil
}
