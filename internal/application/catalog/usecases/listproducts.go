package usecases

import (
	"context"

	"github.com/carelog-health/carelog/internal/application/catalog/dto"
	"github.com/carelog-health/carelog/internal/domain/catalog"
	"github.com/carelog-health/carelog/internal/shared/logger"
	"github.com/carelog-health/carelog/internal/shared/services/markdown"
)

// ListProductsUseCase returns the purchasable storefront: active products in
// display order with their copy rendered for the paywall.
type ListProductsUseCase struct {
	catalog  *catalog.Catalog
	markdown markdown.MarkdownService
	logger   logger.Interface
}

func NewListProductsUseCase(
	catalog *catalog.Catalog,
	markdown markdown.MarkdownService,
	logger logger.Interface,
) *ListProductsUseCase {
	return &ListProductsUseCase{
		catalog:  catalog,
		markdown: markdown,
		logger:   logger,
	}
}

func (uc *ListProductsUseCase) Execute(ctx context.Context) ([]*dto.ProductDTO, error) {
	products := uc.catalog.ListActive()

	out := make([]*dto.ProductDTO, 0, len(products))
	for _, p := range products {
		out = append(out, dto.ToProductDTO(p, uc.renderDescription(p)))
	}
	return out, nil
}

// renderDescription converts the markdown copy to sanitized HTML, falling
// back to an empty string so one bad entry cannot take the storefront down.
func (uc *ListProductsUseCase) renderDescription(p *catalog.ProductConfig) string {
	if p.Description == "" {
		return ""
	}
	html, err := uc.markdown.ToHTMLSanitized(p.Description)
	if err != nil {
		uc.logger.Warnw("failed to render product description", "product_id", p.ID, "error", err)
		return ""
	}
	return html
}
