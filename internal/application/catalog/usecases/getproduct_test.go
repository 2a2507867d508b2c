package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carelog-health/carelog/internal/domain/catalog"
	apperrors "github.com/carelog-health/carelog/internal/shared/errors"
	"github.com/carelog-health/carelog/internal/shared/services/markdown"
)

func newGetProductUseCase(t *testing.T) *GetProductUseCase {
	t.Helper()
	cat, err := catalog.NewCatalog()
	require.NoError(t, err)
	return NewGetProductUseCase(cat, markdown.NewMarkdownService(), &mockLogger{})
}

func TestGetProductUseCase_Execute_ResolvesActiveProduct(t *testing.T) {
	uc := newGetProductUseCase(t)

	p, err := uc.Execute(context.Background(), GetProductQuery{ProductID: "prod_ai_tokens_10"})
	require.NoError(t, err)

	assert.Equal(t, "prod_ai_tokens_10", p.ID)
	assert.Equal(t, "token_pack", p.Kind)
	assert.True(t, p.Active)
	require.NotNil(t, p.Grant)
	assert.Equal(t, 10, p.Grant.AITokens)
	assert.NotEmpty(t, p.DescriptionHTML)
}

func TestGetProductUseCase_Execute_RetiredProductStillResolves(t *testing.T) {
	uc := newGetProductUseCase(t)

	// Clients render old receipts from retired IDs; only the storefront
	// listing hides them.
	p, err := uc.Execute(context.Background(), GetProductQuery{ProductID: "prod_export_tokens_20"})
	require.NoError(t, err)

	assert.False(t, p.Active)
	require.NotNil(t, p.Grant)
	assert.Equal(t, 20, p.Grant.ExportTokens)
}

func TestGetProductUseCase_Execute_NotFound(t *testing.T) {
	uc := newGetProductUseCase(t)

	p, err := uc.Execute(context.Background(), GetProductQuery{ProductID: "prod_does_not_exist"})
	require.Error(t, err)
	assert.Nil(t, p)
	assert.True(t, apperrors.IsNotFoundError(err))
}

func TestGetProductUseCase_Execute_RequiresProductID(t *testing.T) {
	uc := newGetProductUseCase(t)

	p, err := uc.Execute(context.Background(), GetProductQuery{})
	require.Error(t, err)
	assert.Nil(t, p)
	assert.True(t, apperrors.IsValidationError(err))
}
