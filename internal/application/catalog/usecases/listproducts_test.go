package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carelog-health/carelog/internal/application/catalog/dto"
	"github.com/carelog-health/carelog/internal/domain/catalog"
	"github.com/carelog-health/carelog/internal/shared/services/markdown"
)

func TestListProductsUseCase_Execute_ReturnsActiveProductsInOrder(t *testing.T) {
	cat, err := catalog.NewCatalog()
	require.NoError(t, err)

	uc := NewListProductsUseCase(cat, markdown.NewMarkdownService(), &mockLogger{})

	products, err := uc.Execute(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 6)

	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
		assert.True(t, p.Active, "storefront must only list active products")
	}
	assert.Equal(t, []string{
		"prod_pro_monthly",
		"prod_pro_yearly",
		"prod_ai_tokens_10",
		"prod_ai_tokens_50",
		"prod_export_tokens_5",
		"prod_streak_shields_3",
	}, ids)
}

func TestListProductsUseCase_Execute_RendersMarkdownCopy(t *testing.T) {
	cat, err := catalog.NewCatalog()
	require.NoError(t, err)

	uc := NewListProductsUseCase(cat, markdown.NewMarkdownService(), &mockLogger{})

	products, err := uc.Execute(context.Background())
	require.NoError(t, err)

	var proMonthly *dto.ProductDTO
	for _, p := range products {
		if p.ID == "prod_pro_monthly" {
			proMonthly = p
		}
	}
	require.NotNil(t, proMonthly)

	assert.Contains(t, proMonthly.DescriptionHTML, "<ul>")
	assert.Contains(t, proMonthly.DescriptionHTML, "<strong>30 AI meal plans</strong>")
	assert.NotContains(t, proMonthly.DescriptionHTML, "**", "markdown emphasis must be rendered, not passed through")

	// The raw copy stays available for clients that do their own rendering.
	assert.Contains(t, proMonthly.Description, "**30 AI meal plans**")
}

func TestListProductsUseCase_Execute_StripsInjectedHTML(t *testing.T) {
	yaml := []byte(`
products:
  - id: prod_evil_copy
    kind: token_pack
    name: Evil Pack
    description: |
      Totally legit <script>alert("xss")</script> tokens.
    price_cents: 100
    currency: USD
    grant:
      ai_tokens: 1
    active: true
    sort_order: 10
`)
	cat, err := catalog.NewCatalogFromYAML(yaml)
	require.NoError(t, err)

	uc := NewListProductsUseCase(cat, markdown.NewMarkdownService(), &mockLogger{})

	products, err := uc.Execute(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)

	assert.NotContains(t, products[0].DescriptionHTML, "<script")
	assert.Contains(t, products[0].DescriptionHTML, "Totally legit")
}

func TestListProductsUseCase_Execute_RenderFailureDegradesGracefully(t *testing.T) {
	cat, err := catalog.NewCatalog()
	require.NoError(t, err)

	warned := 0
	md := &mockMarkdownService{
		ToHTMLSanitizedFunc: func(string) (string, error) {
			return "", errors.New("renderer exploded")
		},
	}
	logger := &mockLogger{
		WarnwFunc: func(msg string, keysAndValues ...interface{}) { warned++ },
	}

	uc := NewListProductsUseCase(cat, md, logger)

	products, err := uc.Execute(context.Background())
	require.NoError(t, err, "a broken renderer must not take the storefront down")
	require.Len(t, products, 6)

	for _, p := range products {
		assert.Empty(t, p.DescriptionHTML)
		assert.NotEmpty(t, p.Name)
	}
	assert.Equal(t, 6, warned)
}
