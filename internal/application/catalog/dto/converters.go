package dto

import (
	"github.com/carelog-health/carelog/internal/domain/catalog"
)

// ToProductDTO converts a catalog entry to its storefront view. The caller
// supplies the rendered description so the DTO layer stays free of the
// markdown pipeline.
func ToProductDTO(p *catalog.ProductConfig, descriptionHTML string) *ProductDTO {
	if p == nil {
		return nil
	}
	out := &ProductDTO{
		ID:              p.ID,
		Kind:            string(p.Kind),
		Name:            p.Name,
		Description:     p.Description,
		DescriptionHTML: descriptionHTML,
		PriceCents:      p.PriceCents,
		Currency:        p.Currency,
		Tier:            p.Tier.String(),
		BillingPeriod:   string(p.BillingPeriod),
		TrialDays:       p.TrialDays,
		Active:          p.Active,
	}
	if p.Grant != nil {
		out.Grant = &TokenGrantDTO{
			AITokens:      p.Grant.AITokens,
			ExportTokens:  p.Grant.ExportTokens,
			StreakShields: p.Grant.StreakShields,
		}
	}
	return out
}
