package dto

// TokenGrantDTO describes what a token pack delivers on purchase. Zero
// kinds are omitted from the JSON.
type TokenGrantDTO struct {
	AITokens      int `json:"ai_tokens,omitempty"`
	ExportTokens  int `json:"export_tokens,omitempty"`
	StreakShields int `json:"streak_shields,omitempty"`
}

// ProductDTO is the storefront view of a catalog product. DescriptionHTML
// is rendered from the markdown copy and sanitized for direct embedding in
// the paywall.
type ProductDTO struct {
	ID              string         `json:"id"`
	Kind            string         `json:"kind"`
	Name            string         `json:"name"`
	Description     string         `json:"description,omitempty"`
	DescriptionHTML string         `json:"description_html,omitempty"`
	PriceCents      uint64         `json:"price_cents"`
	Currency        string         `json:"currency"`
	Grant           *TokenGrantDTO `json:"grant,omitempty"`
	Tier            string         `json:"tier,omitempty"`
	BillingPeriod   string         `json:"billing_period,omitempty"`
	TrialDays       int            `json:"trial_days,omitempty"`
	Active          bool           `json:"active"`
}
