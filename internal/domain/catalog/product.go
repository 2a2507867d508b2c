package catalog

import (
	"fmt"

	"github.com/carelog-health/carelog/internal/domain/entitlement"
	"github.com/carelog-health/carelog/internal/shared/id"
)

// ProductKind distinguishes one-off token packs from recurring subscriptions.
type ProductKind string

const (
	ProductKindTokenPack    ProductKind = "token_pack"
	ProductKindSubscription ProductKind = "subscription"
)

func (k ProductKind) IsValid() bool {
	return k == ProductKindTokenPack || k == ProductKindSubscription
}

// BillingPeriod is the renewal interval of a subscription product.
type BillingPeriod string

const (
	BillingPeriodMonthly BillingPeriod = "monthly"
	BillingPeriodYearly  BillingPeriod = "yearly"
)

func (b BillingPeriod) IsValid() bool {
	return b == BillingPeriodMonthly || b == BillingPeriodYearly
}

var validCurrencies = map[string]bool{
	"USD": true,
	"EUR": true,
	"GBP": true,
}

// TokenCredit is one grant line: a token kind and the amount to credit.
type TokenCredit struct {
	Kind   entitlement.TokenKind
	Amount int
}

// TokenGrant is the token credit delivered when a purchase completes. Kinds
// may combine; the reference catalog uses one kind per pack.
type TokenGrant struct {
	AITokens      int `yaml:"ai_tokens"`
	ExportTokens  int `yaml:"export_tokens"`
	StreakShields int `yaml:"streak_shields"`
}

// IsZero reports whether the grant credits nothing.
func (g TokenGrant) IsZero() bool {
	return g.AITokens == 0 && g.ExportTokens == 0 && g.StreakShields == 0
}

// Credits returns the non-zero grant lines in a stable order.
func (g TokenGrant) Credits() []TokenCredit {
	var credits []TokenCredit
	if g.AITokens > 0 {
		credits = append(credits, TokenCredit{Kind: entitlement.TokenKindAI, Amount: g.AITokens})
	}
	if g.ExportTokens > 0 {
		credits = append(credits, TokenCredit{Kind: entitlement.TokenKindExport, Amount: g.ExportTokens})
	}
	if g.StreakShields > 0 {
		credits = append(credits, TokenCredit{Kind: entitlement.TokenKindShield, Amount: g.StreakShields})
	}
	return credits
}

// ProductConfig describes one purchasable product. The catalog is static
// configuration shipped with the binary; store prices are mastered in the
// app-store consoles and mirrored here for display.
type ProductConfig struct {
	ID            string           `yaml:"id"`
	Kind          ProductKind      `yaml:"kind"`
	Name          string           `yaml:"name"`
	Description   string           `yaml:"description"`
	PriceCents    uint64           `yaml:"price_cents"`
	Currency      string           `yaml:"currency"`
	Grant         *TokenGrant      `yaml:"grant,omitempty"`
	Tier          entitlement.Tier `yaml:"tier,omitempty"`
	BillingPeriod BillingPeriod    `yaml:"billing_period,omitempty"`
	TrialDays     int              `yaml:"trial_days,omitempty"`
	Active        bool             `yaml:"active"`
	SortOrder     int              `yaml:"sort_order"`
}

// IsSubscription reports whether the product starts or renews a subscription.
func (p *ProductConfig) IsSubscription() bool {
	return p.Kind == ProductKindSubscription
}

// Validate checks the catalog entry is internally consistent.
func (p *ProductConfig) Validate() error {
	if err := id.ValidateProductID(p.ID); err != nil {
		return fmt.Errorf("product id %q: %w", p.ID, err)
	}
	if !p.Kind.IsValid() {
		return fmt.Errorf("product %s: invalid kind: %s", p.ID, p.Kind)
	}
	if p.Name == "" {
		return fmt.Errorf("product %s: name is required", p.ID)
	}
	if len(p.Name) > 100 {
		return fmt.Errorf("product %s: name too long (max 100 characters)", p.ID)
	}
	if p.PriceCents == 0 {
		return fmt.Errorf("product %s: price is required", p.ID)
	}
	if !validCurrencies[p.Currency] {
		return fmt.Errorf("product %s: invalid currency code: %s", p.ID, p.Currency)
	}
	if p.TrialDays < 0 {
		return fmt.Errorf("product %s: trial days cannot be negative", p.ID)
	}
	if p.Grant != nil {
		if p.Grant.AITokens < 0 || p.Grant.ExportTokens < 0 || p.Grant.StreakShields < 0 {
			return fmt.Errorf("product %s: grant amounts cannot be negative", p.ID)
		}
	}

	switch p.Kind {
	case ProductKindTokenPack:
		if p.Grant == nil || p.Grant.IsZero() {
			return fmt.Errorf("product %s: token pack requires a grant", p.ID)
		}
		if p.Tier != "" || p.BillingPeriod != "" {
			return fmt.Errorf("product %s: token pack cannot carry subscription fields", p.ID)
		}
	case ProductKindSubscription:
		if p.Tier != entitlement.TierPro {
			return fmt.Errorf("product %s: subscription products must grant the pro tier", p.ID)
		}
		if !p.BillingPeriod.IsValid() {
			return fmt.Errorf("product %s: invalid billing period: %s", p.ID, p.BillingPeriod)
		}
	}

	return nil
}
