// Package entitlements provides a Go SDK for the CareLog entitlement API.
package entitlements

import "time"

// Limits is the tier limit matrix. -1 means unlimited.
type Limits struct {
	AIMealPlansPerMonth         int    `json:"ai_meal_plans_per_month"`
	AIRecipeSuggestionsPerMonth int    `json:"ai_recipe_suggestions_per_month"`
	BarcodeScansPerDay          int    `json:"barcode_scans_per_day"`
	HistoryRetentionDays        int    `json:"history_retention_days"`
	AchievementsAvailable       int    `json:"achievements_available"`
	MonthlyStreakShields        int    `json:"monthly_streak_shields"`
	PDFExportsIncluded          int    `json:"pdf_exports_included"`
	DataExportEnabled           bool   `json:"data_export_enabled"`
	FamilySharingSlots          int    `json:"family_sharing_slots"`
	FoodDatabase                string `json:"food_database"`
}

// Usage carries consumed counts for the current daily and monthly periods.
type Usage struct {
	AIMealPlansUsed         int `json:"ai_meal_plans_used"`
	AIRecipeSuggestionsUsed int `json:"ai_recipe_suggestions_used"`
	PDFExportsUsed          int `json:"pdf_exports_used"`
	BarcodeScansToday       int `json:"barcode_scans_today"`
}

// Balances carries the persistent token balances.
type Balances struct {
	AITokens      int `json:"ai_tokens"`
	ExportTokens  int `json:"export_tokens"`
	StreakShields int `json:"streak_shields"`
}

// Snapshot is the full entitlement view for the authenticated user.
// Remaining maps each feature to the quantity still available this period,
// token fallback included, -1 for unlimited.
type Snapshot struct {
	UserID             string         `json:"user_id"`
	Tier               string         `json:"tier"`
	Status             string         `json:"status,omitempty"`
	IsActivePro        bool           `json:"is_active_pro"`
	TrialDaysRemaining int            `json:"trial_days_remaining,omitempty"`
	CancelAtPeriodEnd  bool           `json:"cancel_at_period_end,omitempty"`
	CurrentPeriodEnd   *time.Time     `json:"current_period_end,omitempty"`
	Timezone           string         `json:"timezone"`
	Limits             Limits         `json:"limits"`
	Usage              Usage          `json:"usage"`
	Balances           Balances       `json:"balances"`
	Remaining          map[string]int `json:"remaining"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

// CheckResult is the outcome of a feature gate check.
type CheckResult struct {
	Feature       string `json:"feature"`
	Allowed       bool   `json:"allowed"`
	Reason        string `json:"reason,omitempty"`
	UpsellTrigger string `json:"upsell_trigger,omitempty"`
	Remaining     int    `json:"remaining"`
	UsesTokens    bool   `json:"uses_tokens,omitempty"`
}

// ConsumeRequest asks the server to debit one or more uses of a feature.
// UseTokens debits token balances before the included quota.
type ConsumeRequest struct {
	Feature   string `json:"feature"`
	Quantity  int    `json:"quantity,omitempty"`
	UseTokens bool   `json:"use_tokens,omitempty"`
}

// ConsumeResult is the outcome of a consume call. A denial is a regular
// result with Success false and the upsell context filled in, not an error.
type ConsumeResult struct {
	Feature       string   `json:"feature"`
	Success       bool     `json:"success"`
	FromQuota     int      `json:"from_quota"`
	TokensUsed    int      `json:"tokens_used"`
	Remaining     int      `json:"remaining"`
	Reason        string   `json:"reason,omitempty"`
	UpsellTrigger string   `json:"upsell_trigger,omitempty"`
	Balances      Balances `json:"balances"`
}

// StreakShieldResult is the outcome of spending a streak shield.
type StreakShieldResult struct {
	Success       bool   `json:"success"`
	StreakShields int    `json:"streak_shields"`
	UpsellTrigger string `json:"upsell_trigger,omitempty"`
}

// TokenGrant describes the tokens a token pack delivers on purchase. Zero
// kinds are omitted.
type TokenGrant struct {
	AITokens      int `json:"ai_tokens,omitempty"`
	ExportTokens  int `json:"export_tokens,omitempty"`
	StreakShields int `json:"streak_shields,omitempty"`
}

// Product is a purchasable catalog entry, either a subscription plan or a
// token pack.
type Product struct {
	ID              string      `json:"id"`
	Kind            string      `json:"kind"`
	Name            string      `json:"name"`
	Description     string      `json:"description,omitempty"`
	DescriptionHTML string      `json:"description_html,omitempty"`
	PriceCents      uint64      `json:"price_cents"`
	Currency        string      `json:"currency"`
	Grant           *TokenGrant `json:"grant,omitempty"`
	Tier            string      `json:"tier,omitempty"`
	BillingPeriod   string      `json:"billing_period,omitempty"`
	TrialDays       int         `json:"trial_days,omitempty"`
	Active          bool        `json:"active"`
}

// errorInfo is the error block of the standard API envelope.
type errorInfo struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// apiResponse represents the standard API response structure.
type apiResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message,omitempty"`
	Error   *errorInfo `json:"error,omitempty"`
	Data    any        `json:"data,omitempty"`
}
