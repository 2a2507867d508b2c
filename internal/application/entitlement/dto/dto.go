package dto

import "time"

// LimitsDTO mirrors the tier limit matrix. -1 means unlimited.
type LimitsDTO struct {
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

// UsageDTO carries the consumed counts for the current daily and monthly
// quota periods.
type UsageDTO struct {
	AIMealPlansUsed         int `json:"ai_meal_plans_used"`
	AIRecipeSuggestionsUsed int `json:"ai_recipe_suggestions_used"`
	PDFExportsUsed          int `json:"pdf_exports_used"`
	BarcodeScansToday       int `json:"barcode_scans_today"`
}

// BalancesDTO carries the persistent token balances.
type BalancesDTO struct {
	AITokens      int `json:"ai_tokens"`
	ExportTokens  int `json:"export_tokens"`
	StreakShields int `json:"streak_shields"`
}

// EntitlementSnapshotDTO is the full entitlement view served to clients.
// Remaining maps each feature to the quantity still available this period,
// token fallback included, -1 for unlimited.
type EntitlementSnapshotDTO struct {
	UserID             string         `json:"user_id"`
	Tier               string         `json:"tier"`
	Status             string         `json:"status,omitempty"`
	IsActivePro        bool           `json:"is_active_pro"`
	TrialDaysRemaining int            `json:"trial_days_remaining,omitempty"`
	CancelAtPeriodEnd  bool           `json:"cancel_at_period_end,omitempty"`
	CurrentPeriodEnd   *time.Time     `json:"current_period_end,omitempty"`
	Timezone           string         `json:"timezone"`
	Limits             LimitsDTO      `json:"limits"`
	Usage              UsageDTO       `json:"usage"`
	Balances           BalancesDTO    `json:"balances"`
	Remaining          map[string]int `json:"remaining"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

// CheckResultDTO is the outcome of a feature gate check.
type CheckResultDTO struct {
	Feature       string `json:"feature"`
	Allowed       bool   `json:"allowed"`
	Reason        string `json:"reason,omitempty"`
	UpsellTrigger string `json:"upsell_trigger,omitempty"`
	Remaining     int    `json:"remaining"`
	UsesTokens    bool   `json:"uses_tokens,omitempty"`
}

// ConsumeResultDTO is the outcome of a consume call. A denial is a regular
// result with Success false and the upsell context filled in, not an error.
type ConsumeResultDTO struct {
	Feature       string      `json:"feature"`
	Success       bool        `json:"success"`
	FromQuota     int         `json:"from_quota"`
	TokensUsed    int         `json:"tokens_used"`
	Remaining     int         `json:"remaining"`
	Reason        string      `json:"reason,omitempty"`
	UpsellTrigger string      `json:"upsell_trigger,omitempty"`
	Balances      BalancesDTO `json:"balances"`
}

// StreakShieldResultDTO is the outcome of spending a streak shield.
type StreakShieldResultDTO struct {
	Success       bool   `json:"success"`
	StreakShields int    `json:"streak_shields"`
	UpsellTrigger string `json:"upsell_trigger,omitempty"`
}

// BillingEventResultDTO reports how a billing event delivery was handled.
type BillingEventResultDTO struct {
	SID              string `json:"sid"`
	Applied          bool   `json:"applied"`
	AlreadyProcessed bool   `json:"already_processed"`
}

// BillingEventDTO is the audit view of a processed billing event.
type BillingEventDTO struct {
	SID         string                 `json:"sid"`
	EventType   string                 `json:"event_type"`
	UserID      string                 `json:"user_id"`
	Payload     map[string]interface{} `json:"payload,omitempty"`
	ProcessedAt time.Time              `json:"processed_at"`
}
