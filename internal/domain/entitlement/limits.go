package entitlement

import "fmt"

// Unlimited is the sentinel for a limit with no cap. It is the only legal
// negative limit value.
const Unlimited = -1

// FoodDatabaseTier selects which food database the tier may search.
type FoodDatabaseTier string

const (
	FoodDatabaseBasic    FoodDatabaseTier = "basic"
	FoodDatabaseExtended FoodDatabaseTier = "extended"
	FoodDatabasePremium  FoodDatabaseTier = "premium"
)

var ValidFoodDatabaseTiers = map[FoodDatabaseTier]bool{
	FoodDatabaseBasic:    true,
	FoodDatabaseExtended: true,
	FoodDatabasePremium:  true,
}

func (f FoodDatabaseTier) IsValid() bool {
	return ValidFoodDatabaseTiers[f]
}

func (f FoodDatabaseTier) String() string {
	return string(f)
}

// FeatureLimits is the per-tier limit matrix. Values are compile-time
// constants; there is no admin surface to edit them at runtime.
type FeatureLimits struct {
	AIMealPlansPerMonth         int
	AIRecipeSuggestionsPerMonth int
	BarcodeScansPerDay          int
	HistoryRetentionDays        int
	AchievementsAvailable       int
	MonthlyStreakShields        int
	PDFExportsIncluded          int
	DataExportEnabled           bool
	FamilySharingSlots          int
	FoodDatabase                FoodDatabaseTier
}

var freeLimits = FeatureLimits{
	AIMealPlansPerMonth:         1,
	AIRecipeSuggestionsPerMonth: 2,
	BarcodeScansPerDay:          10,
	HistoryRetentionDays:        30,
	AchievementsAvailable:       12,
	MonthlyStreakShields:        0,
	PDFExportsIncluded:          0,
	DataExportEnabled:           false,
	FamilySharingSlots:          0,
	FoodDatabase:                FoodDatabaseBasic,
}

var proLimits = FeatureLimits{
	AIMealPlansPerMonth:         30,
	AIRecipeSuggestionsPerMonth: 60,
	BarcodeScansPerDay:          Unlimited,
	HistoryRetentionDays:        Unlimited,
	AchievementsAvailable:       Unlimited,
	MonthlyStreakShields:        2,
	PDFExportsIncluded:          5,
	DataExportEnabled:           true,
	FamilySharingSlots:          5,
	FoodDatabase:                FoodDatabasePremium,
}

// LimitsForTier returns the limit matrix for a tier. Unknown tiers get
// free limits; gating never fails open on a bad tier value.
func LimitsForTier(t Tier) FeatureLimits {
	switch t {
	case TierPro:
		return proLimits
	default:
		return freeLimits
	}
}

// QuotaLimitFor returns the periodic quota that backs a feature's included
// allowance. history has no quota; callers gate it on HistoryRetentionDays.
func (l FeatureLimits) QuotaLimitFor(f Feature) int {
	switch f {
	case FeatureBarcodeScan:
		return l.BarcodeScansPerDay
	case FeatureAIMealPlan:
		return l.AIMealPlansPerMonth
	case FeatureAIRecipe:
		return l.AIRecipeSuggestionsPerMonth
	case FeaturePDFExport:
		return l.PDFExportsIncluded
	default:
		return 0
	}
}

// IsUnlimited reports whether a limit value is the unlimited sentinel.
func IsUnlimited(limit int) bool {
	return limit == Unlimited
}

// Validate checks the structural invariants of a limit matrix: every
// numeric limit is non-negative or exactly Unlimited.
func (l FeatureLimits) Validate() error {
	fields := map[string]int{
		"ai_meal_plans_per_month":         l.AIMealPlansPerMonth,
		"ai_recipe_suggestions_per_month": l.AIRecipeSuggestionsPerMonth,
		"barcode_scans_per_day":           l.BarcodeScansPerDay,
		"history_retention_days":          l.HistoryRetentionDays,
		"achievements_available":          l.AchievementsAvailable,
		"monthly_streak_shields":          l.MonthlyStreakShields,
		"pdf_exports_included":            l.PDFExportsIncluded,
		"family_sharing_slots":            l.FamilySharingSlots,
	}
	for name, v := range fields {
		if v < 0 && v != Unlimited {
			return fmt.Errorf("limit %s has invalid negative value %d", name, v)
		}
	}
	if !l.FoodDatabase.IsValid() {
		return fmt.Errorf("invalid food database tier: %s", l.FoodDatabase)
	}
	return nil
}
