package entitlement

import "fmt"

// Feature identifies a gated capability of the app.
type Feature string

const (
	FeatureBarcodeScan Feature = "barcode_scan"
	FeatureAIMealPlan  Feature = "ai_meal_plan"
	FeatureAIRecipe    Feature = "ai_recipe"
	FeaturePDFExport   Feature = "pdf_export"
	FeatureHistory     Feature = "history"
)

// KnownFeatures is the closed set of gated feature identifiers.
var KnownFeatures = map[Feature]bool{
	FeatureBarcodeScan: true,
	FeatureAIMealPlan:  true,
	FeatureAIRecipe:    true,
	FeaturePDFExport:   true,
	FeatureHistory:     true,
}

// AllFeatures returns the known features in a stable order.
func AllFeatures() []Feature {
	return []Feature{
		FeatureBarcodeScan,
		FeatureAIMealPlan,
		FeatureAIRecipe,
		FeaturePDFExport,
		FeatureHistory,
	}
}

func (f Feature) IsKnown() bool {
	return KnownFeatures[f]
}

func (f Feature) String() string {
	return string(f)
}

// IsConsumable reports whether the feature has a countable consume
// operation. history is a binary capability and cannot be consumed.
func (f Feature) IsConsumable() bool {
	switch f {
	case FeatureBarcodeScan, FeatureAIMealPlan, FeatureAIRecipe, FeaturePDFExport:
		return true
	default:
		return false
	}
}

// NewFeature parses a feature identifier, rejecting anything outside the
// closed set. The HTTP boundary uses this; the gate itself stays permissive
// unless strict mode is on.
func NewFeature(value string) (Feature, error) {
	f := Feature(value)
	if !f.IsKnown() {
		return "", fmt.Errorf("%w: %s", ErrUnknownFeature, value)
	}
	return f, nil
}

// TokenKind identifies a purchasable token balance.
type TokenKind string

const (
	TokenKindAI     TokenKind = "ai_tokens"
	TokenKindExport TokenKind = "export_tokens"
	TokenKindShield TokenKind = "streak_shields"
)

var ValidTokenKinds = map[TokenKind]bool{
	TokenKindAI:     true,
	TokenKindExport: true,
	TokenKindShield: true,
}

func (k TokenKind) IsValid() bool {
	return ValidTokenKinds[k]
}

func (k TokenKind) String() string {
	return string(k)
}

// TokenKindFor returns the token balance that can back the feature, or ""
// when the feature has no token fallback.
func TokenKindFor(f Feature) TokenKind {
	switch f {
	case FeatureAIMealPlan, FeatureAIRecipe:
		return TokenKindAI
	case FeaturePDFExport:
		return TokenKindExport
	default:
		return ""
	}
}

// UpsellTrigger names the paywall context the client should open when a
// denial (or an engagement moment) warrants a Pro prompt.
type UpsellTrigger string

const (
	UpsellAILimit           UpsellTrigger = "ai_limit"
	UpsellBarcodeLimit      UpsellTrigger = "barcode_limit"
	UpsellHistoryLimit      UpsellTrigger = "history_limit"
	UpsellStreakRisk        UpsellTrigger = "streak_risk"
	UpsellWeightMilestone   UpsellTrigger = "weight_milestone"
	UpsellAchievementUnlock UpsellTrigger = "achievement_unlock"
	UpsellSideEffectExport  UpsellTrigger = "side_effect_export"
	UpsellMonthlyRenewal    UpsellTrigger = "monthly_renewal"
)

var ValidUpsellTriggers = map[UpsellTrigger]bool{
	UpsellAILimit:           true,
	UpsellBarcodeLimit:      true,
	UpsellHistoryLimit:      true,
	UpsellStreakRisk:        true,
	UpsellWeightMilestone:   true,
	UpsellAchievementUnlock: true,
	UpsellSideEffectExport:  true,
	UpsellMonthlyRenewal:    true,
}

func (t UpsellTrigger) IsValid() bool {
	return ValidUpsellTriggers[t]
}

func (t UpsellTrigger) String() string {
	return string(t)
}

// UpsellFor maps a denied feature to its paywall context.
func UpsellFor(f Feature) UpsellTrigger {
	switch f {
	case FeatureAIMealPlan, FeatureAIRecipe:
		return UpsellAILimit
	case FeatureBarcodeScan:
		return UpsellBarcodeLimit
	case FeaturePDFExport:
		return UpsellSideEffectExport
	case FeatureHistory:
		return UpsellHistoryLimit
	default:
		return ""
	}
}
