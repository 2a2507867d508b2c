package entitlement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimitsForTier_Free(t *testing.T) {
	l := LimitsForTier(TierFree)

	assert.Equal(t, 1, l.AIMealPlansPerMonth)
	assert.Equal(t, 2, l.AIRecipeSuggestionsPerMonth)
	assert.Equal(t, 10, l.BarcodeScansPerDay)
	assert.Equal(t, 30, l.HistoryRetentionDays)
	assert.Equal(t, 12, l.AchievementsAvailable)
	assert.Equal(t, 0, l.MonthlyStreakShields)
	assert.Equal(t, 0, l.PDFExportsIncluded)
	assert.False(t, l.DataExportEnabled)
	assert.Equal(t, 0, l.FamilySharingSlots)
	assert.Equal(t, FoodDatabaseBasic, l.FoodDatabase)
}

func TestLimitsForTier_Pro(t *testing.T) {
	l := LimitsForTier(TierPro)

	assert.Equal(t, 30, l.AIMealPlansPerMonth)
	assert.Equal(t, 60, l.AIRecipeSuggestionsPerMonth)
	assert.Equal(t, Unlimited, l.BarcodeScansPerDay)
	assert.Equal(t, Unlimited, l.HistoryRetentionDays)
	assert.Equal(t, Unlimited, l.AchievementsAvailable)
	assert.Equal(t, 2, l.MonthlyStreakShields)
	assert.Equal(t, 5, l.PDFExportsIncluded)
	assert.True(t, l.DataExportEnabled)
	assert.Equal(t, 5, l.FamilySharingSlots)
	assert.Equal(t, FoodDatabasePremium, l.FoodDatabase)
}

func TestLimitsForTier_UnknownFallsBackToFree(t *testing.T) {
	l := LimitsForTier(Tier("platinum"))

	assert.Equal(t, LimitsForTier(TierFree), l)
}

func TestQuotaLimitFor(t *testing.T) {
	free := LimitsForTier(TierFree)

	assert.Equal(t, 10, free.QuotaLimitFor(FeatureBarcodeScan))
	assert.Equal(t, 1, free.QuotaLimitFor(FeatureAIMealPlan))
	assert.Equal(t, 2, free.QuotaLimitFor(FeatureAIRecipe))
	assert.Equal(t, 0, free.QuotaLimitFor(FeaturePDFExport))
	assert.Equal(t, 0, free.QuotaLimitFor(FeatureHistory), "history has no numeric quota")
}

func TestFeatureLimitsValidate(t *testing.T) {
	require.NoError(t, LimitsForTier(TierFree).Validate())
	require.NoError(t, LimitsForTier(TierPro).Validate())

	bad := LimitsForTier(TierFree)
	bad.AIMealPlansPerMonth = -2
	assert.Error(t, bad.Validate(), "only -1 is a valid negative value")

	badFood := LimitsForTier(TierFree)
	badFood.FoodDatabase = FoodDatabaseTier("deluxe")
	assert.Error(t, badFood.Validate())
}

func TestIsUnlimited(t *testing.T) {
	assert.True(t, IsUnlimited(-1))
	assert.False(t, IsUnlimited(0))
	assert.False(t, IsUnlimited(10))
}
