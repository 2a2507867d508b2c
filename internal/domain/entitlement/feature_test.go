package entitlement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFeature(t *testing.T) {
	f, err := NewFeature("barcode_scan")
	require.NoError(t, err)
	assert.Equal(t, FeatureBarcodeScan, f)

	_, err = NewFeature("voice_logging")
	assert.ErrorIs(t, err, ErrUnknownFeature)
}

func TestFeatureIsConsumable(t *testing.T) {
	assert.True(t, FeatureBarcodeScan.IsConsumable())
	assert.True(t, FeatureAIMealPlan.IsConsumable())
	assert.True(t, FeatureAIRecipe.IsConsumable())
	assert.True(t, FeaturePDFExport.IsConsumable())
	assert.False(t, FeatureHistory.IsConsumable(), "history is a capability, not a counter")
}

func TestAllFeaturesStableOrder(t *testing.T) {
	features := AllFeatures()

	require.Len(t, features, 5)
	assert.Equal(t, features, AllFeatures(), "order must be deterministic")
	for _, f := range features {
		assert.True(t, f.IsKnown())
	}
}

func TestTokenKindFor(t *testing.T) {
	assert.Equal(t, TokenKindAI, TokenKindFor(FeatureAIMealPlan))
	assert.Equal(t, TokenKindAI, TokenKindFor(FeatureAIRecipe))
	assert.Equal(t, TokenKindExport, TokenKindFor(FeaturePDFExport))
	assert.Empty(t, TokenKindFor(FeatureBarcodeScan), "barcode scans have no token fallback")
	assert.Empty(t, TokenKindFor(FeatureHistory))
}

func TestNewTier(t *testing.T) {
	tier, err := NewTier("pro")
	require.NoError(t, err)
	assert.Equal(t, TierPro, tier)

	_, err = NewTier("platinum")
	assert.Error(t, err)
}

func TestNewSubscriptionStatus(t *testing.T) {
	s, err := NewSubscriptionStatus("trialing")
	require.NoError(t, err)
	assert.Equal(t, StatusTrialing, s)
	assert.True(t, s.CanUseProFeatures())

	s, err = NewSubscriptionStatus("past_due")
	require.NoError(t, err)
	assert.False(t, s.CanUseProFeatures())

	_, err = NewSubscriptionStatus("paused")
	assert.Error(t, err)
}
