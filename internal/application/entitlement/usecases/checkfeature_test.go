package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carelog-health/carelog/internal/domain/entitlement"
)

func TestCheckFeature_AllowedWithinQuota(t *testing.T) {
	repo := newMemEntitlementRepo()
	svc := NewSnapshotService(repo, nil, &mockLogger{})
	uc := NewCheckFeatureUseCase(svc, entitlement.NewGate(false), &mockLogger{})

	seedUser(t, repo, nil)

	result, err := uc.Execute(context.Background(), CheckFeatureQuery{UserID: testUserID, Feature: "ai_recipe"})

	require.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.Equal(t, "ai_recipe", result.Feature)
	assert.Equal(t, 2, result.Remaining)
	assert.Empty(t, result.Reason)
	assert.Empty(t, result.UpsellTrigger)
}

func TestCheckFeature_DenialIsAResultNotAnError(t *testing.T) {
	repo := newMemEntitlementRepo()
	svc := NewSnapshotService(repo, nil, &mockLogger{})
	uc := NewCheckFeatureUseCase(svc, entitlement.NewGate(false), &mockLogger{})

	seedUser(t, repo, func(u *entitlement.UserEntitlements) {
		_, err := u.Debit(entitlement.FeatureAIRecipe, 2, false)
		require.NoError(t, err)
	})

	result, err := uc.Execute(context.Background(), CheckFeatureQuery{UserID: testUserID, Feature: "ai_recipe"})

	require.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.Equal(t, "limit_reached", result.Reason)
	assert.Equal(t, "ai_limit", result.UpsellTrigger)
	assert.Equal(t, 0, result.Remaining)
}

func TestCheckFeature_ReportsTokenFallback(t *testing.T) {
	repo := newMemEntitlementRepo()
	svc := NewSnapshotService(repo, nil, &mockLogger{})
	uc := NewCheckFeatureUseCase(svc, entitlement.NewGate(false), &mockLogger{})

	seedUser(t, repo, func(u *entitlement.UserEntitlements) {
		_, err := u.Debit(entitlement.FeatureAIRecipe, 2, false)
		require.NoError(t, err)
		require.NoError(t, u.CreditTokens(entitlement.TokenKindAI, 5))
	})

	result, err := uc.Execute(context.Background(), CheckFeatureQuery{UserID: testUserID, Feature: "ai_recipe"})

	require.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.True(t, result.UsesTokens)
	assert.Equal(t, 5, result.Remaining)
}

func TestCheckFeature_UnknownFeaturePermissiveByDefault(t *testing.T) {
	repo := newMemEntitlementRepo()
	svc := NewSnapshotService(repo, nil, &mockLogger{})
	uc := NewCheckFeatureUseCase(svc, entitlement.NewGate(false), &mockLogger{})

	result, err := uc.Execute(context.Background(), CheckFeatureQuery{UserID: testUserID, Feature: "voice_logging"})

	require.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.Equal(t, entitlement.Unlimited, result.Remaining)
}

func TestCheckFeature_UnknownFeatureDeniedInStrictMode(t *testing.T) {
	repo := newMemEntitlementRepo()
	svc := NewSnapshotService(repo, nil, &mockLogger{})
	uc := NewCheckFeatureUseCase(svc, entitlement.NewGate(true), &mockLogger{})

	result, err := uc.Execute(context.Background(), CheckFeatureQuery{UserID: testUserID, Feature: "voice_logging"})

	require.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.Equal(t, "unknown_feature", result.Reason)
}

func TestCheckFeature_QuantityRespected(t *testing.T) {
	repo := newMemEntitlementRepo()
	svc := NewSnapshotService(repo, nil, &mockLogger{})
	uc := NewCheckFeatureUseCase(svc, entitlement.NewGate(false), &mockLogger{})

	seedUser(t, repo, nil)

	result, err := uc.Execute(context.Background(), CheckFeatureQuery{UserID: testUserID, Feature: "ai_recipe", Quantity: 3})

	require.NoError(t, err)
	assert.False(t, result.Allowed, "free tier holds 2 recipe slots, 3 cannot be covered")
	assert.Equal(t, 2, result.Remaining)
}
