package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carelog-health/carelog/internal/domain/entitlement"
)

func TestGetEntitlements_FirstTouchReturnsFreeDefaults(t *testing.T) {
	repo := newMemEntitlementRepo()
	svc := NewSnapshotService(repo, nil, &mockLogger{})
	uc := NewGetEntitlementsUseCase(svc, entitlement.NewGate(false), &mockLogger{})

	result, err := uc.Execute(context.Background(), GetEntitlementsQuery{UserID: testUserID})

	require.NoError(t, err)
	assert.Equal(t, testUserID, result.UserID)
	assert.Equal(t, "free", result.Tier)
	assert.False(t, result.IsActivePro)
	assert.Equal(t, 1, result.Limits.AIMealPlansPerMonth)
	assert.Equal(t, 2, result.Limits.AIRecipeSuggestionsPerMonth)
	assert.Equal(t, 10, result.Limits.BarcodeScansPerDay)
	assert.Equal(t, 0, result.Usage.AIMealPlansUsed)
	assert.Equal(t, 0, result.Balances.AITokens)
	assert.Equal(t, "UTC", result.Timezone)
	assert.Nil(t, result.CurrentPeriodEnd)
}

func TestGetEntitlements_RemainingPoolsQuotaAndTokens(t *testing.T) {
	repo := newMemEntitlementRepo()
	svc := NewSnapshotService(repo, nil, &mockLogger{})
	uc := NewGetEntitlementsUseCase(svc, entitlement.NewGate(false), &mockLogger{})

	seedUser(t, repo, func(u *entitlement.UserEntitlements) {
		_, err := u.Debit(entitlement.FeatureAIRecipe, 1, false)
		require.NoError(t, err)
		require.NoError(t, u.CreditTokens(entitlement.TokenKindAI, 3))
	})

	result, err := uc.Execute(context.Background(), GetEntitlementsQuery{UserID: testUserID})

	require.NoError(t, err)
	// 2 recipe slots, 1 used, plus 3 AI tokens.
	assert.Equal(t, 4, result.Remaining["ai_recipe"])
	assert.Equal(t, 1, result.Usage.AIRecipeSuggestionsUsed)
	assert.Equal(t, 3, result.Balances.AITokens)
}

func TestGetEntitlements_ActiveProSnapshot(t *testing.T) {
	repo := newMemEntitlementRepo()
	svc := NewSnapshotService(repo, nil, &mockLogger{})
	uc := NewGetEntitlementsUseCase(svc, entitlement.NewGate(false), &mockLogger{})

	seedUser(t, repo, func(u *entitlement.UserEntitlements) {
		activatePro(t, u)
	})

	result, err := uc.Execute(context.Background(), GetEntitlementsQuery{UserID: testUserID})

	require.NoError(t, err)
	assert.Equal(t, "pro", result.Tier)
	assert.Equal(t, "active", result.Status)
	assert.True(t, result.IsActivePro)
	require.NotNil(t, result.CurrentPeriodEnd)
	assert.Equal(t, -1, result.Limits.BarcodeScansPerDay)
	assert.Equal(t, entitlement.Unlimited, result.Remaining["barcode_scan"])
	assert.Equal(t, entitlement.Unlimited, result.Remaining["history"])
	// Activation grants the monthly shield allotment.
	assert.Equal(t, 2, result.Balances.StreakShields)
}

func TestGetEntitlements_HistoryRemainingIsZeroForFree(t *testing.T) {
	repo := newMemEntitlementRepo()
	svc := NewSnapshotService(repo, nil, &mockLogger{})
	uc := NewGetEntitlementsUseCase(svc, entitlement.NewGate(false), &mockLogger{})

	result, err := uc.Execute(context.Background(), GetEntitlementsQuery{UserID: testUserID})

	require.NoError(t, err)
	assert.Equal(t, 0, result.Remaining["history"])
	assert.Equal(t, 30, result.Limits.HistoryRetentionDays)
}
