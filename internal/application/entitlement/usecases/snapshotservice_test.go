package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carelog-health/carelog/internal/domain/entitlement"
	"github.com/carelog-health/carelog/internal/shared/biztime"
	apperrors "github.com/carelog-health/carelog/internal/shared/errors"
)

// firstTouchRaceRepo reports no row on the first read so the service runs
// its create path against a table where a concurrent request already
// inserted one.
type firstTouchRaceRepo struct {
	*memEntitlementRepo
	raced bool
}

func (r *firstTouchRaceRepo) FindByUserID(ctx context.Context, userID string) (*entitlement.UserEntitlements, error) {
	if !r.raced {
		r.raced = true
		return nil, nil
	}
	return r.memEntitlementRepo.FindByUserID(ctx, userID)
}

func TestSnapshotService_LoadForRead_CreatesFreeUserOnFirstTouch(t *testing.T) {
	repo := newMemEntitlementRepo()
	cache := newMemEntitlementCache()
	svc := NewSnapshotService(repo, cache, &mockLogger{})

	u, err := svc.LoadForRead(context.Background(), testUserID, "")

	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, entitlement.TierFree, u.Tier())
	assert.Equal(t, "UTC", u.Timezone())

	stored, ok := repo.storedRow(testUserID)
	require.True(t, ok, "first touch should persist the row")
	assert.Equal(t, entitlement.TierFree, stored.Tier)
	assert.Equal(t, 1, cache.sets, "created state should be cached")
}

func TestSnapshotService_LoadForRead_FirstTouchKeepsRequestedTimezone(t *testing.T) {
	repo := newMemEntitlementRepo()
	svc := NewSnapshotService(repo, nil, &mockLogger{})

	u, err := svc.LoadForRead(context.Background(), testUserID, "America/New_York")

	require.NoError(t, err)
	assert.Equal(t, "America/New_York", u.Timezone())
}

func TestSnapshotService_LoadForRead_ServesFromCache(t *testing.T) {
	repo := newMemEntitlementRepo()
	cache := newMemEntitlementCache()
	svc := NewSnapshotService(repo, cache, &mockLogger{})

	stored := seedUser(t, repo, nil)
	// Cache a copy with a balance the repository row does not have, to
	// prove which source answered.
	cached, err := repo.FindByUserID(context.Background(), testUserID)
	require.NoError(t, err)
	require.NoError(t, cached.CreditTokens(entitlement.TokenKindAI, 7))
	require.NoError(t, cache.Set(context.Background(), cached))

	u, err := svc.LoadForRead(context.Background(), testUserID, "")

	require.NoError(t, err)
	assert.Equal(t, 7, u.AITokens())
	assert.Equal(t, 0, stored.AITokens())
}

func TestSnapshotService_LoadForRead_CacheErrorFallsBackToRepository(t *testing.T) {
	repo := newMemEntitlementRepo()
	cache := newMemEntitlementCache()
	cache.getErr = errors.New("connection refused")
	svc := NewSnapshotService(repo, cache, &mockLogger{})

	seedUser(t, repo, func(u *entitlement.UserEntitlements) {
		require.NoError(t, u.CreditTokens(entitlement.TokenKindExport, 3))
	})

	u, err := svc.LoadForRead(context.Background(), testUserID, "")

	require.NoError(t, err)
	assert.Equal(t, 3, u.ExportTokens())
}

func TestSnapshotService_LoadForRead_NilCache(t *testing.T) {
	repo := newMemEntitlementRepo()
	svc := NewSnapshotService(repo, nil, &mockLogger{})

	seedUser(t, repo, nil)

	u, err := svc.LoadForRead(context.Background(), testUserID, "")
	require.NoError(t, err)
	assert.NotNil(t, u)
}

func TestSnapshotService_LoadForRead_EmptyUserID(t *testing.T) {
	svc := NewSnapshotService(newMemEntitlementRepo(), nil, &mockLogger{})

	_, err := svc.LoadForRead(context.Background(), "", "")

	require.Error(t, err)
	assert.True(t, apperrors.IsValidationError(err))
}

func TestSnapshotService_LoadForRead_StorageErrorFailsClosed(t *testing.T) {
	repo := newMemEntitlementRepo()
	repo.findErr = errors.New("connection refused")
	svc := NewSnapshotService(repo, nil, &mockLogger{})

	_, err := svc.LoadForRead(context.Background(), testUserID, "")

	require.Error(t, err)
	assert.True(t, apperrors.IsUnavailableError(err))
}

func TestSnapshotService_LoadForRead_ConcurrentFirstTouchTakesExistingRow(t *testing.T) {
	inner := newMemEntitlementRepo()
	existing := seedUser(t, inner, func(u *entitlement.UserEntitlements) {
		require.NoError(t, u.CreditTokens(entitlement.TokenKindAI, 5))
	})
	repo := &firstTouchRaceRepo{memEntitlementRepo: inner}
	svc := NewSnapshotService(repo, nil, &mockLogger{})

	u, err := svc.LoadForRead(context.Background(), testUserID, "")

	require.NoError(t, err)
	assert.Equal(t, existing.AITokens(), u.AITokens(), "should adopt the row the other request created")
}

func TestSnapshotService_LoadForUpdate_DoesNotPersistRollover(t *testing.T) {
	repo := newMemEntitlementRepo()
	svc := NewSnapshotService(repo, nil, &mockLogger{})

	// A row whose day anchor is long past forces a rollover on load.
	seedUser(t, repo, nil)
	stale, ok := repo.storedRow(testUserID)
	require.True(t, ok)
	stale.DayAnchor = stale.DayAnchor.AddDate(0, 0, -3)
	stale.BarcodeScansToday = 8
	repo.restore(map[string]entitlement.ReconstructParams{testUserID: stale})

	u, err := svc.LoadForUpdate(context.Background(), testUserID, "")

	require.NoError(t, err)
	assert.Equal(t, 0, u.BarcodeScansToday(), "rollover should reset the stale daily counter in memory")

	after, ok := repo.storedRow(testUserID)
	require.True(t, ok)
	assert.Equal(t, 8, after.BarcodeScansToday, "stored row must stay untouched until the caller saves")
	assert.Equal(t, stale.Version, after.Version)
}

func TestSnapshotService_LoadForRead_PersistsRollover(t *testing.T) {
	repo := newMemEntitlementRepo()
	svc := NewSnapshotService(repo, nil, &mockLogger{})

	seedUser(t, repo, nil)
	stale, ok := repo.storedRow(testUserID)
	require.True(t, ok)
	stale.DayAnchor = stale.DayAnchor.AddDate(0, 0, -3)
	stale.BarcodeScansToday = 8
	repo.restore(map[string]entitlement.ReconstructParams{testUserID: stale})

	u, err := svc.LoadForRead(context.Background(), testUserID, "")

	require.NoError(t, err)
	assert.Equal(t, 0, u.BarcodeScansToday())

	after, ok := repo.storedRow(testUserID)
	require.True(t, ok)
	assert.Equal(t, 0, after.BarcodeScansToday, "read path persists the reset")
	assert.Greater(t, after.Version, stale.Version)
}

func TestSnapshotService_LoadForRead_ConflictTakesWinner(t *testing.T) {
	repo := newMemEntitlementRepo()
	svc := NewSnapshotService(repo, nil, &mockLogger{})

	seedUser(t, repo, nil)
	stale, ok := repo.storedRow(testUserID)
	require.True(t, ok)
	stale.DayAnchor = stale.DayAnchor.AddDate(0, 0, -1)
	stale.BarcodeScansToday = 4
	repo.restore(map[string]entitlement.ReconstructParams{testUserID: stale})

	// A competing request lands its own rollover plus a token credit just
	// before this one saves.
	repo.beforeSave = func() {
		winner, err := repo.FindByUserID(context.Background(), testUserID)
		require.NoError(t, err)
		winner.ApplyRollover(biztime.NowUTC())
		require.NoError(t, winner.CreditTokens(entitlement.TokenKindAI, 2))
		require.NoError(t, repo.Save(context.Background(), winner))
	}

	u, err := svc.LoadForRead(context.Background(), testUserID, "")

	require.NoError(t, err)
	assert.Equal(t, 2, u.AITokens(), "loser should serve the winner's state")
	assert.Equal(t, 0, u.BarcodeScansToday())
}
