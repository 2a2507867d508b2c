package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/carelog-health/carelog/internal/domain/entitlement"
	"github.com/carelog-health/carelog/internal/infrastructure/persistence/models"
	"github.com/carelog-health/carelog/internal/shared/biztime"
	"github.com/carelog-health/carelog/internal/shared/logger"
)

// nopLogger is a no-op logger for testing.
type nopLogger struct{}

func newNopLogger() logger.Interface { return &nopLogger{} }

func (l *nopLogger) Debug(msg string, args ...any)           {}
func (l *nopLogger) Info(msg string, args ...any)            {}
func (l *nopLogger) Warn(msg string, args ...any)            {}
func (l *nopLogger) Error(msg string, args ...any)           {}
func (l *nopLogger) Fatal(msg string, args ...any)           {}
func (l *nopLogger) With(args ...any) logger.Interface       { return l }
func (l *nopLogger) Named(name string) logger.Interface      { return l }
func (l *nopLogger) Debugw(msg string, keysAndValues ...any) {}
func (l *nopLogger) Infow(msg string, keysAndValues ...any)  {}
func (l *nopLogger) Warnw(msg string, keysAndValues ...any)  {}
func (l *nopLogger) Errorw(msg string, keysAndValues ...any) {}
func (l *nopLogger) Fatalw(msg string, keysAndValues ...any) {}

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.UserEntitlementStateModel{}, &models.BillingEventModel{})
	require.NoError(t, err)

	return db
}

func newFreeState(t *testing.T, userID string) *entitlement.UserEntitlements {
	t.Helper()
	u, err := entitlement.NewUserEntitlements(userID, "UTC")
	require.NoError(t, err)
	return u
}

func TestUserEntitlementStateRepository_CreateAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserEntitlementStateRepository(db, newNopLogger())
	ctx := context.Background()

	u := newFreeState(t, "usr_repo1")
	require.NoError(t, repo.Create(ctx, u))
	assert.NotZero(t, u.ID())

	found, err := repo.FindByUserID(ctx, "usr_repo1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, u.ID(), found.ID())
	assert.Equal(t, entitlement.TierFree, found.Tier())
	assert.Equal(t, 1, found.Version())
	assert.True(t, u.DayAnchor().Equal(found.DayAnchor()))
}

func TestUserEntitlementStateRepository_FindMissingReturnsNil(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserEntitlementStateRepository(db, newNopLogger())

	found, err := repo.FindByUserID(context.Background(), "usr_nobody")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestUserEntitlementStateRepository_DuplicateUserRejected(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserEntitlementStateRepository(db, newNopLogger())
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newFreeState(t, "usr_dup")))

	err := repo.Create(ctx, newFreeState(t, "usr_dup"))
	assert.Error(t, err)
}

func TestUserEntitlementStateRepository_SaveRoundTripsMutation(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserEntitlementStateRepository(db, newNopLogger())
	ctx := context.Background()

	u := newFreeState(t, "usr_save")
	require.NoError(t, repo.Create(ctx, u))

	require.NoError(t, u.CreditTokens(entitlement.TokenKindAI, 100))
	require.NoError(t, repo.Save(ctx, u))

	found, err := repo.FindByUserID(ctx, "usr_save")
	require.NoError(t, err)
	assert.Equal(t, 100, found.AITokens())
	assert.Equal(t, 2, found.Version())
}

func TestUserEntitlementStateRepository_SaveDetectsVersionConflict(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserEntitlementStateRepository(db, newNopLogger())
	ctx := context.Background()

	u := newFreeState(t, "usr_cas")
	require.NoError(t, repo.Create(ctx, u))

	// Two loads of the same row, both at version 1.
	copyA, err := repo.FindByUserID(ctx, "usr_cas")
	require.NoError(t, err)
	copyB, err := repo.FindByUserID(ctx, "usr_cas")
	require.NoError(t, err)

	require.NoError(t, copyA.CreditTokens(entitlement.TokenKindAI, 10))
	require.NoError(t, repo.Save(ctx, copyA))

	// The second writer saves against a version that no longer exists.
	require.NoError(t, copyB.CreditTokens(entitlement.TokenKindAI, 20))
	err = repo.Save(ctx, copyB)
	assert.ErrorIs(t, err, entitlement.ErrVersionConflict)

	// The first write is the one that landed.
	found, err := repo.FindByUserID(ctx, "usr_cas")
	require.NoError(t, err)
	assert.Equal(t, 10, found.AITokens())
}

func TestUserEntitlementStateRepository_ListLapsedPro(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserEntitlementStateRepository(db, newNopLogger())
	ctx := context.Background()

	now := biztime.NowUTC()

	lapsed := newFreeState(t, "usr_lapsed")
	require.NoError(t, lapsed.ApplySubscriptionChange(
		entitlement.TierPro, entitlement.StatusActive,
		now.Add(-40*24*time.Hour), now.Add(-10*24*time.Hour), false,
	))
	require.NoError(t, repo.Create(ctx, lapsed))

	current := newFreeState(t, "usr_current")
	require.NoError(t, current.ApplySubscriptionChange(
		entitlement.TierPro, entitlement.StatusActive,
		now.Add(-10*24*time.Hour), now.Add(20*24*time.Hour), false,
	))
	require.NoError(t, repo.Create(ctx, current))

	free := newFreeState(t, "usr_free")
	require.NoError(t, repo.Create(ctx, free))

	got, err := repo.ListLapsedPro(ctx, now, 100)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "usr_lapsed", got[0].UserID())
}

func TestUserEntitlementStateRepository_ListLapsedProHonorsLimit(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserEntitlementStateRepository(db, newNopLogger())
	ctx := context.Background()

	now := biztime.NowUTC()
	for _, userID := range []string{"usr_l1", "usr_l2", "usr_l3"} {
		u := newFreeState(t, userID)
		require.NoError(t, u.ApplySubscriptionChange(
			entitlement.TierPro, entitlement.StatusActive,
			now.Add(-60*24*time.Hour), now.Add(-5*24*time.Hour), false,
		))
		require.NoError(t, repo.Create(ctx, u))
	}

	got, err := repo.ListLapsedPro(ctx, now, 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
