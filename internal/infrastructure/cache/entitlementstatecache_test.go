package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carelog-health/carelog/internal/domain/entitlement"
	"github.com/carelog-health/carelog/internal/shared/logger"
)

// nopLogger is a no-op logger for testing.
type nopLogger struct{}

func newNopLogger() logger.Interface { return &nopLogger{} }

func (l *nopLogger) Debug(msg string, args ...any)              {}
func (l *nopLogger) Info(msg string, args ...any)               {}
func (l *nopLogger) Warn(msg string, args ...any)               {}
func (l *nopLogger) Error(msg string, args ...any)              {}
func (l *nopLogger) Fatal(msg string, args ...any)              {}
func (l *nopLogger) With(args ...any) logger.Interface          { return l }
func (l *nopLogger) Named(name string) logger.Interface         { return l }
func (l *nopLogger) Debugw(msg string, keysAndValues ...any)    {}
func (l *nopLogger) Infow(msg string, keysAndValues ...any)     {}
func (l *nopLogger) Warnw(msg string, keysAndValues ...any)     {}
func (l *nopLogger) Errorw(msg string, keysAndValues ...any)    {}
func (l *nopLogger) Fatalw(msg string, keysAndValues ...any)    {}

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	return mr, client
}

func proUserState(t *testing.T) *entitlement.UserEntitlements {
	t.Helper()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	u, err := entitlement.ReconstructUserEntitlements(entitlement.ReconstructParams{
		ID:                 42,
		UserID:             "usr_cachetest01",
		Tier:               entitlement.TierPro,
		Status:             entitlement.StatusActive,
		CurrentPeriodStart: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		CurrentPeriodEnd:   time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		Timezone:           "America/New_York",
		AIMealPlansUsed:    3,
		BarcodeScansToday:  7,
		DayAnchor:          time.Date(2026, 3, 10, 5, 0, 0, 0, time.UTC),
		MonthAnchor:        time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		AITokens:           120,
		ExportTokens:       4,
		StreakShields:      2,
		Version:            9,
		CreatedAt:          now.Add(-30 * 24 * time.Hour),
		UpdatedAt:          now,
	})
	require.NoError(t, err)
	return u
}

func TestEntitlementStateCache_MissReturnsNil(t *testing.T) {
	_, client := setupTestRedis(t)
	c := NewRedisEntitlementStateCache(client, time.Minute, newNopLogger())

	got, err := c.Get(context.Background(), "usr_nobody")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestEntitlementStateCache_RoundTrip(t *testing.T) {
	_, client := setupTestRedis(t)
	c := NewRedisEntitlementStateCache(client, time.Minute, newNopLogger())
	ctx := context.Background()

	u := proUserState(t)
	require.NoError(t, c.Set(ctx, u))

	got, err := c.Get(ctx, u.UserID())
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, u.ID(), got.ID())
	assert.Equal(t, u.UserID(), got.UserID())
	assert.Equal(t, entitlement.TierPro, got.Tier())
	assert.Equal(t, entitlement.StatusActive, got.Status())
	assert.Equal(t, "America/New_York", got.Timezone())
	assert.Equal(t, u.AIMealPlansUsed(), got.AIMealPlansUsed())
	assert.Equal(t, u.BarcodeScansToday(), got.BarcodeScansToday())
	assert.Equal(t, u.AITokens(), got.AITokens())
	assert.Equal(t, u.ExportTokens(), got.ExportTokens())
	assert.Equal(t, u.StreakShields(), got.StreakShields())
	assert.Equal(t, u.Version(), got.Version())
	assert.True(t, u.DayAnchor().Equal(got.DayAnchor()))
	assert.True(t, u.MonthAnchor().Equal(got.MonthAnchor()))
	assert.True(t, u.CurrentPeriodEnd().Equal(got.CurrentPeriodEnd()))
}

func TestEntitlementStateCache_SetNilFails(t *testing.T) {
	_, client := setupTestRedis(t)
	c := NewRedisEntitlementStateCache(client, time.Minute, newNopLogger())

	assert.Error(t, c.Set(context.Background(), nil))
}

func TestEntitlementStateCache_Invalidate(t *testing.T) {
	_, client := setupTestRedis(t)
	c := NewRedisEntitlementStateCache(client, time.Minute, newNopLogger())
	ctx := context.Background()

	u := proUserState(t)
	require.NoError(t, c.Set(ctx, u))
	require.NoError(t, c.Invalidate(ctx, u.UserID()))

	got, err := c.Get(ctx, u.UserID())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestEntitlementStateCache_TTLWithinJitterRange(t *testing.T) {
	mr, client := setupTestRedis(t)
	ttl := 5 * time.Minute
	c := NewRedisEntitlementStateCache(client, ttl, newNopLogger())

	u := proUserState(t)
	require.NoError(t, c.Set(context.Background(), u))

	got := mr.TTL(EntitlementStatePrefix + u.UserID())
	assert.GreaterOrEqual(t, got, ttl)
	assert.Less(t, got, ttl+ttl/5)
}

func TestEntitlementStateCache_EntryExpires(t *testing.T) {
	mr, client := setupTestRedis(t)
	ttl := time.Minute
	c := NewRedisEntitlementStateCache(client, ttl, newNopLogger())
	ctx := context.Background()

	u := proUserState(t)
	require.NoError(t, c.Set(ctx, u))

	mr.FastForward(2 * ttl)

	got, err := c.Get(ctx, u.UserID())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestEntitlementStateCache_CorruptedEntryReturnsError(t *testing.T) {
	mr, client := setupTestRedis(t)
	c := NewRedisEntitlementStateCache(client, time.Minute, newNopLogger())

	require.NoError(t, mr.Set(EntitlementStatePrefix+"usr_corrupt", "{not json"))

	_, err := c.Get(context.Background(), "usr_corrupt")
	assert.Error(t, err)
}
