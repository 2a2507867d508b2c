package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carelog-health/carelog/internal/domain/entitlement"
	"github.com/carelog-health/carelog/internal/shared/logger"
)

const (
	// EntitlementStatePrefix is the Redis key prefix for entitlement state
	EntitlementStatePrefix = "entitlement:state:"
	// DefaultEntitlementTTL bounds staleness of the read path; writers
	// invalidate on every billing change so this is a backstop.
	DefaultEntitlementTTL = 5 * time.Minute
)

// entitlementStateWrapper is the serialized form of the aggregate. It mirrors
// entitlement.ReconstructParams so a cached row rebuilds through the same
// domain factory as a database row.
type entitlementStateWrapper struct {
	ID                      uint      `json:"id"`
	UserID                  string    `json:"user_id"`
	Tier                    string    `json:"tier"`
	Status                  string    `json:"status"`
	CurrentPeriodStart      time.Time `json:"current_period_start"`
	CurrentPeriodEnd        time.Time `json:"current_period_end"`
	CancelAtPeriodEnd       bool      `json:"cancel_at_period_end"`
	Timezone                string    `json:"timezone"`
	AIMealPlansUsed         int       `json:"ai_meal_plans_used"`
	AIRecipeSuggestionsUsed int       `json:"ai_recipe_suggestions_used"`
	PDFExportsUsed          int       `json:"pdf_exports_used"`
	BarcodeScansToday       int       `json:"barcode_scans_today"`
	DayAnchor               time.Time `json:"day_anchor"`
	MonthAnchor             time.Time `json:"month_anchor"`
	AITokens                int       `json:"ai_tokens"`
	ExportTokens            int       `json:"export_tokens"`
	StreakShields           int       `json:"streak_shields"`
	Version                 int       `json:"version"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
}

// RedisEntitlementStateCache caches reconstructed entitlement state so the
// read-heavy gate checks spare the primary store. It satisfies the
// application layer's EntitlementCache interface.
type RedisEntitlementStateCache struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Interface
}

// NewRedisEntitlementStateCache creates a new Redis-based entitlement state cache
func NewRedisEntitlementStateCache(client *redis.Client, ttl time.Duration, logger logger.Interface) *RedisEntitlementStateCache {
	if ttl <= 0 {
		ttl = DefaultEntitlementTTL
	}
	return &RedisEntitlementStateCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *RedisEntitlementStateCache) key(userID string) string {
	return EntitlementStatePrefix + userID
}

// Get retrieves cached entitlement state for a user, nil on a miss
func (c *RedisEntitlementStateCache) Get(ctx context.Context, userID string) (*entitlement.UserEntitlements, error) {
	data, err := c.client.Get(ctx, c.key(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("failed to get entitlement state from cache: %w", err)
	}

	var wrapper entitlementStateWrapper
	if err := json.Unmarshal([]byte(data), &wrapper); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached entitlement state: %w", err)
	}

	entity, err := entitlement.ReconstructUserEntitlements(entitlement.ReconstructParams{
		ID:                      wrapper.ID,
		UserID:                  wrapper.UserID,
		Tier:                    entitlement.Tier(wrapper.Tier),
		Status:                  entitlement.SubscriptionStatus(wrapper.Status),
		CurrentPeriodStart:      wrapper.CurrentPeriodStart,
		CurrentPeriodEnd:        wrapper.CurrentPeriodEnd,
		CancelAtPeriodEnd:       wrapper.CancelAtPeriodEnd,
		Timezone:                wrapper.Timezone,
		AIMealPlansUsed:         wrapper.AIMealPlansUsed,
		AIRecipeSuggestionsUsed: wrapper.AIRecipeSuggestionsUsed,
		PDFExportsUsed:          wrapper.PDFExportsUsed,
		BarcodeScansToday:       wrapper.BarcodeScansToday,
		DayAnchor:               wrapper.DayAnchor,
		MonthAnchor:             wrapper.MonthAnchor,
		AITokens:                wrapper.AITokens,
		ExportTokens:            wrapper.ExportTokens,
		StreakShields:           wrapper.StreakShields,
		Version:                 wrapper.Version,
		CreatedAt:               wrapper.CreatedAt,
		UpdatedAt:               wrapper.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct cached entitlement state: %w", err)
	}

	return entity, nil
}

// Set stores entitlement state with the configured TTL
func (c *RedisEntitlementStateCache) Set(ctx context.Context, entitlements *entitlement.UserEntitlements) error {
	if entitlements == nil {
		return errors.New("entitlement state cannot be nil")
	}

	wrapper := entitlementStateWrapper{
		ID:                      entitlements.ID(),
		UserID:                  entitlements.UserID(),
		Tier:                    entitlements.Tier().String(),
		Status:                  entitlements.Status().String(),
		CurrentPeriodStart:      entitlements.CurrentPeriodStart(),
		CurrentPeriodEnd:        entitlements.CurrentPeriodEnd(),
		CancelAtPeriodEnd:       entitlements.CancelAtPeriodEnd(),
		Timezone:                entitlements.Timezone(),
		AIMealPlansUsed:         entitlements.AIMealPlansUsed(),
		AIRecipeSuggestionsUsed: entitlements.AIRecipeSuggestionsUsed(),
		PDFExportsUsed:          entitlements.PDFExportsUsed(),
		BarcodeScansToday:       entitlements.BarcodeScansToday(),
		DayAnchor:               entitlements.DayAnchor(),
		MonthAnchor:             entitlements.MonthAnchor(),
		AITokens:                entitlements.AITokens(),
		ExportTokens:            entitlements.ExportTokens(),
		StreakShields:           entitlements.StreakShields(),
		Version:                 entitlements.Version(),
		CreatedAt:               entitlements.CreatedAt(),
		UpdatedAt:               entitlements.UpdatedAt(),
	}

	data, err := json.Marshal(wrapper)
	if err != nil {
		return fmt.Errorf("failed to marshal entitlement state: %w", err)
	}

	if err := c.client.Set(ctx, c.key(entitlements.UserID()), data, c.ttlWithJitter()).Err(); err != nil {
		return fmt.Errorf("failed to set entitlement state in cache: %w", err)
	}

	c.logger.Debugw("entitlement state cached",
		"user_id", entitlements.UserID(),
		"version", entitlements.Version(),
	)

	return nil
}

// Invalidate removes cached entitlement state, forcing a reload on next access
func (c *RedisEntitlementStateCache) Invalidate(ctx context.Context, userID string) error {
	if err := c.client.Del(ctx, c.key(userID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate entitlement state cache: %w", err)
	}

	c.logger.Debugw("entitlement state cache invalidated",
		"user_id", userID,
	)

	return nil
}

// ttlWithJitter returns a randomized TTL to prevent cache stampede.
// Range: [ttl, ttl*1.2).
func (c *RedisEntitlementStateCache) ttlWithJitter() time.Duration {
	fifth := int64(c.ttl / 5)
	if fifth <= 0 {
		return c.ttl
	}
	return c.ttl + time.Duration(rand.Int64N(fifth))
}
