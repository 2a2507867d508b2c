package entitlement

import (
	"context"
	"time"
)

// Repository defines the interface for entitlement state persistence
type Repository interface {
	// FindByUserID returns the entitlement state for a user, or nil when
	// none has been created yet.
	FindByUserID(ctx context.Context, userID string) (*UserEntitlements, error)

	// Create persists a new entitlement state and assigns its ID.
	Create(ctx context.Context, entitlements *UserEntitlements) error

	// Save persists mutated entitlement state guarded by its version.
	// Returns ErrVersionConflict when a concurrent writer won the race.
	Save(ctx context.Context, entitlements *UserEntitlements) error

	// ListLapsedPro returns pro states whose billing period ended before
	// cutoff, for downgrade by the lapse sweep. Results are capped at limit.
	ListLapsedPro(ctx context.Context, cutoff time.Time, limit int) ([]*UserEntitlements, error)
}
