package usecases

import (
	"context"

	"github.com/carelog-health/carelog/internal/domain/entitlement"
)

// EntitlementCache caches reconstructed entitlement state to spare the
// primary store on read-heavy gate checks. The cache is advisory: misses and
// errors fall back to the repository, and writers invalidate after billing
// changes.
type EntitlementCache interface {
	// Get returns the cached state for a user, or nil on a miss.
	Get(ctx context.Context, userID string) (*entitlement.UserEntitlements, error)
	// Set stores the state with the configured TTL.
	Set(ctx context.Context, entitlements *entitlement.UserEntitlements) error
	// Invalidate removes the cached state, forcing a reload on next access.
	Invalidate(ctx context.Context, userID string) error
}

// TransactionRunner runs a function with every repository call inside one
// storage transaction. db.TransactionManager satisfies it.
type TransactionRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
