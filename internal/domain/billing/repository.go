package billing

import "context"

// Repository defines the interface for billing event persistence
type Repository interface {
	// Create persists a processed event. The SID column is unique; a
	// duplicate error from the storage layer means the event was already
	// processed and the delivery is a webhook retry.
	Create(ctx context.Context, event *BillingEvent) error

	// GetBySID returns the event with the given SID, or nil when it has
	// not been processed.
	GetBySID(ctx context.Context, sid string) (*BillingEvent, error)

	// ListByUserID returns the most recently processed events for a user,
	// newest first, capped at limit.
	ListByUserID(ctx context.Context, userID string, limit int) ([]*BillingEvent, error)
}
