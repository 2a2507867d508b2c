package billing

import (
	"fmt"
	"time"

	"github.com/carelog-health/carelog/internal/shared/biztime"
)

// EventType classifies a billing provider notification.
type EventType string

const (
	// EventTypeSubscriptionUpdated covers every subscription lifecycle
	// transition: start, renewal, trial conversion, cancellation, lapse.
	EventTypeSubscriptionUpdated EventType = "subscription.updated"
	// EventTypePurchaseCompleted confirms a one-off product purchase,
	// typically a token pack.
	EventTypePurchaseCompleted EventType = "purchase.completed"
	// EventTypeAdminCredit records a balance adjustment made through the
	// admin API rather than the payment provider.
	EventTypeAdminCredit EventType = "admin.credit"
)

var validEventTypes = map[EventType]bool{
	EventTypeSubscriptionUpdated: true,
	EventTypePurchaseCompleted:   true,
	EventTypeAdminCredit:         true,
}

func (t EventType) IsValid() bool {
	return validEventTypes[t]
}

func (t EventType) String() string {
	return string(t)
}

// BillingEvent is the processed record of one provider notification. Rows
// are insert-only; the unique SID is what makes webhook delivery idempotent.
type BillingEvent struct {
	id          uint
	sid         string
	eventType   EventType
	userID      string
	payload     map[string]interface{}
	processedAt time.Time
	createdAt   time.Time
}

// NewBillingEvent creates a record for a provider event about to be applied.
// The SID is the provider's event ID, or a locally generated one for events
// synthesized by admin actions.
func NewBillingEvent(sid string, eventType EventType, userID string, payload map[string]interface{}) (*BillingEvent, error) {
	if sid == "" {
		return nil, fmt.Errorf("event SID is required")
	}
	if len(sid) > 128 {
		return nil, fmt.Errorf("event SID too long (max 128 characters)")
	}
	if !eventType.IsValid() {
		return nil, fmt.Errorf("invalid event type: %s", eventType)
	}
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}

	now := biztime.NowUTC()
	return &BillingEvent{
		sid:         sid,
		eventType:   eventType,
		userID:      userID,
		payload:     payload,
		processedAt: now,
		createdAt:   now,
	}, nil
}

// ReconstructBillingEvent reconstructs a billing event from persistence.
func ReconstructBillingEvent(
	id uint,
	sid string,
	eventType EventType,
	userID string,
	payload map[string]interface{},
	processedAt, createdAt time.Time,
) (*BillingEvent, error) {
	if id == 0 {
		return nil, fmt.Errorf("billing event ID cannot be zero")
	}
	if sid == "" {
		return nil, fmt.Errorf("event SID is required")
	}
	if !eventType.IsValid() {
		return nil, fmt.Errorf("invalid event type: %s", eventType)
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}

	return &BillingEvent{
		id:          id,
		sid:         sid,
		eventType:   eventType,
		userID:      userID,
		payload:     payload,
		processedAt: processedAt,
		createdAt:   createdAt,
	}, nil
}

// ID returns the billing event record ID
func (e *BillingEvent) ID() uint {
	return e.id
}

// SID returns the provider event ID
func (e *BillingEvent) SID() string {
	return e.sid
}

// EventType returns the event classification
func (e *BillingEvent) EventType() EventType {
	return e.eventType
}

// UserID returns the affected user ID
func (e *BillingEvent) UserID() string {
	return e.userID
}

// Payload returns the raw provider payload kept for audit
func (e *BillingEvent) Payload() map[string]interface{} {
	return e.payload
}

// ProcessedAt returns when the event was applied
func (e *BillingEvent) ProcessedAt() time.Time {
	return e.processedAt
}

// CreatedAt returns the creation timestamp
func (e *BillingEvent) CreatedAt() time.Time {
	return e.createdAt
}

// SetID sets the billing event ID after persistence
func (e *BillingEvent) SetID(id uint) error {
	if e.id != 0 {
		return fmt.Errorf("billing event ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("billing event ID cannot be zero")
	}
	e.id = id
	return nil
}
