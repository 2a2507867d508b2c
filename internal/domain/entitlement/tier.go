package entitlement

import "fmt"

// Tier is the subscription tier a user is on.
type Tier string

const (
	TierFree Tier = "free"
	TierPro  Tier = "pro"
)

var ValidTiers = map[Tier]bool{
	TierFree: true,
	TierPro:  true,
}

func (t Tier) IsValid() bool {
	return ValidTiers[t]
}

func (t Tier) String() string {
	return string(t)
}

func NewTier(value string) (Tier, error) {
	t := Tier(value)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid tier: %s", value)
	}
	return t, nil
}

// SubscriptionStatus mirrors the billing provider's subscription state.
// StatusNone is the absence of a subscription (free users).
type SubscriptionStatus string

const (
	StatusNone      SubscriptionStatus = ""
	StatusActive    SubscriptionStatus = "active"
	StatusTrialing  SubscriptionStatus = "trialing"
	StatusCancelled SubscriptionStatus = "cancelled"
	StatusPastDue   SubscriptionStatus = "past_due"
)

var ValidStatuses = map[SubscriptionStatus]bool{
	StatusNone:      true,
	StatusActive:    true,
	StatusTrialing:  true,
	StatusCancelled: true,
	StatusPastDue:   true,
}

func (s SubscriptionStatus) IsValid() bool {
	return ValidStatuses[s]
}

func (s SubscriptionStatus) String() string {
	return string(s)
}

// CanUseProFeatures reports whether the status keeps Pro limits live.
// A cancelled or past_due subscription drops to free limits immediately;
// a trial counts as Pro until the provider says otherwise.
func (s SubscriptionStatus) CanUseProFeatures() bool {
	return s == StatusActive || s == StatusTrialing
}

func NewSubscriptionStatus(value string) (SubscriptionStatus, error) {
	s := SubscriptionStatus(value)
	if !s.IsValid() {
		return "", fmt.Errorf("invalid subscription status: %s", value)
	}
	return s, nil
}
