package dto

import (
	"time"

	"github.com/carelog-health/carelog/internal/domain/billing"
	"github.com/carelog-health/carelog/internal/domain/entitlement"
)

// ToLimitsDTO converts the tier limit matrix to its transport shape.
func ToLimitsDTO(l entitlement.FeatureLimits) LimitsDTO {
	return LimitsDTO{
		AIMealPlansPerMonth:         l.AIMealPlansPerMonth,
		AIRecipeSuggestionsPerMonth: l.AIRecipeSuggestionsPerMonth,
		BarcodeScansPerDay:          l.BarcodeScansPerDay,
		HistoryRetentionDays:        l.HistoryRetentionDays,
		AchievementsAvailable:       l.AchievementsAvailable,
		MonthlyStreakShields:        l.MonthlyStreakShields,
		PDFExportsIncluded:          l.PDFExportsIncluded,
		DataExportEnabled:           l.DataExportEnabled,
		FamilySharingSlots:          l.FamilySharingSlots,
		FoodDatabase:                l.FoodDatabase.String(),
	}
}

// ToUsageDTO extracts the current period counters.
func ToUsageDTO(u *entitlement.UserEntitlements) UsageDTO {
	return UsageDTO{
		AIMealPlansUsed:         u.AIMealPlansUsed(),
		AIRecipeSuggestionsUsed: u.AIRecipeSuggestionsUsed(),
		PDFExportsUsed:          u.PDFExportsUsed(),
		BarcodeScansToday:       u.BarcodeScansToday(),
	}
}

// ToBalancesDTO extracts the token balances.
func ToBalancesDTO(u *entitlement.UserEntitlements) BalancesDTO {
	return BalancesDTO{
		AITokens:      u.AITokens(),
		ExportTokens:  u.ExportTokens(),
		StreakShields: u.StreakShields(),
	}
}

// ToSnapshotDTO builds the full entitlement view. The remaining map is
// computed by the caller through the gate so display and enforcement can
// never drift apart.
func ToSnapshotDTO(u *entitlement.UserEntitlements, remaining map[string]int, now time.Time) *EntitlementSnapshotDTO {
	if u == nil {
		return nil
	}

	out := &EntitlementSnapshotDTO{
		UserID:             u.UserID(),
		Tier:               u.Tier().String(),
		Status:             u.Status().String(),
		IsActivePro:        u.IsActivePro(),
		TrialDaysRemaining: u.TrialDaysRemaining(now),
		CancelAtPeriodEnd:  u.CancelAtPeriodEnd(),
		Timezone:           u.Timezone(),
		Limits:             ToLimitsDTO(u.Limits()),
		Usage:              ToUsageDTO(u),
		Balances:           ToBalancesDTO(u),
		Remaining:          remaining,
		UpdatedAt:          u.UpdatedAt(),
	}
	if end := u.CurrentPeriodEnd(); !end.IsZero() {
		out.CurrentPeriodEnd = &end
	}
	return out
}

// ToCheckResultDTO converts a gate decision to its transport shape.
func ToCheckResultDTO(feature string, d entitlement.Decision) *CheckResultDTO {
	return &CheckResultDTO{
		Feature:       feature,
		Allowed:       d.Allowed,
		Reason:        string(d.Reason),
		UpsellTrigger: d.Upsell.String(),
		Remaining:     d.Remaining,
		UsesTokens:    d.UsesTokens,
	}
}

// ToConsumedResultDTO builds the result of a successful debit. Remaining is
// re-evaluated after the debit so the client can update its UI in one trip.
func ToConsumedResultDTO(feature string, breakdown entitlement.DebitBreakdown, remaining int, u *entitlement.UserEntitlements) *ConsumeResultDTO {
	return &ConsumeResultDTO{
		Feature:    feature,
		Success:    true,
		FromQuota:  breakdown.FromQuota,
		TokensUsed: breakdown.FromTokens,
		Remaining:  remaining,
		Balances:   ToBalancesDTO(u),
	}
}

// ToDeniedResultDTO builds the result of a denied consume.
func ToDeniedResultDTO(feature string, d entitlement.Decision, u *entitlement.UserEntitlements) *ConsumeResultDTO {
	return &ConsumeResultDTO{
		Feature:       feature,
		Success:       false,
		Remaining:     d.Remaining,
		Reason:        string(d.Reason),
		UpsellTrigger: d.Upsell.String(),
		Balances:      ToBalancesDTO(u),
	}
}

// ToBillingEventDTO converts a processed event to its audit view.
func ToBillingEventDTO(e *billing.BillingEvent) *BillingEventDTO {
	if e == nil {
		return nil
	}
	return &BillingEventDTO{
		SID:         e.SID(),
		EventType:   e.EventType().String(),
		UserID:      e.UserID(),
		Payload:     e.Payload(),
		ProcessedAt: e.ProcessedAt(),
	}
}

// ToBillingEventDTOList converts a list of processed events.
func ToBillingEventDTOList(events []*billing.BillingEvent) []*BillingEventDTO {
	out := make([]*BillingEventDTO, 0, len(events))
	for _, e := range events {
		if e != nil {
			out = append(out, ToBillingEventDTO(e))
		}
	}
	return out
}
