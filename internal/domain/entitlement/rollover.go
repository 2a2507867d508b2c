package entitlement

import (
	"time"

	"github.com/carelog-health/carelog/internal/shared/biztime"
)

// QuotaResetMode determines how monthly quota periods are calculated.
type QuotaResetMode string

const (
	// QuotaResetCalendarMonth resets monthly quotas on calendar month boundaries
	// in the user's timezone.
	QuotaResetCalendarMonth QuotaResetMode = "calendar_month"
	// QuotaResetBillingCycle resets monthly quotas on subscription billing
	// cycle boundaries.
	QuotaResetBillingCycle QuotaResetMode = "billing_cycle"
)

// QuotaPeriod represents a time range for monthly quota accounting.
type QuotaPeriod struct {
	Start time.Time
	End   time.Time
}

// QuotaResetModeFor returns the reset mode that applies to the user: billing
// cycle while the subscription entitles pro features, calendar month otherwise.
func (u *UserEntitlements) QuotaResetModeFor() QuotaResetMode {
	if u.IsActivePro() && !u.currentPeriodStart.IsZero() {
		return QuotaResetBillingCycle
	}
	return QuotaResetCalendarMonth
}

// CurrentQuotaPeriod returns the monthly quota period the counters belong to.
//
// For billing_cycle: uses the subscription's recorded period as-is, even when
// now has run past its end. Renewal is recorded by billing events; quotas do
// not refresh speculatively before the renewal lands.
// For calendar_month: uses month boundaries in the user's timezone.
func (u *UserEntitlements) CurrentQuotaPeriod(now time.Time) QuotaPeriod {
	if u.QuotaResetModeFor() == QuotaResetBillingCycle {
		return QuotaPeriod{
			Start: u.currentPeriodStart,
			End:   u.currentPeriodEnd,
		}
	}

	loc := u.Location()
	return QuotaPeriod{
		Start: biztime.StartOfMonthIn(now, loc),
		End:   biztime.NextMonthStartIn(now, loc),
	}
}

// ApplyRollover resets any counters whose period has ended, compared against
// now in the user's timezone. Daily counters reset when the stored day anchor
// no longer matches now's date; monthly counters reset when the quota period
// start has moved past the stored month anchor. Token balances are never
// touched by rollover, except the monthly streak shield grant which rides the
// monthly reset.
//
// Returns true when any counter or anchor changed, in which case the version
// was bumped exactly once and the caller must persist the state.
func (u *UserEntitlements) ApplyRollover(now time.Time) bool {
	loc := u.Location()
	changed := false

	if !biztime.SameDayIn(u.dayAnchor, now, loc) {
		u.barcodeScansToday = 0
		u.dayAnchor = biztime.StartOfDayIn(now, loc)
		changed = true
	}

	period := u.CurrentQuotaPeriod(now)
	if !u.monthAnchor.Equal(period.Start) {
		u.aiMealPlansUsed = 0
		u.aiRecipeSuggestionsUsed = 0
		u.pdfExportsUsed = 0
		u.monthAnchor = period.Start
		// Free effective limits carry a zero grant, so this is a no-op
		// for anyone not entitled to pro features.
		u.streakShields += u.limits.MonthlyStreakShields
		changed = true
	}

	if changed {
		u.updatedAt = biztime.NowUTC()
		u.version++
	}

	return changed
}
