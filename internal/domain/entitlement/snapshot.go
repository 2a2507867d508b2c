package entitlement

import (
	"fmt"
	"strings"
	"time"

	"github.com/carelog-health/carelog/internal/shared/biztime"
)

// UserEntitlements is the aggregate root for a user's feature access state.
// It carries the subscription standing, the usage counters for the current
// daily and monthly quota periods, and the persistent token balances.
//
// The limits field is resolved from the effective tier at construction and
// after every subscription change; it is never persisted.
type UserEntitlements struct {
	id                      uint
	userID                  string
	tier                    Tier
	status                  SubscriptionStatus
	currentPeriodStart      time.Time
	currentPeriodEnd        time.Time
	cancelAtPeriodEnd       bool
	timezone                string
	aiMealPlansUsed         int
	aiRecipeSuggestionsUsed int
	pdfExportsUsed          int
	barcodeScansToday       int
	dayAnchor               time.Time
	monthAnchor             time.Time
	aiTokens                int
	exportTokens            int
	streakShields           int
	version                 int
	createdAt               time.Time
	updatedAt               time.Time

	// storedVersion is the version the backing row carried when this state
	// was loaded, zero before the first insert. The compare-and-swap save
	// matches on it while version counts in-memory mutations.
	storedVersion int

	limits FeatureLimits
}

// DebitBreakdown reports how a successful debit was split between the
// current period quota and the persistent token balance.
type DebitBreakdown struct {
	FromQuota  int
	FromTokens int
	TokenKind  TokenKind
}

// NewUserEntitlements creates the entitlement state for a user who has never
// had one, on the free tier with zero usage and zero token balances.
func NewUserEntitlements(userID, timezone string) (*UserEntitlements, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if timezone == "" {
		timezone = biztime.DefaultTimezone
	}
	if _, err := biztime.ParseLocation(timezone); err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}

	now := biztime.NowUTC()
	loc := biztime.LocationFor(timezone)
	u := &UserEntitlements{
		userID:      userID,
		tier:        TierFree,
		status:      StatusNone,
		timezone:    timezone,
		dayAnchor:   biztime.StartOfDayIn(now, loc),
		monthAnchor: biztime.StartOfMonthIn(now, loc),
		version:     1,
		createdAt:   now,
		updatedAt:   now,
	}
	u.limits = LimitsForTier(u.EffectiveTier())

	return u, nil
}

// ReconstructParams carries persisted entitlement state for reconstruction.
type ReconstructParams struct {
	ID                      uint
	UserID                  string
	Tier                    Tier
	Status                  SubscriptionStatus
	CurrentPeriodStart      time.Time
	CurrentPeriodEnd        time.Time
	CancelAtPeriodEnd       bool
	Timezone                string
	AIMealPlansUsed         int
	AIRecipeSuggestionsUsed int
	PDFExportsUsed          int
	BarcodeScansToday       int
	DayAnchor               time.Time
	MonthAnchor             time.Time
	AITokens                int
	ExportTokens            int
	StreakShields           int
	Version                 int
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// ReconstructUserEntitlements reconstructs entitlement state from persistence.
func ReconstructUserEntitlements(p ReconstructParams) (*UserEntitlements, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("entitlement ID cannot be zero")
	}
	if p.UserID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if !p.Tier.IsValid() {
		return nil, fmt.Errorf("invalid tier: %s", p.Tier)
	}
	if !p.Status.IsValid() {
		return nil, fmt.Errorf("invalid subscription status: %s", p.Status)
	}
	if p.Timezone == "" {
		p.Timezone = biztime.DefaultTimezone
	}

	u := &UserEntitlements{
		id:                      p.ID,
		userID:                  p.UserID,
		tier:                    p.Tier,
		status:                  p.Status,
		currentPeriodStart:      p.CurrentPeriodStart,
		currentPeriodEnd:        p.CurrentPeriodEnd,
		cancelAtPeriodEnd:       p.CancelAtPeriodEnd,
		timezone:                p.Timezone,
		aiMealPlansUsed:         p.AIMealPlansUsed,
		aiRecipeSuggestionsUsed: p.AIRecipeSuggestionsUsed,
		pdfExportsUsed:          p.PDFExportsUsed,
		barcodeScansToday:       p.BarcodeScansToday,
		dayAnchor:               p.DayAnchor,
		monthAnchor:             p.MonthAnchor,
		aiTokens:                p.AITokens,
		exportTokens:            p.ExportTokens,
		streakShields:           p.StreakShields,
		version:                 p.Version,
		storedVersion:           p.Version,
		createdAt:               p.CreatedAt,
		updatedAt:               p.UpdatedAt,
	}
	u.limits = LimitsForTier(u.EffectiveTier())

	return u, nil
}

// ID returns the entitlement record ID
func (u *UserEntitlements) ID() uint {
	return u.id
}

// UserID returns the owning user ID
func (u *UserEntitlements) UserID() string {
	return u.userID
}

// Tier returns the subscribed tier as recorded by billing
func (u *UserEntitlements) Tier() Tier {
	return u.tier
}

// Status returns the subscription status
func (u *UserEntitlements) Status() SubscriptionStatus {
	return u.status
}

// CurrentPeriodStart returns the billing period start, zero for free users
func (u *UserEntitlements) CurrentPeriodStart() time.Time {
	return u.currentPeriodStart
}

// CurrentPeriodEnd returns the billing period end, zero for free users
func (u *UserEntitlements) CurrentPeriodEnd() time.Time {
	return u.currentPeriodEnd
}

// CancelAtPeriodEnd reports whether the subscription lapses at period end
func (u *UserEntitlements) CancelAtPeriodEnd() bool {
	return u.cancelAtPeriodEnd
}

// Timezone returns the user's IANA timezone name
func (u *UserEntitlements) Timezone() string {
	return u.timezone
}

// AIMealPlansUsed returns the meal plans consumed this quota period
func (u *UserEntitlements) AIMealPlansUsed() int {
	return u.aiMealPlansUsed
}

// AIRecipeSuggestionsUsed returns the recipe suggestions consumed this quota period
func (u *UserEntitlements) AIRecipeSuggestionsUsed() int {
	return u.aiRecipeSuggestionsUsed
}

// PDFExportsUsed returns the PDF exports consumed this quota period
func (u *UserEntitlements) PDFExportsUsed() int {
	return u.pdfExportsUsed
}

// BarcodeScansToday returns the barcode scans consumed today
func (u *UserEntitlements) BarcodeScansToday() int {
	return u.barcodeScansToday
}

// DayAnchor returns the start of the day the daily counters belong to
func (u *UserEntitlements) DayAnchor() time.Time {
	return u.dayAnchor
}

// MonthAnchor returns the start of the quota period the monthly counters belong to
func (u *UserEntitlements) MonthAnchor() time.Time {
	return u.monthAnchor
}

// AITokens returns the persistent AI token balance
func (u *UserEntitlements) AITokens() int {
	return u.aiTokens
}

// ExportTokens returns the persistent export token balance
func (u *UserEntitlements) ExportTokens() int {
	return u.exportTokens
}

// StreakShields returns the persistent streak shield balance
func (u *UserEntitlements) StreakShields() int {
	return u.streakShields
}

// Version returns the optimistic locking version
func (u *UserEntitlements) Version() int {
	return u.version
}

// StoredVersion returns the version the backing row carried when this state
// was loaded. Repositories match on it when saving.
func (u *UserEntitlements) StoredVersion() int {
	return u.storedVersion
}

// MarkPersisted records that the current version has been written to
// storage. Repositories call it after a successful insert or update.
func (u *UserEntitlements) MarkPersisted() {
	u.storedVersion = u.version
}

// CreatedAt returns the creation timestamp
func (u *UserEntitlements) CreatedAt() time.Time {
	return u.createdAt
}

// UpdatedAt returns the last update timestamp
func (u *UserEntitlements) UpdatedAt() time.Time {
	return u.updatedAt
}

// Limits returns the feature limits for the effective tier.
func (u *UserEntitlements) Limits() FeatureLimits {
	return u.limits
}

// SetID sets the entitlement ID after persistence
func (u *UserEntitlements) SetID(id uint) error {
	if u.id != 0 {
		return fmt.Errorf("entitlement ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("entitlement ID cannot be zero")
	}
	u.id = id
	return nil
}

// IsActivePro reports whether the user is entitled to pro features right now.
// A pro tier with a lapsed status (past_due, cancelled) does not qualify.
func (u *UserEntitlements) IsActivePro() bool {
	return u.tier == TierPro && u.status.CanUseProFeatures()
}

// EffectiveTier returns the tier whose limits apply: pro only while the
// subscription entitles pro features, free otherwise.
func (u *UserEntitlements) EffectiveTier() Tier {
	if u.IsActivePro() {
		return TierPro
	}
	return TierFree
}

// IsTrialing reports whether the user is in a trial period.
func (u *UserEntitlements) IsTrialing() bool {
	return u.status == StatusTrialing
}

// TrialDaysRemaining returns whole days left in the trial, zero when not trialing.
func (u *UserEntitlements) TrialDaysRemaining(now time.Time) int {
	if u.status != StatusTrialing || u.currentPeriodEnd.IsZero() {
		return 0
	}
	return biztime.DaysUntilIn(now, u.currentPeriodEnd, u.Location())
}

// Location returns the user's timezone location, falling back to the default.
func (u *UserEntitlements) Location() *time.Location {
	return biztime.LocationFor(u.timezone)
}

// UsageFor returns the current period counter for a quota feature.
func (u *UserEntitlements) UsageFor(feature Feature) int {
	if c := u.counterFor(feature); c != nil {
		return *c
	}
	return 0
}

// TokenBalance returns the persistent balance for a token kind.
func (u *UserEntitlements) TokenBalance(kind TokenKind) int {
	switch kind {
	case TokenKindAI:
		return u.aiTokens
	case TokenKindExport:
		return u.exportTokens
	case TokenKindShield:
		return u.streakShields
	}
	return 0
}

// Debit consumes quantity units of a feature, drawing from the period quota
// first and falling back to the matching token balance, or tokens first when
// preferTokens is set. Counters never exceed their limit and balances never
// go negative; on any failure the state is left untouched.
//
// Callers are expected to gate the request first. Debit still refuses any
// quantity the combined quota and token balance cannot cover.
func (u *UserEntitlements) Debit(feature Feature, quantity int, preferTokens bool) (DebitBreakdown, error) {
	if quantity <= 0 {
		return DebitBreakdown{}, ErrInvalidQuantity
	}
	if !feature.IsKnown() {
		return DebitBreakdown{}, ErrUnknownFeature
	}
	if !feature.IsConsumable() {
		return DebitBreakdown{}, ErrFeatureNotConsumable
	}

	counter := u.counterFor(feature)
	limit := u.limits.QuotaLimitFor(feature)
	kind := TokenKindFor(feature)

	if IsUnlimited(limit) {
		*counter += quantity
		u.updatedAt = biztime.NowUTC()
		u.version++
		return DebitBreakdown{FromQuota: quantity, TokenKind: kind}, nil
	}

	quotaLeft := limit - *counter
	if quotaLeft < 0 {
		quotaLeft = 0
	}
	tokenBalance := 0
	if kind != "" {
		tokenBalance = u.TokenBalance(kind)
	}

	var fromQuota, fromTokens int
	if preferTokens && kind != "" {
		fromTokens = min(quantity, tokenBalance)
		fromQuota = quantity - fromTokens
	} else {
		fromQuota = min(quantity, quotaLeft)
		fromTokens = quantity - fromQuota
	}
	if fromQuota > quotaLeft || fromTokens > tokenBalance {
		return DebitBreakdown{}, ErrLimitExceeded(feature, quantity, quotaLeft+tokenBalance)
	}

	*counter += fromQuota
	if fromTokens > 0 {
		u.adjustTokens(kind, -fromTokens)
	}
	u.updatedAt = biztime.NowUTC()
	u.version++

	return DebitBreakdown{FromQuota: fromQuota, FromTokens: fromTokens, TokenKind: kind}, nil
}

// CreditTokens adds purchased or granted tokens to a balance.
func (u *UserEntitlements) CreditTokens(kind TokenKind, amount int) error {
	if !kind.IsValid() {
		return fmt.Errorf("invalid token kind: %s", kind)
	}
	if amount <= 0 {
		return ErrInvalidCreditAmount
	}

	u.adjustTokens(kind, amount)
	u.updatedAt = biztime.NowUTC()
	u.version++

	return nil
}

// ConsumeStreakShield spends one streak shield.
func (u *UserEntitlements) ConsumeStreakShield() error {
	if u.streakShields <= 0 {
		return ErrNoStreakShields
	}

	u.streakShields--
	u.updatedAt = biztime.NowUTC()
	u.version++

	return nil
}

// ApplySubscriptionChange records a billing transition and re-resolves the
// effective limits. A free tier carries no billing period, so period fields
// are cleared when tier is free.
func (u *UserEntitlements) ApplySubscriptionChange(tier Tier, status SubscriptionStatus, periodStart, periodEnd time.Time, cancelAtPeriodEnd bool) error {
	if !tier.IsValid() {
		return fmt.Errorf("invalid tier: %s", tier)
	}
	if !status.IsValid() {
		return fmt.Errorf("invalid subscription status: %s", status)
	}
	if tier == TierPro {
		if periodStart.IsZero() || periodEnd.IsZero() {
			return fmt.Errorf("pro tier requires a billing period")
		}
		if !periodEnd.After(periodStart) {
			return fmt.Errorf("period end must be after period start")
		}
	}

	u.tier = tier
	u.status = status
	u.currentPeriodStart = periodStart
	u.currentPeriodEnd = periodEnd
	u.cancelAtPeriodEnd = cancelAtPeriodEnd
	if tier == TierFree {
		u.status = StatusNone
		u.currentPeriodStart = time.Time{}
		u.currentPeriodEnd = time.Time{}
		u.cancelAtPeriodEnd = false
	}
	u.limits = LimitsForTier(u.EffectiveTier())
	u.updatedAt = biztime.NowUTC()
	u.version++

	return nil
}

// SetTimezone updates the user's timezone. Anchors are left alone; the next
// rollover re-evaluates them against the new location.
func (u *UserEntitlements) SetTimezone(timezone string) error {
	if _, err := biztime.ParseLocation(timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	if u.timezone == timezone {
		return nil
	}

	u.timezone = timezone
	u.updatedAt = biztime.NowUTC()
	u.version++

	return nil
}

// Validate performs domain-level validation
func (u *UserEntitlements) Validate() error {
	if u.userID == "" {
		return fmt.Errorf("user ID is required")
	}
	if !u.tier.IsValid() {
		return fmt.Errorf("invalid tier: %s", u.tier)
	}
	if !u.status.IsValid() {
		return fmt.Errorf("invalid subscription status: %s", u.status)
	}
	if u.tier == TierPro && u.currentPeriodEnd.IsZero() {
		return fmt.Errorf("pro tier requires a billing period")
	}
	for name, v := range map[string]int{
		"ai_meal_plans_used":         u.aiMealPlansUsed,
		"ai_recipe_suggestions_used": u.aiRecipeSuggestionsUsed,
		"pdf_exports_used":           u.pdfExportsUsed,
		"barcode_scans_today":        u.barcodeScansToday,
		"ai_tokens":                  u.aiTokens,
		"export_tokens":              u.exportTokens,
		"streak_shields":             u.streakShields,
	} {
		if v < 0 {
			return fmt.Errorf("%s cannot be negative", name)
		}
	}
	if u.version < 1 {
		return fmt.Errorf("version must be at least 1")
	}
	return nil
}

func (u *UserEntitlements) counterFor(feature Feature) *int {
	switch feature {
	case FeatureBarcodeScan:
		return &u.barcodeScansToday
	case FeatureAIMealPlan:
		return &u.aiMealPlansUsed
	case FeatureAIRecipe:
		return &u.aiRecipeSuggestionsUsed
	case FeaturePDFExport:
		return &u.pdfExportsUsed
	}
	return nil
}

func (u *UserEntitlements) adjustTokens(kind TokenKind, delta int) {
	switch kind {
	case TokenKindAI:
		u.aiTokens += delta
	case TokenKindExport:
		u.exportTokens += delta
	case TokenKindShield:
		u.streakShields += delta
	}
}
