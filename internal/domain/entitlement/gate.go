package entitlement

// DenyReason classifies why a gate check refused a feature.
type DenyReason string

const (
	// DenyReasonLimitReached means the period quota and any token fallback
	// are both insufficient for the requested quantity.
	DenyReasonLimitReached DenyReason = "limit_reached"
	// DenyReasonProRequired means the feature has no allowance on the
	// user's effective tier.
	DenyReasonProRequired DenyReason = "pro_required"
	// DenyReasonUnknownFeature means the feature identifier is not
	// recognized and the gate runs in strict mode.
	DenyReasonUnknownFeature DenyReason = "unknown_feature"
)

// Decision is the outcome of a gate check. Remaining is the quantity still
// available this period including any applicable token balance, or Unlimited.
// UsesTokens reports that an allowed request would draw at least partly on
// the token balance, which decides what a subsequent debit spends.
type Decision struct {
	Allowed    bool
	Reason     DenyReason
	Upsell     UpsellTrigger
	Remaining  int
	UsesTokens bool
}

// Gate evaluates feature access against an entitlement snapshot. It is a pure
// decision function; it never mutates the snapshot.
//
// In strict mode unknown feature identifiers are denied. The default is to
// let them pass unmetered so that shipping a new feature flag ahead of a gate
// rollout never locks users out.
type Gate struct {
	strict bool
}

// NewGate creates a gate evaluator.
func NewGate(strict bool) *Gate {
	return &Gate{strict: strict}
}

// Check decides whether the user may use quantity units of a feature right
// now. Quantities below one are treated as one. Callers must apply rollover
// to the snapshot before checking, or stale counters will be evaluated.
func (g *Gate) Check(u *UserEntitlements, feature Feature, quantity int) Decision {
	if quantity < 1 {
		quantity = 1
	}

	if !feature.IsKnown() {
		if g.strict {
			return Decision{Reason: DenyReasonUnknownFeature}
		}
		return Decision{Allowed: true, Remaining: Unlimited}
	}

	switch feature {
	case FeatureHistory:
		return g.checkHistory(u)
	case FeatureBarcodeScan:
		return g.checkBarcode(u, quantity)
	default:
		return g.checkQuota(u, feature, quantity)
	}
}

// checkHistory is a binary capability: full history requires unlimited
// retention, there is no quantity and no token fallback.
func (g *Gate) checkHistory(u *UserEntitlements) Decision {
	if IsUnlimited(u.limits.HistoryRetentionDays) {
		return Decision{Allowed: true, Remaining: Unlimited}
	}
	return Decision{
		Reason: DenyReasonProRequired,
		Upsell: UpsellFor(FeatureHistory),
	}
}

// checkBarcode applies the daily scan quota. Barcode scans have no token
// fallback.
func (g *Gate) checkBarcode(u *UserEntitlements, quantity int) Decision {
	limit := u.limits.BarcodeScansPerDay
	if IsUnlimited(limit) {
		return Decision{Allowed: true, Remaining: Unlimited}
	}

	remaining := limit - u.barcodeScansToday
	if remaining < 0 {
		remaining = 0
	}
	if quantity > remaining {
		return Decision{
			Reason:    DenyReasonLimitReached,
			Upsell:    UpsellFor(FeatureBarcodeScan),
			Remaining: remaining,
		}
	}
	return Decision{Allowed: true, Remaining: remaining}
}

// checkQuota applies a monthly quota with token fallback. The request is
// allowed when either source alone covers it; remaining is reported as the
// pooled total since a debit may split across both.
func (g *Gate) checkQuota(u *UserEntitlements, feature Feature, quantity int) Decision {
	limit := u.limits.QuotaLimitFor(feature)
	if IsUnlimited(limit) {
		return Decision{Allowed: true, Remaining: Unlimited}
	}

	quotaRemaining := limit - u.UsageFor(feature)
	if quotaRemaining < 0 {
		quotaRemaining = 0
	}
	tokens := u.TokenBalance(TokenKindFor(feature))
	remaining := quotaRemaining + tokens

	if quotaRemaining >= quantity || tokens >= quantity {
		return Decision{
			Allowed:    true,
			Remaining:  remaining,
			UsesTokens: quotaRemaining < quantity,
		}
	}

	reason := DenyReasonLimitReached
	if limit == 0 && !u.IsActivePro() {
		// The feature has no free allowance at all, only pro inclusion
		// or purchased tokens.
		reason = DenyReasonProRequired
	}
	return Decision{
		Reason:    reason,
		Upsell:    UpsellFor(feature),
		Remaining: remaining,
	}
}
