package entitlement

import (
	"errors"
	"fmt"
)

var (
	// ErrEntitlementsNotFound indicates no entitlement record exists for the user.
	ErrEntitlementsNotFound = errors.New("entitlements not found")

	// ErrVersionConflict indicates a compare-and-swap save lost to a
	// concurrent writer. Callers reload and retry.
	ErrVersionConflict = errors.New("entitlements version conflict")

	// ErrUnknownFeature indicates a feature identifier outside the closed set.
	ErrUnknownFeature = errors.New("unknown feature")

	// ErrFeatureNotConsumable indicates a consume call against a binary
	// capability such as history.
	ErrFeatureNotConsumable = errors.New("feature is not consumable")

	// ErrInsufficientBalance indicates the combined quota and token balance
	// cannot cover the requested quantity.
	ErrInsufficientBalance = errors.New("insufficient quota or token balance")

	// ErrInvalidQuantity indicates a non-positive consume quantity.
	ErrInvalidQuantity = errors.New("quantity must be positive")

	// ErrNoStreakShields indicates a shield use with an empty balance.
	ErrNoStreakShields = errors.New("no streak shields available")

	// ErrInvalidCreditAmount indicates a non-positive token credit.
	ErrInvalidCreditAmount = errors.New("credit amount must be positive")
)

// ErrLimitExceeded wraps ErrInsufficientBalance with the feature and the
// numbers involved.
func ErrLimitExceeded(feature Feature, requested, available int) error {
	return fmt.Errorf("%w: feature %s requested %d, available %d",
		ErrInsufficientBalance, feature, requested, available)
}
