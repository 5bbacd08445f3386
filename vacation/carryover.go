package vacation

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/vacation-engine/generic"
)

// =============================================================================
// CARRYOVER EXPIRY
// =============================================================================

// CarryoverExpiry returns the last day rolled-over days can be used in
// year: the last day of month expiryMonths. A nil expiryMonths means the
// carryover never expires and ok is false.
func CarryoverExpiry(year int, expiryMonths *int) (expiry generic.Date, ok bool) {
	if expiryMonths == nil {
		return generic.Date{}, false
	}
	return generic.EndOfMonth(year, time.Month(*expiryMonths)), true
}

// validCarryover applies the carryover rules for targetYear as seen on
// currentDate. It returns nil days when nothing may be counted.
func validCarryover(policy EffectivePolicy, targetYear int, currentDate generic.Date) (*decimal.Decimal, *generic.Date) {
	if !policy.AllowCarryover || !policy.CarryoverDaysRaw.IsPositive() {
		return nil, nil
	}
	days := policy.CarryoverDaysRaw

	expiry, expires := CarryoverExpiry(targetYear, policy.CarryoverExpiryMonths)
	if !expires {
		return &days, nil
	}
	if currentDate.After(expiry) {
		return nil, nil
	}
	return &days, &expiry
}

// =============================================================================
// YEAR-END ROLLOVER
// =============================================================================

// RolloverResult is how an ending year's remaining days split at year end.
type RolloverResult struct {
	CarriedOver decimal.Decimal
	Forfeited   decimal.Decimal
}

// Rollover decides how much of the ending balance moves into next year's
// override. Nothing moves when carryover is disabled or nothing remains;
// otherwise the remainder is capped at MaxCarryoverDays and the excess is
// forfeited.
func Rollover(policy EffectivePolicy, ending Balance) RolloverResult {
	remaining := ending.RemainingDays
	if !remaining.IsPositive() {
		return RolloverResult{CarriedOver: decimal.Zero, Forfeited: decimal.Zero}
	}
	if !policy.AllowCarryover {
		return RolloverResult{CarriedOver: decimal.Zero, Forfeited: remaining}
	}

	carry := remaining
	if policy.MaxCarryoverDays != nil && carry.GreaterThan(*policy.MaxCarryoverDays) {
		carry = *policy.MaxCarryoverDays
	}
	if carry.IsNegative() {
		carry = decimal.Zero
	}
	return RolloverResult{CarriedOver: carry, Forfeited: remaining.Sub(carry)}
}
