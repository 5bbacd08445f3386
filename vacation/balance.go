package vacation

import (
	"github.com/shopspring/decimal"
	"github.com/warp/vacation-engine/generic"
)

// =============================================================================
// BALANCE CALCULATOR
// =============================================================================

// BalanceInput is everything one balance computation needs. The caller
// loads it from storage as one consistent snapshot.
type BalanceInput struct {
	// Policy is the resolved policy. If the employee's first year is
	// partial, AnnualDays must already be prorated.
	Policy EffectivePolicy

	// Absences of the employee in TargetYear, any status.
	Absences []AbsenceEntry

	// AdjustmentTotal is the signed sum of the year's adjustments.
	AdjustmentTotal decimal.Decimal

	// CurrentDate decides whether carryover has expired.
	CurrentDate generic.Date

	TargetYear int

	// Holidays are excluded from multi-day absence lengths.
	Holidays []generic.Period
}

// CalculateBalance computes the balance snapshot. It never fails and never
// clamps: RemainingDays may be negative after manual edits.
func CalculateBalance(in BalanceInput) Balance {
	var b Balance

	// 1. Entitlement
	total := in.Policy.AnnualDays

	// 2. Carryover, only while valid on CurrentDate
	b.CarryoverDays, b.CarryoverExpiryDate = validCarryover(in.Policy, in.TargetYear, in.CurrentDate)
	if b.CarryoverDays != nil {
		total = total.Add(*b.CarryoverDays)
	}

	// 3. Adjustments
	b.TotalDays = total.Add(in.AdjustmentTotal)

	// 4-5. Usage
	b.UsedDays, b.PendingDays = Usage(in.Absences, in.Holidays)

	// 6. Remaining
	b.RemainingDays = b.TotalDays.Sub(b.UsedDays).Sub(b.PendingDays)
	return b
}

// Usage sums the day-lengths of absences that count against vacation:
// approved ones into used, pending ones into pending. Rejected and
// cancelled absences contribute nothing.
func Usage(absences []AbsenceEntry, holidays []generic.Period) (used, pending decimal.Decimal) {
	used, pending = decimal.Zero, decimal.Zero
	for _, a := range absences {
		if !a.Category.CountsAgainstVacation {
			continue
		}
		switch a.Status {
		case StatusApproved:
			used = used.Add(DayLength(a, holidays))
		case StatusPending:
			pending = pending.Add(DayLength(a, holidays))
		}
	}
	return used, pending
}
