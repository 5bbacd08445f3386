package vacation

import (
	"github.com/shopspring/decimal"
	"github.com/warp/vacation-engine/generic"
)

// Prorate scales annualDays for an employee who starts during targetYear.
//
//	start <= Jan 1   -> annualDays
//	start >  Dec 31  -> 0
//	otherwise        -> annualDays * daysFromStartToDec31 / daysInYear
//
// Both day counts are inclusive and come from date subtraction, so leap
// years need no special case. The prorated value is rounded half away from
// zero to generic.DisplayPlaces; rounding is monotonic, so a later start
// never yields more days.
func Prorate(annualDays decimal.Decimal, start generic.Date, targetYear int) decimal.Decimal {
	yearStart := generic.StartOfYear(targetYear)
	yearEnd := generic.EndOfYear(targetYear)

	if start.BeforeOrEqual(yearStart) {
		return annualDays
	}
	if start.After(yearEnd) {
		return decimal.Zero
	}

	employed := decimal.NewFromInt(start.DaysUntil(yearEnd) + 1)
	total := decimal.NewFromInt(generic.DaysInYear(targetYear))
	return generic.RoundDays(annualDays.Mul(employed).Div(total))
}

// NeedsProration reports whether Prorate changes the entitlement of an
// employee starting on start: a partial first year, or a start after
// targetYear altogether.
func NeedsProration(start generic.Date, targetYear int) bool {
	return !start.IsZero() && start.After(generic.StartOfYear(targetYear))
}
