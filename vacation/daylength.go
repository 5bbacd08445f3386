package vacation

import (
	"github.com/shopspring/decimal"
	"github.com/warp/vacation-engine/generic"
)

// =============================================================================
// DAY LENGTH - How many vacation days one absence uses
// =============================================================================

var (
	oneDay  = decimal.NewFromInt(1)
	halfDay = decimal.New(5, -1)
)

// periodFractions is the share of a boundary day each period covers.
var periodFractions = map[DayPeriod]decimal.Decimal{
	FullDay: oneDay,
	Morning: halfDay,
	Evening: halfDay,
}

// PeriodFraction returns the share of a day covered by p. Unknown periods
// count as a full day.
func PeriodFraction(p DayPeriod) decimal.Decimal {
	if f, ok := periodFractions[p]; ok {
		return f
	}
	return oneDay
}

// DayLength is the number of vacation days an absence uses.
//
// Single day: 1, or 0.5 when either boundary is a half day.
// Multi day:  business days in the range minus the uncovered part of the
// first and of the last day (0.5 each for am/pm).
// An absence ending before it starts has length 0.
func DayLength(a AbsenceEntry, holidays []generic.Period) decimal.Decimal {
	if a.EndDate.Before(a.StartDate) {
		return decimal.Zero
	}

	startShare := PeriodFraction(a.StartPeriod)
	endShare := PeriodFraction(a.EndPeriod)

	if a.StartDate.Equal(a.EndDate) {
		return decimal.Min(startShare, endShare)
	}

	days := decimal.NewFromInt(int64(generic.BusinessDays(a.StartDate, a.EndDate, holidays)))
	days = days.Sub(oneDay.Sub(startShare))
	days = days.Sub(oneDay.Sub(endShare))
	return days
}
