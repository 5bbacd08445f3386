/*
accrual.go - How the annual entitlement is earned during the year

PURPOSE:
  The balance always shows the full annual entitlement. Payroll and the
  employee view also want to know how much of it has been earned so far,
  which depends on the policy's accrual type. This file turns a policy
  into dated accrual events and sums them up to a date.

ACCRUAL TYPES:
  annual:   everything on the first day of the accrual year
  monthly:  annual/12 on the first day of each of 12 months
  biweekly: annual/26 every 14 days, 26 times

ACCRUAL YEAR:
  Starts on day 1 of AccrualStartMonth in the target year (January when
  the month is out of range) and lasts twelve months.

EXAMPLE:
  s := vacation.AccrualSchedule{AnnualDays: decimal.NewFromInt(24), Type: vacation.AccrualMonthly, StartMonth: 1}
  s.AccruedAsOf(2024, generic.NewDate(2024, time.March, 15)) // 6
*/
package vacation

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/vacation-engine/generic"
)

const (
	monthsPerYear     = 12
	biweeklyPerYear   = 26
	daysPerBiweekTerm = 14
)

// AccrualEvent is one dated accrual.
type AccrualEvent struct {
	At     generic.Date
	Amount decimal.Decimal
	Reason string
}

// AccrualSchedule generates the accrual events of an entitlement.
type AccrualSchedule struct {
	AnnualDays decimal.Decimal
	Type       AccrualType
	StartMonth int
}

// ScheduleFor builds the schedule of an organization policy for an
// already resolved (and possibly prorated) annual amount.
func ScheduleFor(org OrganizationPolicy, annualDays decimal.Decimal) AccrualSchedule {
	return AccrualSchedule{AnnualDays: annualDays, Type: org.AccrualType, StartMonth: org.AccrualStartMonth}
}

// YearStart is the first day of the accrual year that begins in year.
func (s AccrualSchedule) YearStart(year int) generic.Date {
	month := s.StartMonth
	if month < 1 || month > 12 {
		month = 1
	}
	return generic.NewDate(year, time.Month(month), 1)
}

// Events returns every accrual event of the accrual year starting in year.
func (s AccrualSchedule) Events(year int) []AccrualEvent {
	start := s.YearStart(year)
	switch s.Type {
	case AccrualMonthly:
		return s.periodic(start, monthsPerYear, "monthly accrual", func(i int) generic.Date { return start.AddMonths(i) })
	case AccrualBiweekly:
		return s.periodic(start, biweeklyPerYear, "biweekly accrual", func(i int) generic.Date { return start.AddDays(i * daysPerBiweekTerm) })
	default:
		return []AccrualEvent{{At: start, Amount: s.AnnualDays, Reason: "annual grant"}}
	}
}

// periodic splits AnnualDays into n events. The last event takes the
// rounding remainder so the events always sum to AnnualDays.
func (s AccrualSchedule) periodic(start generic.Date, n int, reason string, at func(i int) generic.Date) []AccrualEvent {
	share := generic.RoundDays(s.AnnualDays.Div(decimal.NewFromInt(int64(n))))
	events := make([]AccrualEvent, 0, n)
	given := decimal.Zero
	for i := 0; i < n; i++ {
		amount := share
		if i == n-1 {
			amount = s.AnnualDays.Sub(given)
		}
		given = given.Add(amount)
		events = append(events, AccrualEvent{At: at(i), Amount: amount, Reason: reason})
	}
	return events
}

// AccruedAsOf sums the events of the accrual year starting in year that
// fall on or before asOf.
func (s AccrualSchedule) AccruedAsOf(year int, asOf generic.Date) decimal.Decimal {
	total := decimal.Zero
	for _, e := range s.Events(year) {
		if e.At.After(asOf) {
			break
		}
		total = total.Add(e.Amount)
	}
	return total
}
