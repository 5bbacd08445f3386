/*
Package vacation implements the vacation entitlement and balance engine.

PURPOSE:
  For one employee and one policy year, the engine answers "how many
  vacation days does this person have, how many are used or pending, and
  how many remain?" It merges the organization policy with the employee's
  override, adds time-bounded carryover and manual adjustments, and nets
  out approved and pending absences counted in business days.

PURITY:
  Every function in this package is a pure function of its arguments. The
  current date is always passed in; nothing reads the system clock, touches
  storage or keeps state. Identical input gives identical output, so the
  engine is safe to call from any number of goroutines.

BALANCE FORMULA:
  total     = annual + carryover (while valid) + adjustmentTotal
  remaining = total - used - pending          (never clamped)

  used    = day-lengths of approved absences that count against vacation
  pending = day-lengths of pending absences that count against vacation

EXAMPLE:
  policy := vacation.ResolvePolicy(org, &override)
  balance := vacation.CalculateBalance(vacation.BalanceInput{
      Policy:          policy,
      Absences:        absences,
      AdjustmentTotal: adjustments,
      CurrentDate:     generic.NewDate(2024, time.January, 15),
      TargetYear:      2024,
      Holidays:        holidays,
  })
  ok := vacation.HasSufficientBalance(balance, decimal.NewFromInt(3))

SEE ALSO:
  - generic/calendar.go: business-day counting
  - factory/records.go: builds these types from collaborator records
*/
package vacation

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/vacation-engine/generic"
)

// =============================================================================
// ORGANIZATION POLICY
// =============================================================================

// AccrualType determines how the annual entitlement is earned over the year.
// It does not change the balance total; see accrual.go.
type AccrualType string

const (
	AccrualAnnual   AccrualType = "annual"
	AccrualMonthly  AccrualType = "monthly"
	AccrualBiweekly AccrualType = "biweekly"
)

func (t AccrualType) IsValid() bool {
	switch t {
	case AccrualAnnual, AccrualMonthly, AccrualBiweekly:
		return true
	}
	return false
}

// OrganizationPolicy is the organization-wide vacation configuration.
// Edits apply to every future computation; there is no history.
type OrganizationPolicy struct {
	OrganizationID        generic.OrganizationID
	DefaultAnnualDays     decimal.Decimal
	AllowCarryover        bool
	MaxCarryoverDays      *decimal.Decimal // nil = uncapped
	CarryoverExpiryMonths *int             // 1-12; nil = carryover never expires
	AccrualType           AccrualType
	AccrualStartMonth     int
}

// AllowanceOverride holds per-employee, per-year exceptions. A nil field
// inherits the organization default.
type AllowanceOverride struct {
	EmployeeID          generic.EmployeeID
	Year                int
	CustomAnnualDays    *decimal.Decimal
	CustomCarryoverDays *decimal.Decimal
}

// Adjustment is an immutable, audited change to an employee's entitlement.
// Days is signed.
type Adjustment struct {
	ID         string
	EmployeeID generic.EmployeeID
	Year       int
	Days       decimal.Decimal
	Reason     string
	CreatedBy  string
	CreatedAt  time.Time
}

// SumAdjustments returns the adjustmentTotal consumed by CalculateBalance.
func SumAdjustments(adjustments []Adjustment) decimal.Decimal {
	total := decimal.Zero
	for _, a := range adjustments {
		total = total.Add(a.Days)
	}
	return total
}

// =============================================================================
// ABSENCES
// =============================================================================

// DayPeriod is the part of a boundary day an absence covers.
type DayPeriod string

const (
	FullDay DayPeriod = "full_day"
	Morning DayPeriod = "am"
	Evening DayPeriod = "pm"
)

func (p DayPeriod) IsValid() bool {
	_, ok := periodFractions[p]
	return ok
}

// Category is the absence type. Only categories that count against
// vacation reduce the balance (vacation yes, sick leave usually not).
type Category struct {
	ID                    string
	Name                  string
	CountsAgainstVacation bool
}

// AbsenceEntry is one absence request as the engine sees it.
type AbsenceEntry struct {
	ID          string
	EmployeeID  generic.EmployeeID
	StartDate   generic.Date
	StartPeriod DayPeriod
	EndDate     generic.Date
	EndPeriod   DayPeriod
	Status      Status
	Category    Category
	Note        string
}

// Period returns the closed calendar range of the absence.
func (a AbsenceEntry) Period() generic.Period {
	return generic.Period{Start: a.StartDate, End: a.EndDate}
}

// =============================================================================
// DERIVED VALUES
// =============================================================================

// EffectivePolicy is the organization policy with the employee override
// applied.
type EffectivePolicy struct {
	AnnualDays            decimal.Decimal
	CarryoverDaysRaw      decimal.Decimal
	AllowCarryover        bool
	MaxCarryoverDays      *decimal.Decimal
	CarryoverExpiryMonths *int
}

// Balance is a computed, never persisted snapshot.
//
// CarryoverDays is set only while carryover is allowed, non-zero and not
// expired. CarryoverExpiryDate is set alongside it when the policy has an
// expiry month; carryover without an expiry month never lapses.
type Balance struct {
	TotalDays           decimal.Decimal
	UsedDays            decimal.Decimal
	PendingDays         decimal.Decimal
	RemainingDays       decimal.Decimal
	CarryoverDays       *decimal.Decimal
	CarryoverExpiryDate *generic.Date
}
