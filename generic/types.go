/*
Package generic provides the calendar and numeric primitives of the vacation engine.

PURPOSE:
  This package contains the domain-agnostic building blocks the balance
  engine is made of: day quantities on fixed-point decimals, calendar dates
  without a time-of-day, closed date ranges, and business-day counting
  against holiday windows. Nothing here knows about policies or absences.

KEY CONCEPTS IN THIS FILE (types.go):
  - Day quantities: decimal.Decimal values parsed from decimal strings
  - Identifiers: type-safe organization/employee IDs

DESIGN PRINCIPLES:
  1. Precision: day amounts are decimal.Decimal, never float64
  2. Purity: no function in this package reads the system clock
  3. Totality: degenerate input (end before start) yields zero, not errors

USAGE:
  days, err := generic.ParseDays("27.5")
  period := generic.Period{Start: generic.NewDate(2024, time.June, 10), End: generic.NewDate(2024, time.June, 14)}
  n := generic.BusinessDays(period.Start, period.End, nil) // 5

SEE ALSO:
  - time.go: Date type and month/year arithmetic
  - period.go: closed ranges and overlap detection
  - calendar.go: business days and holidays
*/
package generic

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type OrganizationID string
type EmployeeID string

// =============================================================================
// DAY QUANTITIES
// =============================================================================

// DisplayPlaces is the number of decimal places derived day values are
// rounded to (half away from zero).
const DisplayPlaces = 2

// ParseDays parses a decimal string such as "30" or "2.5".
func ParseDays(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: empty decimal", ErrInvalidRecord)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a decimal", ErrInvalidRecord, s)
	}
	return d, nil
}

// ParseOptionalDays parses a nullable decimal string. A nil input means
// "not set" and returns nil.
func ParseOptionalDays(s *string) (*decimal.Decimal, error) {
	if s == nil {
		return nil, nil
	}
	d, err := ParseDays(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func MustParseDays(s string) decimal.Decimal {
	d, err := ParseDays(s)
	if err != nil {
		panic(err)
	}
	return d
}

func DaysPtr(d decimal.Decimal) *decimal.Decimal { return &d }

func Days(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

// RoundDays rounds to DisplayPlaces.
func RoundDays(d decimal.Decimal) decimal.Decimal { return d.Round(DisplayPlaces) }

// OptionalString renders a nullable decimal the way collaborators send it.
func OptionalString(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}
