package generic

import (
	"encoding/json"
	"fmt"
	"time"
)

// =============================================================================
// DATE - Calendar day without time-of-day
// =============================================================================

// DateLayout is the ISO-8601 calendar date layout used on every boundary.
const DateLayout = "2006-01-02"

const secondsPerDay = 24 * 60 * 60

// Date is a calendar day. The wrapped time is always midnight UTC, so two
// Dates for the same day compare equal with ==.
type Date struct {
	Time time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in t's own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q is not a YYYY-MM-DD date", ErrInvalidRecord, s)
	}
	return DateOf(t), nil
}

func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// dayNumber counts days since 1970-01-01. Exact for any normalized Date.
func (d Date) dayNumber() int64 {
	return d.normalize().Unix() / secondsPerDay
}

func (d Date) normalize() time.Time {
	return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Comparison
func (d Date) Before(other Date) bool        { return d.dayNumber() < other.dayNumber() }
func (d Date) After(other Date) bool         { return d.dayNumber() > other.dayNumber() }
func (d Date) Equal(other Date) bool         { return d.dayNumber() == other.dayNumber() }
func (d Date) BeforeOrEqual(other Date) bool { return d.dayNumber() <= other.dayNumber() }
func (d Date) AfterOrEqual(other Date) bool  { return d.dayNumber() >= other.dayNumber() }

// DaysUntil returns the signed number of days from d to other.
func (d Date) DaysUntil(other Date) int64 { return other.dayNumber() - d.dayNumber() }

// Arithmetic
func (d Date) AddDays(n int) Date   { return DateOf(d.normalize().AddDate(0, 0, n)) }
func (d Date) AddMonths(n int) Date { return DateOf(d.normalize().AddDate(0, n, 0)) }

// Properties
func (d Date) Year() int              { return d.Time.Year() }
func (d Date) Month() time.Month      { return d.Time.Month() }
func (d Date) Day() int               { return d.Time.Day() }
func (d Date) Weekday() time.Weekday  { return d.Time.Weekday() }
func (d Date) IsZero() bool           { return d.Time.IsZero() }
func (d Date) IsWeekend() bool        { wd := d.Weekday(); return wd == time.Saturday || wd == time.Sunday }
func (d Date) IsWorkday() bool        { return !d.IsWeekend() }
func (d Date) String() string         { return d.Time.Format(DateLayout) }

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// =============================================================================
// YEAR / MONTH BOUNDARIES
// =============================================================================

func StartOfYear(year int) Date { return NewDate(year, time.January, 1) }
func EndOfYear(year int) Date   { return NewDate(year, time.December, 31) }

// EndOfMonth returns the last day of month in year: the first day of the
// following month minus one day. time.Date normalizes month 13 to January of
// the next year, so December needs no special case.
func EndOfMonth(year int, month time.Month) Date {
	return NewDate(year, month+1, 1).AddDays(-1)
}

// DaysInYear is 365 or 366, measured by subtracting Jan 1 from the next Jan 1.
func DaysInYear(year int) int64 {
	return StartOfYear(year).DaysUntil(StartOfYear(year + 1))
}
