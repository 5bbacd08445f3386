package generic

// =============================================================================
// PERIOD - Closed calendar range [Start, End]
// =============================================================================

// Period is a closed range of calendar days. Both ends are included.
//
// Examples:
//   - Policy year 2024: [2024-01-01, 2024-12-31]
//   - A one-day absence: Start == End
//   - A holiday window: [2024-12-24, 2024-12-26]
type Period struct {
	Start Date `json:"start_date"`
	End   Date `json:"end_date"`
}

// YearPeriod returns [Jan 1, Dec 31] of year.
func YearPeriod(year int) Period {
	return Period{Start: StartOfYear(year), End: EndOfYear(year)}
}

// IsValid reports whether Start <= End.
func (p Period) IsValid() bool {
	return p.Start.BeforeOrEqual(p.End)
}

// Contains returns true if d is within [Start, End].
func (p Period) Contains(d Date) bool {
	return d.AfterOrEqual(p.Start) && d.BeforeOrEqual(p.End)
}

// Overlaps reports whether the two closed ranges share at least one day.
// Adjacent ranges (one ends the day before the other starts) do not overlap.
func (p Period) Overlaps(other Period) bool {
	return RangesOverlap(p.Start, p.End, other.Start, other.End)
}

// RangesOverlap is the closed-interval test aStart <= bEnd && bStart <= aEnd.
// It is symmetric in its two ranges.
func RangesOverlap(aStart, aEnd, bStart, bEnd Date) bool {
	return aStart.BeforeOrEqual(bEnd) && bStart.BeforeOrEqual(aEnd)
}

// Length is the number of calendar days in the period, or 0 when End is
// before Start.
func (p Period) Length() int64 {
	if !p.IsValid() {
		return 0
	}
	return p.Start.DaysUntil(p.End) + 1
}

// Intersect returns the common part of both periods. ok is false when they
// do not overlap.
func (p Period) Intersect(other Period) (Period, bool) {
	if !p.IsValid() || !other.IsValid() || !p.Overlaps(other) {
		return Period{}, false
	}
	out := p
	if other.Start.After(out.Start) {
		out.Start = other.Start
	}
	if other.End.Before(out.End) {
		out.End = other.End
	}
	return out, true
}

// Span returns the smallest period covering both p and other.
func (p Period) Span(other Period) Period {
	out := p
	if other.Start.Before(out.Start) {
		out.Start = other.Start
	}
	if other.End.After(out.End) {
		out.End = other.End
	}
	return out
}

// String returns a string representation of the period.
func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}
