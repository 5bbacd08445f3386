package generic

import "sort"

// =============================================================================
// HOLIDAYS - Organization-specific non-working windows
// =============================================================================

// Holiday is a stored holiday window. Only its Period matters for day
// counting; ID and Name exist for the admin UI.
type Holiday struct {
	ID             string
	OrganizationID OrganizationID
	Name           string
	Period         Period
}

// HolidayPeriods extracts the windows from stored holidays.
func HolidayPeriods(holidays []Holiday) []Period {
	out := make([]Period, 0, len(holidays))
	for _, h := range holidays {
		out = append(out, h.Period)
	}
	return out
}

// =============================================================================
// BUSINESS DAYS
// =============================================================================

// BusinessDays counts Monday–Friday dates in [start, end] that are not
// covered by any holiday window. start after end yields 0.
//
// The count is closed-form: weekdays of the whole range, minus weekdays of
// each holiday window after clipping to the range and merging overlaps, so
// a day covered by two holidays is only removed once.
func BusinessDays(start, end Date, holidays []Period) int {
	r := Period{Start: start, End: end}
	if !r.IsValid() {
		return 0
	}

	n := weekdaysIn(start, end)
	for _, h := range mergePeriods(clipPeriods(holidays, r)) {
		n -= weekdaysIn(h.Start, h.End)
	}
	return int(n)
}

// weekdaysIn counts Mon–Fri in [start, end]: five per full week plus the
// weekdays of the remainder.
func weekdaysIn(start, end Date) int64 {
	total := start.DaysUntil(end) + 1
	if total <= 0 {
		return 0
	}
	n := (total / 7) * 5
	day := start
	for i := int64(0); i < total%7; i++ {
		if day.IsWorkday() {
			n++
		}
		day = day.AddDays(1)
	}
	return n
}

func clipPeriods(periods []Period, to Period) []Period {
	var out []Period
	for _, p := range periods {
		if c, ok := p.Intersect(to); ok {
			out = append(out, c)
		}
	}
	return out
}

// mergePeriods returns sorted, non-overlapping windows. Adjacent windows are
// merged as well; it does not change the count.
func mergePeriods(periods []Period) []Period {
	if len(periods) == 0 {
		return nil
	}
	sorted := make([]Period, len(periods))
	copy(sorted, periods)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start.Before(sorted[j].Start) })

	merged := []Period{sorted[0]}
	for _, p := range sorted[1:] {
		last := &merged[len(merged)-1]
		if p.Start.BeforeOrEqual(last.End.AddDays(1)) {
			if p.End.After(last.End) {
				last.End = p.End
			}
			continue
		}
		merged = append(merged, p)
	}
	return merged
}
