/*
balance_test.go - Tests for the balance calculator

Tests for:
- Carryover inclusion before and after its expiry date
- Used and pending day sums from absence status
- Categories that do not count against vacation
- Adjustments and unclamped negative balances
- Determinism of repeated calculations
*/
package vacation_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/vacation-engine/generic"
	"github.com/warp/vacation-engine/vacation"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func d(s string) generic.Date {
	return generic.MustParseDate(s)
}

func days(s string) decimal.Decimal {
	return generic.MustParseDays(s)
}

func intPtr(i int) *int {
	return &i
}

func assertDays(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, days(want).Equal(got), append([]any{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

// carryoverPolicy is 30 days a year, carryover allowed up to 10 days and
// valid until the end of March.
func carryoverPolicy() vacation.OrganizationPolicy {
	return vacation.OrganizationPolicy{
		OrganizationID:        "org-1",
		DefaultAnnualDays:     days("30"),
		AllowCarryover:        true,
		MaxCarryoverDays:      generic.DaysPtr(days("10")),
		CarryoverExpiryMonths: intPtr(3),
		AccrualType:           vacation.AccrualAnnual,
		AccrualStartMonth:     1,
	}
}

func vacationAbsence(id, start, end string, status vacation.Status) vacation.AbsenceEntry {
	return vacation.AbsenceEntry{
		ID:          id,
		EmployeeID:  "emp-1",
		StartDate:   d(start),
		StartPeriod: vacation.FullDay,
		EndDate:     d(end),
		EndPeriod:   vacation.FullDay,
		Status:      status,
		Category:    vacation.Category{Name: "Vacation", CountsAgainstVacation: true},
	}
}

// =============================================================================
// CARRYOVER
// =============================================================================

func TestCalculateBalance_CarryoverBeforeExpiry(t *testing.T) {
	// GIVEN: 30 days a year and 5 days carried over, valid until March 31st
	override := &vacation.AllowanceOverride{EmployeeID: "emp-1", Year: 2024, CustomCarryoverDays: generic.DaysPtr(days("5"))}
	policy := vacation.ResolvePolicy(carryoverPolicy(), override)

	// WHEN: the balance is computed on January 15th
	b := vacation.CalculateBalance(vacation.BalanceInput{
		Policy:      policy,
		CurrentDate: d("2024-01-15"),
		TargetYear:  2024,
	})

	// THEN: the carryover is included and its expiry is reported
	assertDays(t, "35", b.TotalDays)
	require.NotNil(t, b.CarryoverDays)
	assertDays(t, "5", *b.CarryoverDays)
	require.NotNil(t, b.CarryoverExpiryDate)
	assert.Equal(t, "2024-03-31", b.CarryoverExpiryDate.String())
	assertDays(t, "35", b.RemainingDays)
}

func TestCalculateBalance_CarryoverAfterExpiry(t *testing.T) {
	// GIVEN: the same policy and override
	override := &vacation.AllowanceOverride{EmployeeID: "emp-1", Year: 2024, CustomCarryoverDays: generic.DaysPtr(days("5"))}
	policy := vacation.ResolvePolicy(carryoverPolicy(), override)

	// WHEN: the balance is computed on April 15th
	b := vacation.CalculateBalance(vacation.BalanceInput{
		Policy:      policy,
		CurrentDate: d("2024-04-15"),
		TargetYear:  2024,
	})

	// THEN: the carryover has lapsed
	assertDays(t, "30", b.TotalDays)
	assert.Nil(t, b.CarryoverDays)
	assert.Nil(t, b.CarryoverExpiryDate)
}

func TestCalculateBalance_CarryoverOnExpiryDay(t *testing.T) {
	override := &vacation.AllowanceOverride{EmployeeID: "emp-1", Year: 2024, CustomCarryoverDays: generic.DaysPtr(days("5"))}
	policy := vacation.ResolvePolicy(carryoverPolicy(), override)

	onExpiry := vacation.CalculateBalance(vacation.BalanceInput{Policy: policy, CurrentDate: d("2024-03-31"), TargetYear: 2024})
	dayAfter := vacation.CalculateBalance(vacation.BalanceInput{Policy: policy, CurrentDate: d("2024-04-01"), TargetYear: 2024})

	assertDays(t, "35", onExpiry.TotalDays, "the expiry day itself is still valid")
	assertDays(t, "30", dayAfter.TotalDays)
}

func TestCalculateBalance_CarryoverDisallowed(t *testing.T) {
	// GIVEN: a policy without carryover and an override that sets one anyway
	org := carryoverPolicy()
	org.AllowCarryover = false
	override := &vacation.AllowanceOverride{EmployeeID: "emp-1", Year: 2024, CustomCarryoverDays: generic.DaysPtr(days("5"))}
	policy := vacation.ResolvePolicy(org, override)

	// WHEN/THEN: no date ever shows carryover
	for _, current := range []string{"2024-01-01", "2024-02-15", "2024-12-31"} {
		b := vacation.CalculateBalance(vacation.BalanceInput{Policy: policy, CurrentDate: d(current), TargetYear: 2024})
		assert.Nil(t, b.CarryoverDays, current)
		assert.Nil(t, b.CarryoverExpiryDate, current)
		assertDays(t, "30", b.TotalDays, current)
	}
}

func TestCalculateBalance_CarryoverWithoutExpiry(t *testing.T) {
	// GIVEN: carryover allowed with no expiry month
	org := carryoverPolicy()
	org.CarryoverExpiryMonths = nil
	override := &vacation.AllowanceOverride{EmployeeID: "emp-1", Year: 2024, CustomCarryoverDays: generic.DaysPtr(days("2.5"))}
	policy := vacation.ResolvePolicy(org, override)

	// WHEN: computed in December
	b := vacation.CalculateBalance(vacation.BalanceInput{Policy: policy, CurrentDate: d("2024-12-20"), TargetYear: 2024})

	// THEN: the carryover still counts and has no expiry date
	require.NotNil(t, b.CarryoverDays)
	assertDays(t, "2.5", *b.CarryoverDays)
	assert.Nil(t, b.CarryoverExpiryDate)
	assertDays(t, "32.5", b.TotalDays)
}

func TestCalculateBalance_ZeroCarryoverIsAbsent(t *testing.T) {
	override := &vacation.AllowanceOverride{EmployeeID: "emp-1", Year: 2024, CustomCarryoverDays: generic.DaysPtr(decimal.Zero)}
	b := vacation.CalculateBalance(vacation.BalanceInput{
		Policy:      vacation.ResolvePolicy(carryoverPolicy(), override),
		CurrentDate: d("2024-01-15"),
		TargetYear:  2024,
	})

	assert.Nil(t, b.CarryoverDays)
	assertDays(t, "30", b.TotalDays)
}

// =============================================================================
// USAGE
// =============================================================================

func TestCalculateBalance_ApprovedWeekIsUsed(t *testing.T) {
	// GIVEN: one approved absence Mon 2024-06-10 to Fri 2024-06-14
	absences := []vacation.AbsenceEntry{vacationAbsence("a1", "2024-06-10", "2024-06-14", vacation.StatusApproved)}

	// WHEN
	b := vacation.CalculateBalance(vacation.BalanceInput{
		Policy:      vacation.ResolvePolicy(carryoverPolicy(), nil),
		Absences:    absences,
		CurrentDate: d("2024-07-01"),
		TargetYear:  2024,
	})

	// THEN
	assertDays(t, "5", b.UsedDays)
	assertDays(t, "0", b.PendingDays)
	assertDays(t, "25", b.RemainingDays)
}

func TestCalculateBalance_PendingDaysDoNotCountAsUsed(t *testing.T) {
	// GIVEN: one pending absence Mon 2024-08-12 to Wed 2024-08-14
	absences := []vacation.AbsenceEntry{vacationAbsence("a1", "2024-08-12", "2024-08-14", vacation.StatusPending)}

	// WHEN
	b := vacation.CalculateBalance(vacation.BalanceInput{
		Policy:      vacation.ResolvePolicy(carryoverPolicy(), nil),
		Absences:    absences,
		CurrentDate: d("2024-07-01"),
		TargetYear:  2024,
	})

	// THEN
	assertDays(t, "3", b.PendingDays)
	assertDays(t, "0", b.UsedDays)
	assertDays(t, "27", b.RemainingDays)
}

func TestCalculateBalance_IgnoresClosedAndNonVacationAbsences(t *testing.T) {
	sick := vacationAbsence("sick", "2024-03-04", "2024-03-05", vacation.StatusApproved)
	sick.Category = vacation.Category{Name: "Sick leave", CountsAgainstVacation: false}

	absences := []vacation.AbsenceEntry{
		vacationAbsence("approved", "2024-06-10", "2024-06-14", vacation.StatusApproved),
		vacationAbsence("pending", "2024-08-12", "2024-08-14", vacation.StatusPending),
		vacationAbsence("rejected", "2024-09-02", "2024-09-06", vacation.StatusRejected),
		vacationAbsence("cancelled", "2024-10-07", "2024-10-11", vacation.StatusCancelled),
		sick,
	}

	b := vacation.CalculateBalance(vacation.BalanceInput{
		Policy:      vacation.ResolvePolicy(carryoverPolicy(), nil),
		Absences:    absences,
		CurrentDate: d("2024-07-01"),
		TargetYear:  2024,
	})

	assertDays(t, "5", b.UsedDays)
	assertDays(t, "3", b.PendingDays)
	assertDays(t, "22", b.RemainingDays)
}

func TestCalculateBalance_HolidaysReduceUsage(t *testing.T) {
	// GIVEN: a week off with a Wednesday holiday
	absences := []vacation.AbsenceEntry{vacationAbsence("a1", "2024-06-10", "2024-06-14", vacation.StatusApproved)}
	holidays := []generic.Period{{Start: d("2024-06-12"), End: d("2024-06-12")}}

	b := vacation.CalculateBalance(vacation.BalanceInput{
		Policy:      vacation.ResolvePolicy(carryoverPolicy(), nil),
		Absences:    absences,
		CurrentDate: d("2024-07-01"),
		TargetYear:  2024,
		Holidays:    holidays,
	})

	assertDays(t, "4", b.UsedDays)
}

// =============================================================================
// ADJUSTMENTS
// =============================================================================

func TestCalculateBalance_Adjustments(t *testing.T) {
	adjustments := []vacation.Adjustment{
		{ID: "adj-1", Days: days("2"), Reason: "overtime compensation"},
		{ID: "adj-2", Days: days("-0.5"), Reason: "correction"},
	}

	b := vacation.CalculateBalance(vacation.BalanceInput{
		Policy:          vacation.ResolvePolicy(carryoverPolicy(), nil),
		AdjustmentTotal: vacation.SumAdjustments(adjustments),
		CurrentDate:     d("2024-07-01"),
		TargetYear:      2024,
	})

	assertDays(t, "31.5", b.TotalDays)
	assertDays(t, "31.5", b.RemainingDays)
}

func TestCalculateBalance_NegativeRemainingIsNotClamped(t *testing.T) {
	// GIVEN: a small entitlement and a long approved absence
	org := carryoverPolicy()
	org.DefaultAnnualDays = days("3")
	absences := []vacation.AbsenceEntry{vacationAbsence("a1", "2024-06-10", "2024-06-14", vacation.StatusApproved)}

	// WHEN
	b := vacation.CalculateBalance(vacation.BalanceInput{
		Policy:      vacation.ResolvePolicy(org, nil),
		Absences:    absences,
		CurrentDate: d("2024-07-01"),
		TargetYear:  2024,
	})

	// THEN
	assertDays(t, "-2", b.RemainingDays)
}

func TestCalculateBalance_EmptyInput(t *testing.T) {
	b := vacation.CalculateBalance(vacation.BalanceInput{TargetYear: 2024})

	assertDays(t, "0", b.TotalDays)
	assertDays(t, "0", b.UsedDays)
	assertDays(t, "0", b.PendingDays)
	assertDays(t, "0", b.RemainingDays)
	assert.Nil(t, b.CarryoverDays)
}

func TestCalculateBalance_Deterministic(t *testing.T) {
	override := &vacation.AllowanceOverride{EmployeeID: "emp-1", Year: 2024, CustomCarryoverDays: generic.DaysPtr(days("5"))}
	in := vacation.BalanceInput{
		Policy: vacation.ResolvePolicy(carryoverPolicy(), override),
		Absences: []vacation.AbsenceEntry{
			vacationAbsence("a1", "2024-06-10", "2024-06-14", vacation.StatusApproved),
			vacationAbsence("a2", "2024-08-12", "2024-08-14", vacation.StatusPending),
		},
		AdjustmentTotal: days("1.25"),
		CurrentDate:     d("2024-02-01"),
		TargetYear:      2024,
	}

	first := vacation.CalculateBalance(in)
	second := vacation.CalculateBalance(in)

	assert.Equal(t, first.TotalDays.String(), second.TotalDays.String())
	assert.Equal(t, first.RemainingDays.String(), second.RemainingDays.String())
	assertDays(t, "28.25", first.RemainingDays)
}
