/*
balance.go - Loading a consistent balance snapshot

PURPOSE:
  The vacation package computes balances from plain values and never
  touches storage. This file is the calling layer: it reads the policy,
  override, adjustments, absences and holidays of one employee and year,
  resolves and prorates the policy, and runs the calculator.

FLOW:
  1. Organization policy (404 when the organization has none)
  2. Override for the year, resolved field by field
  3. Proration when the employee started after January 1st
  4. Adjustment total, absences starting in the year and the holidays
     they cover (an absence over New Year counts in its start year only)
  5. vacation.CalculateBalance
  6. Accrued-to-date from the policy's accrual schedule

SEE ALSO:
  - vacation/balance.go: the calculator
  - handlers.go: GetBalance, CheckBalance, ApproveAbsence, TriggerRollover
*/
package api

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/warp/vacation-engine/generic"
	"github.com/warp/vacation-engine/store/sqlite"
	"github.com/warp/vacation-engine/vacation"
)

// balanceReport is a balance together with the inputs that produced it.
type balanceReport struct {
	Employee        sqlite.Employee
	Year            int
	AsOf            generic.Date
	Policy          vacation.OrganizationPolicy
	Effective       vacation.EffectivePolicy
	Prorated        bool
	AdjustmentTotal decimal.Decimal
	Absences        []vacation.AbsenceEntry
	Holidays        []generic.Period
	Balance         vacation.Balance
	AccruedToDate   decimal.Decimal
}

// balanceOptions tweaks which absences feed the calculator.
type balanceOptions struct {
	// excludeAbsenceID drops one absence, used when re-checking a pending
	// request against everything else.
	excludeAbsenceID string
}

// loadBalance computes the balance of emp for year as seen on asOf.
func (h *Handler) loadBalance(ctx context.Context, emp sqlite.Employee, year int, asOf generic.Date, opts balanceOptions) (balanceReport, error) {
	report := balanceReport{Employee: emp, Year: year, AsOf: asOf}

	policy, err := h.Store.GetPolicy(ctx, emp.OrganizationID)
	if err != nil {
		return report, err
	}
	report.Policy = policy

	override, err := h.Store.GetOverride(ctx, emp.ID, year)
	if err != nil {
		return report, err
	}
	report.Effective = vacation.ResolvePolicy(policy, override)

	if vacation.NeedsProration(emp.StartDate, year) {
		report.Effective.AnnualDays = vacation.Prorate(report.Effective.AnnualDays, emp.StartDate, year)
		report.Prorated = true
	}

	if report.AdjustmentTotal, err = h.Store.AdjustmentTotal(ctx, emp.ID, year); err != nil {
		return report, err
	}

	absences, err := h.Store.ListAbsences(ctx, emp.ID, generic.YearPeriod(year))
	if err != nil {
		return report, err
	}
	var window generic.Period
	report.Absences, window = absencesOfYear(absences, year, opts.excludeAbsenceID)

	holidays, err := h.Store.ListHolidays(ctx, emp.OrganizationID, window)
	if err != nil {
		return report, err
	}
	report.Holidays = generic.HolidayPeriods(holidays)

	report.Balance = vacation.CalculateBalance(vacation.BalanceInput{
		Policy:          report.Effective,
		Absences:        report.Absences,
		AdjustmentTotal: report.AdjustmentTotal,
		CurrentDate:     asOf,
		TargetYear:      year,
		Holidays:        report.Holidays,
	})

	schedule := vacation.ScheduleFor(policy, report.Effective.AnnualDays)
	report.AccruedToDate = schedule.AccruedAsOf(year, asOf)
	return report, nil
}

// absencesOfYear keeps the absences that start in year. An absence running
// over New Year belongs to the year it starts in and is counted there in
// full, so it is never taken from two balances. The returned window spans
// the year and every kept absence; holidays must cover all of it.
func absencesOfYear(absences []vacation.AbsenceEntry, year int, excludeID string) ([]vacation.AbsenceEntry, generic.Period) {
	window := generic.YearPeriod(year)
	var kept []vacation.AbsenceEntry
	for _, a := range absences {
		if a.StartDate.Year() != year || (excludeID != "" && a.ID == excludeID) {
			continue
		}
		kept = append(kept, a)
		window = window.Span(a.Period())
	}
	return kept, window
}

// holidaysFor returns the organization's holiday windows overlapping p.
func (h *Handler) holidaysFor(ctx context.Context, orgID generic.OrganizationID, p generic.Period) ([]generic.Period, error) {
	if orgID == "" {
		return nil, nil
	}
	holidays, err := h.Store.ListHolidays(ctx, orgID, p)
	if err != nil {
		return nil, err
	}
	return generic.HolidayPeriods(holidays), nil
}
