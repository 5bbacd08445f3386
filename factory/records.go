/*
Package factory converts collaborator records into engine types.

PURPOSE:
  Policies, overrides, absences, holidays and adjustments reach the engine
  as loosely typed records: decimal amounts as strings (so storage never
  introduces float drift), dates as ISO strings, enums as plain strings.
  The factory parses and validates them into the typed vacation structs,
  so the rest of the code never handles raw strings.

JSON SHAPES:
  policy:
    {"default_annual_days": "30", "allow_carryover": true,
     "max_carryover_days": "10", "carryover_expiry_months": 3,
     "accrual_type": "monthly", "accrual_start_month": 1}

  override:
    {"custom_annual_days": null, "custom_carryover_days": "5"}

  absence:
    {"start_date": "2024-06-10", "start_period": "full_day",
     "end_date": "2024-06-14", "end_period": "pm", "status": "approved",
     "category": {"counts_against_vacation": true}}

  holiday:
    {"name": "Christmas", "start_date": "2024-12-24", "end_date": "2024-12-26"}

  adjustment:
    {"days": "-1.5", "reason": "correction"}

DEFAULTS:
  - accrual_type "" -> annual; accrual_start_month 0 -> 1
  - start_period/end_period "" -> full_day
  - status "" -> pending

ERRORS:
  Every failure is a *generic.RecordError naming the record and field; it
  matches generic.ErrInvalidRecord with errors.Is.

SEE ALSO:
  - vacation/types.go: target types
  - api/handlers.go: decodes request bodies with these shapes
*/
package factory

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/warp/vacation-engine/generic"
	"github.com/warp/vacation-engine/vacation"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// PolicyJSON is the wire shape of an organization policy.
type PolicyJSON struct {
	DefaultAnnualDays     string  `json:"default_annual_days"`
	AllowCarryover        bool    `json:"allow_carryover"`
	MaxCarryoverDays      *string `json:"max_carryover_days"`
	CarryoverExpiryMonths *int    `json:"carryover_expiry_months"`
	AccrualType           string  `json:"accrual_type"`
	AccrualStartMonth     int     `json:"accrual_start_month"`
}

// OverrideJSON is the wire shape of an employee allowance override.
type OverrideJSON struct {
	CustomAnnualDays    *string `json:"custom_annual_days"`
	CustomCarryoverDays *string `json:"custom_carryover_days"`
}

// CategoryJSON is the absence category as the engine needs it.
type CategoryJSON struct {
	ID                    string `json:"id,omitempty"`
	Name                  string `json:"name,omitempty"`
	CountsAgainstVacation bool   `json:"counts_against_vacation"`
}

// AbsenceJSON is the wire shape of an absence.
type AbsenceJSON struct {
	ID          string       `json:"id,omitempty"`
	StartDate   string       `json:"start_date"`
	StartPeriod string       `json:"start_period,omitempty"`
	EndDate     string       `json:"end_date"`
	EndPeriod   string       `json:"end_period,omitempty"`
	Status      string       `json:"status,omitempty"`
	Category    CategoryJSON `json:"category"`
	Note        string       `json:"note,omitempty"`
}

// HolidayJSON is the wire shape of a holiday window.
type HolidayJSON struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// AdjustmentJSON is the wire shape of a manual adjustment.
type AdjustmentJSON struct {
	Year      int    `json:"year"`
	Days      string `json:"days"`
	Reason    string `json:"reason"`
	CreatedBy string `json:"created_by,omitempty"`
}

// =============================================================================
// POLICY
// =============================================================================

// ParsePolicy parses a JSON policy record.
func ParsePolicy(data []byte) (vacation.OrganizationPolicy, error) {
	var pj PolicyJSON
	if err := json.Unmarshal(data, &pj); err != nil {
		return vacation.OrganizationPolicy{}, recordErr("policy", "body", err)
	}
	return PolicyFromJSON(pj)
}

// PolicyFromJSON validates pj and converts it.
func PolicyFromJSON(pj PolicyJSON) (vacation.OrganizationPolicy, error) {
	var p vacation.OrganizationPolicy

	annual, err := generic.ParseDays(pj.DefaultAnnualDays)
	if err != nil {
		return p, recordErr("policy", "default_annual_days", err)
	}
	if annual.IsNegative() {
		return p, recordErr("policy", "default_annual_days", fmt.Errorf("must not be negative"))
	}

	maxCarry, err := generic.ParseOptionalDays(pj.MaxCarryoverDays)
	if err != nil {
		return p, recordErr("policy", "max_carryover_days", err)
	}
	if maxCarry != nil && maxCarry.IsNegative() {
		return p, recordErr("policy", "max_carryover_days", fmt.Errorf("must not be negative"))
	}

	if m := pj.CarryoverExpiryMonths; m != nil && (*m < 1 || *m > 12) {
		return p, recordErr("policy", "carryover_expiry_months", fmt.Errorf("must be between 1 and 12, got %d", *m))
	}

	accrualType := vacation.AccrualType(strings.TrimSpace(pj.AccrualType))
	if accrualType == "" {
		accrualType = vacation.AccrualAnnual
	}
	if !accrualType.IsValid() {
		return p, recordErr("policy", "accrual_type", fmt.Errorf("unknown accrual type %q", pj.AccrualType))
	}

	startMonth := pj.AccrualStartMonth
	if startMonth == 0 {
		startMonth = 1
	}
	if startMonth < 1 || startMonth > 12 {
		return p, recordErr("policy", "accrual_start_month", fmt.Errorf("must be between 1 and 12, got %d", startMonth))
	}

	return vacation.OrganizationPolicy{
		DefaultAnnualDays:     annual,
		AllowCarryover:        pj.AllowCarryover,
		MaxCarryoverDays:      maxCarry,
		CarryoverExpiryMonths: pj.CarryoverExpiryMonths,
		AccrualType:           accrualType,
		AccrualStartMonth:     startMonth,
	}, nil
}

// PolicyToJSON converts a policy back to its wire shape.
func PolicyToJSON(p vacation.OrganizationPolicy) PolicyJSON {
	return PolicyJSON{
		DefaultAnnualDays:     p.DefaultAnnualDays.String(),
		AllowCarryover:        p.AllowCarryover,
		MaxCarryoverDays:      generic.OptionalString(p.MaxCarryoverDays),
		CarryoverExpiryMonths: p.CarryoverExpiryMonths,
		AccrualType:           string(p.AccrualType),
		AccrualStartMonth:     p.AccrualStartMonth,
	}
}

// =============================================================================
// OVERRIDE
// =============================================================================

// OverrideFromJSON converts an override record for employee and year.
func OverrideFromJSON(oj OverrideJSON, employeeID generic.EmployeeID, year int) (vacation.AllowanceOverride, error) {
	o := vacation.AllowanceOverride{EmployeeID: employeeID, Year: year}

	annual, err := generic.ParseOptionalDays(oj.CustomAnnualDays)
	if err != nil {
		return o, recordErr("override", "custom_annual_days", err)
	}
	if annual != nil && annual.IsNegative() {
		return o, recordErr("override", "custom_annual_days", fmt.Errorf("must not be negative"))
	}
	carry, err := generic.ParseOptionalDays(oj.CustomCarryoverDays)
	if err != nil {
		return o, recordErr("override", "custom_carryover_days", err)
	}
	if carry != nil && carry.IsNegative() {
		return o, recordErr("override", "custom_carryover_days", fmt.Errorf("must not be negative"))
	}

	o.CustomAnnualDays = annual
	o.CustomCarryoverDays = carry
	return o, nil
}

func OverrideToJSON(o vacation.AllowanceOverride) OverrideJSON {
	return OverrideJSON{
		CustomAnnualDays:    generic.OptionalString(o.CustomAnnualDays),
		CustomCarryoverDays: generic.OptionalString(o.CustomCarryoverDays),
	}
}

// =============================================================================
// ABSENCE
// =============================================================================

// AbsenceFromJSON validates and converts an absence record.
func AbsenceFromJSON(aj AbsenceJSON, employeeID generic.EmployeeID) (vacation.AbsenceEntry, error) {
	a := vacation.AbsenceEntry{
		ID:         aj.ID,
		EmployeeID: employeeID,
		Note:       aj.Note,
		Category: vacation.Category{
			ID:                    aj.Category.ID,
			Name:                  aj.Category.Name,
			CountsAgainstVacation: aj.Category.CountsAgainstVacation,
		},
	}

	var err error
	if a.StartDate, err = generic.ParseDate(aj.StartDate); err != nil {
		return a, recordErr("absence", "start_date", err)
	}
	if a.EndDate, err = generic.ParseDate(aj.EndDate); err != nil {
		return a, recordErr("absence", "end_date", err)
	}
	if a.EndDate.Before(a.StartDate) {
		return a, recordErr("absence", "end_date", fmt.Errorf("%s is before start_date %s", a.EndDate, a.StartDate))
	}
	if a.StartPeriod, err = parseDayPeriod(aj.StartPeriod); err != nil {
		return a, recordErr("absence", "start_period", err)
	}
	if a.EndPeriod, err = parseDayPeriod(aj.EndPeriod); err != nil {
		return a, recordErr("absence", "end_period", err)
	}
	if a.Status, err = parseStatus(aj.Status); err != nil {
		return a, recordErr("absence", "status", err)
	}
	return a, nil
}

// ParseAbsence parses a JSON absence record for employeeID.
func ParseAbsence(data []byte, employeeID generic.EmployeeID) (vacation.AbsenceEntry, error) {
	var aj AbsenceJSON
	if err := json.Unmarshal(data, &aj); err != nil {
		return vacation.AbsenceEntry{}, recordErr("absence", "body", err)
	}
	return AbsenceFromJSON(aj, employeeID)
}

func AbsenceToJSON(a vacation.AbsenceEntry) AbsenceJSON {
	return AbsenceJSON{
		ID:          a.ID,
		StartDate:   a.StartDate.String(),
		StartPeriod: string(a.StartPeriod),
		EndDate:     a.EndDate.String(),
		EndPeriod:   string(a.EndPeriod),
		Status:      string(a.Status),
		Category: CategoryJSON{
			ID:                    a.Category.ID,
			Name:                  a.Category.Name,
			CountsAgainstVacation: a.Category.CountsAgainstVacation,
		},
		Note: a.Note,
	}
}

func parseDayPeriod(s string) (vacation.DayPeriod, error) {
	p := vacation.DayPeriod(strings.ToLower(strings.TrimSpace(s)))
	if p == "" {
		return vacation.FullDay, nil
	}
	if !p.IsValid() {
		return "", fmt.Errorf("unknown period %q (want full_day, am or pm)", s)
	}
	return p, nil
}

func parseStatus(s string) (vacation.Status, error) {
	st := vacation.Status(strings.ToLower(strings.TrimSpace(s)))
	if st == "" {
		return vacation.StatusPending, nil
	}
	if !st.IsValid() {
		return "", fmt.Errorf("unknown status %q", s)
	}
	return st, nil
}

// =============================================================================
// HOLIDAY
// =============================================================================

func HolidayFromJSON(hj HolidayJSON, orgID generic.OrganizationID) (generic.Holiday, error) {
	h := generic.Holiday{ID: hj.ID, OrganizationID: orgID, Name: strings.TrimSpace(hj.Name)}

	start, err := generic.ParseDate(hj.StartDate)
	if err != nil {
		return h, recordErr("holiday", "start_date", err)
	}
	end := start
	if hj.EndDate != "" {
		if end, err = generic.ParseDate(hj.EndDate); err != nil {
			return h, recordErr("holiday", "end_date", err)
		}
	}
	h.Period = generic.Period{Start: start, End: end}
	if !h.Period.IsValid() {
		return h, recordErr("holiday", "end_date", fmt.Errorf("%s is before start_date %s", end, start))
	}
	return h, nil
}

func HolidayToJSON(h generic.Holiday) HolidayJSON {
	return HolidayJSON{
		ID:        h.ID,
		Name:      h.Name,
		StartDate: h.Period.Start.String(),
		EndDate:   h.Period.End.String(),
	}
}

// =============================================================================
// ADJUSTMENT
// =============================================================================

// AdjustmentFromJSON converts an adjustment. A non-zero adjustment must
// carry a reason.
func AdjustmentFromJSON(aj AdjustmentJSON, employeeID generic.EmployeeID) (vacation.Adjustment, error) {
	adj := vacation.Adjustment{
		EmployeeID: employeeID,
		Year:       aj.Year,
		Reason:     strings.TrimSpace(aj.Reason),
		CreatedBy:  aj.CreatedBy,
	}
	if aj.Year <= 0 {
		return adj, recordErr("adjustment", "year", fmt.Errorf("must be set"))
	}
	days, err := generic.ParseDays(aj.Days)
	if err != nil {
		return adj, recordErr("adjustment", "days", err)
	}
	if !days.IsZero() && adj.Reason == "" {
		return adj, recordErr("adjustment", "reason", fmt.Errorf("required for non-zero adjustments"))
	}
	adj.Days = days
	return adj, nil
}

func recordErr(record, field string, err error) error {
	return &generic.RecordError{Record: record, Field: field, Err: err}
}
