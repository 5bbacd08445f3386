/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Collaborator records
  (policy, override, absence, holiday, adjustment) reuse the factory JSON
  types so there is one wire shape per record.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

DECIMALS:
  decimal.Decimal marshals as a JSON string ("12.5"), so day amounts
  never pass through float64 on the way out.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/records.go: Record JSON types
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/vacation-engine/factory"
	"github.com/warp/vacation-engine/generic"
	"github.com/warp/vacation-engine/store/sqlite"
	"github.com/warp/vacation-engine/vacation"
)

// =============================================================================
// EMPLOYEES
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organization_id"`
	Name           string `json:"name"`
	Email          string `json:"email,omitempty"`
	StartDate      string `json:"start_date"`
	CreatedAt      string `json:"created_at,omitempty"`
}

// CreateEmployeeRequest is the request to create an employee.
type CreateEmployeeRequest struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organization_id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	StartDate      string `json:"start_date"`
}

func toEmployeeDTO(e sqlite.Employee) EmployeeDTO {
	dto := EmployeeDTO{
		ID:             string(e.ID),
		OrganizationID: string(e.OrganizationID),
		Name:           e.Name,
		Email:          e.Email,
		StartDate:      e.StartDate.String(),
	}
	if !e.CreatedAt.IsZero() {
		dto.CreatedAt = e.CreatedAt.Format(time.RFC3339)
	}
	return dto
}

// =============================================================================
// POLICY AND OVERRIDE
// =============================================================================

// PolicyDTO represents an organization policy in API responses.
type PolicyDTO struct {
	OrganizationID string `json:"organization_id"`
	factory.PolicyJSON
}

// OverrideDTO represents an employee's override for one year. Both custom
// fields are null when the employee has no override.
type OverrideDTO struct {
	EmployeeID string `json:"employee_id"`
	Year       int    `json:"year"`
	factory.OverrideJSON
}

// =============================================================================
// BALANCE
// =============================================================================

// BalanceDTO is a balance snapshot plus the inputs that explain it.
type BalanceDTO struct {
	EmployeeID          string           `json:"employee_id"`
	Year                int              `json:"year"`
	AsOf                string           `json:"as_of"`
	AnnualDays          decimal.Decimal  `json:"annual_days"`
	Prorated            bool             `json:"prorated"`
	TotalDays           decimal.Decimal  `json:"total_days"`
	UsedDays            decimal.Decimal  `json:"used_days"`
	PendingDays         decimal.Decimal  `json:"pending_days"`
	RemainingDays       decimal.Decimal  `json:"remaining_days"`
	CarryoverDays       *decimal.Decimal `json:"carryover_days"`
	CarryoverExpiryDate *string          `json:"carryover_expiry_date"`
	AdjustmentDays      decimal.Decimal  `json:"adjustment_days"`
	AccrualType         string           `json:"accrual_type"`
	AccruedToDate       decimal.Decimal  `json:"accrued_to_date"`
}

func toBalanceDTO(r balanceReport) BalanceDTO {
	dto := BalanceDTO{
		EmployeeID:     string(r.Employee.ID),
		Year:           r.Year,
		AsOf:           r.AsOf.String(),
		AnnualDays:     r.Effective.AnnualDays,
		Prorated:       r.Prorated,
		TotalDays:      r.Balance.TotalDays,
		UsedDays:       r.Balance.UsedDays,
		PendingDays:    r.Balance.PendingDays,
		RemainingDays:  r.Balance.RemainingDays,
		CarryoverDays:  r.Balance.CarryoverDays,
		AdjustmentDays: r.AdjustmentTotal,
		AccrualType:    string(r.Policy.AccrualType),
		AccruedToDate:  r.AccruedToDate,
	}
	if r.Balance.CarryoverExpiryDate != nil {
		s := r.Balance.CarryoverExpiryDate.String()
		dto.CarryoverExpiryDate = &s
	}
	return dto
}

// CheckBalanceRequest asks whether an amount of days could be granted.
type CheckBalanceRequest struct {
	Year int    `json:"year"`
	Days string `json:"days"`
}

// CheckBalanceResponse answers a CheckBalanceRequest.
type CheckBalanceResponse struct {
	Sufficient    bool            `json:"sufficient"`
	RequestedDays decimal.Decimal `json:"requested_days"`
	RemainingDays decimal.Decimal `json:"remaining_days"`
}

// =============================================================================
// ABSENCES
// =============================================================================

// AbsenceDTO is an absence with its computed day-length.
type AbsenceDTO struct {
	factory.AbsenceJSON
	EmployeeID string          `json:"employee_id"`
	DayLength  decimal.Decimal `json:"day_length"`
}

// CreateAbsenceResponse returns the stored absence and the active
// absences it overlaps.
type CreateAbsenceResponse struct {
	Absence   AbsenceDTO   `json:"absence"`
	Conflicts []AbsenceDTO `json:"conflicts"`
}

func toAbsenceDTO(a vacation.AbsenceEntry, holidays []generic.Period) AbsenceDTO {
	return AbsenceDTO{
		AbsenceJSON: factory.AbsenceToJSON(a),
		EmployeeID:  string(a.EmployeeID),
		DayLength:   vacation.DayLength(a, holidays),
	}
}

func toAbsenceDTOs(absences []vacation.AbsenceEntry, holidays []generic.Period) []AbsenceDTO {
	dtos := make([]AbsenceDTO, len(absences))
	for i, a := range absences {
		dtos[i] = toAbsenceDTO(a, holidays)
	}
	return dtos
}

// =============================================================================
// ADJUSTMENTS
// =============================================================================

// AdjustmentDTO represents an adjustment in API responses.
type AdjustmentDTO struct {
	ID         string          `json:"id"`
	EmployeeID string          `json:"employee_id"`
	Year       int             `json:"year"`
	Days       decimal.Decimal `json:"days"`
	Reason     string          `json:"reason"`
	CreatedBy  string          `json:"created_by,omitempty"`
	CreatedAt  string          `json:"created_at"`
}

func toAdjustmentDTO(a vacation.Adjustment) AdjustmentDTO {
	return AdjustmentDTO{
		ID:         a.ID,
		EmployeeID: string(a.EmployeeID),
		Year:       a.Year,
		Days:       a.Days,
		Reason:     a.Reason,
		CreatedBy:  a.CreatedBy,
		CreatedAt:  a.CreatedAt.Format(time.RFC3339),
	}
}

// =============================================================================
// CALENDAR
// =============================================================================

// BusinessDaysResponse answers GET /api/calendar/business-days.
type BusinessDaysResponse struct {
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	BusinessDays int    `json:"business_days"`
}

// ProrateResponse answers GET /api/calendar/prorate.
type ProrateResponse struct {
	AnnualDays   decimal.Decimal `json:"annual_days"`
	StartDate    string          `json:"start_date"`
	Year         int             `json:"year"`
	ProratedDays decimal.Decimal `json:"prorated_days"`
}

// HolidayImportResponse reports an uploaded holiday sheet.
type HolidayImportResponse struct {
	Imported int                   `json:"imported"`
	Holidays []factory.HolidayJSON `json:"holidays"`
}

// =============================================================================
// ROLLOVER
// =============================================================================

// RolloverRequest triggers the year-end rollover of one organization.
type RolloverRequest struct {
	OrganizationID string `json:"organization_id"`
	Year           int    `json:"year"`
}

// RolloverResultDTO is the outcome for one employee.
type RolloverResultDTO struct {
	EmployeeID    string          `json:"employee_id"`
	RemainingDays decimal.Decimal `json:"remaining_days"`
	CarriedOver   decimal.Decimal `json:"carried_over"`
	Forfeited     decimal.Decimal `json:"forfeited"`
}

// RolloverResponse is returned by POST /api/admin/rollover.
type RolloverResponse struct {
	OrganizationID string              `json:"organization_id"`
	FromYear       int                 `json:"from_year"`
	ToYear         int                 `json:"to_year"`
	Results        []RolloverResultDTO `json:"results"`
}

// RolloverRunDTO is a closed organization year.
type RolloverRunDTO struct {
	OrganizationID string          `json:"organization_id"`
	Year           int             `json:"year"`
	Employees      int             `json:"employees"`
	CarriedOver    decimal.Decimal `json:"carried_over"`
	Forfeited      decimal.Decimal `json:"forfeited"`
	RanAt          string          `json:"ran_at"`
}

// =============================================================================
// SCENARIOS
// =============================================================================

// ScenarioDTO describes a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects the scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
