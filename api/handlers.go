/*
handlers.go - HTTP API handlers for the vacation engine

PURPOSE:
  Exposes the balance engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the vacation package.

ENDPOINTS:
  Organizations:
    GET    /api/organizations/{orgID}/policy           Get vacation policy
    PUT    /api/organizations/{orgID}/policy           Create or replace policy
    GET    /api/organizations/{orgID}/holidays         List holidays (?year=)
    POST   /api/organizations/{orgID}/holidays         Add holiday window
    POST   /api/organizations/{orgID}/holidays/import  Upload .xlsx/.xls sheet
    DELETE /api/organizations/{orgID}/holidays/{id}    Delete holiday

  Employees:
    GET    /api/employees                       List (?organization_id=)
    POST   /api/employees                       Create employee
    GET    /api/employees/{id}                  Employee details
    GET    /api/employees/{id}/balance          Balance (?year=&as_of=)
    POST   /api/employees/{id}/balance/check    Sufficiency check
    GET    /api/employees/{id}/override         Override (?year=)
    PUT    /api/employees/{id}/override         Set override (?year=)
    GET    /api/employees/{id}/adjustments      Adjustments (?year=)
    POST   /api/employees/{id}/adjustments      Append adjustment
    GET    /api/employees/{id}/absences         Absences (?year=)
    POST   /api/employees/{id}/absences         Request absence

  Absences:
    GET    /api/absences/{id}                   Absence details
    POST   /api/absences/{id}/approve           pending -> approved
    POST   /api/absences/{id}/reject            pending -> rejected
    POST   /api/absences/{id}/cancel            pending -> cancelled

  Calendar, admin, reports:
    GET    /api/calendar/business-days          ?start_date=&end_date=&organization_id=
    GET    /api/calendar/prorate                ?annual_days=&start_date=&year=
    POST   /api/admin/rollover                  Year-end carryover
    GET    /api/admin/rollover/runs             Closed organization years
    GET    /api/scenarios                       Demo scenarios
    POST   /api/scenarios/load                  Load a demo scenario (dev only)
    GET    /api/reports/balances.xlsx           Balance sheet export
    POST   /api/reset                           Database reset (dev only)

ERROR HANDLING:
  Errors are returned as JSON with an HTTP status chosen from the error:
  - 400: Invalid records and parameters (generic.ErrInvalidRecord)
  - 404: Unknown policy, employee, absence or holiday
  - 409: Status change out of a terminal state
  - 422: Approval would exceed the remaining balance
  - 500: Internal errors (logged)

SECURITY NOTE:
  No authentication or authorization. All endpoints are public.

SEE ALSO:
  - balance.go: Balance snapshot loading
  - dto.go: Request/response data structures
  - export.go: Spreadsheet import and export
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/warp/vacation-engine/factory"
	"github.com/warp/vacation-engine/generic"
	"github.com/warp/vacation-engine/store/sqlite"
	"github.com/warp/vacation-engine/vacation"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store  *sqlite.Store
	Logger *slog.Logger

	// Now is the clock used for default years and as-of dates.
	Now func() time.Time

	// AllowReset enables POST /api/reset.
	AllowReset bool

	approveMu sync.Mutex
}

// NewHandler creates a new handler with the given store.
func NewHandler(store *sqlite.Store, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		Store:  store,
		Logger: logger,
		Now:    time.Now,
	}
}

func (h *Handler) today() generic.Date {
	return generic.DateOf(h.Now().UTC())
}

// =============================================================================
// POLICY HANDLERS
// =============================================================================

// GetPolicy returns the organization's vacation policy.
func (h *Handler) GetPolicy(w http.ResponseWriter, r *http.Request) {
	orgID := generic.OrganizationID(chi.URLParam(r, "orgID"))

	policy, err := h.Store.GetPolicy(r.Context(), orgID)
	if err != nil {
		h.fail(w, r, "Failed to get policy", err)
		return
	}
	writeJSON(w, http.StatusOK, PolicyDTO{OrganizationID: string(orgID), PolicyJSON: factory.PolicyToJSON(policy)})
}

// PutPolicy creates or replaces the organization's vacation policy.
func (h *Handler) PutPolicy(w http.ResponseWriter, r *http.Request) {
	orgID := generic.OrganizationID(chi.URLParam(r, "orgID"))

	var req factory.PolicyJSON
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, "Invalid request body", err)
		return
	}
	policy, err := factory.PolicyFromJSON(req)
	if err != nil {
		h.fail(w, r, "Invalid policy", err)
		return
	}
	policy.OrganizationID = orgID

	if err := h.Store.SavePolicy(r.Context(), policy); err != nil {
		h.fail(w, r, "Failed to save policy", err)
		return
	}

	h.Logger.InfoContext(r.Context(), "policy saved", "organization_id", orgID, "annual_days", policy.DefaultAnnualDays.String())
	writeJSON(w, http.StatusOK, PolicyDTO{OrganizationID: string(orgID), PolicyJSON: factory.PolicyToJSON(policy)})
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees, optionally of one organization.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	orgID := generic.OrganizationID(r.URL.Query().Get("organization_id"))

	employees, err := h.Store.ListEmployees(r.Context(), orgID)
	if err != nil {
		h.fail(w, r, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployee returns a single employee.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Store.GetEmployee(r.Context(), employeeParam(r))
	if err != nil {
		h.fail(w, r, "Failed to get employee", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(emp))
}

// CreateEmployee creates a new employee.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, "Invalid request body", err)
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		h.fail(w, r, "Invalid employee", &generic.RecordError{Record: "employee", Field: "name", Err: errors.New("required")})
		return
	}
	if strings.TrimSpace(req.OrganizationID) == "" {
		h.fail(w, r, "Invalid employee", &generic.RecordError{Record: "employee", Field: "organization_id", Err: errors.New("required")})
		return
	}
	startDate, err := generic.ParseDate(req.StartDate)
	if err != nil {
		h.fail(w, r, "Invalid start_date format (use YYYY-MM-DD)", err)
		return
	}

	emp := sqlite.Employee{
		ID:             generic.EmployeeID(req.ID),
		OrganizationID: generic.OrganizationID(req.OrganizationID),
		Name:           strings.TrimSpace(req.Name),
		Email:          req.Email,
		StartDate:      startDate,
	}
	if emp.ID == "" {
		emp.ID = generic.EmployeeID(uuid.New().String())
	}

	if err := h.Store.SaveEmployee(r.Context(), emp); err != nil {
		h.fail(w, r, "Failed to create employee", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDTO(emp))
}

// =============================================================================
// BALANCE HANDLERS
// =============================================================================

// GetBalance returns the employee's balance for ?year= as seen on ?as_of=.
// Both default to today.
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	today := h.today()

	year, err := intParam(r, "year", today.Year())
	if err != nil {
		h.fail(w, r, "Invalid year", err)
		return
	}
	asOf, err := dateParam(r, "as_of", today)
	if err != nil {
		h.fail(w, r, "Invalid as_of", err)
		return
	}

	emp, err := h.Store.GetEmployee(ctx, employeeParam(r))
	if err != nil {
		h.fail(w, r, "Failed to get employee", err)
		return
	}

	report, err := h.loadBalance(ctx, emp, year, asOf, balanceOptions{})
	if err != nil {
		h.fail(w, r, "Failed to calculate balance", err)
		return
	}
	writeJSON(w, http.StatusOK, toBalanceDTO(report))
}

// CheckBalance reports whether the requested days fit in the remaining
// balance. Nothing is stored.
func (h *Handler) CheckBalance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CheckBalanceRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, "Invalid request body", err)
		return
	}
	days, err := generic.ParseDays(req.Days)
	if err != nil {
		h.fail(w, r, "Invalid days", err)
		return
	}
	today := h.today()
	if req.Year == 0 {
		req.Year = today.Year()
	}

	emp, err := h.Store.GetEmployee(ctx, employeeParam(r))
	if err != nil {
		h.fail(w, r, "Failed to get employee", err)
		return
	}
	report, err := h.loadBalance(ctx, emp, req.Year, today, balanceOptions{})
	if err != nil {
		h.fail(w, r, "Failed to calculate balance", err)
		return
	}

	writeJSON(w, http.StatusOK, CheckBalanceResponse{
		Sufficient:    vacation.HasSufficientBalance(report.Balance, days),
		RequestedDays: days,
		RemainingDays: report.Balance.RemainingDays,
	})
}

// =============================================================================
// OVERRIDE HANDLERS
// =============================================================================

// GetOverride returns the employee's override for ?year=.
func (h *Handler) GetOverride(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	empID := employeeParam(r)

	year, err := intParam(r, "year", h.today().Year())
	if err != nil {
		h.fail(w, r, "Invalid year", err)
		return
	}
	if _, err := h.Store.GetEmployee(ctx, empID); err != nil {
		h.fail(w, r, "Failed to get employee", err)
		return
	}

	dto := OverrideDTO{EmployeeID: string(empID), Year: year}
	override, err := h.Store.GetOverride(ctx, empID, year)
	if err != nil {
		h.fail(w, r, "Failed to get override", err)
		return
	}
	if override != nil {
		dto.OverrideJSON = factory.OverrideToJSON(*override)
	}
	writeJSON(w, http.StatusOK, dto)
}

// PutOverride replaces the employee's override for ?year=.
func (h *Handler) PutOverride(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	empID := employeeParam(r)

	year, err := intParam(r, "year", h.today().Year())
	if err != nil {
		h.fail(w, r, "Invalid year", err)
		return
	}
	var req factory.OverrideJSON
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, "Invalid request body", err)
		return
	}
	override, err := factory.OverrideFromJSON(req, empID, year)
	if err != nil {
		h.fail(w, r, "Invalid override", err)
		return
	}
	if _, err := h.Store.GetEmployee(ctx, empID); err != nil {
		h.fail(w, r, "Failed to get employee", err)
		return
	}

	if err := h.Store.SaveOverride(ctx, override); err != nil {
		h.fail(w, r, "Failed to save override", err)
		return
	}
	writeJSON(w, http.StatusOK, OverrideDTO{EmployeeID: string(empID), Year: year, OverrideJSON: factory.OverrideToJSON(override)})
}

// =============================================================================
// ADJUSTMENT HANDLERS
// =============================================================================

// ListAdjustments returns the employee's adjustments for ?year=.
func (h *Handler) ListAdjustments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	empID := employeeParam(r)

	year, err := intParam(r, "year", h.today().Year())
	if err != nil {
		h.fail(w, r, "Invalid year", err)
		return
	}
	adjustments, err := h.Store.ListAdjustments(ctx, empID, year)
	if err != nil {
		h.fail(w, r, "Failed to list adjustments", err)
		return
	}

	dtos := make([]AdjustmentDTO, len(adjustments))
	for i, a := range adjustments {
		dtos[i] = toAdjustmentDTO(a)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateAdjustment appends a manual adjustment. The year defaults to the
// current one.
func (h *Handler) CreateAdjustment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	empID := employeeParam(r)

	var req factory.AdjustmentJSON
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, "Invalid request body", err)
		return
	}
	if req.Year == 0 {
		req.Year = h.today().Year()
	}
	adj, err := factory.AdjustmentFromJSON(req, empID)
	if err != nil {
		h.fail(w, r, "Invalid adjustment", err)
		return
	}
	if _, err := h.Store.GetEmployee(ctx, empID); err != nil {
		h.fail(w, r, "Failed to get employee", err)
		return
	}

	adj.CreatedAt = h.Now().UTC()
	adj, err = h.Store.AppendAdjustment(ctx, adj)
	if err != nil {
		h.fail(w, r, "Failed to create adjustment", err)
		return
	}

	h.Logger.InfoContext(ctx, "adjustment recorded",
		"employee_id", empID, "year", adj.Year, "days", adj.Days.String(), "reason", adj.Reason)
	writeJSON(w, http.StatusCreated, toAdjustmentDTO(adj))
}

// =============================================================================
// ABSENCE HANDLERS
// =============================================================================

// ListAbsences returns the employee's absences overlapping ?year=.
func (h *Handler) ListAbsences(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	year, err := intParam(r, "year", h.today().Year())
	if err != nil {
		h.fail(w, r, "Invalid year", err)
		return
	}
	emp, err := h.Store.GetEmployee(ctx, employeeParam(r))
	if err != nil {
		h.fail(w, r, "Failed to get employee", err)
		return
	}

	period := generic.YearPeriod(year)
	absences, err := h.Store.ListAbsences(ctx, emp.ID, period)
	if err != nil {
		h.fail(w, r, "Failed to list absences", err)
		return
	}
	for _, a := range absences {
		period = period.Span(a.Period())
	}
	holidays, err := h.holidaysFor(ctx, emp.OrganizationID, period)
	if err != nil {
		h.fail(w, r, "Failed to list holidays", err)
		return
	}
	writeJSON(w, http.StatusOK, toAbsenceDTOs(absences, holidays))
}

// CreateAbsence stores a new pending absence and reports the active
// absences it overlaps. Overlaps are reported, not rejected.
func (h *Handler) CreateAbsence(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req factory.AbsenceJSON
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, "Invalid request body", err)
		return
	}
	emp, err := h.Store.GetEmployee(ctx, employeeParam(r))
	if err != nil {
		h.fail(w, r, "Failed to get employee", err)
		return
	}

	absence, err := factory.AbsenceFromJSON(req, emp.ID)
	if err != nil {
		h.fail(w, r, "Invalid absence", err)
		return
	}
	if absence.Status != vacation.StatusPending {
		h.fail(w, r, "Invalid absence", &generic.RecordError{
			Record: "absence", Field: "status", Err: fmt.Errorf("new absences start as pending, got %s", absence.Status),
		})
		return
	}
	absence.ID = ""

	existing, err := h.Store.ListAbsences(ctx, emp.ID, absence.Period())
	if err != nil {
		h.fail(w, r, "Failed to list absences", err)
		return
	}
	conflicts := vacation.FindConflicts(absence, existing)

	absence, err = h.Store.SaveAbsence(ctx, absence)
	if err != nil {
		h.fail(w, r, "Failed to save absence", err)
		return
	}

	holidays, err := h.holidaysFor(ctx, emp.OrganizationID, absence.Period())
	if err != nil {
		h.fail(w, r, "Failed to list holidays", err)
		return
	}
	if len(conflicts) > 0 {
		h.Logger.WarnContext(ctx, "absence overlaps existing absences",
			"employee_id", emp.ID, "absence_id", absence.ID, "conflicts", len(conflicts))
	}
	writeJSON(w, http.StatusCreated, CreateAbsenceResponse{
		Absence:   toAbsenceDTO(absence, holidays),
		Conflicts: toAbsenceDTOs(conflicts, holidays),
	})
}

// GetAbsence returns one absence.
func (h *Handler) GetAbsence(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	absence, err := h.Store.GetAbsence(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "Failed to get absence", err)
		return
	}
	emp, err := h.Store.GetEmployee(ctx, absence.EmployeeID)
	if err != nil {
		h.fail(w, r, "Failed to get employee", err)
		return
	}
	holidays, err := h.holidaysFor(ctx, emp.OrganizationID, absence.Period())
	if err != nil {
		h.fail(w, r, "Failed to list holidays", err)
		return
	}
	writeJSON(w, http.StatusOK, toAbsenceDTO(absence, holidays))
}

// ApproveAbsence approves a pending absence. Absences that count against
// vacation are approved only if they fit in the balance of their start
// year, computed without the absence itself. The check and the status
// change run under approveMu so two approvals cannot spend the same days.
func (h *Handler) ApproveAbsence(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	h.approveMu.Lock()
	defer h.approveMu.Unlock()

	absence, err := h.Store.GetAbsence(ctx, id)
	if err != nil {
		h.fail(w, r, "Failed to get absence", err)
		return
	}

	// Terminal absences fail in the transition below.
	if !absence.Status.IsTerminal() && absence.Category.CountsAgainstVacation {
		emp, err := h.Store.GetEmployee(ctx, absence.EmployeeID)
		if err != nil {
			h.fail(w, r, "Failed to get employee", err)
			return
		}
		report, err := h.loadBalance(ctx, emp, absence.StartDate.Year(), h.today(), balanceOptions{excludeAbsenceID: id})
		if err != nil {
			h.fail(w, r, "Failed to calculate balance", err)
			return
		}
		holidays, err := h.holidaysFor(ctx, emp.OrganizationID, absence.Period())
		if err != nil {
			h.fail(w, r, "Failed to list holidays", err)
			return
		}
		requested := vacation.DayLength(absence, holidays)
		if err := vacation.CheckSufficiency(emp.ID, report.Balance, requested); err != nil {
			h.fail(w, r, "Insufficient balance", err)
			return
		}
	}

	h.transition(w, r, id, vacation.StatusApproved)
}

// RejectAbsence rejects a pending absence.
func (h *Handler) RejectAbsence(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, chi.URLParam(r, "id"), vacation.StatusRejected)
}

// CancelAbsence cancels a pending absence.
func (h *Handler) CancelAbsence(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, chi.URLParam(r, "id"), vacation.StatusCancelled)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, id string, to vacation.Status) {
	absence, err := h.Store.TransitionAbsence(r.Context(), id, to)
	if err != nil {
		h.fail(w, r, "Failed to update absence", err)
		return
	}
	h.Logger.InfoContext(r.Context(), "absence status changed", "absence_id", id, "status", to)
	writeJSON(w, http.StatusOK, toAbsenceDTO(absence, nil))
}

// =============================================================================
// HOLIDAY HANDLERS
// =============================================================================

// ListHolidays returns the organization's holidays overlapping ?year=.
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	orgID := generic.OrganizationID(chi.URLParam(r, "orgID"))

	year, err := intParam(r, "year", h.today().Year())
	if err != nil {
		h.fail(w, r, "Invalid year", err)
		return
	}
	holidays, err := h.Store.ListHolidays(r.Context(), orgID, generic.YearPeriod(year))
	if err != nil {
		h.fail(w, r, "Failed to list holidays", err)
		return
	}

	dtos := make([]factory.HolidayJSON, len(holidays))
	for i, hol := range holidays {
		dtos[i] = factory.HolidayToJSON(hol)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateHoliday adds a holiday window. end_date defaults to start_date.
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	orgID := generic.OrganizationID(chi.URLParam(r, "orgID"))

	var req factory.HolidayJSON
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, "Invalid request body", err)
		return
	}
	holiday, err := factory.HolidayFromJSON(req, orgID)
	if err != nil {
		h.fail(w, r, "Invalid holiday", err)
		return
	}

	holiday, err = h.Store.SaveHoliday(r.Context(), holiday)
	if err != nil {
		h.fail(w, r, "Failed to create holiday", err)
		return
	}
	writeJSON(w, http.StatusCreated, factory.HolidayToJSON(holiday))
}

// DeleteHoliday removes a holiday window.
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteHoliday(r.Context(), chi.URLParam(r, "holidayID")); err != nil {
		h.fail(w, r, "Failed to delete holiday", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// CALENDAR HANDLERS
// =============================================================================

// BusinessDays counts Monday to Friday days between ?start_date= and
// ?end_date= inclusive, minus the holidays of ?organization_id= if given.
func (h *Handler) BusinessDays(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	start, err := generic.ParseDate(q.Get("start_date"))
	if err != nil {
		h.fail(w, r, "Invalid start_date", err)
		return
	}
	end, err := generic.ParseDate(q.Get("end_date"))
	if err != nil {
		h.fail(w, r, "Invalid end_date", err)
		return
	}

	var holidays []generic.Period
	if start.BeforeOrEqual(end) {
		orgID := generic.OrganizationID(q.Get("organization_id"))
		if holidays, err = h.holidaysFor(r.Context(), orgID, generic.Period{Start: start, End: end}); err != nil {
			h.fail(w, r, "Failed to list holidays", err)
			return
		}
	}

	writeJSON(w, http.StatusOK, BusinessDaysResponse{
		StartDate:    start.String(),
		EndDate:      end.String(),
		BusinessDays: generic.BusinessDays(start, end, holidays),
	})
}

// Prorate returns ?annual_days= prorated for an employee starting on
// ?start_date= in ?year= (default: the start date's year).
func (h *Handler) Prorate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	annual, err := generic.ParseDays(q.Get("annual_days"))
	if err != nil {
		h.fail(w, r, "Invalid annual_days", err)
		return
	}
	start, err := generic.ParseDate(q.Get("start_date"))
	if err != nil {
		h.fail(w, r, "Invalid start_date", err)
		return
	}
	year, err := intParam(r, "year", start.Year())
	if err != nil {
		h.fail(w, r, "Invalid year", err)
		return
	}

	writeJSON(w, http.StatusOK, ProrateResponse{
		AnnualDays:   annual,
		StartDate:    start.String(),
		Year:         year,
		ProratedDays: vacation.Prorate(annual, start, year),
	})
}

// =============================================================================
// ADMIN HANDLERS
// =============================================================================

// TriggerRollover closes a year for one organization. The year defaults to
// the previous one.
func (h *Handler) TriggerRollover(w http.ResponseWriter, r *http.Request) {
	var req RolloverRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, "Invalid request body", err)
		return
	}
	if req.OrganizationID == "" {
		h.fail(w, r, "Invalid rollover", &generic.RecordError{Record: "rollover", Field: "organization_id", Err: errors.New("required")})
		return
	}
	if req.Year == 0 {
		req.Year = h.today().Year() - 1
	}

	resp, err := h.runRollover(r.Context(), generic.OrganizationID(req.OrganizationID), req.Year)
	if err != nil {
		h.fail(w, r, "Failed to run rollover", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListRolloverRuns returns every closed organization year.
func (h *Handler) ListRolloverRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.Store.ListRolloverRuns(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to list rollover runs", err)
		return
	}

	dtos := make([]RolloverRunDTO, len(runs))
	for i, run := range runs {
		dtos[i] = RolloverRunDTO{
			OrganizationID: string(run.OrganizationID),
			Year:           run.Year,
			Employees:      run.Employees,
			CarriedOver:    run.CarriedOver,
			Forfeited:      run.Forfeited,
			RanAt:          run.RanAt.Format(time.RFC3339),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ResetDatabase clears all data. Only routed when AllowReset is set.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if !h.AllowReset {
		writeError(w, http.StatusForbidden, "Reset is disabled", nil)
		return
	}
	if err := h.Store.Reset(r.Context()); err != nil {
		h.fail(w, r, "Failed to reset database", err)
		return
	}
	h.Logger.WarnContext(r.Context(), "database reset")
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// =============================================================================
// HELPERS
// =============================================================================

func employeeParam(r *http.Request) generic.EmployeeID {
	return generic.EmployeeID(chi.URLParam(r, "id"))
}

func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, &generic.RecordError{Record: "query", Field: name, Err: fmt.Errorf("%q is not a positive integer", raw)}
	}
	return v, nil
}

func dateParam(r *http.Request, name string, def generic.Date) (generic.Date, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	d, err := generic.ParseDate(raw)
	if err != nil {
		return generic.Date{}, &generic.RecordError{Record: "query", Field: name, Err: err}
	}
	return d, nil
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &generic.RecordError{Record: "request", Field: "body", Err: err}
	}
	return nil
}

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	switch {
	case generic.IsNotFound(err):
		return http.StatusNotFound
	case generic.IsConflict(err):
		return http.StatusConflict
	case errors.Is(err, generic.ErrInsufficientBalance):
		return http.StatusUnprocessableEntity
	case generic.IsClientError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err with the status it maps to. Server errors are logged.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, message string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.Logger.ErrorContext(r.Context(), message, "error", err, "path", r.URL.Path)
	}
	writeError(w, status, message, err)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
