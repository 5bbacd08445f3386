/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	data for testing and demos. Each scenario creates an organization
	policy, employees, overrides, holidays and absences that demonstrate
	specific balance rules.

AVAILABLE SCENARIOS:

	carryover:      30 days + 5 carried over, expiring end of March
	mid-year-hire:  Prorated entitlement for a July 1st start
	half-days:      Morning/afternoon boundaries and a holiday week
	no-carryover:   Carryover override ignored because the policy forbids it

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Create the organization policy via factory JSON
 3. Create employees
 4. Add overrides, holidays and absences

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "carryover"}

NOTE:

	Scenarios reset the database. Only routed when AllowReset is set.

SEE ALSO:
  - handlers.go: ResetDatabase
  - factory/records.go: Record JSON definitions
*/
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/warp/vacation-engine/factory"
	"github.com/warp/vacation-engine/generic"
	"github.com/warp/vacation-engine/store/sqlite"
	"github.com/warp/vacation-engine/vacation"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

const demoOrganization generic.OrganizationID = "org-demo"

var scenarios = []ScenarioDTO{
	{
		ID:          "carryover",
		Name:        "Carryover",
		Description: "30 days a year plus 5 carried over until March 31st, one approved week and three pending days",
	},
	{
		ID:          "mid-year-hire",
		Name:        "Mid-Year Hire",
		Description: "Employee starting July 1st gets a prorated first-year entitlement",
	},
	{
		ID:          "half-days",
		Name:        "Half Days and Holidays",
		Description: "Absences starting in the afternoon, ending in the morning, and spanning a company holiday",
	},
	{
		ID:          "no-carryover",
		Name:        "No Carryover",
		Description: "Policy forbids carryover, so a carryover override is ignored",
	},
}

var scenarioLoaders = map[string]func(h *Handler, ctx context.Context) error{
	"carryover":     (*Handler).loadCarryoverScenario,
	"mid-year-hire": (*Handler).loadMidYearHireScenario,
	"half-days":     (*Handler).loadHalfDaysScenario,
	"no-carryover":  (*Handler).loadNoCarryoverScenario,
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// LoadScenario resets the database and loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	if !h.AllowReset {
		writeError(w, http.StatusForbidden, "Scenarios are disabled", nil)
		return
	}

	var req LoadScenarioRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, "Invalid request body", err)
		return
	}
	load, ok := scenarioLoaders[req.ScenarioID]
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown scenario", fmt.Errorf("scenario %q", req.ScenarioID))
		return
	}

	ctx := r.Context()
	if err := h.Store.Reset(ctx); err != nil {
		h.fail(w, r, "Failed to reset database", err)
		return
	}
	if err := load(h, ctx); err != nil {
		h.fail(w, r, "Failed to load scenario", err)
		return
	}

	h.Logger.InfoContext(ctx, "scenario loaded", "scenario", req.ScenarioID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func (h *Handler) loadCarryoverScenario(ctx context.Context) error {
	if err := h.createPolicyFromJSON(ctx, demoOrganization,
		`{"default_annual_days": "30", "allow_carryover": true, "max_carryover_days": "10", "carryover_expiry_months": 3}`); err != nil {
		return err
	}
	if err := h.createDemoEmployee(ctx, "emp-alice", "Alice Martin", "2020-03-01"); err != nil {
		return err
	}
	if err := h.createOverride(ctx, "emp-alice", 2024, factory.OverrideJSON{CustomCarryoverDays: strPtr("5")}); err != nil {
		return err
	}
	if err := h.createAbsence(ctx, "emp-alice", `{"start_date": "2024-06-10", "end_date": "2024-06-14", "category": {"name": "Vacation", "counts_against_vacation": true}}`, vacation.StatusApproved); err != nil {
		return err
	}
	return h.createAbsence(ctx, "emp-alice", `{"start_date": "2024-08-12", "end_date": "2024-08-14", "category": {"name": "Vacation", "counts_against_vacation": true}}`, vacation.StatusPending)
}

func (h *Handler) loadMidYearHireScenario(ctx context.Context) error {
	if err := h.createPolicyFromJSON(ctx, demoOrganization,
		`{"default_annual_days": "25", "allow_carryover": true, "accrual_type": "monthly"}`); err != nil {
		return err
	}
	if err := h.createDemoEmployee(ctx, "emp-bob", "Bob Keller", "2024-07-01"); err != nil {
		return err
	}
	return h.createDemoEmployee(ctx, "emp-carol", "Carol Diaz", "2019-01-01")
}

func (h *Handler) loadHalfDaysScenario(ctx context.Context) error {
	if err := h.createPolicyFromJSON(ctx, demoOrganization,
		`{"default_annual_days": "28", "allow_carryover": false}`); err != nil {
		return err
	}
	if err := h.createDemoEmployee(ctx, "emp-dana", "Dana Whitfield", "2018-05-01"); err != nil {
		return err
	}

	holiday, err := factory.HolidayFromJSON(factory.HolidayJSON{Name: "Company retreat", StartDate: "2024-05-08", EndDate: "2024-05-09"}, demoOrganization)
	if err != nil {
		return err
	}
	if _, err := h.Store.SaveHoliday(ctx, holiday); err != nil {
		return err
	}

	// Mon pm to Fri am around the retreat: 5 - 2 holidays - 0.5 - 0.5 = 2
	if err := h.createAbsence(ctx, "emp-dana", `{"start_date": "2024-05-06", "start_period": "pm", "end_date": "2024-05-10", "end_period": "am", "category": {"name": "Vacation", "counts_against_vacation": true}}`, vacation.StatusApproved); err != nil {
		return err
	}
	if err := h.createAbsence(ctx, "emp-dana", `{"start_date": "2024-09-02", "start_period": "am", "end_date": "2024-09-02", "category": {"name": "Vacation", "counts_against_vacation": true}}`, vacation.StatusPending); err != nil {
		return err
	}
	return h.createAbsence(ctx, "emp-dana", `{"start_date": "2024-10-07", "end_date": "2024-10-08", "category": {"name": "Sick leave", "counts_against_vacation": false}}`, vacation.StatusApproved)
}

func (h *Handler) loadNoCarryoverScenario(ctx context.Context) error {
	if err := h.createPolicyFromJSON(ctx, demoOrganization,
		`{"default_annual_days": "30", "allow_carryover": false, "carryover_expiry_months": 3}`); err != nil {
		return err
	}
	if err := h.createDemoEmployee(ctx, "emp-erin", "Erin Novak", "2021-09-01"); err != nil {
		return err
	}
	return h.createOverride(ctx, "emp-erin", 2024, factory.OverrideJSON{CustomCarryoverDays: strPtr("5")})
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) createPolicyFromJSON(ctx context.Context, orgID generic.OrganizationID, jsonStr string) error {
	policy, err := factory.ParsePolicy([]byte(jsonStr))
	if err != nil {
		return err
	}
	policy.OrganizationID = orgID
	return h.Store.SavePolicy(ctx, policy)
}

func (h *Handler) createDemoEmployee(ctx context.Context, id, name, startDate string) error {
	start, err := generic.ParseDate(startDate)
	if err != nil {
		return err
	}
	return h.Store.SaveEmployee(ctx, sqlite.Employee{
		ID:             generic.EmployeeID(id),
		OrganizationID: demoOrganization,
		Name:           name,
		StartDate:      start,
	})
}

func (h *Handler) createOverride(ctx context.Context, empID string, year int, oj factory.OverrideJSON) error {
	override, err := factory.OverrideFromJSON(oj, generic.EmployeeID(empID), year)
	if err != nil {
		return err
	}
	return h.Store.SaveOverride(ctx, override)
}

// createAbsence stores an absence and moves it to status.
func (h *Handler) createAbsence(ctx context.Context, empID, jsonStr string, status vacation.Status) error {
	absence, err := factory.ParseAbsence([]byte(jsonStr), generic.EmployeeID(empID))
	if err != nil {
		return err
	}
	absence, err = h.Store.SaveAbsence(ctx, absence)
	if err != nil {
		return err
	}
	if status == vacation.StatusPending {
		return nil
	}
	_, err = h.Store.TransitionAbsence(ctx, absence.ID, status)
	return err
}

func strPtr(s string) *string {
	return &s
}
