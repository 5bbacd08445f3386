/*
handlers_test.go - HTTP tests for the API handlers

Tests for:
- Policy, employee and override endpoints
- Balance snapshots with carryover, proration and adjustments
- Absence workflow: conflicts, approval gating, terminal states
- Holidays and calendar helpers
- Error status mapping
*/
package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/vacation-engine/store/sqlite"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

// newTestServer returns a handler over an in-memory store whose clock is
// fixed at 2024-07-01.
func newTestServer(t *testing.T) (*Handler, http.Handler) {
	t.Helper()

	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	h := NewHandler(store, slog.New(slog.NewTextHandler(io.Discard, nil)))
	h.Now = func() time.Time { return time.Date(2024, time.July, 1, 9, 0, 0, 0, time.UTC) }
	h.AllowReset = true

	return h, NewRouter(h, RouterOptions{})
}

func do(t *testing.T, srv http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
}

func putPolicy(t *testing.T, srv http.Handler, org, body string) {
	t.Helper()
	expectStatus(t, do(t, srv, http.MethodPut, "/api/organizations/"+org+"/policy", body), http.StatusOK)
}

func createEmployee(t *testing.T, srv http.Handler, id, org, start string) {
	t.Helper()
	rec := do(t, srv, http.MethodPost, "/api/employees", CreateEmployeeRequest{
		ID:             id,
		OrganizationID: org,
		Name:           "Employee " + id,
		StartDate:      start,
	})
	expectStatus(t, rec, http.StatusCreated)
}

func getBalance(t *testing.T, srv http.Handler, empID, query string) BalanceDTO {
	t.Helper()
	rec := do(t, srv, http.MethodGet, "/api/employees/"+empID+"/balance"+query, nil)
	expectStatus(t, rec, http.StatusOK)
	return decode[BalanceDTO](t, rec)
}

func requestAbsence(t *testing.T, srv http.Handler, empID, start, end string) CreateAbsenceResponse {
	t.Helper()
	rec := do(t, srv, http.MethodPost, "/api/employees/"+empID+"/absences", map[string]any{
		"start_date": start,
		"end_date":   end,
		"category":   map[string]any{"name": "Vacation", "counts_against_vacation": true},
	})
	expectStatus(t, rec, http.StatusCreated)
	return decode[CreateAbsenceResponse](t, rec)
}

// =============================================================================
// POLICY
// =============================================================================

func TestPolicyEndpoints(t *testing.T) {
	_, srv := newTestServer(t)

	// GIVEN: no policy
	expectStatus(t, do(t, srv, http.MethodGet, "/api/organizations/org-1/policy", nil), http.StatusNotFound)

	// WHEN: one is stored
	putPolicy(t, srv, "org-1", `{"default_annual_days": "30", "allow_carryover": true, "max_carryover_days": "10", "carryover_expiry_months": 3}`)

	// THEN: it is returned with its defaults
	rec := do(t, srv, http.MethodGet, "/api/organizations/org-1/policy", nil)
	expectStatus(t, rec, http.StatusOK)
	policy := decode[PolicyDTO](t, rec)
	assert.Equal(t, "org-1", policy.OrganizationID)
	assert.Equal(t, "30", policy.DefaultAnnualDays)
	assert.Equal(t, "annual", policy.AccrualType)
	require.NotNil(t, policy.CarryoverExpiryMonths)
	assert.Equal(t, 3, *policy.CarryoverExpiryMonths)

	invalid := do(t, srv, http.MethodPut, "/api/organizations/org-1/policy", `{"default_annual_days": "30", "carryover_expiry_months": 13}`)
	expectStatus(t, invalid, http.StatusBadRequest)
	assert.Contains(t, decode[ErrorResponse](t, invalid).Details, "carryover_expiry_months")
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func TestEmployeeEndpoints(t *testing.T) {
	_, srv := newTestServer(t)

	createEmployee(t, srv, "emp-1", "org-1", "2020-01-01")
	createEmployee(t, srv, "emp-2", "org-2", "2021-01-01")

	rec := do(t, srv, http.MethodGet, "/api/employees?organization_id=org-1", nil)
	expectStatus(t, rec, http.StatusOK)
	list := decode[[]EmployeeDTO](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, "emp-1", list[0].ID)

	rec = do(t, srv, http.MethodGet, "/api/employees/emp-2", nil)
	expectStatus(t, rec, http.StatusOK)
	assert.Equal(t, "2021-01-01", decode[EmployeeDTO](t, rec).StartDate)

	expectStatus(t, do(t, srv, http.MethodGet, "/api/employees/nobody", nil), http.StatusNotFound)

	rec = do(t, srv, http.MethodPost, "/api/employees", CreateEmployeeRequest{Name: "No Org", StartDate: "2024-01-01"})
	expectStatus(t, rec, http.StatusBadRequest)

	rec = do(t, srv, http.MethodPost, "/api/employees", CreateEmployeeRequest{Name: "Bad Date", OrganizationID: "org-1", StartDate: "01/01/2024"})
	expectStatus(t, rec, http.StatusBadRequest)

	rec = do(t, srv, http.MethodPost, "/api/employees", CreateEmployeeRequest{Name: "Generated", OrganizationID: "org-1", StartDate: "2024-01-01"})
	expectStatus(t, rec, http.StatusCreated)
	assert.NotEmpty(t, decode[EmployeeDTO](t, rec).ID)
}

// =============================================================================
// BALANCE
// =============================================================================

func TestBalance_CarryoverExpires(t *testing.T) {
	_, srv := newTestServer(t)

	// GIVEN: 30 days, 5 carried over until the end of March
	putPolicy(t, srv, "org-1", `{"default_annual_days": "30", "allow_carryover": true, "max_carryover_days": "10", "carryover_expiry_months": 3}`)
	createEmployee(t, srv, "emp-1", "org-1", "2020-01-01")
	expectStatus(t, do(t, srv, http.MethodPut, "/api/employees/emp-1/override?year=2024", `{"custom_carryover_days": "5"}`), http.StatusOK)

	// WHEN: viewed in January
	january := getBalance(t, srv, "emp-1", "?year=2024&as_of=2024-01-15")

	// THEN: carryover is included with its expiry
	assert.Equal(t, "35", january.TotalDays.String())
	require.NotNil(t, january.CarryoverDays)
	assert.Equal(t, "5", january.CarryoverDays.String())
	require.NotNil(t, january.CarryoverExpiryDate)
	assert.Equal(t, "2024-03-31", *january.CarryoverExpiryDate)
	assert.False(t, january.Prorated)

	// WHEN: viewed in April
	april := getBalance(t, srv, "emp-1", "?year=2024&as_of=2024-04-15")

	// THEN: it has lapsed
	assert.Equal(t, "30", april.TotalDays.String())
	assert.Nil(t, april.CarryoverDays)
	assert.Nil(t, april.CarryoverExpiryDate)
}

func TestBalance_MidYearHireIsProrated(t *testing.T) {
	_, srv := newTestServer(t)

	putPolicy(t, srv, "org-1", `{"default_annual_days": "30", "accrual_type": "monthly"}`)
	createEmployee(t, srv, "emp-1", "org-1", "2024-07-01")

	b := getBalance(t, srv, "emp-1", "?year=2024")

	assert.True(t, b.Prorated)
	assert.Equal(t, "15.08", b.AnnualDays.String())
	assert.Equal(t, "15.08", b.RemainingDays.String())
	assert.Equal(t, "monthly", b.AccrualType)
	assert.Equal(t, "8.82", b.AccruedToDate.String(), "seven monthly accruals of 1.26 by July 1st")

	next := getBalance(t, srv, "emp-1", "?year=2025&as_of=2025-01-01")
	assert.False(t, next.Prorated)
	assert.Equal(t, "30", next.AnnualDays.String())
}

func TestBalance_Adjustments(t *testing.T) {
	_, srv := newTestServer(t)

	putPolicy(t, srv, "org-1", `{"default_annual_days": "20"}`)
	createEmployee(t, srv, "emp-1", "org-1", "2020-01-01")

	rec := do(t, srv, http.MethodPost, "/api/employees/emp-1/adjustments", `{"days": "2.5", "reason": "overtime"}`)
	expectStatus(t, rec, http.StatusCreated)
	adj := decode[AdjustmentDTO](t, rec)
	assert.Equal(t, 2024, adj.Year)
	assert.NotEmpty(t, adj.ID)

	expectStatus(t, do(t, srv, http.MethodPost, "/api/employees/emp-1/adjustments", `{"days": "-1"}`), http.StatusBadRequest)
	expectStatus(t, do(t, srv, http.MethodPost, "/api/employees/nobody/adjustments", `{"days": "1", "reason": "x"}`), http.StatusNotFound)

	rec = do(t, srv, http.MethodGet, "/api/employees/emp-1/adjustments?year=2024", nil)
	expectStatus(t, rec, http.StatusOK)
	assert.Len(t, decode[[]AdjustmentDTO](t, rec), 1)

	b := getBalance(t, srv, "emp-1", "")
	assert.Equal(t, "2.5", b.AdjustmentDays.String())
	assert.Equal(t, "22.5", b.TotalDays.String())
}

func TestBalance_Errors(t *testing.T) {
	_, srv := newTestServer(t)
	createEmployee(t, srv, "emp-1", "org-without-policy", "2020-01-01")

	expectStatus(t, do(t, srv, http.MethodGet, "/api/employees/emp-1/balance", nil), http.StatusNotFound)
	expectStatus(t, do(t, srv, http.MethodGet, "/api/employees/nobody/balance", nil), http.StatusNotFound)
	expectStatus(t, do(t, srv, http.MethodGet, "/api/employees/emp-1/balance?year=last", nil), http.StatusBadRequest)
	expectStatus(t, do(t, srv, http.MethodGet, "/api/employees/emp-1/balance?as_of=yesterday", nil), http.StatusBadRequest)
}

func TestCheckBalance(t *testing.T) {
	_, srv := newTestServer(t)
	putPolicy(t, srv, "org-1", `{"default_annual_days": "10"}`)
	createEmployee(t, srv, "emp-1", "org-1", "2020-01-01")

	rec := do(t, srv, http.MethodPost, "/api/employees/emp-1/balance/check", `{"days": "10"}`)
	expectStatus(t, rec, http.StatusOK)
	assert.True(t, decode[CheckBalanceResponse](t, rec).Sufficient)

	rec = do(t, srv, http.MethodPost, "/api/employees/emp-1/balance/check", `{"year": 2024, "days": "10.5"}`)
	expectStatus(t, rec, http.StatusOK)
	resp := decode[CheckBalanceResponse](t, rec)
	assert.False(t, resp.Sufficient)
	assert.Equal(t, "10", resp.RemainingDays.String())
}

// =============================================================================
// ABSENCES
// =============================================================================

func TestAbsenceWorkflow(t *testing.T) {
	_, srv := newTestServer(t)

	// GIVEN: five days a year
	putPolicy(t, srv, "org-1", `{"default_annual_days": "5"}`)
	createEmployee(t, srv, "emp-1", "org-1", "2020-01-01")

	// WHEN: a full week is requested
	week := requestAbsence(t, srv, "emp-1", "2024-06-10", "2024-06-14")

	// THEN: it is pending and counts five days
	assert.Equal(t, "pending", week.Absence.Status)
	assert.Equal(t, "5", week.Absence.DayLength.String())
	assert.Empty(t, week.Conflicts)

	b := getBalance(t, srv, "emp-1", "")
	assert.Equal(t, "5", b.PendingDays.String())
	assert.Equal(t, "0", b.RemainingDays.String())

	// WHEN: an overlapping day is requested
	thursday := requestAbsence(t, srv, "emp-1", "2024-06-13", "2024-06-13")

	// THEN: the overlap is reported, not rejected
	require.Len(t, thursday.Conflicts, 1)
	assert.Equal(t, week.Absence.ID, thursday.Conflicts[0].ID)

	// WHEN: approving the week while the extra day is pending
	rec := do(t, srv, http.MethodPost, "/api/absences/"+week.Absence.ID+"/approve", nil)

	// THEN: the balance does not cover it
	expectStatus(t, rec, http.StatusUnprocessableEntity)

	// WHEN: the extra day is rejected, the week fits
	expectStatus(t, do(t, srv, http.MethodPost, "/api/absences/"+thursday.Absence.ID+"/reject", nil), http.StatusOK)
	rec = do(t, srv, http.MethodPost, "/api/absences/"+week.Absence.ID+"/approve", nil)
	expectStatus(t, rec, http.StatusOK)
	assert.Equal(t, "approved", decode[AbsenceDTO](t, rec).Status)

	// THEN: approved is terminal
	expectStatus(t, do(t, srv, http.MethodPost, "/api/absences/"+week.Absence.ID+"/cancel", nil), http.StatusConflict)
	expectStatus(t, do(t, srv, http.MethodPost, "/api/absences/"+thursday.Absence.ID+"/approve", nil), http.StatusConflict)

	b = getBalance(t, srv, "emp-1", "")
	assert.Equal(t, "5", b.UsedDays.String())
	assert.Equal(t, "0", b.PendingDays.String())
	assert.Equal(t, "0", b.RemainingDays.String())

	rec = do(t, srv, http.MethodGet, "/api/absences/"+week.Absence.ID, nil)
	expectStatus(t, rec, http.StatusOK)
	assert.Equal(t, "emp-1", decode[AbsenceDTO](t, rec).EmployeeID)

	rec = do(t, srv, http.MethodGet, "/api/employees/emp-1/absences?year=2024", nil)
	expectStatus(t, rec, http.StatusOK)
	assert.Len(t, decode[[]AbsenceDTO](t, rec), 2)
}

func TestAbsence_OverNewYearCountsInStartYearOnly(t *testing.T) {
	_, srv := newTestServer(t)

	// GIVEN: 30 days and a New Year holiday
	putPolicy(t, srv, "org-1", `{"default_annual_days": "30"}`)
	createEmployee(t, srv, "emp-1", "org-1", "2020-01-01")
	expectStatus(t, do(t, srv, http.MethodPost, "/api/organizations/org-1/holidays",
		`{"name": "New Year", "start_date": "2025-01-01"}`), http.StatusCreated)

	// WHEN: Mon 2024-12-30 to Fri 2025-01-03 is requested
	created := requestAbsence(t, srv, "emp-1", "2024-12-30", "2025-01-03")

	// THEN: four business days, all taken from 2024
	assert.Equal(t, "4", created.Absence.DayLength.String())

	b2024 := getBalance(t, srv, "emp-1", "?year=2024")
	assert.Equal(t, "4", b2024.PendingDays.String())
	assert.Equal(t, "26", b2024.RemainingDays.String())

	b2025 := getBalance(t, srv, "emp-1", "?year=2025")
	assert.Equal(t, "0", b2025.PendingDays.String())
	assert.Equal(t, "30", b2025.RemainingDays.String())

	// WHEN: it is approved
	expectStatus(t, do(t, srv, http.MethodPost, "/api/absences/"+created.Absence.ID+"/approve", nil), http.StatusOK)

	// THEN: the 2024 balance uses it, 2025 is untouched
	assert.Equal(t, "4", getBalance(t, srv, "emp-1", "?year=2024").UsedDays.String())
	assert.Equal(t, "0", getBalance(t, srv, "emp-1", "?year=2025").UsedDays.String())

	// THEN: listing 2025 still shows the absence with its full length
	rec := do(t, srv, http.MethodGet, "/api/employees/emp-1/absences?year=2025", nil)
	expectStatus(t, rec, http.StatusOK)
	listed := decode[[]AbsenceDTO](t, rec)
	require.Len(t, listed, 1)
	assert.Equal(t, "4", listed[0].DayLength.String())
}

func TestApproveAbsence_Concurrent(t *testing.T) {
	_, srv := newTestServer(t)

	// GIVEN: three days a year and three pending single days
	putPolicy(t, srv, "org-1", `{"default_annual_days": "3"}`)
	createEmployee(t, srv, "emp-1", "org-1", "2020-01-01")
	var ids []string
	for _, day := range []string{"2024-06-10", "2024-06-11", "2024-06-12"} {
		ids = append(ids, requestAbsence(t, srv, "emp-1", day, day).Absence.ID)
	}

	// WHEN: all of them are approved at once
	codes := make([]int, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/absences/"+id+"/approve", nil))
			codes[i] = rec.Code
		}(i, id)
	}
	wg.Wait()

	// THEN: each fits and the balance is spent exactly
	for i, code := range codes {
		assert.Equal(t, http.StatusOK, code, ids[i])
	}
	b := getBalance(t, srv, "emp-1", "")
	assert.Equal(t, "3", b.UsedDays.String())
	assert.Equal(t, "0", b.RemainingDays.String())

	// WHEN: one more day is requested, it does not fit
	extra := requestAbsence(t, srv, "emp-1", "2024-06-13", "2024-06-13")
	expectStatus(t, do(t, srv, http.MethodPost, "/api/absences/"+extra.Absence.ID+"/approve", nil), http.StatusUnprocessableEntity)
}

func TestAbsence_NonVacationCategorySkipsBalanceCheck(t *testing.T) {
	_, srv := newTestServer(t)
	putPolicy(t, srv, "org-1", `{"default_annual_days": "0"}`)
	createEmployee(t, srv, "emp-1", "org-1", "2020-01-01")

	rec := do(t, srv, http.MethodPost, "/api/employees/emp-1/absences",
		`{"start_date": "2024-03-04", "end_date": "2024-03-05", "category": {"name": "Sick leave", "counts_against_vacation": false}}`)
	expectStatus(t, rec, http.StatusCreated)
	sick := decode[CreateAbsenceResponse](t, rec)

	expectStatus(t, do(t, srv, http.MethodPost, "/api/absences/"+sick.Absence.ID+"/approve", nil), http.StatusOK)
	assert.Equal(t, "0", getBalance(t, srv, "emp-1", "").UsedDays.String())
}

func TestCreateAbsence_Invalid(t *testing.T) {
	_, srv := newTestServer(t)
	putPolicy(t, srv, "org-1", `{"default_annual_days": "25"}`)
	createEmployee(t, srv, "emp-1", "org-1", "2020-01-01")

	tests := map[string]string{
		"already approved": `{"start_date": "2024-06-10", "end_date": "2024-06-10", "status": "approved"}`,
		"end before start": `{"start_date": "2024-06-10", "end_date": "2024-06-07"}`,
		"unknown period":   `{"start_date": "2024-06-10", "end_date": "2024-06-10", "start_period": "noon"}`,
		"not json":         `{"start_date": `,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			expectStatus(t, do(t, srv, http.MethodPost, "/api/employees/emp-1/absences", body), http.StatusBadRequest)
		})
	}

	expectStatus(t, do(t, srv, http.MethodGet, "/api/absences/missing", nil), http.StatusNotFound)
	expectStatus(t, do(t, srv, http.MethodPost, "/api/absences/missing/approve", nil), http.StatusNotFound)
}

// =============================================================================
// OVERRIDES
// =============================================================================

func TestOverrideEndpoints(t *testing.T) {
	_, srv := newTestServer(t)
	putPolicy(t, srv, "org-1", `{"default_annual_days": "25"}`)
	createEmployee(t, srv, "emp-1", "org-1", "2020-01-01")

	rec := do(t, srv, http.MethodGet, "/api/employees/emp-1/override?year=2024", nil)
	expectStatus(t, rec, http.StatusOK)
	empty := decode[OverrideDTO](t, rec)
	assert.Nil(t, empty.CustomAnnualDays)
	assert.Nil(t, empty.CustomCarryoverDays)

	expectStatus(t, do(t, srv, http.MethodPut, "/api/employees/emp-1/override?year=2024", `{"custom_annual_days": "28"}`), http.StatusOK)
	assert.Equal(t, "28", getBalance(t, srv, "emp-1", "?year=2024").AnnualDays.String())
	assert.Equal(t, "25", getBalance(t, srv, "emp-1", "?year=2025").AnnualDays.String())

	expectStatus(t, do(t, srv, http.MethodPut, "/api/employees/emp-1/override?year=2024", `{"custom_annual_days": "-3"}`), http.StatusBadRequest)
	expectStatus(t, do(t, srv, http.MethodPut, "/api/employees/nobody/override?year=2024", `{}`), http.StatusNotFound)
}

// =============================================================================
// HOLIDAYS AND CALENDAR
// =============================================================================

func TestHolidaysAndBusinessDays(t *testing.T) {
	_, srv := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/organizations/org-1/holidays", `{"name": "Retreat", "start_date": "2024-06-12"}`)
	expectStatus(t, rec, http.StatusCreated)
	retreat := decode[map[string]string](t, rec)
	assert.Equal(t, "2024-06-12", retreat["end_date"])

	rec = do(t, srv, http.MethodGet, "/api/calendar/business-days?start_date=2024-06-10&end_date=2024-06-14&organization_id=org-1", nil)
	expectStatus(t, rec, http.StatusOK)
	assert.Equal(t, 4, decode[BusinessDaysResponse](t, rec).BusinessDays)

	rec = do(t, srv, http.MethodGet, "/api/calendar/business-days?start_date=2024-06-10&end_date=2024-06-14", nil)
	expectStatus(t, rec, http.StatusOK)
	assert.Equal(t, 5, decode[BusinessDaysResponse](t, rec).BusinessDays)

	rec = do(t, srv, http.MethodGet, "/api/calendar/business-days?start_date=2024-06-14&end_date=2024-06-10", nil)
	expectStatus(t, rec, http.StatusOK)
	assert.Equal(t, 0, decode[BusinessDaysResponse](t, rec).BusinessDays)

	expectStatus(t, do(t, srv, http.MethodGet, "/api/calendar/business-days?start_date=2024-06-10", nil), http.StatusBadRequest)

	rec = do(t, srv, http.MethodGet, "/api/organizations/org-1/holidays?year=2024", nil)
	expectStatus(t, rec, http.StatusOK)
	assert.Len(t, decode[[]map[string]string](t, rec), 1)

	expectStatus(t, do(t, srv, http.MethodDelete, "/api/organizations/org-1/holidays/"+retreat["id"], nil), http.StatusNoContent)
	expectStatus(t, do(t, srv, http.MethodDelete, "/api/organizations/org-1/holidays/"+retreat["id"], nil), http.StatusNotFound)
}

func TestProrateEndpoint(t *testing.T) {
	_, srv := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/api/calendar/prorate?annual_days=30&start_date=2024-07-01", nil)
	expectStatus(t, rec, http.StatusOK)
	resp := decode[ProrateResponse](t, rec)
	assert.Equal(t, 2024, resp.Year)
	assert.Equal(t, "15.08", resp.ProratedDays.String())

	rec = do(t, srv, http.MethodGet, "/api/calendar/prorate?annual_days=30&start_date=2024-07-01&year=2025", nil)
	expectStatus(t, rec, http.StatusOK)
	assert.Equal(t, "30", decode[ProrateResponse](t, rec).ProratedDays.String())

	expectStatus(t, do(t, srv, http.MethodGet, "/api/calendar/prorate?annual_days=lots&start_date=2024-07-01", nil), http.StatusBadRequest)
}

func TestHealth(t *testing.T) {
	_, srv := newTestServer(t)
	expectStatus(t, do(t, srv, http.MethodGet, "/health", nil), http.StatusOK)
}

func TestResetDatabase(t *testing.T) {
	h, srv := newTestServer(t)
	createEmployee(t, srv, "emp-1", "org-1", "2020-01-01")

	h.AllowReset = false
	expectStatus(t, do(t, srv, http.MethodPost, "/api/reset", nil), http.StatusForbidden)

	h.AllowReset = true
	expectStatus(t, do(t, srv, http.MethodPost, "/api/reset", nil), http.StatusOK)
	expectStatus(t, do(t, srv, http.MethodGet, "/api/employees/emp-1", nil), http.StatusNotFound)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo, "production")

	logger.Debug("hidden")
	logger.Info("balance computed", "employee_id", "emp-1")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "balance computed")
	assert.Contains(t, out, "vacation-engine")
	assert.Contains(t, out, "emp-1")
}
