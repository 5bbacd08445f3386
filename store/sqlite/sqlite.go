/*
Package sqlite provides the SQLite-backed record store.

PURPOSE:
  The balance engine is pure; somebody has to load its input. This store
  persists everything the engine consumes (organization policies,
  employees, allowance overrides, adjustments, absences and holidays) and
  hands it back as typed vacation values.

KEY TABLES:
  vacation_policies:   one policy per organization
  employees:           employment start date for proration
  allowance_overrides: per employee and year, nullable fields
  adjustments:         append-only audit records, summed per year
  absences:            absence requests and their status
  holidays:            organization holiday windows
  rollover_runs:       closed organization years

DECIMALS:
  Day amounts are stored as TEXT and summed in Go with decimal.Decimal.
  SQLite's SUM() would go through float64.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety, like the ledger store it grew from.
  ":memory:" databases are pinned to one connection because every new
  connection would otherwise open an empty database.

USAGE:
  store, err := sqlite.New("./data/vacation.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - vacation/types.go: the types stored here
  - api/balance.go: assembles a BalanceInput from this store
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/vacation-engine/generic"
	"github.com/warp/vacation-engine/vacation"
)

// Store implements record persistence using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Employee is the employment record the engine needs.
type Employee struct {
	ID             generic.EmployeeID
	OrganizationID generic.OrganizationID
	Name           string
	Email          string
	StartDate      generic.Date
	CreatedAt      time.Time
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if strings.HasPrefix(dbPath, ":memory:") {
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS vacation_policies (
		organization_id TEXT PRIMARY KEY,
		default_annual_days TEXT NOT NULL,
		allow_carryover INTEGER NOT NULL DEFAULT 0,
		max_carryover_days TEXT,
		carryover_expiry_months INTEGER,
		accrual_type TEXT NOT NULL DEFAULT 'annual',
		accrual_start_month INTEGER NOT NULL DEFAULT 1,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		organization_id TEXT NOT NULL,
		name TEXT NOT NULL,
		email TEXT,
		start_date TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_employees_organization
		ON employees(organization_id);

	CREATE TABLE IF NOT EXISTS allowance_overrides (
		employee_id TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
		year INTEGER NOT NULL,
		custom_annual_days TEXT,
		custom_carryover_days TEXT,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (employee_id, year)
	);

	-- Adjustments are audit records: inserted, never updated
	CREATE TABLE IF NOT EXISTS adjustments (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
		year INTEGER NOT NULL,
		days TEXT NOT NULL,
		reason TEXT NOT NULL,
		created_by TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_adjustments_employee_year
		ON adjustments(employee_id, year);

	CREATE TABLE IF NOT EXISTS absences (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
		start_date TEXT NOT NULL,
		start_period TEXT NOT NULL DEFAULT 'full_day',
		end_date TEXT NOT NULL,
		end_period TEXT NOT NULL DEFAULT 'full_day',
		status TEXT NOT NULL DEFAULT 'pending',
		category_id TEXT,
		category_name TEXT,
		counts_against_vacation INTEGER NOT NULL DEFAULT 1,
		note TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Year lookups are range overlaps on (start_date, end_date)
	CREATE INDEX IF NOT EXISTS idx_absences_employee_dates
		ON absences(employee_id, start_date, end_date);

	CREATE TABLE IF NOT EXISTS holidays (
		id TEXT PRIMARY KEY,
		organization_id TEXT NOT NULL,
		name TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		created_at TEXT NOT NULL,
		CHECK (start_date <= end_date)
	);

	CREATE INDEX IF NOT EXISTS idx_holidays_organization_dates
		ON holidays(organization_id, start_date, end_date);

	-- One row per closed organization year
	CREATE TABLE IF NOT EXISTS rollover_runs (
		organization_id TEXT NOT NULL,
		year INTEGER NOT NULL,
		employees INTEGER NOT NULL,
		carried_over TEXT NOT NULL,
		forfeited TEXT NOT NULL,
		ran_at TEXT NOT NULL,
		PRIMARY KEY (organization_id, year)
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Reset deletes every row. Used by tests and the demo reset endpoint.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"rollover_runs", "absences", "adjustments", "allowance_overrides", "holidays", "employees", "vacation_policies"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to reset %s: %w", table, err)
		}
	}
	return nil
}

// =============================================================================
// POLICIES
// =============================================================================

// SavePolicy creates or replaces the organization's policy.
func (s *Store) SavePolicy(ctx context.Context, p vacation.OrganizationPolicy) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO vacation_policies (organization_id, default_annual_days, allow_carryover,
			max_carryover_days, carryover_expiry_months, accrual_type, accrual_start_month, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(organization_id) DO UPDATE SET
			default_annual_days = excluded.default_annual_days,
			allow_carryover = excluded.allow_carryover,
			max_carryover_days = excluded.max_carryover_days,
			carryover_expiry_months = excluded.carryover_expiry_months,
			accrual_type = excluded.accrual_type,
			accrual_start_month = excluded.accrual_start_month,
			updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		p.OrganizationID,
		p.DefaultAnnualDays.String(),
		p.AllowCarryover,
		nullDecimal(p.MaxCarryoverDays),
		nullInt(p.CarryoverExpiryMonths),
		string(p.AccrualType),
		p.AccrualStartMonth,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save policy: %w", err)
	}
	return nil
}

// GetPolicy returns the organization's policy or generic.ErrPolicyNotFound.
func (s *Store) GetPolicy(ctx context.Context, orgID generic.OrganizationID) (vacation.OrganizationPolicy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		p           vacation.OrganizationPolicy
		annual      string
		maxCarry    sql.NullString
		expiry      sql.NullInt64
		accrualType string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT organization_id, default_annual_days, allow_carryover, max_carryover_days,
		       carryover_expiry_months, accrual_type, accrual_start_month
		FROM vacation_policies WHERE organization_id = ?
	`, orgID).Scan(&p.OrganizationID, &annual, &p.AllowCarryover, &maxCarry, &expiry, &accrualType, &p.AccrualStartMonth)
	if errors.Is(err, sql.ErrNoRows) {
		return p, fmt.Errorf("organization %s: %w", orgID, generic.ErrPolicyNotFound)
	}
	if err != nil {
		return p, fmt.Errorf("failed to get policy: %w", err)
	}

	if p.DefaultAnnualDays, err = generic.ParseDays(annual); err != nil {
		return p, fmt.Errorf("stored policy for %s: %w", orgID, err)
	}
	if p.MaxCarryoverDays, err = scanDecimal(maxCarry); err != nil {
		return p, fmt.Errorf("stored policy for %s: %w", orgID, err)
	}
	if expiry.Valid {
		m := int(expiry.Int64)
		p.CarryoverExpiryMonths = &m
	}
	p.AccrualType = vacation.AccrualType(accrualType)
	return p, nil
}

// ListOrganizations returns the IDs of every organization with a policy.
func (s *Store) ListOrganizations(ctx context.Context) ([]generic.OrganizationID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT organization_id FROM vacation_policies ORDER BY organization_id")
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	defer rows.Close()

	var ids []generic.OrganizationID
	for rows.Next() {
		var id generic.OrganizationID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan organization: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// =============================================================================
// EMPLOYEES
// =============================================================================

// SaveEmployee creates or updates an employee.
func (s *Store) SaveEmployee(ctx context.Context, emp Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO employees (id, organization_id, name, email, start_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			organization_id = excluded.organization_id,
			name = excluded.name,
			email = excluded.email,
			start_date = excluded.start_date
	`

	_, err := s.db.ExecContext(ctx, query,
		emp.ID,
		emp.OrganizationID,
		emp.Name,
		emp.Email,
		emp.StartDate.String(),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save employee: %w", err)
	}
	return nil
}

// GetEmployee returns an employee or generic.ErrEmployeeNotFound.
func (s *Store) GetEmployee(ctx context.Context, id generic.EmployeeID) (Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, organization_id, name, email, start_date, created_at
		FROM employees WHERE id = ?
	`, id)
	if err != nil {
		return Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	employees, err := scanEmployees(rows)
	if err != nil {
		return Employee{}, err
	}
	if len(employees) == 0 {
		return Employee{}, fmt.Errorf("employee %s: %w", id, generic.ErrEmployeeNotFound)
	}
	return employees[0], nil
}

// ListEmployees returns the employees of an organization, or all of them
// when orgID is empty.
func (s *Store) ListEmployees(ctx context.Context, orgID generic.OrganizationID) ([]Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, organization_id, name, email, start_date, created_at
		FROM employees
		WHERE ? = '' OR organization_id = ?
		ORDER BY name ASC, id ASC
	`
	rows, err := s.db.QueryContext(ctx, query, orgID, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return scanEmployees(rows)
}

func scanEmployees(rows *sql.Rows) ([]Employee, error) {
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		var (
			e         Employee
			email     sql.NullString
			startDate string
			createdAt string
		)
		if err := rows.Scan(&e.ID, &e.OrganizationID, &e.Name, &email, &startDate, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		e.Email = email.String
		d, err := generic.ParseDate(startDate)
		if err != nil {
			return nil, fmt.Errorf("stored employee %s: %w", e.ID, err)
		}
		e.StartDate = d
		e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// =============================================================================
// OVERRIDES
// =============================================================================

// SaveOverride creates or replaces the override of o.EmployeeID for o.Year.
func (s *Store) SaveOverride(ctx context.Context, o vacation.AllowanceOverride) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO allowance_overrides (employee_id, year, custom_annual_days, custom_carryover_days, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(employee_id, year) DO UPDATE SET
			custom_annual_days = excluded.custom_annual_days,
			custom_carryover_days = excluded.custom_carryover_days,
			updated_at = excluded.updated_at
	`
	_, err := s.db.ExecContext(ctx, query,
		o.EmployeeID,
		o.Year,
		nullDecimal(o.CustomAnnualDays),
		nullDecimal(o.CustomCarryoverDays),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save override: %w", err)
	}
	return nil
}

// GetOverride returns the override for employee and year, or nil when
// there is none.
func (s *Store) GetOverride(ctx context.Context, employeeID generic.EmployeeID, year int) (*vacation.AllowanceOverride, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var annual, carry sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT custom_annual_days, custom_carryover_days
		FROM allowance_overrides WHERE employee_id = ? AND year = ?
	`, employeeID, year).Scan(&annual, &carry)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get override: %w", err)
	}

	o := &vacation.AllowanceOverride{EmployeeID: employeeID, Year: year}
	if o.CustomAnnualDays, err = scanDecimal(annual); err != nil {
		return nil, fmt.Errorf("stored override for %s/%d: %w", employeeID, year, err)
	}
	if o.CustomCarryoverDays, err = scanDecimal(carry); err != nil {
		return nil, fmt.Errorf("stored override for %s/%d: %w", employeeID, year, err)
	}
	return o, nil
}

// =============================================================================
// ADJUSTMENTS (append-only)
// =============================================================================

// AppendAdjustment records an adjustment and returns it with ID and
// CreatedAt filled in.
func (s *Store) AppendAdjustment(ctx context.Context, adj vacation.Adjustment) (vacation.Adjustment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if adj.ID == "" {
		adj.ID = uuid.New().String()
	}
	if adj.CreatedAt.IsZero() {
		adj.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO adjustments (id, employee_id, year, days, reason, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, adj.ID, adj.EmployeeID, adj.Year, adj.Days.String(), adj.Reason, nullString(adj.CreatedBy),
		adj.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return adj, fmt.Errorf("failed to append adjustment: %w", err)
	}
	return adj, nil
}

// ListAdjustments returns the adjustments of employee in year, oldest first.
func (s *Store) ListAdjustments(ctx context.Context, employeeID generic.EmployeeID, year int) ([]vacation.Adjustment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, year, days, reason, created_by, created_at
		FROM adjustments
		WHERE employee_id = ? AND year = ?
		ORDER BY created_at ASC, id ASC
	`, employeeID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list adjustments: %w", err)
	}
	defer rows.Close()

	var adjustments []vacation.Adjustment
	for rows.Next() {
		var (
			a         vacation.Adjustment
			days      string
			createdBy sql.NullString
			createdAt string
		)
		if err := rows.Scan(&a.ID, &a.EmployeeID, &a.Year, &days, &a.Reason, &createdBy, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan adjustment: %w", err)
		}
		if a.Days, err = generic.ParseDays(days); err != nil {
			return nil, fmt.Errorf("stored adjustment %s: %w", a.ID, err)
		}
		a.CreatedBy = createdBy.String
		a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		adjustments = append(adjustments, a)
	}
	return adjustments, rows.Err()
}

// AdjustmentTotal is the signed sum of the year's adjustments.
func (s *Store) AdjustmentTotal(ctx context.Context, employeeID generic.EmployeeID, year int) (decimal.Decimal, error) {
	adjustments, err := s.ListAdjustments(ctx, employeeID, year)
	if err != nil {
		return decimal.Zero, err
	}
	return vacation.SumAdjustments(adjustments), nil
}

// =============================================================================
// ABSENCES
// =============================================================================

// SaveAbsence inserts a new absence and returns it with its ID.
func (s *Store) SaveAbsence(ctx context.Context, a vacation.AbsenceEntry) (vacation.AbsenceEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.Status == "" {
		a.Status = vacation.StatusPending
	}
	now := time.Now().UTC().Format(time.RFC3339)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO absences (id, employee_id, start_date, start_period, end_date, end_period, status,
			category_id, category_name, counts_against_vacation, note, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, a.ID, a.EmployeeID, a.StartDate.String(), string(a.StartPeriod), a.EndDate.String(), string(a.EndPeriod),
		string(a.Status), nullString(a.Category.ID), nullString(a.Category.Name), a.Category.CountsAgainstVacation,
		nullString(a.Note), now, now)
	if err != nil {
		return a, fmt.Errorf("failed to save absence: %w", err)
	}
	return a, nil
}

const absenceColumns = `id, employee_id, start_date, start_period, end_date, end_period, status,
	category_id, category_name, counts_against_vacation, note`

// GetAbsence returns an absence or generic.ErrAbsenceNotFound.
func (s *Store) GetAbsence(ctx context.Context, id string) (vacation.AbsenceEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	absences, err := s.queryAbsences(ctx, s.db, "SELECT "+absenceColumns+" FROM absences WHERE id = ?", id)
	if err != nil {
		return vacation.AbsenceEntry{}, err
	}
	if len(absences) == 0 {
		return vacation.AbsenceEntry{}, fmt.Errorf("absence %s: %w", id, generic.ErrAbsenceNotFound)
	}
	return absences[0], nil
}

// ListAbsences returns the employee's absences that overlap period, in
// start order.
func (s *Store) ListAbsences(ctx context.Context, employeeID generic.EmployeeID, period generic.Period) ([]vacation.AbsenceEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := "SELECT " + absenceColumns + ` FROM absences
		WHERE employee_id = ? AND start_date <= ? AND end_date >= ?
		ORDER BY start_date ASC, id ASC`
	return s.queryAbsences(ctx, s.db, query, employeeID, period.End.String(), period.Start.String())
}

// TransitionAbsence moves an absence to status to. Transitions out of a
// terminal state fail with a *generic.TransitionError.
func (s *Store) TransitionAbsence(ctx context.Context, id string, to vacation.Status) (vacation.AbsenceEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return vacation.AbsenceEntry{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	absences, err := s.queryAbsences(ctx, sqlTx, "SELECT "+absenceColumns+" FROM absences WHERE id = ?", id)
	if err != nil {
		return vacation.AbsenceEntry{}, err
	}
	if len(absences) == 0 {
		return vacation.AbsenceEntry{}, fmt.Errorf("absence %s: %w", id, generic.ErrAbsenceNotFound)
	}
	a := absences[0]

	if err := vacation.Transition(a.Status, to); err != nil {
		return a, err
	}

	_, err = sqlTx.ExecContext(ctx, "UPDATE absences SET status = ?, updated_at = ? WHERE id = ?",
		string(to), time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return a, fmt.Errorf("failed to update absence: %w", err)
	}
	if err := sqlTx.Commit(); err != nil {
		return a, fmt.Errorf("failed to commit absence update: %w", err)
	}

	a.Status = to
	return a, nil
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *Store) queryAbsences(ctx context.Context, db queryer, query string, args ...any) ([]vacation.AbsenceEntry, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query absences: %w", err)
	}
	defer rows.Close()

	var absences []vacation.AbsenceEntry
	for rows.Next() {
		var (
			a                   vacation.AbsenceEntry
			startDate, endDate  string
			startPeriod, endPer string
			status              string
			categoryID, catName sql.NullString
			note                sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.EmployeeID, &startDate, &startPeriod, &endDate, &endPer, &status,
			&categoryID, &catName, &a.Category.CountsAgainstVacation, &note); err != nil {
			return nil, fmt.Errorf("failed to scan absence: %w", err)
		}
		if a.StartDate, err = generic.ParseDate(startDate); err != nil {
			return nil, fmt.Errorf("stored absence %s: %w", a.ID, err)
		}
		if a.EndDate, err = generic.ParseDate(endDate); err != nil {
			return nil, fmt.Errorf("stored absence %s: %w", a.ID, err)
		}
		a.StartPeriod = vacation.DayPeriod(startPeriod)
		a.EndPeriod = vacation.DayPeriod(endPer)
		a.Status = vacation.Status(status)
		a.Category.ID = categoryID.String
		a.Category.Name = catName.String
		a.Note = note.String
		absences = append(absences, a)
	}
	return absences, rows.Err()
}

// =============================================================================
// HOLIDAYS
// =============================================================================

// SaveHoliday creates or updates a holiday window and returns it with ID.
func (s *Store) SaveHoliday(ctx context.Context, h generic.Holiday) (generic.Holiday, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return saveHoliday(ctx, s.db, h)
}

// SaveHolidays stores a batch of holidays in one transaction. Either all of
// them are saved or none is.
func (s *Store) SaveHolidays(ctx context.Context, holidays []generic.Holiday) ([]generic.Holiday, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	saved := make([]generic.Holiday, 0, len(holidays))
	for _, h := range holidays {
		stored, err := saveHoliday(ctx, sqlTx, h)
		if err != nil {
			return nil, err
		}
		saved = append(saved, stored)
	}
	if err := sqlTx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit holidays: %w", err)
	}
	return saved, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func saveHoliday(ctx context.Context, db execer, h generic.Holiday) (generic.Holiday, error) {
	if h.ID == "" {
		h.ID = uuid.New().String()
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO holidays (id, organization_id, name, start_date, end_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			start_date = excluded.start_date,
			end_date = excluded.end_date
	`, h.ID, h.OrganizationID, h.Name, h.Period.Start.String(), h.Period.End.String(),
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return h, fmt.Errorf("failed to save holiday: %w", err)
	}
	return h, nil
}

// DeleteHoliday deletes a holiday by ID.
func (s *Store) DeleteHoliday(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM holidays WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete holiday: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("holiday %s: %w", id, generic.ErrHolidayNotFound)
	}
	return nil
}

// ListHolidays returns the organization's holiday windows overlapping
// period, in start order.
func (s *Store) ListHolidays(ctx context.Context, orgID generic.OrganizationID, period generic.Period) ([]generic.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, organization_id, name, start_date, end_date
		FROM holidays
		WHERE organization_id = ? AND start_date <= ? AND end_date >= ?
		ORDER BY start_date ASC, id ASC
	`, orgID, period.End.String(), period.Start.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	defer rows.Close()

	var holidays []generic.Holiday
	for rows.Next() {
		var (
			h          generic.Holiday
			start, end string
		)
		if err := rows.Scan(&h.ID, &h.OrganizationID, &h.Name, &start, &end); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		if h.Period.Start, err = generic.ParseDate(start); err != nil {
			return nil, fmt.Errorf("stored holiday %s: %w", h.ID, err)
		}
		if h.Period.End, err = generic.ParseDate(end); err != nil {
			return nil, fmt.Errorf("stored holiday %s: %w", h.ID, err)
		}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

// =============================================================================
// ROLLOVER RUNS
// =============================================================================

// RolloverRun records that an organization's year was closed.
type RolloverRun struct {
	OrganizationID generic.OrganizationID
	Year           int
	Employees      int
	CarriedOver    decimal.Decimal
	Forfeited      decimal.Decimal
	RanAt          time.Time
}

// RecordRolloverRun stores run, replacing an earlier run of the same year.
func (s *Store) RecordRolloverRun(ctx context.Context, run RolloverRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run.RanAt.IsZero() {
		run.RanAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO rollover_runs (organization_id, year, employees, carried_over, forfeited, ran_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(organization_id, year) DO UPDATE SET
			employees = excluded.employees,
			carried_over = excluded.carried_over,
			forfeited = excluded.forfeited,
			ran_at = excluded.ran_at
	`, run.OrganizationID, run.Year, run.Employees, run.CarriedOver.String(), run.Forfeited.String(),
		run.RanAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to record rollover run: %w", err)
	}
	return nil
}

// HasRolloverRun reports whether the organization's year was closed.
func (s *Store) HasRolloverRun(ctx context.Context, orgID generic.OrganizationID, year int) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM rollover_runs WHERE organization_id = ? AND year = ?", orgID, year).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check rollover run: %w", err)
	}
	return n > 0, nil
}

// ListRolloverRuns returns all runs, most recent year first.
func (s *Store) ListRolloverRuns(ctx context.Context) ([]RolloverRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT organization_id, year, employees, carried_over, forfeited, ran_at
		FROM rollover_runs ORDER BY year DESC, organization_id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list rollover runs: %w", err)
	}
	defer rows.Close()

	var runs []RolloverRun
	for rows.Next() {
		var (
			run              RolloverRun
			carried, forfeit string
			ranAt            string
		)
		if err := rows.Scan(&run.OrganizationID, &run.Year, &run.Employees, &carried, &forfeit, &ranAt); err != nil {
			return nil, fmt.Errorf("failed to scan rollover run: %w", err)
		}
		if run.CarriedOver, err = generic.ParseDays(carried); err != nil {
			return nil, err
		}
		if run.Forfeited, err = generic.ParseDays(forfeit); err != nil {
			return nil, err
		}
		run.RanAt, _ = time.Parse(time.RFC3339, ranAt)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// =============================================================================
// HELPERS
// =============================================================================

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullDecimal(d *decimal.Decimal) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

func nullInt(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}

func scanDecimal(ns sql.NullString) (*decimal.Decimal, error) {
	if !ns.Valid {
		return nil, nil
	}
	d, err := generic.ParseDays(ns.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
