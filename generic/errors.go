/*
errors.go - Centralized error types

PURPOSE:
  The balance engine itself never fails on well-formed input. Errors live
  at its edges: parsing collaborator records, loading them from storage and
  gating approvals. All of them are declared here so handlers can classify
  them with errors.Is.

ERROR CATEGORIES:
  1. Record errors - malformed decimal strings, dates, enums
  2. Lookup errors - policy/employee/absence not found
  3. Workflow errors - invalid status transition, insufficient balance

SEE ALSO:
  - factory/records.go: returns RecordError
  - store/sqlite/sqlite.go: returns the not-found sentinels
  - vacation/sufficiency.go: returns InsufficientBalanceError
*/
package generic

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidRecord is returned when a collaborator record cannot be parsed.
	ErrInvalidRecord = errors.New("invalid record")

	// ErrPolicyNotFound is returned when an organization has no vacation policy.
	ErrPolicyNotFound = errors.New("policy not found")

	// ErrEmployeeNotFound is returned when a referenced employee doesn't exist.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrAbsenceNotFound is returned when a referenced absence doesn't exist.
	ErrAbsenceNotFound = errors.New("absence not found")

	// ErrHolidayNotFound is returned when a referenced holiday doesn't exist.
	ErrHolidayNotFound = errors.New("holiday not found")

	// ErrInvalidTransition is returned for a status change out of a terminal state.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInsufficientBalance is returned when a request exceeds the remaining days.
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// RecordError names the field of a collaborator record that failed to parse.
type RecordError struct {
	Record string // e.g. "policy", "absence"
	Field  string
	Err    error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s.%s: %v", e.Record, e.Field, e.Err)
}

func (e *RecordError) Unwrap() error {
	if errors.Is(e.Err, ErrInvalidRecord) {
		return e.Err
	}
	return fmt.Errorf("%w: %v", ErrInvalidRecord, e.Err)
}

// InsufficientBalanceError provides details about a balance shortage.
type InsufficientBalanceError struct {
	EmployeeID EmployeeID
	Remaining  decimal.Decimal
	Requested  decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: remaining %s, requested %s, shortfall %s",
		e.Remaining, e.Requested, e.Shortfall())
}

func (e *InsufficientBalanceError) Shortfall() decimal.Decimal {
	return e.Requested.Sub(e.Remaining)
}

func (e *InsufficientBalanceError) Unwrap() error {
	return ErrInsufficientBalance
}

// TransitionError records the rejected status change.
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move absence from %s to %s", e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidRecord) ||
		errors.Is(err, ErrInsufficientBalance)
}

// IsConflict returns true for workflow conflicts.
func IsConflict(err error) bool {
	return errors.Is(err, ErrInvalidTransition)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPolicyNotFound) ||
		errors.Is(err, ErrEmployeeNotFound) ||
		errors.Is(err, ErrAbsenceNotFound) ||
		errors.Is(err, ErrHolidayNotFound)
}
