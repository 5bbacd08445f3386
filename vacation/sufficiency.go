package vacation

import (
	"github.com/shopspring/decimal"
	"github.com/warp/vacation-engine/generic"
)

// SufficiencyTolerance absorbs representation noise when a request equals
// the remaining balance.
var SufficiencyTolerance = decimal.New(1, -6)

// HasSufficientBalance reports whether requestedDays can be granted:
// remaining >= requested, within SufficiencyTolerance.
func HasSufficientBalance(b Balance, requestedDays decimal.Decimal) bool {
	return b.RemainingDays.Add(SufficiencyTolerance).GreaterThanOrEqual(requestedDays)
}

// CheckSufficiency is HasSufficientBalance as an error for approval gating.
func CheckSufficiency(employeeID generic.EmployeeID, b Balance, requestedDays decimal.Decimal) error {
	if HasSufficientBalance(b, requestedDays) {
		return nil
	}
	return &generic.InsufficientBalanceError{
		EmployeeID: employeeID,
		Remaining:  b.RemainingDays,
		Requested:  requestedDays,
	}
}
