package vacation

import "github.com/warp/vacation-engine/generic"

// Status is the approval state of an absence. The engine consumes it; the
// approval workflow owns it.
//
//	pending -> approved   (terminal, counts as used)
//	pending -> rejected   (terminal, counts as nothing)
//	pending -> cancelled  (terminal, counts as nothing)
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

var transitions = map[Status][]Status{
	StatusPending: {StatusApproved, StatusRejected, StatusCancelled},
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

func (s Status) IsTerminal() bool {
	return s.IsValid() && len(transitions[s]) == 0
}

// IsActive is true for statuses that hold vacation days.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusApproved
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Transition validates a status change and returns a *generic.TransitionError
// when it is not allowed.
func Transition(from, to Status) error {
	if !from.CanTransitionTo(to) {
		return &generic.TransitionError{From: string(from), To: string(to)}
	}
	return nil
}
