package schedule

import (
	"fmt"
	"time"
)

// Status is the lifecycle state of a pay schedule.
type Status string

const (
	StatusDraft      Status = "draft"
	StatusReady      Status = "ready"
	StatusProcessing Status = "processing"
	StatusPaid       Status = "paid"
)

// validTransitions is the full edge set of the status state machine.
// processing can fall back to ready when a run fails, and paid resets to
// ready for the next recurrence.
var validTransitions = map[Status][]Status{
	StatusDraft:      {StatusReady},
	StatusReady:      {StatusProcessing},
	StatusProcessing: {StatusPaid, StatusReady},
	StatusPaid:       {StatusReady},
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := validTransitions[s]
	return ok
}

// ValidTransition reports whether from -> to is an allowed status change.
// Self-transitions and anything not in the edge set are rejected.
func ValidTransition(from, to Status) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition returns nil when from -> to is allowed, or an
// InvalidTransition error describing the rejected pair.
func Transition(from, to Status) *ValidationError {
	if !ValidTransition(from, to) {
		return &ValidationError{
			Kind:    ErrInvalidTransition,
			Message: fmt.Sprintf("cannot transition schedule from %s to %s", from, to),
		}
	}
	return nil
}

// Due reports whether a schedule should be picked up by the daily check:
// its next run is on or before today and its status permits execution.
func Due(nextRunAt time.Time, status Status, today time.Time) bool {
	if status != StatusDraft && status != StatusReady {
		return false
	}
	y1, m1, d1 := nextRunAt.Date()
	y2, m2, d2 := today.Date()
	runDay := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	todayDay := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return !runDay.After(todayDay)
}
