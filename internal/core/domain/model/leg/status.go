package leg

import (
	"fmt"

	"parcelflow/internal/pkg/errs"
)

type Status int

const (
	StatusUnknown Status = iota
	Scheduled
	InProgress
	Completed
	Cancelled
)

var statusNames = map[Status]string{
	Scheduled:  "scheduled",
	InProgress: "in_progress",
	Completed:  "completed",
	Cancelled:  "cancelled",
}

var transitions = map[Status][]Status{
	Scheduled:  {InProgress, Cancelled},
	InProgress: {Completed, Cancelled},
}

func ParseStatus(s string) (Status, error) {
	for status, name := range statusNames {
		if name == s {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("leg status is invalid", fmt.Errorf("unknown status %q", s))
}

func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("leg status is invalid", fmt.Errorf("unknown status %d", int(s)))
	}
	return nil
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// IsActive reports whether the leg still holds its parcels.
func (s Status) IsActive() bool {
	return s == Scheduled || s == InProgress
}

func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled
}

func (s Status) CanTransition(to Status) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// ActiveStatuses lists the statuses in which a leg holds its parcels.
func ActiveStatuses() []Status {
	return []Status{Scheduled, InProgress}
}
