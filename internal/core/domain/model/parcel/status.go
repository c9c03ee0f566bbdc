package parcel

import (
	"fmt"

	"parcelflow/internal/pkg/errs"
)

// Status is the lifecycle state of a parcel.
//
// State transitions:
//
//	Stored ──> InTransit ──┬──> Delivered
//	  ^            │       └──> Lost ──┐
//	  └────────────┘                   │
//	  ^────────────────────────────────┘
type Status int

const (
	// Unknown catches uninitialized values.
	Unknown Status = iota
	Stored
	InTransit
	Delivered
	Lost
)

var statusNames = map[Status]string{
	Stored:    "stored",
	InTransit: "in_transit",
	Delivered: "delivered",
	Lost:      "lost",
}

var transitions = map[Status][]Status{
	Stored:    {InTransit},
	InTransit: {Delivered, Lost, Stored},
	Lost:      {Stored},
}

// ParseStatus maps the wire/database name back to a Status.
func ParseStatus(s string) (Status, error) {
	for status, name := range statusNames {
		if name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a parcel status", s))
}

// Validate rejects Unknown and out-of-range values.
func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return s == Delivered
}

// CanTransition reports whether s -> to is an allowed edge. It never mutates anything.
func (s Status) CanTransition(to Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Transition returns to when s -> to is allowed, or an *InvalidTransitionError.
func (s Status) Transition(to Status) (Status, error) {
	if !s.CanTransition(to) {
		return s, &InvalidTransitionError{From: s, To: to}
	}
	return to, nil
}

// allowsLocation ties each status to the location kinds a parcel in that status may occupy.
func (s Status) allowsLocation(kind LocationKind) bool {
	switch s {
	case Stored:
		return kind == LocationWarehouse || kind == LocationStorageBox || kind == LocationUnset
	case InTransit:
		return kind == LocationInTransit
	case Delivered:
		return kind == LocationClientAddress
	case Lost:
		return kind == LocationUnset
	case Unknown:
		return false
	}
	return false
}
