package parcel

import (
	"errors"
	"fmt"
	"time"

	"parcelflow/internal/core/domain/model/kernel"
)

var (
	ErrInvalidTransition    = errors.New("invalid parcel transition")
	ErrStaleLocationUpdate  = errors.New("stale location update")
	ErrRelocationNotAllowed = errors.New("relocation not allowed")
)

// InvalidTransitionError is returned when From -> To is not an edge of the state machine.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// StaleLocationUpdateError is returned when a move is older than the latest recorded one.
type StaleLocationUpdateError struct {
	ParcelID  kernel.UUID
	Latest    time.Time
	Attempted time.Time
}

func (e *StaleLocationUpdateError) Error() string {
	return fmt.Sprintf("%s: parcel %s moved at %s, got %s",
		ErrStaleLocationUpdate, e.ParcelID, e.Latest.Format(time.RFC3339Nano), e.Attempted.Format(time.RFC3339Nano))
}

func (e *StaleLocationUpdateError) Unwrap() error {
	return ErrStaleLocationUpdate
}
