package leg

import (
	"errors"
	"fmt"
	"time"

	"parcelflow/internal/core/domain/model/kernel"
)

var (
	ErrInvalidTransition     = errors.New("invalid leg transition")
	ErrUnassignedLeg         = errors.New("leg has no courier assigned")
	ErrStaleHistory          = errors.New("leg history entry is older than the latest one")
	ErrParcelAlreadyOnLeg    = errors.New("parcel is already on an active leg")
	ErrCourierChangeRejected = errors.New("courier can only be changed on a scheduled leg")
	ErrLegIsNotConstructed   = errors.New("Leg must be created via NewLeg or RestoreLeg constructor")
)

type InvalidTransitionError struct {
	LegID kernel.UUID
	From  Status
	To    Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: leg %s %s -> %s", ErrInvalidTransition, e.LegID, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

type UnassignedLegError struct {
	LegID kernel.UUID
}

func (e *UnassignedLegError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnassignedLeg, e.LegID)
}

func (e *UnassignedLegError) Unwrap() error {
	return ErrUnassignedLeg
}

type StaleHistoryError struct {
	LegID     kernel.UUID
	Latest    time.Time
	Attempted time.Time
}

func (e *StaleHistoryError) Error() string {
	return fmt.Sprintf("%s: leg %s, latest %s, attempted %s",
		ErrStaleHistory, e.LegID, e.Latest.Format(time.RFC3339Nano), e.Attempted.Format(time.RFC3339Nano))
}

func (e *StaleHistoryError) Unwrap() error {
	return ErrStaleHistory
}

// ParcelAlreadyOnLegError names the active leg currently holding the parcel.
type ParcelAlreadyOnLegError struct {
	ParcelID kernel.UUID
	LegID    kernel.UUID
}

func (e *ParcelAlreadyOnLegError) Error() string {
	return fmt.Sprintf("%s: parcel %s, leg %s", ErrParcelAlreadyOnLeg, e.ParcelID, e.LegID)
}

func (e *ParcelAlreadyOnLegError) Unwrap() error {
	return ErrParcelAlreadyOnLeg
}
