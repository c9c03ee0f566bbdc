package storage

import (
	"errors"
	"fmt"

	"parcelflow/internal/core/domain/model/kernel"
)

var (
	ErrCapacityExceeded           = errors.New("warehouse capacity exceeded")
	ErrParcelAlreadyStored        = errors.New("parcel already has an active storage assignment")
	ErrAssignmentIsNotConstructed = errors.New("Assignment must be created via NewAssignment or RestoreAssignment constructor")
)

// CapacityExceededError is returned when a warehouse has no free unit left.
type CapacityExceededError struct {
	WarehouseID kernel.UUID
	Capacity    int
	Active      int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("%s: warehouse %s holds %d of %d", ErrCapacityExceeded, e.WarehouseID, e.Active, e.Capacity)
}

func (e *CapacityExceededError) Unwrap() error {
	return ErrCapacityExceeded
}

// ParcelAlreadyStoredError is returned when the parcel must be released first.
type ParcelAlreadyStoredError struct {
	ParcelID     kernel.UUID
	AssignmentID kernel.UUID
}

func (e *ParcelAlreadyStoredError) Error() string {
	return fmt.Sprintf("%s: parcel %s, assignment %s", ErrParcelAlreadyStored, e.ParcelID, e.AssignmentID)
}

func (e *ParcelAlreadyStoredError) Unwrap() error {
	return ErrParcelAlreadyStored
}
