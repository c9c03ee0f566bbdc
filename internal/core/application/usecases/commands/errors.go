package commands

import (
	"errors"
	"fmt"

	"parcelflow/internal/core/domain/model/kernel"
)

var ErrPartialStartFailure = errors.New("leg start failed")

// PartialStartFailureError reports the parcel that prevented a leg from
// starting. Nothing the start had done is kept: the leg is still scheduled and
// its parcels are still stored.
type PartialStartFailureError struct {
	LegID    kernel.UUID
	ParcelID kernel.UUID
	Cause    error
}

func (e *PartialStartFailureError) Error() string {
	return fmt.Sprintf("%s: leg %s, parcel %s: %v", ErrPartialStartFailure, e.LegID, e.ParcelID, e.Cause)
}

// Unwrap exposes both the sentinel and the underlying cause to errors.Is/As.
func (e *PartialStartFailureError) Unwrap() []error {
	return []error{ErrPartialStartFailure, e.Cause}
}
