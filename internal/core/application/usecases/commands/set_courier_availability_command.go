package commands

import (
	"errors"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/pkg/errs"
	"parcelflow/internal/pkg/guard"
)

var ErrSetCourierAvailabilityCommandIsNotConstructed = errors.New(
	"SetCourierAvailabilityCommand must be created via NewSetCourierAvailabilityCommand constructor",
)

// SetCourierAvailabilityCommand changes the operational flags of a courier.
// A nil flag is left unchanged; at least one must be given.
type SetCourierAvailabilityCommand struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID
	available *bool
	onDuty    *bool

	guard guard.ConstructorGuard
}

func NewSetCourierAvailabilityCommand(courierID kernel.UUID, available, onDuty *bool) (SetCourierAvailabilityCommand, error) {
	if err := courierID.Validate(); err != nil {
		return SetCourierAvailabilityCommand{}, err
	}
	if available == nil && onDuty == nil {
		return SetCourierAvailabilityCommand{}, errs.NewValueIsRequiredError("available or onDuty")
	}

	return SetCourierAvailabilityCommand{
		courierID: courierID,
		available: available,
		onDuty:    onDuty,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c SetCourierAvailabilityCommand) Validate() error {
	return c.guard.Validate(ErrSetCourierAvailabilityCommandIsNotConstructed)
}

func (c SetCourierAvailabilityCommand) CourierID() kernel.UUID { return c.courierID }
func (c SetCourierAvailabilityCommand) Available() *bool       { return c.available }
func (c SetCourierAvailabilityCommand) OnDuty() *bool          { return c.onDuty }
