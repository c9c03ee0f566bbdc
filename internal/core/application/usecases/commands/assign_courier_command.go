package commands

import (
	"errors"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/pkg/errs"
	"parcelflow/internal/pkg/guard"
)

var ErrAssignCourierCommandIsNotConstructed = errors.New(
	"AssignCourierCommand must be created via NewAssignCourierCommand or NewAssignNearestCourierCommand constructor",
)

// AssignCourierCommand sets the courier of a scheduled leg, either a named one
// or the nearest available on-duty courier around an origin point.
//
// Example:
//
//	origin, _ := kernel.NewGeoPoint(52.52, 13.40)
//	cmd, _ := NewAssignNearestCourierCommand(legID, origin)
//	handler := NewAssignCourierCommandHandler(uowFactory, locker, notifier)
//	err := handler.Handle(ctx, cmd)
//	if errors.Is(err, ErrNoFreeCouriersFound) {
//	    log.Println("All couriers are busy")
//	}
type AssignCourierCommand struct {
	legID     kernel.UUID
	courierID *kernel.UUID
	origin    *kernel.GeoPoint

	guard guard.ConstructorGuard
}

func NewAssignCourierCommand(legID, courierID kernel.UUID) (AssignCourierCommand, error) {
	if err := errors.Join(legID.Validate(), courierID.Validate()); err != nil {
		return AssignCourierCommand{}, err
	}

	return AssignCourierCommand{
		legID:     legID,
		courierID: &courierID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func NewAssignNearestCourierCommand(legID kernel.UUID, origin kernel.GeoPoint) (AssignCourierCommand, error) {
	if err := legID.Validate(); err != nil {
		return AssignCourierCommand{}, err
	}
	if err := origin.Validate(); err != nil {
		return AssignCourierCommand{}, errs.NewValueIsRequiredError("origin")
	}

	return AssignCourierCommand{
		legID:  legID,
		origin: &origin,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through a constructor.
func (c *AssignCourierCommand) Validate() error {
	return c.guard.Validate(
		ErrAssignCourierCommandIsNotConstructed,
	)
}

func (c *AssignCourierCommand) LegID() kernel.UUID { return c.legID }

// CourierID is nil when the nearest courier should be picked.
func (c *AssignCourierCommand) CourierID() *kernel.UUID { return c.courierID }

func (c *AssignCourierCommand) Origin() *kernel.GeoPoint { return c.origin }
