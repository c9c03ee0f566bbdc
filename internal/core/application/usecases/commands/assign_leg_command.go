package commands

import (
	"errors"
	"time"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/pkg/errs"
	"parcelflow/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrAssignLegCommandIsNotConstructed = errors.New(
	"AssignLegCommand must be created via NewAssignLegCommand constructor",
)

// AssignLegCommand creates a scheduled leg carrying the given parcels.
// The courier may be left empty and assigned later.
//
// Example:
//
//	cmd, err := NewAssignLegCommand(
//	    []kernel.UUID{parcelID}, &courierID,
//	    "Warehouse 3, dock B", "12 Elm st",
//	    tomorrow, decimal.RequireFromString("14.90"), time.Now(),
//	)
type AssignLegCommand struct { //nolint:recvcheck //using for validation
	legID       kernel.UUID
	parcelIDs   []kernel.UUID
	courierID   *kernel.UUID
	pickup      string
	dropoff     string
	scheduledAt time.Time
	amount      decimal.Decimal
	at          time.Time

	guard guard.ConstructorGuard
}

func NewAssignLegCommand(
	parcelIDs []kernel.UUID,
	courierID *kernel.UUID,
	pickup, dropoff string,
	scheduledAt time.Time,
	amount decimal.Decimal,
	at time.Time,
) (AssignLegCommand, error) {
	var err error
	if len(parcelIDs) == 0 {
		err = errors.Join(err, errs.NewValueIsRequiredError("parcelIDs"))
	}
	for _, id := range parcelIDs {
		if vErr := id.Validate(); vErr != nil {
			err = errors.Join(err, vErr)
		}
	}
	if courierID != nil {
		if vErr := courierID.Validate(); vErr != nil {
			err = errors.Join(err, vErr)
		}
	}
	if at.IsZero() {
		err = errors.Join(err, errs.NewValueIsRequiredError("at"))
	}
	if err != nil {
		return AssignLegCommand{}, err
	}

	ids := make([]kernel.UUID, len(parcelIDs))
	copy(ids, parcelIDs)

	command := AssignLegCommand{
		legID:       kernel.NewUUID(),
		parcelIDs:   ids,
		pickup:      pickup,
		dropoff:     dropoff,
		scheduledAt: scheduledAt,
		amount:      amount,
		at:          at,
		guard:       guard.NewConstructorGuard(),
	}
	if courierID != nil {
		id := *courierID
		command.courierID = &id
	}

	return command, nil
}

func (c AssignLegCommand) Validate() error {
	return c.guard.Validate(ErrAssignLegCommandIsNotConstructed)
}

func (c AssignLegCommand) LegID() kernel.UUID       { return c.legID }
func (c AssignLegCommand) ParcelIDs() []kernel.UUID { return c.parcelIDs }
func (c AssignLegCommand) CourierID() *kernel.UUID  { return c.courierID }
func (c AssignLegCommand) Pickup() string           { return c.pickup }
func (c AssignLegCommand) Dropoff() string          { return c.dropoff }
func (c AssignLegCommand) ScheduledAt() time.Time   { return c.scheduledAt }
func (c AssignLegCommand) Amount() decimal.Decimal  { return c.amount }
func (c AssignLegCommand) At() time.Time            { return c.at }
