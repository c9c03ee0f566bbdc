package commands

import (
	"errors"
	"time"

	"parcelflow/internal/core/domain/model/courier"
	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/pkg/errs"
	"parcelflow/internal/pkg/guard"
)

var ErrRecordPositionCommandIsNotConstructed = errors.New(
	"RecordPositionCommand must be created via NewRecordPositionCommand constructor",
)

// RecordPositionCommand carries one GPS reading from a courier device.
// Coordinates outside [-90, 90] x [-180, 180] are rejected with
// *errs.ValueIsOutOfRangeError when the command is built.
type RecordPositionCommand struct { //nolint:recvcheck //using for validation
	courierID  kernel.UUID
	point      kernel.GeoPoint
	telemetry  courier.Telemetry
	legID      *kernel.UUID
	capturedAt time.Time
	receivedAt time.Time

	guard guard.ConstructorGuard
}

func NewRecordPositionCommand(
	courierID kernel.UUID,
	lat, lon float64,
	telemetry courier.Telemetry,
	legID *kernel.UUID,
	capturedAt, receivedAt time.Time,
) (RecordPositionCommand, error) {
	point, pointErr := kernel.NewGeoPoint(lat, lon)

	var legErr error
	if legID != nil {
		legErr = legID.Validate()
	}

	var atErr error
	if capturedAt.IsZero() {
		atErr = errs.NewValueIsRequiredError("capturedAt")
	}

	if err := errors.Join(courierID.Validate(), pointErr, legErr, atErr); err != nil {
		return RecordPositionCommand{}, err
	}

	command := RecordPositionCommand{
		courierID:  courierID,
		point:      point,
		telemetry:  telemetry,
		capturedAt: capturedAt,
		receivedAt: receivedAt,
		guard:      guard.NewConstructorGuard(),
	}
	if legID != nil {
		id := *legID
		command.legID = &id
	}
	return command, nil
}

func (c RecordPositionCommand) Validate() error {
	return c.guard.Validate(ErrRecordPositionCommandIsNotConstructed)
}

func (c RecordPositionCommand) CourierID() kernel.UUID       { return c.courierID }
func (c RecordPositionCommand) Point() kernel.GeoPoint       { return c.point }
func (c RecordPositionCommand) Telemetry() courier.Telemetry { return c.telemetry }
func (c RecordPositionCommand) LegID() *kernel.UUID          { return c.legID }
func (c RecordPositionCommand) CapturedAt() time.Time        { return c.capturedAt }
func (c RecordPositionCommand) ReceivedAt() time.Time        { return c.receivedAt }
