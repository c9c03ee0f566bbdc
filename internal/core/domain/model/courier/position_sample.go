package courier

import (
	"errors"
	"time"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/pkg/errs"
)

const (
	MinHeading = 0.0
	MaxHeading = 360.0
)

// Telemetry holds the optional readings that accompany a GPS fix.
type Telemetry struct {
	Accuracy *float64 // metres
	Speed    *float64 // metres per second
	Heading  *float64 // degrees clockwise from north, [0, 360)
}

// PositionSample is one raw reading reported by a courier device.
// The leg reference is nil when the courier was not on an active leg.
type PositionSample struct {
	id         int64
	courierID  kernel.UUID
	legID      *kernel.UUID
	point      kernel.GeoPoint
	telemetry  Telemetry
	capturedAt time.Time
	receivedAt time.Time
}

func NewPositionSample(
	courierID kernel.UUID,
	legID *kernel.UUID,
	point kernel.GeoPoint,
	telemetry Telemetry,
	capturedAt, receivedAt time.Time,
) (PositionSample, error) {
	var err error
	if vErr := courierID.Validate(); vErr != nil {
		err = errors.Join(err, vErr)
	}
	if legID != nil {
		if vErr := legID.Validate(); vErr != nil {
			err = errors.Join(err, vErr)
		}
	}
	if vErr := point.Validate(); vErr != nil {
		err = errors.Join(err, vErr)
	}
	if capturedAt.IsZero() {
		err = errors.Join(err, errs.NewValueIsRequiredError("capturedAt"))
	}
	if vErr := telemetry.validate(); vErr != nil {
		err = errors.Join(err, vErr)
	}
	if err != nil {
		return PositionSample{}, err
	}

	if receivedAt.IsZero() {
		receivedAt = capturedAt
	}

	return PositionSample{
		courierID:  courierID,
		legID:      copyUUID(legID),
		point:      point,
		telemetry:  telemetry.clone(),
		capturedAt: capturedAt.UTC(),
		receivedAt: receivedAt.UTC(),
	}, nil
}

func RestorePositionSample(
	id int64,
	courierID kernel.UUID,
	legID *kernel.UUID,
	point kernel.GeoPoint,
	telemetry Telemetry,
	capturedAt, receivedAt time.Time,
) (PositionSample, error) {
	if id <= 0 {
		return PositionSample{}, errs.NewValueIsRequiredError("position sample id")
	}
	s, err := NewPositionSample(courierID, legID, point, telemetry, capturedAt, receivedAt)
	if err != nil {
		return PositionSample{}, err
	}
	s.id = id
	return s, nil
}

func (s PositionSample) ID() int64              { return s.id }
func (s PositionSample) CourierID() kernel.UUID { return s.courierID }
func (s PositionSample) LegID() *kernel.UUID    { return copyUUID(s.legID) }
func (s PositionSample) Point() kernel.GeoPoint { return s.point }
func (s PositionSample) Telemetry() Telemetry   { return s.telemetry.clone() }
func (s PositionSample) CapturedAt() time.Time  { return s.capturedAt }
func (s PositionSample) ReceivedAt() time.Time  { return s.receivedAt }

// Position converts the sample into the cached position form.
func (s PositionSample) Position() Position {
	return Position{point: s.point, capturedAt: s.capturedAt}
}

func (t Telemetry) validate() error {
	var err error
	if t.Accuracy != nil && *t.Accuracy < 0 {
		err = errors.Join(err, errs.NewValueIsOutOfRangeError("accuracy", *t.Accuracy, 0, "+Inf"))
	}
	if t.Speed != nil && *t.Speed < 0 {
		err = errors.Join(err, errs.NewValueIsOutOfRangeError("speed", *t.Speed, 0, "+Inf"))
	}
	if t.Heading != nil && (*t.Heading < MinHeading || *t.Heading >= MaxHeading) {
		err = errors.Join(err, errs.NewValueIsOutOfRangeError("heading", *t.Heading, MinHeading, MaxHeading))
	}
	return err
}

func (t Telemetry) clone() Telemetry {
	return Telemetry{
		Accuracy: copyFloat(t.Accuracy),
		Speed:    copyFloat(t.Speed),
		Heading:  copyFloat(t.Heading),
	}
}

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

func copyUUID(id *kernel.UUID) *kernel.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
