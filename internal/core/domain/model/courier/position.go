package courier

import (
	"errors"
	"time"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/pkg/errs"
)

// Position is the cached last known location of a courier.
type Position struct {
	point      kernel.GeoPoint
	capturedAt time.Time
}

func NewPosition(point kernel.GeoPoint, capturedAt time.Time) (Position, error) {
	var err error
	if vErr := point.Validate(); vErr != nil {
		err = errors.Join(err, vErr)
	}
	if capturedAt.IsZero() {
		err = errors.Join(err, errs.NewValueIsRequiredError("capturedAt"))
	}
	if err != nil {
		return Position{}, err
	}
	return Position{point: point, capturedAt: capturedAt.UTC()}, nil
}

func (p Position) Point() kernel.GeoPoint { return p.point }
func (p Position) CapturedAt() time.Time  { return p.capturedAt }

// IsNewerThan reports whether p was captured strictly after other.
func (p Position) IsNewerThan(other Position) bool {
	return p.capturedAt.After(other.capturedAt)
}
