package queries

import (
	"errors"
	"time"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/pkg/guard"
)

var ErrCurrentPositionQueryIsNotConstructed = errors.New(
	"CurrentPositionQuery must be created via NewCurrentPositionQuery constructor",
)

// CurrentPositionQuery returns the cached latest position of a courier.
type CurrentPositionQuery struct {
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

func NewCurrentPositionQuery(courierID kernel.UUID) (CurrentPositionQuery, error) {
	if err := courierID.Validate(); err != nil {
		return CurrentPositionQuery{}, err
	}
	return CurrentPositionQuery{courierID: courierID, guard: guard.NewConstructorGuard()}, nil
}

func (q CurrentPositionQuery) Validate() error {
	return q.guard.Validate(ErrCurrentPositionQueryIsNotConstructed)
}

type CurrentPositionQueryResponse struct {
	CourierID  kernel.UUID
	Lat        float64
	Lon        float64
	CapturedAt time.Time
}
