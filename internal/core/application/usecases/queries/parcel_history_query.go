package queries

import (
	"errors"
	"time"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/pkg/guard"
)

var ErrParcelHistoryQueryIsNotConstructed = errors.New(
	"ParcelHistoryQuery must be created via NewParcelHistoryQuery constructor",
)

// ParcelHistoryQuery lists every place a parcel has been, oldest first.
type ParcelHistoryQuery struct {
	parcelID kernel.UUID

	guard guard.ConstructorGuard
}

func NewParcelHistoryQuery(parcelID kernel.UUID) (ParcelHistoryQuery, error) {
	if err := parcelID.Validate(); err != nil {
		return ParcelHistoryQuery{}, err
	}
	return ParcelHistoryQuery{parcelID: parcelID, guard: guard.NewConstructorGuard()}, nil
}

func (q ParcelHistoryQuery) Validate() error {
	return q.guard.Validate(ErrParcelHistoryQueryIsNotConstructed)
}

type LocationEntryView struct {
	ID          int64
	Location    LocationView
	Description string
	MovedAt     time.Time
}
