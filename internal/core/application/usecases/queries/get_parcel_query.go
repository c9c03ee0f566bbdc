// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries read straight from the tables with SQL and return read models, not aggregates.
package queries

import (
	"errors"
	"strings"
	"time"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/pkg/errs"
	"parcelflow/internal/pkg/guard"
)

var ErrGetParcelQueryIsNotConstructed = errors.New(
	"GetParcelQuery must be created via NewGetParcelQuery or NewGetParcelByTrackingNumberQuery constructor",
)

// GetParcelQuery looks a parcel up by id or by tracking number. Storage and leg
// details are evaluated at the query's instant.
//
// Example:
//
//	query, err := NewGetParcelByTrackingNumberQuery("PT0A1B2C3D4E5F", time.Now())
//	if err != nil {
//	    return err
//	}
//	view, err := NewGetParcelQueryHandler(db).Handle(ctx, query)
type GetParcelQuery struct {
	parcelID       *kernel.UUID
	trackingNumber string
	at             time.Time

	guard guard.ConstructorGuard
}

func NewGetParcelQuery(parcelID kernel.UUID, at time.Time) (GetParcelQuery, error) {
	if err := parcelID.Validate(); err != nil {
		return GetParcelQuery{}, err
	}
	return GetParcelQuery{parcelID: &parcelID, at: at, guard: guard.NewConstructorGuard()}, nil
}

func NewGetParcelByTrackingNumberQuery(trackingNumber string, at time.Time) (GetParcelQuery, error) {
	trackingNumber = strings.ToUpper(strings.TrimSpace(trackingNumber))
	if trackingNumber == "" {
		return GetParcelQuery{}, errs.NewValueIsRequiredError("tracking number")
	}
	return GetParcelQuery{trackingNumber: trackingNumber, at: at, guard: guard.NewConstructorGuard()}, nil
}

func (q GetParcelQuery) Validate() error {
	return q.guard.Validate(ErrGetParcelQueryIsNotConstructed)
}

// LocationView is a location as stored: kind name, optional reference and address.
type LocationView struct {
	Kind    string
	Ref     *kernel.UUID
	Address string
}

// StorageView is the parcel's active storage assignment.
type StorageView struct {
	AssignmentID kernel.UUID
	WarehouseID  kernel.UUID
	Area         string
	StoredUntil  *time.Time
	CreatedAt    time.Time
}

// ActiveLegView is the scheduled or in-progress leg carrying the parcel.
type ActiveLegView struct {
	LegID       kernel.UUID
	Status      string
	CourierID   *kernel.UUID
	ScheduledAt time.Time
}

// GetParcelQueryResponse is the parcel read model.
type GetParcelQueryResponse struct {
	ID             kernel.UUID
	TrackingNumber string
	AnnouncementID *kernel.UUID
	WeightGrams    int
	LengthMM       int
	WidthMM        int
	HeightMM       int
	Description    string
	Status         string
	Location       LocationView
	LastMovedAt    *time.Time
	Storage        *StorageView
	ActiveLeg      *ActiveLegView
}
