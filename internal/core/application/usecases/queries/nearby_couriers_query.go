package queries

import (
	"errors"
	"time"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/core/domain/services"
	"parcelflow/internal/pkg/guard"
)

var ErrNearbyCouriersQueryIsNotConstructed = errors.New(
	"NearbyCouriersQuery must be created via NewNearbyCouriersQuery constructor",
)

// NearbyCouriersQuery finds couriers whose cached position lies within a
// radius of a point. The radius is capped at services.MaxSearchRadiusKm.
//
// Example:
//
//	query, err := NewNearbyCouriersQuery(52.52, 13.40, 3, services.NearbyFilter{AvailableOnly: true})
//	if err != nil {
//	    return err // out-of-range coordinates or non-positive radius
//	}
//	found, err := NewNearbyCouriersQueryHandler(db).Handle(ctx, query)
type NearbyCouriersQuery struct {
	origin   kernel.GeoPoint
	radiusKm float64
	filter   services.NearbyFilter

	guard guard.ConstructorGuard
}

func NewNearbyCouriersQuery(lat, lon, radiusKm float64, filter services.NearbyFilter) (NearbyCouriersQuery, error) {
	origin, err := kernel.NewGeoPoint(lat, lon)
	if err != nil {
		return NearbyCouriersQuery{}, err
	}

	radiusKm, err = services.ClampRadius(radiusKm)
	if err != nil {
		return NearbyCouriersQuery{}, err
	}

	return NearbyCouriersQuery{
		origin:   origin,
		radiusKm: radiusKm,
		filter:   filter,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (q NearbyCouriersQuery) Validate() error {
	return q.guard.Validate(ErrNearbyCouriersQueryIsNotConstructed)
}

func (q NearbyCouriersQuery) RadiusKm() float64 { return q.radiusKm }

// NearbyCourierView is one match, nearest first.
type NearbyCourierView struct {
	CourierID  kernel.UUID
	Name       string
	Available  bool
	OnDuty     bool
	Lat        float64
	Lon        float64
	CapturedAt time.Time
	DistanceKm float64
}
