package services

import (
	"errors"
	"sort"

	"parcelflow/internal/core/domain/model/courier"
	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/pkg/errs"
)

// MaxSearchRadiusKm bounds every nearby search.
const MaxSearchRadiusKm = 50.0

// ErrCourierNotFound is returned when no courier matches a search.
var ErrCourierNotFound = errors.New("courier not found")

// NearbyFilter narrows a nearby search to couriers ready for work.
type NearbyFilter struct {
	AvailableOnly bool
	OnDutyOnly    bool
}

// NearbyCourier is a courier found within the search radius.
type NearbyCourier struct {
	Courier    *courier.Courier
	DistanceKm float64
}

// CourierLocator ranks couriers by great-circle distance from a point.
//
// Business rules:
//   - The radius must be positive and is capped at MaxSearchRadiusKm
//   - Couriers without a cached position are skipped
//   - Results are ordered by distance, ties keep input order
//
// Example usage:
//
//	origin, _ := kernel.NewGeoPoint(52.52, 13.40)
//	found, err := services.NewCourierLocator().Nearby(origin, 5, candidates, services.NearbyFilter{AvailableOnly: true})
type CourierLocator struct{}

func NewCourierLocator() CourierLocator {
	return CourierLocator{}
}

// ClampRadius validates radiusKm and caps it at MaxSearchRadiusKm.
func ClampRadius(radiusKm float64) (float64, error) {
	if radiusKm <= 0 {
		return 0, errs.NewValueIsOutOfRangeError("radiusKm", radiusKm, 0, MaxSearchRadiusKm)
	}
	if radiusKm > MaxSearchRadiusKm {
		return MaxSearchRadiusKm, nil
	}
	return radiusKm, nil
}

// Nearby returns the couriers within radiusKm of origin that pass the filter.
func (CourierLocator) Nearby(
	origin kernel.GeoPoint,
	radiusKm float64,
	couriers []*courier.Courier,
	filter NearbyFilter,
) ([]NearbyCourier, error) {
	radiusKm, err := ClampRadius(radiusKm)
	if err != nil {
		return nil, err
	}

	found := make([]NearbyCourier, 0, len(couriers))
	for _, c := range couriers {
		if err := c.Validate(); err != nil {
			return nil, err
		}
		if filter.AvailableOnly && !c.IsAvailable() {
			continue
		}
		if filter.OnDutyOnly && !c.IsOnDuty() {
			continue
		}

		pos, ok := c.Position()
		if !ok {
			continue
		}

		distance, err := origin.DistanceKm(pos.Point())
		if err != nil {
			return nil, err
		}
		if distance <= radiusKm {
			found = append(found, NearbyCourier{Courier: c, DistanceKm: distance})
		}
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].DistanceKm < found[j].DistanceKm
	})
	return found, nil
}

// Closest returns the nearest matching courier or ErrCourierNotFound.
func (l CourierLocator) Closest(
	origin kernel.GeoPoint,
	radiusKm float64,
	couriers []*courier.Courier,
	filter NearbyFilter,
) (*courier.Courier, error) {
	found, err := l.Nearby(origin, radiusKm, couriers, filter)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, ErrCourierNotFound
	}
	return found[0].Courier, nil
}
