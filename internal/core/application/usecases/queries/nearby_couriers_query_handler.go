package queries

import (
	"context"
	"time"

	"parcelflow/internal/core/domain/model/courier"
	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/core/domain/services"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NearbyCouriersQueryHandler struct {
	db *gorm.DB
}

func NewNearbyCouriersQueryHandler(db *gorm.DB) NearbyCouriersQueryHandler {
	return NearbyCouriersQueryHandler{db: db}
}

type positionedCourierRow struct {
	ID                 uuid.UUID
	Name               string
	Available          bool
	OnDuty             bool
	PositionLat        float64
	PositionLon        float64
	PositionCapturedAt time.Time
	CreatedAt          time.Time
}

// Handle narrows candidates with a bounding box in SQL, then ranks them by
// great-circle distance.
func (h NearbyCouriersQueryHandler) Handle(ctx context.Context, query NearbyCouriersQuery) ([]NearbyCourierView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	minLat, maxLat, minLon, maxLon := query.origin.BoundingBox(query.radiusKm)

	var rows []positionedCourierRow
	if err := h.db.WithContext(ctx).Raw(`
		SELECT id, name, available, on_duty, position_lat, position_lon, position_captured_at, created_at
		FROM couriers
		WHERE position_captured_at IS NOT NULL
			AND position_lat BETWEEN ? AND ?
			AND position_lon BETWEEN ? AND ?
		ORDER BY id
	`, minLat, maxLat, minLon, maxLon).Scan(&rows).Error; err != nil {
		return nil, err
	}

	candidates := make([]*courier.Courier, 0, len(rows))
	for _, row := range rows {
		c, err := restorePositioned(row)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}

	found, err := services.NewCourierLocator().Nearby(query.origin, query.radiusKm, candidates, query.filter)
	if err != nil {
		return nil, err
	}

	views := make([]NearbyCourierView, 0, len(found))
	for _, match := range found {
		pos, _ := match.Courier.Position()
		views = append(views, NearbyCourierView{
			CourierID:  match.Courier.ID(),
			Name:       match.Courier.Name(),
			Available:  match.Courier.IsAvailable(),
			OnDuty:     match.Courier.IsOnDuty(),
			Lat:        pos.Point().Lat(),
			Lon:        pos.Point().Lon(),
			CapturedAt: pos.CapturedAt(),
			DistanceKm: match.DistanceKm,
		})
	}
	return views, nil
}

func restorePositioned(row positionedCourierRow) (*courier.Courier, error) {
	point, err := kernel.NewGeoPoint(row.PositionLat, row.PositionLon)
	if err != nil {
		return nil, err
	}
	pos, err := courier.NewPosition(point, row.PositionCapturedAt)
	if err != nil {
		return nil, err
	}
	return courier.RestoreCourier(
		scannedUUID(row.ID), row.Name, row.Available, row.OnDuty, &pos, courier.Documents{}, row.CreatedAt,
	)
}
