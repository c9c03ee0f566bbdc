package queries

import (
	"context"
	"time"

	"parcelflow/internal/pkg/errs"

	"gorm.io/gorm"
)

type CurrentPositionQueryHandler struct {
	db *gorm.DB
}

func NewCurrentPositionQueryHandler(db *gorm.DB) CurrentPositionQueryHandler {
	return CurrentPositionQueryHandler{db: db}
}

// Handle reads the cache only, never the sample ledger. Unknown couriers and
// couriers that never reported yield *errs.ObjectNotFoundError.
func (h CurrentPositionQueryHandler) Handle(
	ctx context.Context,
	query CurrentPositionQuery,
) (CurrentPositionQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return CurrentPositionQueryResponse{}, err
	}

	var row struct {
		Lat        float64
		Lon        float64
		CapturedAt time.Time
	}
	result := h.db.WithContext(ctx).Raw(`
		SELECT position_lat AS lat, position_lon AS lon, position_captured_at AS captured_at
		FROM couriers
		WHERE id = ? AND position_captured_at IS NOT NULL
	`, query.courierID.Bytes()).Scan(&row)
	if result.Error != nil {
		return CurrentPositionQueryResponse{}, result.Error
	}
	if result.RowsAffected == 0 {
		return CurrentPositionQueryResponse{}, errs.NewObjectNotFoundError("courier position", query.courierID.String())
	}

	return CurrentPositionQueryResponse{
		CourierID:  query.courierID,
		Lat:        row.Lat,
		Lon:        row.Lon,
		CapturedAt: row.CapturedAt,
	}, nil
}
