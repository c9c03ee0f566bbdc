package queries

import (
	"context"
	"time"

	"parcelflow/internal/core/domain/model/leg"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListOverdueLegsQueryHandler struct {
	db *gorm.DB
}

func NewListOverdueLegsQueryHandler(db *gorm.DB) ListOverdueLegsQueryHandler {
	return ListOverdueLegsQueryHandler{db: db}
}

func (h ListOverdueLegsQueryHandler) Handle(ctx context.Context, query ListOverdueLegsQuery) ([]OverdueLegView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var rows []struct {
		ID          uuid.UUID
		CourierID   uuid.NullUUID
		ScheduledAt time.Time
		ParcelCount int
	}
	if err := h.db.WithContext(ctx).Raw(`
		SELECT l.id, l.courier_id, l.scheduled_at, COUNT(lp.parcel_id) AS parcel_count
		FROM legs l
		LEFT JOIN leg_parcels lp ON lp.leg_id = l.id
		WHERE l.status = ? AND l.scheduled_at < ?
		GROUP BY l.id, l.courier_id, l.scheduled_at
		ORDER BY l.scheduled_at, l.id
		LIMIT ?
	`, leg.Scheduled.String(), query.cutoff, query.limit).Scan(&rows).Error; err != nil {
		return nil, err
	}

	legs := make([]OverdueLegView, 0, len(rows))
	for _, row := range rows {
		legs = append(legs, OverdueLegView{
			LegID:       scannedUUID(row.ID),
			CourierID:   nullableUUID(row.CourierID),
			ScheduledAt: row.ScheduledAt,
			ParcelCount: row.ParcelCount,
		})
	}
	return legs, nil
}
