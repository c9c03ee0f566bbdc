package queries

import (
	"context"

	"gorm.io/gorm"
)

type LegHistoryQueryHandler struct {
	db *gorm.DB
}

func NewLegHistoryQueryHandler(db *gorm.DB) LegHistoryQueryHandler {
	return LegHistoryQueryHandler{db: db}
}

func (h LegHistoryQueryHandler) Handle(ctx context.Context, query LegHistoryQuery) ([]LegHistoryEntryView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	db := h.db.WithContext(ctx)
	if err := requireRow(db, "legs", "leg", query.legID.Bytes()); err != nil {
		return nil, err
	}

	entries := make([]LegHistoryEntryView, 0)
	if err := db.Raw(`
		SELECT id, status, remarks, changed_at
		FROM leg_history
		WHERE leg_id = ?
		ORDER BY changed_at, id
	`, query.legID.Bytes()).Scan(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
