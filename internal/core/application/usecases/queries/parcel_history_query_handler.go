package queries

import (
	"context"
	"time"

	"parcelflow/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ParcelHistoryQueryHandler struct {
	db *gorm.DB
}

func NewParcelHistoryQueryHandler(db *gorm.DB) ParcelHistoryQueryHandler {
	return ParcelHistoryQueryHandler{db: db}
}

type locationEntryRow struct {
	ID          int64
	Kind        string
	Ref         uuid.NullUUID
	Address     *string
	Description string
	MovedAt     time.Time
}

// Handle returns *errs.ObjectNotFoundError for unknown parcels and an empty
// slice for parcels that never moved.
func (h ParcelHistoryQueryHandler) Handle(ctx context.Context, query ParcelHistoryQuery) ([]LocationEntryView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	db := h.db.WithContext(ctx)
	if err := requireRow(db, "parcels", "parcel", query.parcelID.Bytes()); err != nil {
		return nil, err
	}

	var rows []locationEntryRow
	if err := db.Raw(`
		SELECT id, kind, ref, address, description, moved_at
		FROM parcel_locations
		WHERE parcel_id = ?
		ORDER BY moved_at, id
	`, query.parcelID.Bytes()).Scan(&rows).Error; err != nil {
		return nil, err
	}

	entries := make([]LocationEntryView, 0, len(rows))
	for _, row := range rows {
		entry := LocationEntryView{
			ID:          row.ID,
			Location:    LocationView{Kind: row.Kind, Ref: nullableUUID(row.Ref)},
			Description: row.Description,
			MovedAt:     row.MovedAt,
		}
		if row.Address != nil {
			entry.Location.Address = *row.Address
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// requireRow reports *errs.ObjectNotFoundError when table has no row with id.
func requireRow(db *gorm.DB, table, entity string, id uuid.UUID) error {
	var count int64
	if err := db.Table(table).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errs.NewObjectNotFoundError(entity, id.String())
	}
	return nil
}
