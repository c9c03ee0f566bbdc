package queries

import (
	"context"
	"time"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/core/domain/model/leg"
	"parcelflow/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetParcelQueryHandler struct {
	db *gorm.DB
}

func NewGetParcelQueryHandler(db *gorm.DB) GetParcelQueryHandler {
	return GetParcelQueryHandler{db: db}
}

type parcelRow struct {
	ID              uuid.UUID
	TrackingNumber  string
	AnnouncementID  uuid.NullUUID
	WeightGrams     int
	LengthMM        int `gorm:"column:length_mm"`
	WidthMM         int `gorm:"column:width_mm"`
	HeightMM        int `gorm:"column:height_mm"`
	Description     string
	Status          string
	LocationKind    string
	LocationRef     uuid.NullUUID
	LocationAddress string
	LastMovedAt     *time.Time
}

type storageRow struct {
	ID          uuid.UUID
	WarehouseID uuid.UUID
	Area        string
	StoredUntil *time.Time
	CreatedAt   time.Time
}

type activeLegRow struct {
	ID          uuid.UUID
	Status      string
	CourierID   uuid.NullUUID
	ScheduledAt time.Time
}

// Handle returns *errs.ObjectNotFoundError for unknown parcels.
func (h GetParcelQueryHandler) Handle(ctx context.Context, query GetParcelQuery) (GetParcelQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetParcelQueryResponse{}, err
	}

	db := h.db.WithContext(ctx)

	row, err := h.parcel(db, query)
	if err != nil {
		return GetParcelQueryResponse{}, err
	}

	response := GetParcelQueryResponse{
		ID:             scannedUUID(row.ID),
		TrackingNumber: row.TrackingNumber,
		AnnouncementID: nullableUUID(row.AnnouncementID),
		WeightGrams:    row.WeightGrams,
		LengthMM:       row.LengthMM,
		WidthMM:        row.WidthMM,
		HeightMM:       row.HeightMM,
		Description:    row.Description,
		Status:         row.Status,
		Location: LocationView{
			Kind:    row.LocationKind,
			Ref:     nullableUUID(row.LocationRef),
			Address: row.LocationAddress,
		},
		LastMovedAt: row.LastMovedAt,
	}

	var assignments []storageRow
	if err = db.Raw(`
		SELECT id, warehouse_id, area, stored_until, created_at
		FROM storage_assignments
		WHERE parcel_id = ?
			AND released_at IS NULL
			AND (stored_until IS NULL OR stored_until > ?)
		ORDER BY created_at DESC
		LIMIT 1
	`, row.ID, query.at).Scan(&assignments).Error; err != nil {
		return GetParcelQueryResponse{}, err
	}
	if len(assignments) > 0 {
		a := assignments[0]
		response.Storage = &StorageView{
			AssignmentID: scannedUUID(a.ID),
			WarehouseID:  scannedUUID(a.WarehouseID),
			Area:         a.Area,
			StoredUntil:  a.StoredUntil,
			CreatedAt:    a.CreatedAt,
		}
	}

	var legs []activeLegRow
	if err = db.Raw(`
		SELECT l.id, l.status, l.courier_id, l.scheduled_at
		FROM legs l
		JOIN leg_parcels lp ON lp.leg_id = l.id
		WHERE lp.parcel_id = ? AND l.status IN ?
		LIMIT 1
	`, row.ID, activeLegStatuses()).Scan(&legs).Error; err != nil {
		return GetParcelQueryResponse{}, err
	}
	if len(legs) > 0 {
		l := legs[0]
		response.ActiveLeg = &ActiveLegView{
			LegID:       scannedUUID(l.ID),
			Status:      l.Status,
			CourierID:   nullableUUID(l.CourierID),
			ScheduledAt: l.ScheduledAt,
		}
	}

	return response, nil
}

func (h GetParcelQueryHandler) parcel(db *gorm.DB, query GetParcelQuery) (parcelRow, error) {
	const columns = `
		SELECT id, tracking_number, announcement_id, weight_grams, length_mm, width_mm, height_mm,
			description, status, location_kind, location_ref, location_address, last_moved_at
		FROM parcels`

	var row parcelRow
	var result *gorm.DB
	if query.parcelID != nil {
		result = db.Raw(columns+` WHERE id = ?`, query.parcelID.Bytes()).Scan(&row)
	} else {
		result = db.Raw(columns+` WHERE tracking_number = ?`, query.trackingNumber).Scan(&row)
	}

	if result.Error != nil {
		return parcelRow{}, result.Error
	}
	if result.RowsAffected == 0 {
		if query.parcelID != nil {
			return parcelRow{}, errs.NewObjectNotFoundError("parcel", query.parcelID.String())
		}
		return parcelRow{}, errs.NewObjectNotFoundError("tracking number", query.trackingNumber)
	}
	return row, nil
}

func activeLegStatuses() []string {
	statuses := leg.ActiveStatuses()
	names := make([]string, 0, len(statuses))
	for _, s := range statuses {
		names = append(names, s.String())
	}
	return names
}

// scannedUUID converts a non-null uuid column; the column type already
// guarantees the value is well formed.
func scannedUUID(raw uuid.UUID) kernel.UUID {
	id, _ := kernel.UUIDFromBytes(raw[:])
	return id
}

func nullableUUID(raw uuid.NullUUID) *kernel.UUID {
	if !raw.Valid {
		return nil
	}
	id := scannedUUID(raw.UUID)
	return &id
}
