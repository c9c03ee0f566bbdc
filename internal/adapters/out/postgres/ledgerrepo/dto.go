// Package ledgerrepo stores the append-only location history of parcels.
package ledgerrepo

import (
	"time"

	"parcelflow/internal/adapters/out/postgres/parcelrepo"
	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/core/domain/model/parcel"

	"github.com/google/uuid"
)

// LocationEntryDTO is one row of the location ledger. Rows are never updated.
type LocationEntryDTO struct {
	ID          int64      `gorm:"primaryKey;autoIncrement"`
	ParcelID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_parcel_locations_parcel_moved,priority:1"`
	MovedAt     time.Time  `gorm:"type:timestamptz;not null;index:idx_parcel_locations_parcel_moved,priority:2"`
	Kind        string     `gorm:"type:varchar(16);not null;default:''"`
	Ref         *uuid.UUID `gorm:"type:uuid"`
	Address     *string    `gorm:"type:text"`
	Description string     `gorm:"type:text;not null;default:''"`
}

func (LocationEntryDTO) TableName() string {
	return "parcel_locations"
}

func fromDomain(entry parcel.HistoryEntry) LocationEntryDTO {
	dto := LocationEntryDTO{
		ParcelID:    entry.ParcelID().Bytes(),
		MovedAt:     entry.MovedAt(),
		Kind:        entry.Location().Kind().String(),
		Description: entry.Description(),
	}
	if ref := entry.Location().Ref(); ref != nil {
		raw := ref.Bytes()
		dto.Ref = &raw
	}
	if address := entry.Location().Address(); address != "" {
		dto.Address = &address
	}
	return dto
}

func toDomain(dto LocationEntryDTO) (parcel.HistoryEntry, error) {
	parcelID, err := kernel.UUIDFromBytes(dto.ParcelID[:])
	if err != nil {
		return parcel.HistoryEntry{}, err
	}

	var address string
	if dto.Address != nil {
		address = *dto.Address
	}

	loc, err := parcelrepo.LocationFromColumns(dto.Kind, dto.Ref, address)
	if err != nil {
		return parcel.HistoryEntry{}, err
	}

	return parcel.RestoreHistoryEntry(dto.ID, parcelID, loc, dto.Description, dto.MovedAt)
}
