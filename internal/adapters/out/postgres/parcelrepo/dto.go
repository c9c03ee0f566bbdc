// Package parcelrepo persists parcel aggregates. The row carries the current
// location so that reads never need the ledger.
package parcelrepo

import (
	"time"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/core/domain/model/parcel"

	"github.com/google/uuid"
)

// ParcelDTO represents the database structure for persisting parcels.
type ParcelDTO struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TrackingNumber  string     `gorm:"type:varchar(32);not null;uniqueIndex"`
	AnnouncementID  *uuid.UUID `gorm:"type:uuid;index"`
	WeightGrams     int        `gorm:"type:int;not null"`
	LengthMM        int        `gorm:"type:int;not null"`
	WidthMM         int        `gorm:"type:int;not null"`
	HeightMM        int        `gorm:"type:int;not null"`
	Description     string     `gorm:"type:text;not null;default:''"`
	Status          string     `gorm:"type:varchar(16);not null;index"`
	LocationKind    string     `gorm:"type:varchar(16);not null;default:''"`
	LocationRef     *uuid.UUID `gorm:"type:uuid"`
	LocationAddress string     `gorm:"type:text;not null;default:''"`
	LastMovedAt     *time.Time `gorm:"type:timestamptz"`
	Version         int        `gorm:"type:int;not null;default:0"`
	CreatedAt       time.Time  `gorm:"type:timestamptz;not null"`
}

func (ParcelDTO) TableName() string {
	return "parcels"
}

func fromDomain(p *parcel.Parcel) ParcelDTO {
	dto := ParcelDTO{
		ID:              p.ID().Bytes(),
		TrackingNumber:  p.TrackingNumber(),
		AnnouncementID:  optionalID(p.AnnouncementID()),
		WeightGrams:     p.WeightGrams(),
		LengthMM:        p.Dimensions().LengthMM(),
		WidthMM:         p.Dimensions().WidthMM(),
		HeightMM:        p.Dimensions().HeightMM(),
		Description:     p.Description(),
		Status:          p.Status().String(),
		LocationKind:    p.Location().Kind().String(),
		LocationRef:     optionalID(p.Location().Ref()),
		LocationAddress: p.Location().Address(),
		Version:         p.Version(),
		CreatedAt:       p.CreatedAt(),
	}
	if moved := p.LastMovedAt(); !moved.IsZero() {
		dto.LastMovedAt = &moved
	}
	return dto
}

func toDomain(dto ParcelDTO) (*parcel.Parcel, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	announcementID, err := domainID(dto.AnnouncementID)
	if err != nil {
		return nil, err
	}

	dims, err := parcel.NewDimensions(dto.LengthMM, dto.WidthMM, dto.HeightMM)
	if err != nil {
		return nil, err
	}

	status, err := parcel.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	loc, err := LocationFromColumns(dto.LocationKind, dto.LocationRef, dto.LocationAddress)
	if err != nil {
		return nil, err
	}

	var lastMovedAt time.Time
	if dto.LastMovedAt != nil {
		lastMovedAt = *dto.LastMovedAt
	}

	return parcel.RestoreParcel(
		id, dto.TrackingNumber, announcementID, dto.WeightGrams, dims, dto.Description,
		status, loc, lastMovedAt, dto.Version, dto.CreatedAt,
	)
}

// LocationFromColumns rebuilds a location from its kind, ref and address
// columns. It is shared with the location ledger.
func LocationFromColumns(kindName string, ref *uuid.UUID, address string) (parcel.Location, error) {
	kind, err := parcel.ParseLocationKind(kindName)
	if err != nil {
		return parcel.Location{}, err
	}
	if kind == parcel.LocationUnset {
		return parcel.UnsetLocation(), nil
	}

	refID, err := domainID(ref)
	if err != nil {
		return parcel.Location{}, err
	}
	return parcel.RestoreLocation(kind, refID, address)
}

func optionalID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func domainID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromBytes(raw[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}
