// Package courierrepo provides data transfer objects and mapping functions for courier persistence.
// This package implements the repository pattern for the courier domain aggregate, handling
// the conversion between domain entities and database representations.
package courierrepo

import (
	"time"

	"parcelflow/internal/core/domain/model/courier"
	"parcelflow/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// CourierDTO represents the database structure for persisting courier aggregates.
// The position columns form the cached latest position; they are written only
// by the conditional position update, never by Update.
type CourierDTO struct {
	ID              uuid.UUID   `gorm:"type:uuid;primaryKey"`
	Name            string      `gorm:"type:varchar(255);not null"`
	Available       bool        `gorm:"not null;default:true"`
	OnDuty          bool        `gorm:"not null;default:false"`
	Position        PositionDTO `gorm:"embedded;embeddedPrefix:position_"`
	LicenseNumber   string      `gorm:"type:varchar(64);not null;default:''"`
	InsurancePolicy string      `gorm:"type:varchar(64);not null;default:''"`
	PayoutAccount   string      `gorm:"type:varchar(64);not null;default:''"`
	CreatedAt       time.Time   `gorm:"type:timestamptz;not null"`
}

// TableName specifies the database table name for courier entities.
// Overrides GORM's default naming convention to use "couriers" instead of "courier_dtos".
func (CourierDTO) TableName() string {
	return "couriers"
}

// PositionDTO is the embedded cached position. All three columns are NULL
// until the courier reports a first sample.
type PositionDTO struct {
	Lat        *float64   `gorm:"type:double precision;index:idx_couriers_position,priority:1"`
	Lon        *float64   `gorm:"type:double precision;index:idx_couriers_position,priority:2"`
	CapturedAt *time.Time `gorm:"type:timestamptz"`
}

// fromDomain converts a courier domain aggregate to its database representation.
func fromDomain(c *courier.Courier) CourierDTO {
	docs := c.Documents()
	dto := CourierDTO{
		ID:              c.ID().Bytes(),
		Name:            c.Name(),
		Available:       c.IsAvailable(),
		OnDuty:          c.IsOnDuty(),
		LicenseNumber:   docs.LicenseNumber,
		InsurancePolicy: docs.InsurancePolicy,
		PayoutAccount:   docs.PayoutAccount,
		CreatedAt:       c.CreatedAt(),
	}

	if pos, ok := c.Position(); ok {
		dto.Position = positionDTO(pos)
	}
	return dto
}

func positionDTO(pos courier.Position) PositionDTO {
	lat, lon, capturedAt := pos.Point().Lat(), pos.Point().Lon(), pos.CapturedAt()
	return PositionDTO{Lat: &lat, Lon: &lon, CapturedAt: &capturedAt}
}

// toDomain converts a database DTO to a courier domain aggregate using RestoreCourier.
func toDomain(dto CourierDTO) (*courier.Courier, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var position *courier.Position
	if p := dto.Position; p.Lat != nil && p.Lon != nil && p.CapturedAt != nil {
		point, pointErr := kernel.NewGeoPoint(*p.Lat, *p.Lon)
		if pointErr != nil {
			return nil, pointErr
		}
		pos, posErr := courier.NewPosition(point, *p.CapturedAt)
		if posErr != nil {
			return nil, posErr
		}
		position = &pos
	}

	docs := courier.Documents{
		LicenseNumber:   dto.LicenseNumber,
		InsurancePolicy: dto.InsurancePolicy,
		PayoutAccount:   dto.PayoutAccount,
	}

	return courier.RestoreCourier(id, dto.Name, dto.Available, dto.OnDuty, position, docs, dto.CreatedAt)
}
