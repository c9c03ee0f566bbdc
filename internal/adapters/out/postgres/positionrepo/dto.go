// Package positionrepo stores the append-only courier position samples.
package positionrepo

import (
	"time"

	"parcelflow/internal/core/domain/model/courier"
	"parcelflow/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

type PositionSampleDTO struct {
	ID         int64      `gorm:"primaryKey;autoIncrement"`
	CourierID  uuid.UUID  `gorm:"type:uuid;not null;index:idx_position_samples_courier_captured,priority:1"`
	LegID      *uuid.UUID `gorm:"type:uuid;index"`
	Lat        float64    `gorm:"type:double precision;not null"`
	Lon        float64    `gorm:"type:double precision;not null"`
	Accuracy   *float64   `gorm:"type:double precision"`
	Speed      *float64   `gorm:"type:double precision"`
	Heading    *float64   `gorm:"type:double precision"`
	CapturedAt time.Time  `gorm:"type:timestamptz;not null;index:idx_position_samples_courier_captured,priority:2"`
	ReceivedAt time.Time  `gorm:"type:timestamptz;not null"`
}

func (PositionSampleDTO) TableName() string {
	return "position_samples"
}

func fromDomain(s courier.PositionSample) PositionSampleDTO {
	telemetry := s.Telemetry()
	dto := PositionSampleDTO{
		CourierID:  s.CourierID().Bytes(),
		Lat:        s.Point().Lat(),
		Lon:        s.Point().Lon(),
		Accuracy:   telemetry.Accuracy,
		Speed:      telemetry.Speed,
		Heading:    telemetry.Heading,
		CapturedAt: s.CapturedAt(),
		ReceivedAt: s.ReceivedAt(),
	}
	if legID := s.LegID(); legID != nil {
		raw := legID.Bytes()
		dto.LegID = &raw
	}
	return dto
}

func toDomain(dto PositionSampleDTO) (courier.PositionSample, error) {
	courierID, err := kernel.UUIDFromBytes(dto.CourierID[:])
	if err != nil {
		return courier.PositionSample{}, err
	}

	var legID *kernel.UUID
	if dto.LegID != nil {
		id, idErr := kernel.UUIDFromBytes(dto.LegID[:])
		if idErr != nil {
			return courier.PositionSample{}, idErr
		}
		legID = &id
	}

	point, err := kernel.NewGeoPoint(dto.Lat, dto.Lon)
	if err != nil {
		return courier.PositionSample{}, err
	}

	telemetry := courier.Telemetry{Accuracy: dto.Accuracy, Speed: dto.Speed, Heading: dto.Heading}
	return courier.RestorePositionSample(dto.ID, courierID, legID, point, telemetry, dto.CapturedAt, dto.ReceivedAt)
}
