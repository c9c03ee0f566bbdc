package positionrepo

import (
	"context"

	"parcelflow/internal/core/domain/model/courier"
	"parcelflow/internal/core/domain/model/kernel"

	"gorm.io/gorm"
)

// GormPositionLedger implements ports.PositionLedger using GORM.
type GormPositionLedger struct {
	db *gorm.DB
}

func NewGormPositionLedger(db *gorm.DB) *GormPositionLedger {
	return &GormPositionLedger{db: db}
}

// Append stores the sample and returns its id. Late samples are stored too.
func (l *GormPositionLedger) Append(ctx context.Context, sample courier.PositionSample) (int64, error) {
	dto := fromDomain(sample)
	if err := l.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return 0, err
	}
	return dto.ID, nil
}

// Samples returns the courier's samples in capture order.
func (l *GormPositionLedger) Samples(ctx context.Context, courierID kernel.UUID) ([]courier.PositionSample, error) {
	var dtos []PositionSampleDTO
	if err := l.db.WithContext(ctx).
		Where("courier_id = ?", courierID.Bytes()).
		Order("captured_at").
		Order("id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	samples := make([]courier.PositionSample, 0, len(dtos))
	for _, dto := range dtos {
		s, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}
	return samples, nil
}
