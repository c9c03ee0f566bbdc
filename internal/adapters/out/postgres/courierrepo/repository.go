package courierrepo

import (
	"context"
	"errors"

	"parcelflow/internal/adapters/out/postgres/pgerr"
	"parcelflow/internal/core/domain/model/courier"
	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormCourierRepository implements CourierRepository using GORM.
type GormCourierRepository struct {
	db *gorm.DB
}

// NewGormCourierRepository creates a new GORM courier repository.
func NewGormCourierRepository(db *gorm.DB) *GormCourierRepository {
	return &GormCourierRepository{db: db}
}

// Add saves a new courier to the database.
func (r *GormCourierRepository) Add(ctx context.Context, aggregate *courier.Courier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return pgerr.Translate(err, "courier", aggregate.ID())
	}
	return nil
}

// Update saves the profile and the operational flags. The cached position is
// left alone; it only moves through UpdatePositionIfNewer.
func (r *GormCourierRepository) Update(ctx context.Context, aggregate *courier.Courier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&CourierDTO{}).
		Where("id = ?", dto.ID).
		Updates(map[string]any{
			"name":             dto.Name,
			"available":        dto.Available,
			"on_duty":          dto.OnDuty,
			"license_number":   dto.LicenseNumber,
			"insurance_policy": dto.InsurancePolicy,
			"payout_account":   dto.PayoutAccount,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("courier", aggregate.ID().String())
	}
	return nil
}

// Get retrieves a courier by ID.
func (r *GormCourierRepository) Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto CourierDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("courier", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// FindInBox returns couriers whose cached position lies inside the box.
// Couriers that never reported a position are not returned.
func (r *GormCourierRepository) FindInBox(ctx context.Context, minLat, maxLat, minLon, maxLon float64) ([]*courier.Courier, error) {
	var dtos []CourierDTO
	if err := r.db.WithContext(ctx).
		Where("position_lat BETWEEN ? AND ?", minLat, maxLat).
		Where("position_lon BETWEEN ? AND ?", minLon, maxLon).
		Order("id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	couriers := make([]*courier.Courier, 0, len(dtos))
	for _, dto := range dtos {
		c, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		couriers = append(couriers, c)
	}

	return couriers, nil
}

// UpdatePositionIfNewer replaces the cached position in one conditional write
// and reports whether it did. Older or equally old positions are ignored.
// Unknown couriers yield *errs.ObjectNotFoundError.
func (r *GormCourierRepository) UpdatePositionIfNewer(ctx context.Context, courierID kernel.UUID, pos courier.Position) (bool, error) {
	p := positionDTO(pos)
	result := r.db.WithContext(ctx).
		Model(&CourierDTO{}).
		Where("id = ? AND (position_captured_at IS NULL OR position_captured_at < ?)", courierID.Bytes(), *p.CapturedAt).
		Updates(map[string]any{
			"position_lat":         *p.Lat,
			"position_lon":         *p.Lon,
			"position_captured_at": *p.CapturedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		return true, nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&CourierDTO{}).Where("id = ?", courierID.Bytes()).Count(&count).Error; err != nil {
		return false, err
	}
	if count == 0 {
		return false, errs.NewObjectNotFoundError("courier", courierID.String())
	}
	return false, nil
}
