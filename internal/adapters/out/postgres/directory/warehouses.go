// Package directory reads reference data owned by other services from the
// shared database. Nothing here writes; the tables are migrated elsewhere.
package directory

import (
	"context"
	"errors"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WarehouseDTO is the slice of the operator's warehouse row the engine reads.
type WarehouseDTO struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name     string    `gorm:"type:varchar(255);not null;default:''"`
	Capacity int       `gorm:"not null"`
}

func (WarehouseDTO) TableName() string {
	return "warehouses"
}

// GormWarehouseDirectory implements ports.WarehouseDirectory.
type GormWarehouseDirectory struct {
	db *gorm.DB
}

func NewGormWarehouseDirectory(db *gorm.DB) *GormWarehouseDirectory {
	return &GormWarehouseDirectory{db: db}
}

// GetCapacity returns *errs.ObjectNotFoundError for unknown warehouses.
func (d *GormWarehouseDirectory) GetCapacity(ctx context.Context, warehouseID kernel.UUID) (int, error) {
	if err := warehouseID.Validate(); err != nil {
		return 0, err
	}

	var dto WarehouseDTO
	err := d.db.WithContext(ctx).
		Select("id", "capacity").
		First(&dto, "id = ?", warehouseID.Bytes()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, errs.NewObjectNotFoundError("warehouse", warehouseID.String())
	}
	if err != nil {
		return 0, err
	}

	return dto.Capacity, nil
}
