// Package storagerepo persists storage assignments of parcels to warehouses.
package storagerepo

import (
	"time"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/core/domain/model/storage"

	"github.com/google/uuid"
)

// StorageAssignmentDTO is one assignment row. Only released_at ever changes.
type StorageAssignmentDTO struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ParcelID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	WarehouseID uuid.UUID  `gorm:"type:uuid;not null;index:idx_storage_assignments_warehouse_active,priority:1"`
	Area        string     `gorm:"type:varchar(64);not null"`
	StoredUntil *time.Time `gorm:"type:timestamptz"`
	Description string     `gorm:"type:text;not null;default:''"`
	CreatedAt   time.Time  `gorm:"type:timestamptz;not null"`
	ReleasedAt  *time.Time `gorm:"type:timestamptz;index:idx_storage_assignments_warehouse_active,priority:2"`
}

func (StorageAssignmentDTO) TableName() string {
	return "storage_assignments"
}

func fromDomain(a *storage.Assignment) StorageAssignmentDTO {
	return StorageAssignmentDTO{
		ID:          a.ID().Bytes(),
		ParcelID:    a.ParcelID().Bytes(),
		WarehouseID: a.WarehouseID().Bytes(),
		Area:        a.Area(),
		StoredUntil: a.StoredUntil(),
		Description: a.Description(),
		CreatedAt:   a.CreatedAt(),
		ReleasedAt:  a.ReleasedAt(),
	}
}

func toDomain(dto StorageAssignmentDTO) (*storage.Assignment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	parcelID, err := kernel.UUIDFromBytes(dto.ParcelID[:])
	if err != nil {
		return nil, err
	}
	warehouseID, err := kernel.UUIDFromBytes(dto.WarehouseID[:])
	if err != nil {
		return nil, err
	}

	return storage.RestoreAssignment(
		id, parcelID, warehouseID, dto.Area, dto.StoredUntil, dto.Description, dto.CreatedAt, dto.ReleasedAt,
	)
}
