package storagerepo

import (
	"context"
	"errors"
	"time"

	"parcelflow/internal/adapters/out/postgres/pgerr"
	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/core/domain/model/storage"
	"parcelflow/internal/pkg/errs"

	"gorm.io/gorm"
)

const activeCondition = "released_at IS NULL AND (stored_until IS NULL OR stored_until > ?)"

// GormStorageRepository implements ports.StorageRepository using GORM.
type GormStorageRepository struct {
	db *gorm.DB
}

func NewGormStorageRepository(db *gorm.DB) *GormStorageRepository {
	return &GormStorageRepository{db: db}
}

func (r *GormStorageRepository) Add(ctx context.Context, assignment *storage.Assignment) error {
	if err := assignment.Validate(); err != nil {
		return err
	}

	dto := fromDomain(assignment)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return pgerr.Translate(err, "storage assignment", assignment.ID())
	}
	return nil
}

// Update persists the release time. The write only applies while released_at
// is still NULL, so the first release wins and later ones change nothing.
func (r *GormStorageRepository) Update(ctx context.Context, assignment *storage.Assignment) error {
	if err := assignment.Validate(); err != nil {
		return err
	}

	releasedAt := assignment.ReleasedAt()
	if releasedAt == nil {
		return nil
	}

	result := r.db.WithContext(ctx).
		Model(&StorageAssignmentDTO{}).
		Where("id = ? AND released_at IS NULL", assignment.ID().Bytes()).
		Update("released_at", *releasedAt)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		if _, err := r.Get(ctx, assignment.ID()); err != nil {
			return err
		}
	}
	return nil
}

func (r *GormStorageRepository) Get(ctx context.Context, id kernel.UUID) (*storage.Assignment, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto StorageAssignmentDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("storage assignment", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetActiveByParcel returns the parcel's assignment that is active at now.
func (r *GormStorageRepository) GetActiveByParcel(ctx context.Context, parcelID kernel.UUID, now time.Time) (*storage.Assignment, error) {
	var dto StorageAssignmentDTO
	err := r.db.WithContext(ctx).
		Where("parcel_id = ?", parcelID.Bytes()).
		Where(activeCondition, now).
		Order("created_at DESC").
		Take(&dto).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewObjectNotFoundError("active storage assignment", parcelID.String())
	}
	if err != nil {
		return nil, err
	}

	return toDomain(dto)
}

// GetLatestByParcel returns the most recent assignment, released or not.
func (r *GormStorageRepository) GetLatestByParcel(ctx context.Context, parcelID kernel.UUID) (*storage.Assignment, error) {
	var dto StorageAssignmentDTO
	err := r.db.WithContext(ctx).
		Where("parcel_id = ?", parcelID.Bytes()).
		Order("created_at DESC").
		Take(&dto).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewObjectNotFoundError("storage assignment", parcelID.String())
	}
	if err != nil {
		return nil, err
	}

	return toDomain(dto)
}

// CountActive counts the assignments occupying the warehouse at now.
func (r *GormStorageRepository) CountActive(ctx context.Context, warehouseID kernel.UUID, now time.Time) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&StorageAssignmentDTO{}).
		Where("warehouse_id = ?", warehouseID.Bytes()).
		Where(activeCondition, now).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

// ListLapsed returns unreleased assignments whose stored-until time has passed,
// oldest deadline first.
func (r *GormStorageRepository) ListLapsed(ctx context.Context, now time.Time, limit int) ([]*storage.Assignment, error) {
	var dtos []StorageAssignmentDTO
	if err := r.db.WithContext(ctx).
		Where("released_at IS NULL AND stored_until IS NOT NULL AND stored_until <= ?", now).
		Order("stored_until").
		Limit(limit).
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	assignments := make([]*storage.Assignment, 0, len(dtos))
	for _, dto := range dtos {
		a, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, nil
}
