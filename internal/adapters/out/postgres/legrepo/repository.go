package legrepo

import (
	"context"
	"errors"

	"parcelflow/internal/adapters/out/postgres/pgerr"
	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/core/domain/model/leg"
	"parcelflow/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormLegRepository implements ports.LegRepository using GORM.
type GormLegRepository struct {
	db *gorm.DB
}

func NewGormLegRepository(db *gorm.DB) *GormLegRepository {
	return &GormLegRepository{db: db}
}

// Add saves a new leg together with its leg_parcels rows.
func (r *GormLegRepository) Add(ctx context.Context, aggregate *leg.Leg) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return pgerr.Translate(err, "leg", aggregate.ID())
	}
	return nil
}

// Update writes the mutable columns guarded by the version. The parcel set of
// a leg never changes after creation.
func (r *GormLegRepository) Update(ctx context.Context, aggregate *leg.Leg) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&LegDTO{}).
		Where("id = ? AND version = ?", dto.ID, dto.Version).
		Updates(map[string]any{
			"courier_id":      dto.CourierID,
			"started_at":      dto.StartedAt,
			"completed_at":    dto.CompletedAt,
			"status":          dto.Status,
			"partial":         dto.Partial,
			"payment_status":  dto.PaymentStatus,
			"amount":          dto.Amount,
			"last_changed_at": dto.LastChangedAt,
			"version":         dto.Version + 1,
		})
	if result.Error != nil {
		return pgerr.Translate(result.Error, "leg", aggregate.ID())
	}

	if result.RowsAffected == 0 {
		if _, err := r.Get(ctx, aggregate.ID()); err != nil {
			return err
		}
		return errs.NewConcurrentModificationError("leg", aggregate.ID().String())
	}

	aggregate.IncrementVersion()
	return nil
}

func (r *GormLegRepository) Get(ctx context.Context, id kernel.UUID) (*leg.Leg, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto LegDTO
	if err := r.withParcels(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("leg", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// AppendHistory inserts a status change after checking it is not older than
// the leg's latest one.
func (r *GormLegRepository) AppendHistory(ctx context.Context, entry leg.HistoryEntry) (int64, error) {
	var latest LegHistoryDTO
	err := r.db.WithContext(ctx).
		Where("leg_id = ?", entry.LegID().Bytes()).
		Order("changed_at DESC").
		Order("id DESC").
		Take(&latest).Error
	switch {
	case err == nil:
		if entry.ChangedAt().Before(latest.ChangedAt) {
			return 0, &leg.StaleHistoryError{LegID: entry.LegID(), Latest: latest.ChangedAt, Attempted: entry.ChangedAt()}
		}
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return 0, err
	}

	dto := historyFromDomain(entry)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return 0, err
	}
	return dto.ID, nil
}

// History returns the leg's status changes, oldest first.
func (r *GormLegRepository) History(ctx context.Context, legID kernel.UUID) ([]leg.HistoryEntry, error) {
	var dtos []LegHistoryDTO
	if err := r.db.WithContext(ctx).
		Where("leg_id = ?", legID.Bytes()).
		Order("changed_at").
		Order("id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	entries := make([]leg.HistoryEntry, 0, len(dtos))
	for _, dto := range dtos {
		entry, err := historyToDomain(dto)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// FindActiveByParcel returns the scheduled or in-progress leg carrying the parcel.
func (r *GormLegRepository) FindActiveByParcel(ctx context.Context, parcelID kernel.UUID) (*leg.Leg, error) {
	var dto LegDTO
	err := r.withParcels(ctx).
		Joins("JOIN leg_parcels lp ON lp.leg_id = legs.id").
		Where("lp.parcel_id = ? AND legs.status IN ?", parcelID.Bytes(), statusNames(leg.ActiveStatuses())).
		Order("legs.created_at DESC").
		Take(&dto).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewObjectNotFoundError("active leg of parcel", parcelID.String())
	}
	if err != nil {
		return nil, err
	}

	return toDomain(dto)
}

// FindInProgressByCourier returns the courier's in-progress leg.
func (r *GormLegRepository) FindInProgressByCourier(ctx context.Context, courierID kernel.UUID) (*leg.Leg, error) {
	var dto LegDTO
	err := r.withParcels(ctx).
		Where("courier_id = ? AND status = ?", courierID.Bytes(), leg.InProgress.String()).
		Order("started_at DESC").
		Take(&dto).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewObjectNotFoundError("in-progress leg of courier", courierID.String())
	}
	if err != nil {
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormLegRepository) withParcels(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Parcels", func(db *gorm.DB) *gorm.DB {
		return db.Order("position")
	})
}

func statusNames(statuses []leg.Status) []string {
	names := make([]string, 0, len(statuses))
	for _, s := range statuses {
		names = append(names, s.String())
	}
	return names
}
