package ledgerrepo

import (
	"context"
	"errors"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/core/domain/model/parcel"
	"parcelflow/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormLocationLedger implements ports.LocationLedger using GORM.
type GormLocationLedger struct {
	db *gorm.DB
}

func NewGormLocationLedger(db *gorm.DB) *GormLocationLedger {
	return &GormLocationLedger{db: db}
}

// Append inserts the entry after checking it is not older than the latest one
// of the same parcel. Callers hold the parcel lock, so the check and the insert
// are not interleaved with another writer.
func (l *GormLocationLedger) Append(ctx context.Context, entry parcel.HistoryEntry) (int64, error) {
	latest, err := l.Latest(ctx, entry.ParcelID())
	switch {
	case err == nil:
		if entry.MovedAt().Before(latest.MovedAt()) {
			return 0, &parcel.StaleLocationUpdateError{
				ParcelID:  entry.ParcelID(),
				Latest:    latest.MovedAt(),
				Attempted: entry.MovedAt(),
			}
		}
	case !errors.Is(err, errs.ErrObjectNotFound):
		return 0, err
	}

	dto := fromDomain(entry)
	if err := l.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return 0, err
	}
	return dto.ID, nil
}

// Latest returns the newest entry; ties on moved_at resolve to the later insert.
func (l *GormLocationLedger) Latest(ctx context.Context, parcelID kernel.UUID) (parcel.HistoryEntry, error) {
	var dto LocationEntryDTO
	err := l.db.WithContext(ctx).
		Where("parcel_id = ?", parcelID.Bytes()).
		Order("moved_at DESC").
		Order("id DESC").
		Take(&dto).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return parcel.HistoryEntry{}, errs.NewObjectNotFoundError("location entry", parcelID.String())
	}
	if err != nil {
		return parcel.HistoryEntry{}, err
	}
	return toDomain(dto)
}

// History returns every entry of the parcel, oldest first.
func (l *GormLocationLedger) History(ctx context.Context, parcelID kernel.UUID) ([]parcel.HistoryEntry, error) {
	var dtos []LocationEntryDTO
	if err := l.db.WithContext(ctx).
		Where("parcel_id = ?", parcelID.Bytes()).
		Order("moved_at").
		Order("id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	entries := make([]parcel.HistoryEntry, 0, len(dtos))
	for _, dto := range dtos {
		entry, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
