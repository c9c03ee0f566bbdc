package ports

import (
	"context"
	"time"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/core/domain/model/storage"
)

// StorageRepository persists storage assignments. "Active" is evaluated at the
// given instant: not released and not past its stored-until time.
type StorageRepository interface {
	Add(ctx context.Context, assignment *storage.Assignment) error

	// Update persists the release time of an assignment.
	Update(ctx context.Context, assignment *storage.Assignment) error

	Get(ctx context.Context, id kernel.UUID) (*storage.Assignment, error)

	// GetActiveByParcel returns *errs.ObjectNotFoundError when the parcel holds
	// no active assignment.
	GetActiveByParcel(ctx context.Context, parcelID kernel.UUID, now time.Time) (*storage.Assignment, error)

	// GetLatestByParcel returns the most recently created assignment of the
	// parcel, active or not.
	GetLatestByParcel(ctx context.Context, parcelID kernel.UUID) (*storage.Assignment, error)

	CountActive(ctx context.Context, warehouseID kernel.UUID, now time.Time) (int, error)

	// ListLapsed returns unreleased assignments whose stored-until time has passed.
	ListLapsed(ctx context.Context, now time.Time, limit int) ([]*storage.Assignment, error)
}
