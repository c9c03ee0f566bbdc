// Package ports defines the contracts between the tracking engine core and its
// infrastructure: repositories, the unit of work, locking, and the external
// collaborators the engine consumes.
package ports

import (
	"context"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/core/domain/model/parcel"
)

// ParcelRepository persists parcel aggregates.
type ParcelRepository interface {
	// Add persists a new parcel.
	Add(ctx context.Context, aggregate *parcel.Parcel) error

	// Update writes the parcel if its stored version still equals aggregate.Version().
	// A lost race yields *errs.ConcurrentModificationError. On success the
	// aggregate's version is incremented.
	Update(ctx context.Context, aggregate *parcel.Parcel) error

	// Get returns *errs.ObjectNotFoundError for unknown ids.
	Get(ctx context.Context, id kernel.UUID) (*parcel.Parcel, error)

	GetByTrackingNumber(ctx context.Context, trackingNumber string) (*parcel.Parcel, error)
}

// LocationLedger is the append-only record of every place a parcel has been.
type LocationLedger interface {
	// Append stores the entry and returns its id. An entry older than the
	// parcel's latest one is rejected with *parcel.StaleLocationUpdateError.
	Append(ctx context.Context, entry parcel.HistoryEntry) (int64, error)

	// Latest returns the most recent entry, or *errs.ObjectNotFoundError when
	// the parcel has none yet.
	Latest(ctx context.Context, parcelID kernel.UUID) (parcel.HistoryEntry, error)

	// History returns all entries of the parcel, oldest first.
	History(ctx context.Context, parcelID kernel.UUID) ([]parcel.HistoryEntry, error)
}
