package ports

import (
	"context"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/core/domain/model/leg"
)

// LegRepository persists legs, their parcel associations and their status history.
type LegRepository interface {
	// Add persists a new leg together with one association record per parcel.
	Add(ctx context.Context, aggregate *leg.Leg) error

	// Update writes the leg if its stored version still equals aggregate.Version().
	Update(ctx context.Context, aggregate *leg.Leg) error

	Get(ctx context.Context, id kernel.UUID) (*leg.Leg, error)

	// AppendHistory stores a status change and returns its id. Entries older
	// than the leg's latest one are rejected with *leg.StaleHistoryError.
	AppendHistory(ctx context.Context, entry leg.HistoryEntry) (int64, error)

	// History returns the status changes of a leg, oldest first.
	History(ctx context.Context, legID kernel.UUID) ([]leg.HistoryEntry, error)

	// FindActiveByParcel returns the scheduled or in-progress leg carrying the
	// parcel, or *errs.ObjectNotFoundError.
	FindActiveByParcel(ctx context.Context, parcelID kernel.UUID) (*leg.Leg, error)

	// FindInProgressByCourier returns the courier's in-progress leg, or
	// *errs.ObjectNotFoundError.
	FindInProgressByCourier(ctx context.Context, courierID kernel.UUID) (*leg.Leg, error)
}
