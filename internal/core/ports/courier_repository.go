package ports

import (
	"context"

	"parcelflow/internal/core/domain/model/courier"
	"parcelflow/internal/core/domain/model/kernel"
)

// CourierRepository persists courier aggregates.
type CourierRepository interface {
	Add(ctx context.Context, aggregate *courier.Courier) error

	// Update writes flags and documents. The cached position is never written
	// here; see UpdatePositionIfNewer.
	Update(ctx context.Context, aggregate *courier.Courier) error

	Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error)

	// FindInBox returns couriers whose cached position lies inside the box.
	FindInBox(ctx context.Context, minLat, maxLat, minLon, maxLon float64) ([]*courier.Courier, error)

	// UpdatePositionIfNewer replaces the cached position in one conditional
	// write, only when pos is newer than the cached one. It reports whether the
	// cache changed and returns *errs.ObjectNotFoundError for unknown couriers.
	UpdatePositionIfNewer(ctx context.Context, courierID kernel.UUID, pos courier.Position) (bool, error)
}

// PositionLedger is the append-only store of raw position samples.
type PositionLedger interface {
	Append(ctx context.Context, sample courier.PositionSample) (int64, error)
}
