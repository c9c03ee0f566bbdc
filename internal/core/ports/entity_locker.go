package ports

import (
	"context"

	"parcelflow/internal/core/domain/model/kernel"
)

// EntityLocker serializes mutations of the same parcel, leg or warehouse
// across processes. Acquire takes every key or none; keys are taken in a fixed
// global order so concurrent callers cannot deadlock. A key that stays busy
// past the retry budget yields *errs.ConcurrentModificationError.
type EntityLocker interface {
	Acquire(ctx context.Context, keys ...string) (release func(), err error)
}

func ParcelLockKey(id kernel.UUID) string    { return "parcel:" + id.String() }
func LegLockKey(id kernel.UUID) string       { return "leg:" + id.String() }
func WarehouseLockKey(id kernel.UUID) string { return "warehouse:" + id.String() }
