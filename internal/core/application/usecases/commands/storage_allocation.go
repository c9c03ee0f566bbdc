package commands

import (
	"context"
	"errors"
	"time"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/core/domain/model/parcel"
	"parcelflow/internal/core/domain/model/storage"
	"parcelflow/internal/core/domain/services"
	"parcelflow/internal/core/ports"
	"parcelflow/internal/pkg/errs"
)

// StorageTarget says where a parcel should be stored.
type StorageTarget struct {
	WarehouseID kernel.UUID
	Area        string
	StoredUntil *time.Time
}

func (t StorageTarget) validate() error {
	if err := t.WarehouseID.Validate(); err != nil {
		return err
	}
	if t.Area == "" {
		return errs.NewValueIsRequiredError("storage area")
	}
	return nil
}

// storageAllocator stores parcels in warehouses. Callers hold the parcel and
// warehouse locks and an open transaction.
type storageAllocator struct {
	parcels    ports.ParcelRepository
	ledger     ports.LocationLedger
	storages   ports.StorageRepository
	warehouses ports.WarehouseDirectory
}

func newStorageAllocator(uow interface {
	ParcelRepoFactory
	StorageRepoFactory
}, warehouses ports.WarehouseDirectory) storageAllocator {
	return storageAllocator{
		parcels:    uow.ParcelRepository(),
		ledger:     uow.LocationLedger(),
		storages:   uow.StorageRepository(),
		warehouses: warehouses,
	}
}

// allocate checks capacity, creates the assignment and moves the parcel into
// the warehouse with a ledger entry.
func (a storageAllocator) allocate(
	ctx context.Context,
	assignmentID kernel.UUID,
	p *parcel.Parcel,
	target StorageTarget,
	description string,
	at time.Time,
) (*storage.Assignment, error) {
	current, err := a.storages.GetActiveByParcel(ctx, p.ID(), at)
	if err != nil && !errors.Is(err, errs.ErrObjectNotFound) {
		return nil, err
	}

	capacity, err := a.warehouses.GetCapacity(ctx, target.WarehouseID)
	if err != nil {
		return nil, err
	}
	active, err := a.storages.CountActive(ctx, target.WarehouseID, at)
	if err != nil {
		return nil, err
	}

	if err := storage.NewAllocator().CanAllocate(p.ID(), target.WarehouseID, current, active, capacity, at); err != nil {
		return nil, err
	}

	assignment, err := storage.NewAssignment(
		assignmentID, p.ID(), target.WarehouseID, target.Area, target.StoredUntil, description, at,
	)
	if err != nil {
		return nil, err
	}

	entry, err := services.NewParcelMover().Restock(p, target.WarehouseID, description, at)
	if err != nil {
		return nil, err
	}
	if err := persistMove(ctx, a.parcels, a.ledger, p, entry); err != nil {
		return nil, err
	}
	if err := a.storages.Add(ctx, assignment); err != nil {
		return nil, err
	}

	return assignment, nil
}

// releaseActive frees the parcel's active assignment, if it has one.
func (a storageAllocator) releaseActive(ctx context.Context, parcelID kernel.UUID, at time.Time) error {
	current, err := a.storages.GetActiveByParcel(ctx, parcelID, at)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if !current.Release(at) {
		return nil
	}
	return a.storages.Update(ctx, current)
}

// persistMove writes the parcel and its ledger entry. Both happen inside the
// caller's transaction so they are never observed apart.
func persistMove(
	ctx context.Context,
	parcels ports.ParcelRepository,
	ledger ports.LocationLedger,
	p *parcel.Parcel,
	entry parcel.HistoryEntry,
) error {
	if err := parcels.Update(ctx, p); err != nil {
		return err
	}
	_, err := ledger.Append(ctx, entry)
	return err
}

// parcelKeys returns the lock keys of the given parcels.
func parcelKeys(ids []kernel.UUID) []string {
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, ports.ParcelLockKey(id))
	}
	return keys
}
