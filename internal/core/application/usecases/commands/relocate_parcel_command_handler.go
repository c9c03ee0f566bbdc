package commands

import (
	"context"
	"errors"
	"fmt"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/core/domain/model/parcel"
	"parcelflow/internal/core/ports"
	"parcelflow/internal/pkg/errs"
)

type RelocateParcelCommandHandler struct {
	uowFactory StorageUoWFactory
	locker     ports.EntityLocker
	warehouses ports.WarehouseDirectory
}

func NewRelocateParcelCommandHandler(
	uowFactory StorageUoWFactory,
	locker ports.EntityLocker,
	warehouses ports.WarehouseDirectory,
) RelocateParcelCommandHandler {
	return RelocateParcelCommandHandler{
		uowFactory: uowFactory,
		locker:     locker,
		warehouses: warehouses,
	}
}

// Handle appends a ledger entry for the new place; status is unchanged.
//
// A move into a warehouse other than the one the parcel is assigned to goes
// through the storage allocator: the old assignment is released and a new one
// is created, subject to the target's capacity.
func (h RelocateParcelCommandHandler) Handle(ctx context.Context, cmd RelocateParcelCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	keys := []string{ports.ParcelLockKey(cmd.ParcelID())}
	if warehouseID := cmd.WarehouseID(); warehouseID != nil {
		keys = append(keys, ports.WarehouseLockKey(*warehouseID))
	}
	release, err := h.locker.Acquire(ctx, keys...)
	if err != nil {
		return err
	}
	defer release()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	parcelRepo := uow.ParcelRepository()
	p, err := parcelRepo.Get(ctx, cmd.ParcelID())
	if err != nil {
		return err
	}

	description := cmd.Description()
	if description == "" {
		description = "manual relocation"
	}

	if warehouseID := cmd.WarehouseID(); warehouseID != nil {
		moved, moveErr := h.intoWarehouse(ctx, uow, p, *warehouseID, cmd, description)
		if moveErr != nil {
			return moveErr
		}
		if moved {
			return uow.Commit(ctx)
		}
	}

	entry, err := p.Relocate(cmd.Location(), description, cmd.At())
	if err != nil {
		return err
	}

	if err = persistMove(ctx, parcelRepo, uow.LocationLedger(), p, entry); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// intoWarehouse reassigns the parcel to warehouseID. It reports false when the
// parcel is already assigned there and only its place inside has to change.
func (h RelocateParcelCommandHandler) intoWarehouse(
	ctx context.Context,
	uow StorageUoW,
	p *parcel.Parcel,
	warehouseID kernel.UUID,
	cmd RelocateParcelCommand,
	description string,
) (bool, error) {
	if p.Status() != parcel.Stored {
		return false, fmt.Errorf("%w: parcel is %s", parcel.ErrRelocationNotAllowed, p.Status())
	}

	current, err := uow.StorageRepository().GetActiveByParcel(ctx, p.ID(), cmd.At())
	switch {
	case err == nil && current.WarehouseID() == warehouseID:
		return false, nil
	case err != nil && !errors.Is(err, errs.ErrObjectNotFound):
		return false, err
	}

	allocator := newStorageAllocator(uow, h.warehouses)
	if err = allocator.releaseActive(ctx, p.ID(), cmd.At()); err != nil {
		return false, err
	}

	target := StorageTarget{WarehouseID: warehouseID, Area: cmd.Area()}
	if _, err = allocator.allocate(ctx, cmd.AssignmentID(), p, target, description, cmd.At()); err != nil {
		return false, err
	}
	return true, nil
}
