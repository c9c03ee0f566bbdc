package commands

import (
	"context"
	"errors"

	"parcelflow/internal/core/domain/model/leg"
	"parcelflow/internal/core/domain/model/parcel"
	"parcelflow/internal/core/ports"
	"parcelflow/internal/pkg/errs"

	"go.opentelemetry.io/otel/attribute"
)

// AllocateStorageCommandHandler stores a parcel in a warehouse.
//
// Stored parcels are moved into the warehouse and lost parcels are recovered
// into it. A parcel carried by an active leg is refused; it comes back through
// the leg's completion or cancellation instead.
type AllocateStorageCommandHandler struct {
	uowFactory StorageUoWFactory
	locker     ports.EntityLocker
	warehouses ports.WarehouseDirectory
	notifier   *Notifier
}

func NewAllocateStorageCommandHandler(
	uowFactory StorageUoWFactory,
	locker ports.EntityLocker,
	warehouses ports.WarehouseDirectory,
	notifier *Notifier,
) AllocateStorageCommandHandler {
	return AllocateStorageCommandHandler{
		uowFactory: uowFactory,
		locker:     locker,
		warehouses: warehouses,
		notifier:   notifier,
	}
}

func (h AllocateStorageCommandHandler) Handle(ctx context.Context, cmd AllocateStorageCommand) (err error) {
	if err = cmd.Validate(); err != nil {
		return err
	}

	ctx, end := startSpan(ctx, "AllocateStorage",
		attribute.String("parcel.id", cmd.ParcelID().String()),
		attribute.String("warehouse.id", cmd.Target().WarehouseID.String()))
	defer end(&err)

	locks := newHeldLocks(h.locker)
	defer locks.free()

	if err = locks.acquire(ctx,
		ports.ParcelLockKey(cmd.ParcelID()),
		ports.WarehouseLockKey(cmd.Target().WarehouseID)); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	p, err := uow.ParcelRepository().Get(ctx, cmd.ParcelID())
	if err != nil {
		return err
	}

	if p.Status() == parcel.InTransit {
		active, legErr := uow.LegRepository().FindActiveByParcel(ctx, p.ID())
		switch {
		case legErr == nil:
			return &leg.ParcelAlreadyOnLegError{ParcelID: p.ID(), LegID: active.ID()}
		case !errors.Is(legErr, errs.ErrObjectNotFound):
			return legErr
		}
	}

	description := cmd.Description()
	if description == "" {
		description = "stored in area " + cmd.Target().Area
	}

	if _, err = newStorageAllocator(uow, h.warehouses).allocate(
		ctx, cmd.AssignmentID(), p, cmd.Target(), description, cmd.At(),
	); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}
	locks.free()

	var out outbox
	out.toOwner(p.AnnouncementID(), ports.EventParcelStored, map[string]any{
		"parcel_id":       p.ID().String(),
		"tracking_number": p.TrackingNumber(),
		"warehouse_id":    cmd.Target().WarehouseID.String(),
	})
	h.notifier.send(ctx, &out)

	return nil
}
