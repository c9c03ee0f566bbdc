package commands

import (
	"context"
	"time"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/core/domain/model/leg"
	"parcelflow/internal/core/domain/model/parcel"
	"parcelflow/internal/core/domain/services"
	"parcelflow/internal/core/ports"

	"go.opentelemetry.io/otel/attribute"
)

// StartLegCommandHandler puts a leg in progress and takes its parcels out of
// storage.
//
// For every parcel the active storage assignment is released, the parcel moves
// stored -> in_transit and an in_transit ledger entry referencing the leg is
// appended. All of it happens in one transaction: if any parcel fails, the
// handler returns *PartialStartFailureError and nothing is persisted.
type StartLegCommandHandler struct {
	uowFactory DeliveryUoWFactory
	locker     ports.EntityLocker
	warehouses ports.WarehouseDirectory
	notifier   *Notifier
}

func NewStartLegCommandHandler(
	uowFactory DeliveryUoWFactory,
	locker ports.EntityLocker,
	warehouses ports.WarehouseDirectory,
	notifier *Notifier,
) StartLegCommandHandler {
	return StartLegCommandHandler{
		uowFactory: uowFactory,
		locker:     locker,
		warehouses: warehouses,
		notifier:   notifier,
	}
}

func (h StartLegCommandHandler) Handle(ctx context.Context, cmd StartLegCommand) (err error) {
	if err = cmd.Validate(); err != nil {
		return err
	}

	ctx, end := startSpan(ctx, "StartLeg", attribute.String("leg.id", cmd.LegID().String()))
	defer end(&err)

	locks := newHeldLocks(h.locker)
	defer locks.free()

	if err = locks.acquire(ctx, ports.LegLockKey(cmd.LegID())); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	legRepo := uow.LegRepository()
	l, err := legRepo.Get(ctx, cmd.LegID())
	if err != nil {
		return err
	}

	if err = locks.acquire(ctx, parcelKeys(l.ParcelIDs())...); err != nil {
		return err
	}

	entry, err := l.Start(cmd.At(), cmd.Remarks())
	if err != nil {
		return err
	}

	allocator := newStorageAllocator(uow, h.warehouses)
	mover := services.NewParcelMover()
	parcels := make([]*parcel.Parcel, 0, len(l.ParcelIDs()))

	for _, parcelID := range l.ParcelIDs() {
		p, moveErr := h.dispatch(ctx, uow, allocator, mover, l, parcelID, cmd.At())
		if moveErr != nil {
			return &PartialStartFailureError{LegID: l.ID(), ParcelID: parcelID, Cause: moveErr}
		}
		parcels = append(parcels, p)
	}

	if err = legRepo.Update(ctx, l); err != nil {
		return err
	}
	if _, err = legRepo.AppendHistory(ctx, entry); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}
	locks.free()

	var out outbox
	if courierID := l.CourierID(); courierID != nil {
		out.toUser(*courierID, ports.EventLegStarted, legPayload(l))
	}
	for _, p := range parcels {
		out.toOwner(p.AnnouncementID(), ports.EventLegStarted, map[string]any{
			"leg_id":          l.ID().String(),
			"parcel_id":       p.ID().String(),
			"tracking_number": p.TrackingNumber(),
		})
	}
	h.notifier.send(ctx, &out)

	return nil
}

func (h StartLegCommandHandler) dispatch(
	ctx context.Context,
	uow DeliveryUoW,
	allocator storageAllocator,
	mover services.ParcelMover,
	l *leg.Leg,
	parcelID kernel.UUID,
	at time.Time,
) (*parcel.Parcel, error) {
	p, err := uow.ParcelRepository().Get(ctx, parcelID)
	if err != nil {
		return nil, err
	}

	if err = allocator.releaseActive(ctx, parcelID, at); err != nil {
		return nil, err
	}

	entry, err := mover.Dispatch(p, l, at)
	if err != nil {
		return nil, err
	}

	if err = persistMove(ctx, uow.ParcelRepository(), uow.LocationLedger(), p, entry); err != nil {
		return nil, err
	}
	return p, nil
}
