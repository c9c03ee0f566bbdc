package commands

import (
	"context"
	"errors"
	"fmt"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/core/domain/model/leg"
	"parcelflow/internal/core/domain/model/parcel"
	"parcelflow/internal/core/domain/services"
	"parcelflow/internal/core/ports"
	"parcelflow/internal/pkg/errs"

	"go.opentelemetry.io/otel/attribute"
)

// CancelLegCommandHandler cancels a leg without leaving any parcel in transit.
//
// Parcels still stored (the leg never started) keep their storage. Each
// in-transit parcel is stored again with a fresh assignment before the leg
// is marked cancelled; a parcel with neither an explicit target nor a previous
// warehouse fails the cancellation with *errs.ValueIsRequiredError.
type CancelLegCommandHandler struct {
	uowFactory DeliveryUoWFactory
	locker     ports.EntityLocker
	warehouses ports.WarehouseDirectory
	notifier   *Notifier
}

func NewCancelLegCommandHandler(
	uowFactory DeliveryUoWFactory,
	locker ports.EntityLocker,
	warehouses ports.WarehouseDirectory,
	notifier *Notifier,
) CancelLegCommandHandler {
	return CancelLegCommandHandler{
		uowFactory: uowFactory,
		locker:     locker,
		warehouses: warehouses,
		notifier:   notifier,
	}
}

type restockPlan struct {
	parcel *parcel.Parcel
	target StorageTarget
}

func (h CancelLegCommandHandler) Handle(ctx context.Context, cmd CancelLegCommand) (err error) {
	if err = cmd.Validate(); err != nil {
		return err
	}

	ctx, end := startSpan(ctx, "CancelLeg", attribute.String("leg.id", cmd.LegID().String()))
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
	if !l.Status().CanTransition(leg.Cancelled) {
		return &leg.InvalidTransitionError{LegID: l.ID(), From: l.Status(), To: leg.Cancelled}
	}

	if err = locks.acquire(ctx, parcelKeys(l.ParcelIDs())...); err != nil {
		return err
	}

	plans, err := h.plan(ctx, uow, l, cmd)
	if err != nil {
		return err
	}

	warehouseKeys := make([]string, 0, len(plans))
	for _, plan := range plans {
		warehouseKeys = append(warehouseKeys, ports.WarehouseLockKey(plan.target.WarehouseID))
	}
	if err = locks.acquire(ctx, warehouseKeys...); err != nil {
		return err
	}

	allocator := newStorageAllocator(uow, h.warehouses)
	var out outbox
	for _, plan := range plans {
		description := fmt.Sprintf("restocked after leg %s was cancelled", l.ID())
		if _, err = allocator.allocate(ctx, kernel.NewUUID(), plan.parcel, plan.target, description, cmd.At()); err != nil {
			return err
		}
		queueOutcome(&out, plan.parcel, l, services.OutcomeRestored)
	}

	entry, err := l.Cancel(cmd.At(), cmd.Reason())
	if err != nil {
		return err
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

	if courierID := l.CourierID(); courierID != nil {
		payload := legPayload(l)
		payload["reason"] = cmd.Reason()
		out.toUser(*courierID, ports.EventLegCancelled, payload)
	}
	h.notifier.send(ctx, &out)

	return nil
}

// plan picks the storage target of every in-transit parcel on the leg.
func (h CancelLegCommandHandler) plan(ctx context.Context, uow DeliveryUoW, l *leg.Leg, cmd CancelLegCommand) ([]restockPlan, error) {
	plans := make([]restockPlan, 0, len(l.ParcelIDs()))

	for _, parcelID := range l.ParcelIDs() {
		p, err := uow.ParcelRepository().Get(ctx, parcelID)
		if err != nil {
			return nil, err
		}
		if p.Status() != parcel.InTransit {
			continue
		}

		target, ok := cmd.RestockTarget(parcelID)
		if !ok {
			target, err = h.previousWarehouse(ctx, uow, parcelID)
			if err != nil {
				return nil, err
			}
		}
		plans = append(plans, restockPlan{parcel: p, target: target})
	}

	return plans, nil
}

func (h CancelLegCommandHandler) previousWarehouse(ctx context.Context, uow DeliveryUoW, parcelID kernel.UUID) (StorageTarget, error) {
	latest, err := uow.StorageRepository().GetLatestByParcel(ctx, parcelID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return StorageTarget{}, errs.NewValueIsRequiredError(fmt.Sprintf("restock target for parcel %s", parcelID))
	}
	if err != nil {
		return StorageTarget{}, err
	}
	return StorageTarget{WarehouseID: latest.WarehouseID(), Area: latest.Area()}, nil
}
