package commands

import (
	"context"
	"fmt"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/core/domain/model/leg"
	"parcelflow/internal/core/domain/model/parcel"
	"parcelflow/internal/core/domain/services"
	"parcelflow/internal/core/ports"
	"parcelflow/internal/pkg/errs"

	"go.opentelemetry.io/otel/attribute"
)

// CompleteLegCommandHandler applies the per-parcel outcomes of a leg and then
// closes it.
//
// Outcomes must name exactly the parcels of the leg. Delivered parcels go to
// the dropoff address, lost parcels lose their location, restored parcels get
// a new storage assignment. The leg becomes completed, with partial set when
// outcomes differ, only after every parcel succeeded; any failure rolls back
// the whole transaction.
type CompleteLegCommandHandler struct {
	uowFactory DeliveryUoWFactory
	locker     ports.EntityLocker
	warehouses ports.WarehouseDirectory
	notifier   *Notifier
}

func NewCompleteLegCommandHandler(
	uowFactory DeliveryUoWFactory,
	locker ports.EntityLocker,
	warehouses ports.WarehouseDirectory,
	notifier *Notifier,
) CompleteLegCommandHandler {
	return CompleteLegCommandHandler{
		uowFactory: uowFactory,
		locker:     locker,
		warehouses: warehouses,
		notifier:   notifier,
	}
}

func (h CompleteLegCommandHandler) Handle(ctx context.Context, cmd CompleteLegCommand) (err error) {
	if err = cmd.Validate(); err != nil {
		return err
	}

	ctx, end := startSpan(ctx, "CompleteLeg", attribute.String("leg.id", cmd.LegID().String()))
	defer end(&err)

	keys := append(parcelKeys(cmd.ParcelIDs()), ports.LegLockKey(cmd.LegID()))
	for _, warehouseID := range cmd.WarehouseIDs() {
		keys = append(keys, ports.WarehouseLockKey(warehouseID))
	}
	locks := newHeldLocks(h.locker)
	defer locks.free()

	if err = locks.acquire(ctx, keys...); err != nil {
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

	if !l.Status().CanTransition(leg.Completed) {
		return &leg.InvalidTransitionError{LegID: l.ID(), From: l.Status(), To: leg.Completed}
	}
	if err = matchOutcomes(l, cmd); err != nil {
		return err
	}

	allocator := newStorageAllocator(uow, h.warehouses)
	mover := services.NewParcelMover()
	var out outbox
	applied := make([]services.Outcome, 0, len(l.ParcelIDs()))

	for _, parcelID := range l.ParcelIDs() {
		outcome, _ := cmd.Outcome(parcelID)
		p, applyErr := h.apply(ctx, uow, allocator, mover, l, parcelID, outcome, cmd)
		if applyErr != nil {
			return applyErr
		}
		applied = append(applied, outcome.Outcome)
		queueOutcome(&out, p, l, outcome.Outcome)
	}

	entry, err := l.Complete(cmd.At(), services.IsPartial(applied), cmd.Remarks())
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
		payload["partial"] = l.IsPartial()
		out.toUser(*courierID, ports.EventLegCompleted, payload)
	}
	h.notifier.send(ctx, &out)

	return nil
}

func (h CompleteLegCommandHandler) apply(
	ctx context.Context,
	uow DeliveryUoW,
	allocator storageAllocator,
	mover services.ParcelMover,
	l *leg.Leg,
	parcelID kernel.UUID,
	outcome ParcelOutcome,
	cmd CompleteLegCommand,
) (*parcel.Parcel, error) {
	p, err := uow.ParcelRepository().Get(ctx, parcelID)
	if err != nil {
		return nil, err
	}

	if outcome.Outcome == services.OutcomeRestored {
		description := fmt.Sprintf("restored from leg %s", l.ID())
		if _, err = allocator.allocate(ctx, cmd.AssignmentID(parcelID), p, *outcome.Target, description, cmd.At()); err != nil {
			return nil, err
		}
		return p, nil
	}

	var entry parcel.HistoryEntry
	if outcome.Outcome == services.OutcomeDelivered {
		entry, err = mover.Deliver(p, l, cmd.At())
	} else {
		entry, err = mover.MarkLost(p, l, cmd.Remarks(), cmd.At())
	}
	if err != nil {
		return nil, err
	}

	if err = persistMove(ctx, uow.ParcelRepository(), uow.LocationLedger(), p, entry); err != nil {
		return nil, err
	}
	return p, nil
}

// matchOutcomes checks the command names exactly the leg's parcels.
func matchOutcomes(l *leg.Leg, cmd CompleteLegCommand) error {
	ids := cmd.ParcelIDs()
	if len(ids) != len(l.ParcelIDs()) {
		return errs.NewValueIsInvalidErrorWithCause(
			"outcomes are invalid",
			fmt.Errorf("leg %s carries %d parcels, got %d outcomes", l.ID(), len(l.ParcelIDs()), len(ids)),
		)
	}
	for _, id := range ids {
		if !l.ContainsParcel(id) {
			return errs.NewValueIsInvalidErrorWithCause(
				"outcomes are invalid",
				fmt.Errorf("parcel %s is not on leg %s", id, l.ID()),
			)
		}
	}
	return nil
}

func queueOutcome(out *outbox, p *parcel.Parcel, l *leg.Leg, outcome services.Outcome) {
	event := ports.EventParcelStored
	switch outcome {
	case services.OutcomeDelivered:
		event = ports.EventParcelDelivered
	case services.OutcomeLost:
		event = ports.EventParcelLost
	}
	out.toOwner(p.AnnouncementID(), event, map[string]any{
		"leg_id":          l.ID().String(),
		"parcel_id":       p.ID().String(),
		"tracking_number": p.TrackingNumber(),
		"location":        p.Location().String(),
	})
}
