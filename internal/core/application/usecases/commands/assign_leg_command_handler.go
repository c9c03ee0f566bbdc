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

// AssignLegCommandHandler creates legs. Parcel status is not changed until the
// leg starts.
//
// Every parcel must be stored and free of other scheduled or in-progress legs;
// otherwise *parcel.InvalidTransitionError or *leg.ParcelAlreadyOnLegError is
// returned and nothing is written.
type AssignLegCommandHandler struct {
	uowFactory DeliveryUoWFactory
	locker     ports.EntityLocker
	notifier   *Notifier
}

func NewAssignLegCommandHandler(
	uowFactory DeliveryUoWFactory,
	locker ports.EntityLocker,
	notifier *Notifier,
) AssignLegCommandHandler {
	return AssignLegCommandHandler{
		uowFactory: uowFactory,
		locker:     locker,
		notifier:   notifier,
	}
}

func (h AssignLegCommandHandler) Handle(ctx context.Context, cmd AssignLegCommand) (err error) {
	if err = cmd.Validate(); err != nil {
		return err
	}

	ctx, end := startSpan(ctx, "AssignLeg",
		attribute.String("leg.id", cmd.LegID().String()),
		attribute.Int("leg.parcels", len(cmd.ParcelIDs())))
	defer end(&err)

	keys := append(parcelKeys(cmd.ParcelIDs()), ports.LegLockKey(cmd.LegID()))
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

	if courierID := cmd.CourierID(); courierID != nil {
		if _, err = uow.CourierRepository().Get(ctx, *courierID); err != nil {
			return err
		}
	}

	for _, parcelID := range cmd.ParcelIDs() {
		p, getErr := uow.ParcelRepository().Get(ctx, parcelID)
		if getErr != nil {
			return getErr
		}
		if p.Status() != parcel.Stored {
			return &parcel.InvalidTransitionError{From: p.Status(), To: parcel.InTransit}
		}

		active, findErr := legRepo.FindActiveByParcel(ctx, parcelID)
		switch {
		case findErr == nil:
			return &leg.ParcelAlreadyOnLegError{ParcelID: parcelID, LegID: active.ID()}
		case !errors.Is(findErr, errs.ErrObjectNotFound):
			return findErr
		}
	}

	l, entry, err := leg.NewLeg(
		cmd.LegID(), cmd.ParcelIDs(), cmd.CourierID(),
		cmd.Pickup(), cmd.Dropoff(), cmd.ScheduledAt(), cmd.Amount(), cmd.At(),
	)
	if err != nil {
		return err
	}

	if err = legRepo.Add(ctx, l); err != nil {
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
		out.toUser(*courierID, ports.EventLegAssigned, legPayload(l))
	}
	h.notifier.send(ctx, &out)

	return nil
}

func legPayload(l *leg.Leg) map[string]any {
	parcelIDs := make([]string, 0, len(l.ParcelIDs()))
	for _, id := range l.ParcelIDs() {
		parcelIDs = append(parcelIDs, id.String())
	}
	return map[string]any{
		"leg_id":       l.ID().String(),
		"status":       l.Status().String(),
		"pickup":       l.Pickup(),
		"dropoff":      l.Dropoff(),
		"scheduled_at": l.ScheduledAt(),
		"parcel_ids":   parcelIDs,
	}
}
