package commands

import (
	"context"
	"errors"

	"parcelflow/internal/core/domain/model/courier"
	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/core/domain/services"
	"parcelflow/internal/core/ports"
)

var ErrNoFreeCouriersFound = errors.New("no free couriers found")

// AssignCourierCommandHandler gives a scheduled leg its courier.
// In nearest mode the candidates come from a bounding-box scan around the
// origin and CourierLocator picks the closest available on-duty courier.
//
// Example:
//
//	handler := NewAssignCourierCommandHandler(uowFactory, locker, notifier)
//	cmd, _ := NewAssignCourierCommand(legID, courierID)
//	err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, leg.ErrCourierChangeRejected):
//	    log.Println("Leg already started")
//	case err != nil:
//	    log.Printf("Assignment failed: %v", err)
//	}
type AssignCourierCommandHandler struct {
	uowFactory DeliveryUoWFactory
	locker     ports.EntityLocker
	notifier   *Notifier
}

func NewAssignCourierCommandHandler(
	uowFactory DeliveryUoWFactory,
	locker ports.EntityLocker,
	notifier *Notifier,
) AssignCourierCommandHandler {
	return AssignCourierCommandHandler{
		uowFactory: uowFactory,
		locker:     locker,
		notifier:   notifier,
	}
}

// Handle processes the courier assignment command.
func (h AssignCourierCommandHandler) Handle(ctx context.Context, command AssignCourierCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	locks := newHeldLocks(h.locker)
	defer locks.free()

	if err := locks.acquire(ctx, ports.LegLockKey(command.LegID())); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	courierRepo := uow.CourierRepository()
	legRepo := uow.LegRepository()

	l, err := legRepo.Get(ctx, command.LegID())
	if err != nil {
		return err
	}

	var assigned *courier.Courier
	if id := command.CourierID(); id != nil {
		assigned, err = courierRepo.Get(ctx, *id)
	} else {
		assigned, err = h.nearest(ctx, courierRepo, *command.Origin())
	}
	if err != nil {
		return err
	}

	if err = l.AssignCourier(assigned.ID()); err != nil {
		return err
	}

	if err = legRepo.Update(ctx, l); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}
	locks.free()

	var out outbox
	out.toUser(assigned.ID(), ports.EventLegAssigned, legPayload(l))
	h.notifier.send(ctx, &out)

	return nil
}

func (h AssignCourierCommandHandler) nearest(
	ctx context.Context,
	courierRepo ports.CourierRepository,
	origin kernel.GeoPoint,
) (*courier.Courier, error) {
	minLat, maxLat, minLon, maxLon := origin.BoundingBox(services.MaxSearchRadiusKm)
	candidates, err := courierRepo.FindInBox(ctx, minLat, maxLat, minLon, maxLon)
	if err != nil {
		return nil, err
	}

	closest, err := services.NewCourierLocator().Closest(
		origin, services.MaxSearchRadiusKm, candidates,
		services.NearbyFilter{AvailableOnly: true, OnDutyOnly: true},
	)
	if errors.Is(err, services.ErrCourierNotFound) {
		return nil, ErrNoFreeCouriersFound
	}
	return closest, err
}
