package commands

import (
	"context"

	"parcelflow/internal/core/ports"
)

type UpdateLegPaymentCommandHandler struct {
	uowFactory DeliveryUoWFactory
	locker     ports.EntityLocker
}

func NewUpdateLegPaymentCommandHandler(uowFactory DeliveryUoWFactory, locker ports.EntityLocker) UpdateLegPaymentCommandHandler {
	return UpdateLegPaymentCommandHandler{
		uowFactory: uowFactory,
		locker:     locker,
	}
}

func (h UpdateLegPaymentCommandHandler) Handle(ctx context.Context, cmd UpdateLegPaymentCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	release, err := h.locker.Acquire(ctx, ports.LegLockKey(cmd.LegID()))
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

	legRepo := uow.LegRepository()
	l, err := legRepo.Get(ctx, cmd.LegID())
	if err != nil {
		return err
	}

	if err = l.UpdatePayment(cmd.Status(), cmd.Amount()); err != nil {
		return err
	}

	if err = legRepo.Update(ctx, l); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
