package commands

import (
	"context"
	"errors"
	"fmt"

	"parcelflow/internal/core/domain/model/courier"
	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/core/domain/model/leg"
	"parcelflow/internal/core/ports"
	"parcelflow/internal/pkg/errs"
)

// RecordPositionCommandHandler ingests courier telemetry.
//
// Every valid sample is appended to the position ledger. The courier's cached
// position is replaced by a single conditional write only when the sample is
// newer than the cached one, so late samples are kept for audit but never
// become current. No entity lock is taken.
//
// Without an explicit leg the sample is tagged with the courier's in-progress
// leg, if any. An explicit leg must be that leg.
type RecordPositionCommandHandler struct {
	uowFactory TelemetryUoWFactory
}

func NewRecordPositionCommandHandler(uowFactory TelemetryUoWFactory) RecordPositionCommandHandler {
	return RecordPositionCommandHandler{uowFactory: uowFactory}
}

// RecordPositionResult tells the caller where the sample went.
type RecordPositionResult struct {
	SampleID      int64
	LegID         *kernel.UUID
	PositionMoved bool
}

func (h RecordPositionCommandHandler) Handle(ctx context.Context, cmd RecordPositionCommand) (RecordPositionResult, error) {
	if err := cmd.Validate(); err != nil {
		return RecordPositionResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return RecordPositionResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	courierRepo := uow.CourierRepository()
	if _, err := courierRepo.Get(ctx, cmd.CourierID()); err != nil {
		return RecordPositionResult{}, err
	}

	legID, err := h.resolveLeg(ctx, uow.LegRepository(), cmd)
	if err != nil {
		return RecordPositionResult{}, err
	}

	sample, err := courier.NewPositionSample(
		cmd.CourierID(), legID, cmd.Point(), cmd.Telemetry(), cmd.CapturedAt(), cmd.ReceivedAt(),
	)
	if err != nil {
		return RecordPositionResult{}, err
	}

	sampleID, err := uow.PositionLedger().Append(ctx, sample)
	if err != nil {
		return RecordPositionResult{}, err
	}

	moved, err := courierRepo.UpdatePositionIfNewer(ctx, cmd.CourierID(), sample.Position())
	if err != nil {
		return RecordPositionResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return RecordPositionResult{}, err
	}

	return RecordPositionResult{SampleID: sampleID, LegID: legID, PositionMoved: moved}, nil
}

func (h RecordPositionCommandHandler) resolveLeg(
	ctx context.Context,
	legRepo ports.LegRepository,
	cmd RecordPositionCommand,
) (*kernel.UUID, error) {
	if explicit := cmd.LegID(); explicit != nil {
		l, err := legRepo.Get(ctx, *explicit)
		if err != nil {
			return nil, err
		}
		courierID := l.CourierID()
		if l.Status() != leg.InProgress || courierID == nil || !courierID.IsEqual(cmd.CourierID()) {
			return nil, errs.NewValueIsInvalidErrorWithCause(
				"leg is invalid",
				fmt.Errorf("leg %s is not in progress for courier %s", l.ID(), cmd.CourierID()),
			)
		}
		id := l.ID()
		return &id, nil
	}

	active, err := legRepo.FindInProgressByCourier(ctx, cmd.CourierID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	id := active.ID()
	return &id, nil
}
