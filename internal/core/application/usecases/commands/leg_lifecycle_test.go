package commands_test

import (
	"errors"
	"testing"

	"parcelflow/internal/core/application/usecases/commands"
	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/core/domain/model/leg"
	"parcelflow/internal/core/domain/model/parcel"
	"parcelflow/internal/core/domain/model/storage"
	"parcelflow/internal/core/ports"
	"parcelflow/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartLegCommandHandler_Handle_DispatchesStoredParcel(t *testing.T) {
	// Arrange
	h := newHarness(t)
	warehouseID := h.warehouse(10)
	parcelID := h.createParcel(t)
	h.stash(t, parcelID, warehouseID, 10)
	courierID := h.registerCourier(t)
	legID := h.scheduleLeg(t, &courierID, 20, parcelID)

	// Act
	h.start(t, legID, 30)

	// Assert
	p := h.store.parcel(parcelID)
	assert.Equal(t, parcel.InTransit, p.Status())
	assert.Equal(t, parcel.LocationInTransit, p.Location().Kind())
	require.NotNil(t, p.Location().Ref())
	assert.Equal(t, legID, *p.Location().Ref())
	assert.Zero(t, h.activeAssignments(parcelID, at(30)))

	l := h.store.leg(legID)
	assert.Equal(t, leg.InProgress, l.Status())

	history := h.store.ledgerOf(parcelID)
	require.Len(t, history, 2)
	assert.Equal(t, parcel.LocationWarehouse, history[0].Location().Kind())
	assert.Equal(t, parcel.LocationInTransit, history[1].Location().Kind())
	h.requireLedgerMatchesParcel(t, parcelID)

	assert.Equal(t, []string{ports.EventLegAssigned, ports.EventLegStarted}, h.eventsFor(courierID))
	assert.Equal(t, []string{ports.EventParcelStored, ports.EventLegStarted}, h.eventsFor(h.ownerID))
	assert.Zero(t, h.locker.held)
}

func TestStartLegCommandHandler_Handle_FreesWarehouseCapacity(t *testing.T) {
	// Arrange
	h := newHarness(t)
	warehouseID := h.warehouse(1)
	dispatched := h.createParcel(t)
	waiting := h.createParcel(t)
	h.stash(t, dispatched, warehouseID, 10)
	courierID := h.registerCourier(t)
	legID := h.scheduleLeg(t, &courierID, 20, dispatched)

	early, err := commands.NewAllocateStorageCommand(waiting, warehouseID, "A-2", nil, "", at(25))
	require.NoError(t, err)
	require.ErrorIs(t, h.allocateStorage().Handle(t.Context(), early), storage.ErrCapacityExceeded)

	h.start(t, legID, 30)
	cmd, err := commands.NewAllocateStorageCommand(waiting, warehouseID, "A-2", nil, "", at(40))
	require.NoError(t, err)

	// Act
	err = h.allocateStorage().Handle(t.Context(), cmd)

	// Assert
	require.NoError(t, err)
	assert.Zero(t, h.activeAssignments(dispatched, at(40)))
	assert.Equal(t, 1, h.activeAssignments(waiting, at(40)))
	assert.Equal(t, parcel.InTransit, h.store.parcel(dispatched).Status())
	h.requireLedgerMatchesParcel(t, waiting)
}

func TestStartLegCommandHandler_Handle_PartialFailureRollsBackEverything(t *testing.T) {
	// Arrange
	h := newHarness(t)
	warehouseID := h.warehouse(10)
	first := h.createParcel(t)
	second := h.createParcel(t)
	h.stash(t, first, warehouseID, 10)
	h.stash(t, second, warehouseID, 11)
	courierID := h.registerCourier(t)
	legID := h.scheduleLeg(t, &courierID, 20, first, second)

	boom := errors.New("disk full")
	h.store.failParcelUpdate[second] = boom
	cmd, err := commands.NewStartLegCommand(legID, "", at(30))
	require.NoError(t, err)

	// Act
	err = h.startLeg().Handle(t.Context(), cmd)

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrPartialStartFailure)
	assert.ErrorIs(t, err, boom)

	var failure *commands.PartialStartFailureError
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, second, failure.ParcelID)

	assert.Equal(t, leg.Scheduled, h.store.leg(legID).Status())
	for _, parcelID := range []kernel.UUID{first, second} {
		assert.Equal(t, parcel.Stored, h.store.parcel(parcelID).Status())
		assert.Equal(t, 1, h.activeAssignments(parcelID, at(30)))
		assert.Len(t, h.store.ledgerOf(parcelID), 1)
	}
	assert.NotContains(t, h.eventsFor(courierID), ports.EventLegStarted)
}

func TestStartLegCommandHandler_Handle_UnassignedLeg(t *testing.T) {
	// Arrange
	h := newHarness(t)
	parcelID := h.createParcel(t)
	h.stash(t, parcelID, h.warehouse(1), 10)
	legID := h.scheduleLeg(t, nil, 20, parcelID)
	cmd, err := commands.NewStartLegCommand(legID, "", at(30))
	require.NoError(t, err)

	// Act
	err = h.startLeg().Handle(t.Context(), cmd)

	// Assert
	require.ErrorIs(t, err, leg.ErrUnassignedLeg)
	assert.Equal(t, parcel.Stored, h.store.parcel(parcelID).Status())
}

func TestStartLegCommandHandler_Handle_LockUnavailable(t *testing.T) {
	// Arrange
	h := newHarness(t)
	h.locker.err = errs.NewConcurrentModificationError("leg", "busy")
	cmd, err := commands.NewStartLegCommand(kernel.NewUUID(), "", at(30))
	require.NoError(t, err)

	// Act
	err = h.startLeg().Handle(t.Context(), cmd)

	// Assert
	require.ErrorIs(t, err, errs.ErrConcurrentModification)
}

func TestAssignLegCommandHandler_Handle_ParcelAlreadyOnActiveLeg(t *testing.T) {
	// Arrange
	h := newHarness(t)
	parcelID := h.createParcel(t)
	h.stash(t, parcelID, h.warehouse(1), 10)
	courierID := h.registerCourier(t)
	firstLeg := h.scheduleLeg(t, &courierID, 20, parcelID)

	cmd, err := commands.NewAssignLegCommand(
		[]kernel.UUID{parcelID}, &courierID, "dock", "home", at(90), zeroAmount, at(25),
	)
	require.NoError(t, err)

	// Act
	err = h.assignLeg().Handle(t.Context(), cmd)

	// Assert
	require.ErrorIs(t, err, leg.ErrParcelAlreadyOnLeg)
	var onLeg *leg.ParcelAlreadyOnLegError
	require.ErrorAs(t, err, &onLeg)
	assert.Equal(t, firstLeg, onLeg.LegID)
}

func TestAssignLegCommandHandler_Handle_RejectsParcelNotStored(t *testing.T) {
	// Arrange
	h := newHarness(t)
	warehouseID := h.warehouse(5)
	parcelID := h.createParcel(t)
	h.stash(t, parcelID, warehouseID, 10)
	courierID := h.registerCourier(t)
	legID := h.scheduleLeg(t, &courierID, 20, parcelID)
	h.start(t, legID, 30)

	cmd, err := commands.NewAssignLegCommand(
		[]kernel.UUID{parcelID}, &courierID, "dock", "home", at(90), zeroAmount, at(40),
	)
	require.NoError(t, err)

	// Act
	err = h.assignLeg().Handle(t.Context(), cmd)

	// Assert
	require.ErrorIs(t, err, parcel.ErrInvalidTransition)
}

func TestAssignLegCommandHandler_Handle_UnknownCourier(t *testing.T) {
	// Arrange
	h := newHarness(t)
	parcelID := h.createParcel(t)
	unknown := kernel.NewUUID()
	cmd, err := commands.NewAssignLegCommand(
		[]kernel.UUID{parcelID}, &unknown, "dock", "home", at(90), zeroAmount, at(40),
	)
	require.NoError(t, err)

	// Act
	err = h.assignLeg().Handle(t.Context(), cmd)

	// Assert
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	assert.Empty(t, h.store.state.legs)
}

func TestCompleteLegCommandHandler_Handle_PartialDelivery(t *testing.T) {
	// Arrange
	h := newHarness(t)
	origin := h.warehouse(10)
	returns := h.warehouse(10)
	delivered := h.createParcel(t)
	restored := h.createParcel(t)
	h.stash(t, delivered, origin, 10)
	h.stash(t, restored, origin, 11)
	courierID := h.registerCourier(t)
	legID := h.scheduleLeg(t, &courierID, 20, delivered, restored)
	h.start(t, legID, 30)

	cmd, err := commands.NewCompleteLegCommand(legID, map[kernel.UUID]commands.ParcelOutcome{
		delivered: commands.Delivered(),
		restored:  commands.Restored(commands.StorageTarget{WarehouseID: returns, Area: "R-2"}),
	}, "recipient absent for one parcel", at(60))
	require.NoError(t, err)

	// Act
	err = h.completeLeg().Handle(t.Context(), cmd)

	// Assert
	require.NoError(t, err)

	l := h.store.leg(legID)
	assert.Equal(t, leg.Completed, l.Status())
	assert.True(t, l.IsPartial())

	d := h.store.parcel(delivered)
	assert.Equal(t, parcel.Delivered, d.Status())
	assert.Equal(t, parcel.LocationClientAddress, d.Location().Kind())
	assert.Equal(t, "12 Baker Street", d.Location().Address())

	r := h.store.parcel(restored)
	assert.Equal(t, parcel.Stored, r.Status())
	assert.Equal(t, parcel.LocationWarehouse, r.Location().Kind())
	assert.Equal(t, returns, *r.Location().Ref())

	assignments := h.store.assignments(restored)
	require.Len(t, assignments, 2)
	latest := assignments[1]
	assert.Equal(t, cmd.AssignmentID(restored), latest.ID())
	assert.Equal(t, returns, latest.WarehouseID())
	assert.True(t, latest.IsActive(at(60)))

	h.requireLedgerMatchesParcel(t, delivered)
	h.requireLedgerMatchesParcel(t, restored)
	assert.Contains(t, h.eventsFor(h.ownerID), ports.EventParcelDelivered)
	assert.Contains(t, h.eventsFor(h.ownerID), ports.EventParcelStored)
	assert.Contains(t, h.eventsFor(courierID), ports.EventLegCompleted)
}

func TestCompleteLegCommandHandler_Handle_DeliveredIsTerminal(t *testing.T) {
	// Arrange
	h := newHarness(t)
	warehouseID := h.warehouse(10)
	parcelID := h.createParcel(t)
	h.stash(t, parcelID, warehouseID, 10)
	courierID := h.registerCourier(t)
	legID := h.scheduleLeg(t, &courierID, 20, parcelID)
	h.start(t, legID, 30)

	cmd, err := commands.NewCompleteLegCommand(legID, map[kernel.UUID]commands.ParcelOutcome{
		parcelID: commands.Delivered(),
	}, "", at(60))
	require.NoError(t, err)
	require.NoError(t, h.completeLeg().Handle(t.Context(), cmd))
	assert.False(t, h.store.leg(legID).IsPartial())

	// Act
	storeCmd, err := commands.NewAllocateStorageCommand(parcelID, warehouseID, "A-1", nil, "", at(70))
	require.NoError(t, err)
	storeErr := h.allocateStorage().Handle(t.Context(), storeCmd)
	assignCmd, err := commands.NewAssignLegCommand(
		[]kernel.UUID{parcelID}, &courierID, "dock", "home", at(90), zeroAmount, at(70),
	)
	require.NoError(t, err)
	assignErr := h.assignLeg().Handle(t.Context(), assignCmd)

	// Assert
	require.ErrorIs(t, storeErr, parcel.ErrInvalidTransition)
	require.ErrorIs(t, assignErr, parcel.ErrInvalidTransition)
	assert.Equal(t, parcel.Delivered, h.store.parcel(parcelID).Status())
}

func TestCompleteLegCommandHandler_Handle_OutcomesMustMatchParcels(t *testing.T) {
	// Arrange
	h := newHarness(t)
	warehouseID := h.warehouse(10)
	first := h.createParcel(t)
	second := h.createParcel(t)
	h.stash(t, first, warehouseID, 10)
	h.stash(t, second, warehouseID, 11)
	courierID := h.registerCourier(t)
	legID := h.scheduleLeg(t, &courierID, 20, first, second)
	h.start(t, legID, 30)

	cmd, err := commands.NewCompleteLegCommand(legID, map[kernel.UUID]commands.ParcelOutcome{
		first: commands.Delivered(),
	}, "", at(60))
	require.NoError(t, err)

	// Act
	err = h.completeLeg().Handle(t.Context(), cmd)

	// Assert
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	assert.Equal(t, leg.InProgress, h.store.leg(legID).Status())
	assert.Equal(t, parcel.InTransit, h.store.parcel(first).Status())
}

func TestCompleteLegCommandHandler_Handle_RestoreOverCapacityRollsBack(t *testing.T) {
	// Arrange
	h := newHarness(t)
	origin := h.warehouse(10)
	full := h.warehouse(1)
	h.stash(t, h.createParcel(t), full, 5)
	first := h.createParcel(t)
	second := h.createParcel(t)
	h.stash(t, first, origin, 10)
	h.stash(t, second, origin, 11)
	courierID := h.registerCourier(t)
	legID := h.scheduleLeg(t, &courierID, 20, first, second)
	h.start(t, legID, 30)

	cmd, err := commands.NewCompleteLegCommand(legID, map[kernel.UUID]commands.ParcelOutcome{
		first:  commands.Delivered(),
		second: commands.Restored(commands.StorageTarget{WarehouseID: full, Area: "B"}),
	}, "", at(60))
	require.NoError(t, err)

	// Act
	err = h.completeLeg().Handle(t.Context(), cmd)

	// Assert
	require.ErrorIs(t, err, storage.ErrCapacityExceeded)
	assert.Equal(t, leg.InProgress, h.store.leg(legID).Status())
	assert.Equal(t, parcel.InTransit, h.store.parcel(first).Status())
	assert.Equal(t, parcel.InTransit, h.store.parcel(second).Status())
}

func TestCompleteLegCommandHandler_Handle_LostParcel(t *testing.T) {
	// Arrange
	h := newHarness(t)
	warehouseID := h.warehouse(10)
	parcelID := h.createParcel(t)
	h.stash(t, parcelID, warehouseID, 10)
	courierID := h.registerCourier(t)
	legID := h.scheduleLeg(t, &courierID, 20, parcelID)
	h.start(t, legID, 30)

	cmd, err := commands.NewCompleteLegCommand(legID, map[kernel.UUID]commands.ParcelOutcome{
		parcelID: commands.Lost(),
	}, "van broken into", at(60))
	require.NoError(t, err)

	// Act
	require.NoError(t, h.completeLeg().Handle(t.Context(), cmd))

	// Assert
	p := h.store.parcel(parcelID)
	assert.Equal(t, parcel.Lost, p.Status())
	assert.Equal(t, parcel.LocationUnset, p.Location().Kind())
	h.requireLedgerMatchesParcel(t, parcelID)
	assert.Contains(t, h.eventsFor(h.ownerID), ports.EventParcelLost)

	// A lost parcel that turns up can be stored again.
	h.stash(t, parcelID, warehouseID, 120)
	assert.Equal(t, parcel.Stored, h.store.parcel(parcelID).Status())
	h.requireLedgerMatchesParcel(t, parcelID)
}

func TestCancelLegCommandHandler_Handle_RestocksInTransitParcels(t *testing.T) {
	// Arrange
	h := newHarness(t)
	warehouseID := h.warehouse(10)
	parcelID := h.createParcel(t)
	h.stash(t, parcelID, warehouseID, 10)
	courierID := h.registerCourier(t)
	legID := h.scheduleLeg(t, &courierID, 20, parcelID)
	h.start(t, legID, 30)

	cmd, err := commands.NewCancelLegCommand(legID, "vehicle breakdown", nil, at(45))
	require.NoError(t, err)

	// Act
	err = h.cancelLeg().Handle(t.Context(), cmd)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, leg.Cancelled, h.store.leg(legID).Status())

	p := h.store.parcel(parcelID)
	assert.Equal(t, parcel.Stored, p.Status())
	assert.Equal(t, warehouseID, *p.Location().Ref())
	assert.Equal(t, 1, h.activeAssignments(parcelID, at(45)))
	assert.Equal(t, "A-1", h.store.assignments(parcelID)[1].Area())
	h.requireLedgerMatchesParcel(t, parcelID)
	assert.Contains(t, h.eventsFor(courierID), ports.EventLegCancelled)
}

func TestCancelLegCommandHandler_Handle_ScheduledLegKeepsStorage(t *testing.T) {
	// Arrange
	h := newHarness(t)
	parcelID := h.createParcel(t)
	assignmentID := h.stash(t, parcelID, h.warehouse(10), 10)
	courierID := h.registerCourier(t)
	legID := h.scheduleLeg(t, &courierID, 20, parcelID)

	cmd, err := commands.NewCancelLegCommand(legID, "customer request", nil, at(25))
	require.NoError(t, err)

	// Act
	require.NoError(t, h.cancelLeg().Handle(t.Context(), cmd))

	// Assert
	assert.Equal(t, leg.Cancelled, h.store.leg(legID).Status())
	assignments := h.store.assignments(parcelID)
	require.Len(t, assignments, 1)
	assert.Equal(t, assignmentID, assignments[0].ID())
	assert.True(t, assignments[0].IsActive(at(25)))

	// The parcel is free for a new leg.
	h.scheduleLeg(t, &courierID, 30, parcelID)
}

func TestCancelLegCommandHandler_Handle_ExplicitTarget(t *testing.T) {
	// Arrange
	h := newHarness(t)
	origin := h.warehouse(10)
	target := h.warehouse(10)
	parcelID := h.createParcel(t)
	h.stash(t, parcelID, origin, 10)
	courierID := h.registerCourier(t)
	legID := h.scheduleLeg(t, &courierID, 20, parcelID)
	h.start(t, legID, 30)

	cmd, err := commands.NewCancelLegCommand(legID, "road closed", map[kernel.UUID]commands.StorageTarget{
		parcelID: {WarehouseID: target, Area: "X-9"},
	}, at(45))
	require.NoError(t, err)

	// Act
	require.NoError(t, h.cancelLeg().Handle(t.Context(), cmd))

	// Assert
	assert.Equal(t, target, *h.store.parcel(parcelID).Location().Ref())
}

func TestCancelLegCommandHandler_Handle_CompletedLegRejected(t *testing.T) {
	// Arrange
	h := newHarness(t)
	parcelID := h.createParcel(t)
	h.stash(t, parcelID, h.warehouse(10), 10)
	courierID := h.registerCourier(t)
	legID := h.scheduleLeg(t, &courierID, 20, parcelID)
	h.start(t, legID, 30)
	complete, err := commands.NewCompleteLegCommand(legID, map[kernel.UUID]commands.ParcelOutcome{
		parcelID: commands.Delivered(),
	}, "", at(40))
	require.NoError(t, err)
	require.NoError(t, h.completeLeg().Handle(t.Context(), complete))

	cmd, err := commands.NewCancelLegCommand(legID, "too late", nil, at(50))
	require.NoError(t, err)

	// Act
	err = h.cancelLeg().Handle(t.Context(), cmd)

	// Assert
	require.ErrorIs(t, err, leg.ErrInvalidTransition)
}

func TestCancelLegCommandHandler_Handle_NoRestockTarget(t *testing.T) {
	// Arrange
	h := newHarness(t)
	parcelID := h.createParcel(t)
	courierID := h.registerCourier(t)
	legID := h.scheduleLeg(t, &courierID, 20, parcelID)
	h.start(t, legID, 30)

	cmd, err := commands.NewCancelLegCommand(legID, "vehicle breakdown", nil, at(45))
	require.NoError(t, err)

	// Act
	err = h.cancelLeg().Handle(t.Context(), cmd)

	// Assert
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
	assert.Equal(t, leg.InProgress, h.store.leg(legID).Status())
	assert.Equal(t, parcel.InTransit, h.store.parcel(parcelID).Status())
}

func TestUpdateLegPaymentCommandHandler_Handle(t *testing.T) {
	// Arrange
	h := newHarness(t)
	parcelID := h.createParcel(t)
	legID := h.scheduleLeg(t, nil, 20, parcelID)
	cmd, err := commands.NewUpdateLegPaymentCommand(legID, leg.PaymentPaid, decimal.RequireFromString("17.50"))
	require.NoError(t, err)

	// Act
	err = commands.NewUpdateLegPaymentCommandHandler(deliveryUoWFactory{h.store}, h.locker).Handle(t.Context(), cmd)

	// Assert
	require.NoError(t, err)
	l := h.store.leg(legID)
	assert.Equal(t, leg.PaymentPaid, l.PaymentStatus())
	assert.True(t, decimal.RequireFromString("17.50").Equal(l.Amount()))
	assert.Equal(t, 1, l.Version())
}

func TestLegHandlers_NotifyOnlyAfterLocksAreReleased(t *testing.T) {
	// Arrange
	h := newHarness(t)
	warehouseID := h.warehouse(10)
	courierID := h.registerCourier(t)
	delivered := h.createParcel(t)
	returned := h.createParcel(t)
	h.stash(t, delivered, warehouseID, 10)
	h.stash(t, returned, warehouseID, 11)

	// Act
	deliveryLeg := h.scheduleLeg(t, &courierID, 20, delivered)
	h.start(t, deliveryLeg, 30)
	complete, err := commands.NewCompleteLegCommand(deliveryLeg, map[kernel.UUID]commands.ParcelOutcome{
		delivered: commands.Delivered(),
	}, "", at(40))
	require.NoError(t, err)
	require.NoError(t, h.completeLeg().Handle(t.Context(), complete))

	returnLeg := h.scheduleLeg(t, nil, 50, returned)
	assign, err := commands.NewAssignCourierCommand(returnLeg, courierID)
	require.NoError(t, err)
	require.NoError(t, commands.NewAssignCourierCommandHandler(deliveryUoWFactory{h.store}, h.locker, h.notifier).
		Handle(t.Context(), assign))
	h.start(t, returnLeg, 60)
	cancel, err := commands.NewCancelLegCommand(returnLeg, "road closed", nil, at(70))
	require.NoError(t, err)
	require.NoError(t, h.cancelLeg().Handle(t.Context(), cancel))

	// Assert
	events := h.dispatcher.events()
	assert.Contains(t, events, ports.EventParcelStored)
	assert.Contains(t, events, ports.EventLegAssigned)
	assert.Contains(t, events, ports.EventLegStarted)
	assert.Contains(t, events, ports.EventLegCompleted)
	assert.Contains(t, events, ports.EventLegCancelled)

	h.dispatcher.mu.Lock()
	defer h.dispatcher.mu.Unlock()
	require.Len(t, h.dispatcher.heldAtNotify, len(h.dispatcher.sent))
	for i, held := range h.dispatcher.heldAtNotify {
		assert.Zero(t, held, "%s sent while %d lock sets were held", h.dispatcher.sent[i].Event, held)
	}
	assert.Zero(t, h.locker.heldCount())
}
