package commands_test

import (
	"testing"
	"time"

	"parcelflow/internal/core/application/usecases/commands"
	"parcelflow/internal/core/domain/model/courier"
	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var t0 = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

func at(minutes int) time.Time {
	return t0.Add(time.Duration(minutes) * time.Minute)
}

// harness wires every handler to one in-memory store.
type harness struct {
	store         *memStore
	locker        *fakeLocker
	dispatcher    *recordingDispatcher
	announcements stubAnnouncements
	warehouses    stubWarehouses
	notifier      *commands.Notifier

	ownerID        kernel.UUID
	announcementID kernel.UUID
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		store:          newMemStore(),
		locker:         &fakeLocker{},
		dispatcher:     &recordingDispatcher{},
		warehouses:     stubWarehouses{},
		ownerID:        kernel.NewUUID(),
		announcementID: kernel.NewUUID(),
	}
	h.announcements = stubAnnouncements{
		h.announcementID: {ID: h.announcementID, OwnerID: h.ownerID, Status: "open"},
	}
	h.dispatcher.locker = h.locker
	h.notifier = commands.NewNotifier(h.dispatcher, h.announcements, zap.NewNop())
	return h
}

func (h *harness) warehouse(capacity int) kernel.UUID {
	id := kernel.NewUUID()
	h.warehouses[id] = capacity
	return id
}

func (h *harness) createParcel(t *testing.T) kernel.UUID {
	t.Helper()

	cmd, err := commands.NewCreateParcelCommand(&h.announcementID, 1200, 300, 200, 100, "books", t0)
	require.NoError(t, err)
	require.NoError(t, commands.NewCreateParcelCommandHandler(parcelUoWFactory{h.store}, h.announcements).Handle(t.Context(), cmd))
	return cmd.ParcelID()
}

func (h *harness) allocateStorage() commands.AllocateStorageCommandHandler {
	return commands.NewAllocateStorageCommandHandler(storageUoWFactory{h.store}, h.locker, h.warehouses, h.notifier)
}

func (h *harness) stash(t *testing.T, parcelID, warehouseID kernel.UUID, minute int) kernel.UUID {
	t.Helper()

	cmd, err := commands.NewAllocateStorageCommand(parcelID, warehouseID, "A-1", nil, "", at(minute))
	require.NoError(t, err)
	require.NoError(t, h.allocateStorage().Handle(t.Context(), cmd))
	return cmd.AssignmentID()
}

func (h *harness) relocateParcel() commands.RelocateParcelCommandHandler {
	return commands.NewRelocateParcelCommandHandler(storageUoWFactory{h.store}, h.locker, h.warehouses)
}

func (h *harness) registerCourier(t *testing.T) kernel.UUID {
	t.Helper()

	cmd, err := commands.NewRegisterCourierCommand(kernel.NewUUID(), "Ivan", courier.Documents{LicenseNumber: "LN-1"}, t0)
	require.NoError(t, err)
	handler := commands.NewRegisterCourierCommandHandler(courierUoWFactory{h.store})
	require.NoError(t, handler.Handle(t.Context(), cmd))
	return cmd.CourierID()
}

func (h *harness) assignLeg() commands.AssignLegCommandHandler {
	return commands.NewAssignLegCommandHandler(deliveryUoWFactory{h.store}, h.locker, h.notifier)
}

func (h *harness) scheduleLeg(t *testing.T, courierID *kernel.UUID, minute int, parcelIDs ...kernel.UUID) kernel.UUID {
	t.Helper()

	cmd, err := commands.NewAssignLegCommand(
		parcelIDs, courierID, "Warehouse dock 3", "12 Baker Street", at(minute+60), decimal.NewFromInt(15), at(minute),
	)
	require.NoError(t, err)
	require.NoError(t, h.assignLeg().Handle(t.Context(), cmd))
	return cmd.LegID()
}

func (h *harness) startLeg() commands.StartLegCommandHandler {
	return commands.NewStartLegCommandHandler(deliveryUoWFactory{h.store}, h.locker, h.warehouses, h.notifier)
}

func (h *harness) start(t *testing.T, legID kernel.UUID, minute int) {
	t.Helper()

	cmd, err := commands.NewStartLegCommand(legID, "", at(minute))
	require.NoError(t, err)
	require.NoError(t, h.startLeg().Handle(t.Context(), cmd))
}

func (h *harness) completeLeg() commands.CompleteLegCommandHandler {
	return commands.NewCompleteLegCommandHandler(deliveryUoWFactory{h.store}, h.locker, h.warehouses, h.notifier)
}

func (h *harness) cancelLeg() commands.CancelLegCommandHandler {
	return commands.NewCancelLegCommandHandler(deliveryUoWFactory{h.store}, h.locker, h.warehouses, h.notifier)
}

func (h *harness) recordPosition() commands.RecordPositionCommandHandler {
	return commands.NewRecordPositionCommandHandler(telemetryUoWFactory{h.store})
}

// requireLedgerMatchesParcel checks that the last ledger entry of the parcel
// describes its current location.
func (h *harness) requireLedgerMatchesParcel(t *testing.T, parcelID kernel.UUID) {
	t.Helper()

	history := h.store.ledgerOf(parcelID)
	require.NotEmpty(t, history)

	p := h.store.parcel(parcelID)
	latest := history[len(history)-1]
	require.True(t, latest.Location().IsEqual(p.Location()), "ledger %s, parcel %s", latest.Location(), p.Location())
	require.Equal(t, p.LastMovedAt(), latest.MovedAt())

	for i := 1; i < len(history); i++ {
		require.False(t, history[i].MovedAt().Before(history[i-1].MovedAt()))
	}
}

func (h *harness) activeAssignments(parcelID kernel.UUID, now time.Time) int {
	n := 0
	for _, a := range h.store.assignments(parcelID) {
		if a.IsActive(now) {
			n++
		}
	}
	return n
}

func (h *harness) eventsFor(userID kernel.UUID) []string {
	h.dispatcher.mu.Lock()
	defer h.dispatcher.mu.Unlock()
	var out []string
	for _, n := range h.dispatcher.sent {
		if n.UserID == userID {
			out = append(out, n.Event)
		}
	}
	return out
}

var _ ports.EntityLocker = (*fakeLocker)(nil)

var zeroAmount = decimal.Zero
