package commands_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"parcelflow/internal/core/application/usecases/commands"
	"parcelflow/internal/core/domain/model/courier"
	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/core/domain/model/leg"
	"parcelflow/internal/core/domain/model/parcel"
	"parcelflow/internal/core/domain/model/storage"
	"parcelflow/internal/core/ports"
	"parcelflow/internal/pkg/errs"
)

// memState is the content of the in-memory database. Aggregates are stored by
// value so that loaded copies only reach the store through Update.
type memState struct {
	parcels      map[kernel.UUID]parcel.Parcel
	ledger       []parcel.HistoryEntry
	storages     map[kernel.UUID]storage.Assignment
	storageOrder []kernel.UUID
	legs         map[kernel.UUID]leg.Leg
	legHistory   []leg.HistoryEntry
	couriers     map[kernel.UUID]courier.Courier
	samples      []courier.PositionSample
	nextID       int64
}

func (s memState) clone() memState {
	c := memState{
		parcels:      make(map[kernel.UUID]parcel.Parcel, len(s.parcels)),
		ledger:       append([]parcel.HistoryEntry(nil), s.ledger...),
		storages:     make(map[kernel.UUID]storage.Assignment, len(s.storages)),
		storageOrder: append([]kernel.UUID(nil), s.storageOrder...),
		legs:         make(map[kernel.UUID]leg.Leg, len(s.legs)),
		legHistory:   append([]leg.HistoryEntry(nil), s.legHistory...),
		couriers:     make(map[kernel.UUID]courier.Courier, len(s.couriers)),
		samples:      append([]courier.PositionSample(nil), s.samples...),
		nextID:       s.nextID,
	}
	for k, v := range s.parcels {
		c.parcels[k] = v
	}
	for k, v := range s.storages {
		c.storages[k] = v
	}
	for k, v := range s.legs {
		c.legs[k] = v
	}
	for k, v := range s.couriers {
		c.couriers[k] = v
	}
	return c
}

type memStore struct {
	mu    sync.Mutex
	state memState

	// failParcelUpdate makes Update of the given parcel fail.
	failParcelUpdate map[kernel.UUID]error
}

func newMemStore() *memStore {
	return &memStore{
		state: memState{
			parcels:  map[kernel.UUID]parcel.Parcel{},
			storages: map[kernel.UUID]storage.Assignment{},
			legs:     map[kernel.UUID]leg.Leg{},
			couriers: map[kernel.UUID]courier.Courier{},
		},
		failParcelUpdate: map[kernel.UUID]error{},
	}
}

func (s *memStore) id() int64 {
	s.state.nextID++
	return s.state.nextID
}

func (s *memStore) parcel(id kernel.UUID) *parcel.Parcel {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.state.parcels[id]
	return &p
}

func (s *memStore) leg(id kernel.UUID) *leg.Leg {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := s.state.legs[id]
	return &l
}

func (s *memStore) assignments(parcelID kernel.UUID) []storage.Assignment {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []storage.Assignment
	for _, id := range s.state.storageOrder {
		if a := s.state.storages[id]; a.ParcelID() == parcelID {
			out = append(out, a)
		}
	}
	return out
}

func (s *memStore) ledgerOf(parcelID kernel.UUID) []parcel.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []parcel.HistoryEntry
	for _, e := range s.state.ledger {
		if e.ParcelID() == parcelID {
			out = append(out, e)
		}
	}
	return out
}

// memUoW snapshots the state on Begin and restores it on Rollback.
type memUoW struct {
	s        *memStore
	snapshot *memState
}

func (u *memUoW) Begin(context.Context) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	snap := u.s.state.clone()
	u.snapshot = &snap
	return nil
}

func (u *memUoW) Commit(context.Context) error {
	u.snapshot = nil
	return nil
}

func (u *memUoW) Rollback(context.Context) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	if u.snapshot != nil {
		u.s.state = *u.snapshot
		u.snapshot = nil
	}
	return nil
}

func (u *memUoW) ParcelRepository() ports.ParcelRepository   { return memParcels{u.s} }
func (u *memUoW) LocationLedger() ports.LocationLedger       { return memLedger{u.s} }
func (u *memUoW) StorageRepository() ports.StorageRepository { return memStorages{u.s} }
func (u *memUoW) LegRepository() ports.LegRepository         { return memLegs{u.s} }
func (u *memUoW) CourierRepository() ports.CourierRepository { return memCouriers{u.s} }
func (u *memUoW) PositionLedger() ports.PositionLedger       { return memSamples{u.s} }

type (
	parcelUoWFactory    struct{ s *memStore }
	storageUoWFactory   struct{ s *memStore }
	deliveryUoWFactory  struct{ s *memStore }
	courierUoWFactory   struct{ s *memStore }
	telemetryUoWFactory struct{ s *memStore }
)

func (f parcelUoWFactory) Create() commands.ParcelUoW       { return &memUoW{s: f.s} }
func (f storageUoWFactory) Create() commands.StorageUoW     { return &memUoW{s: f.s} }
func (f deliveryUoWFactory) Create() commands.DeliveryUoW   { return &memUoW{s: f.s} }
func (f courierUoWFactory) Create() commands.CourierUoW     { return &memUoW{s: f.s} }
func (f telemetryUoWFactory) Create() commands.TelemetryUoW { return &memUoW{s: f.s} }

type memParcels struct{ s *memStore }

func (r memParcels) Add(_ context.Context, p *parcel.Parcel) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.state.parcels[p.ID()] = *p
	return nil
}

func (r memParcels) Update(_ context.Context, p *parcel.Parcel) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failParcelUpdate[p.ID()]; err != nil {
		return err
	}
	stored, ok := r.s.state.parcels[p.ID()]
	if !ok {
		return errs.NewObjectNotFoundError("parcel", p.ID())
	}
	if stored.Version() != p.Version() {
		return errs.NewConcurrentModificationError("parcel", p.ID())
	}
	p.IncrementVersion()
	r.s.state.parcels[p.ID()] = *p
	return nil
}

func (r memParcels) Get(_ context.Context, id kernel.UUID) (*parcel.Parcel, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.state.parcels[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("parcel", id)
	}
	return &p, nil
}

func (r memParcels) GetByTrackingNumber(_ context.Context, trackingNumber string) (*parcel.Parcel, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.state.parcels {
		if p.TrackingNumber() == trackingNumber {
			return &p, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("tracking number", trackingNumber)
}

type memLedger struct{ s *memStore }

func (r memLedger) Append(_ context.Context, entry parcel.HistoryEntry) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.state.ledger {
		if e.ParcelID() == entry.ParcelID() && entry.MovedAt().Before(e.MovedAt()) {
			return 0, &parcel.StaleLocationUpdateError{ParcelID: entry.ParcelID(), Latest: e.MovedAt(), Attempted: entry.MovedAt()}
		}
	}
	id := r.s.id()
	stored, err := parcel.RestoreHistoryEntry(id, entry.ParcelID(), entry.Location(), entry.Description(), entry.MovedAt())
	if err != nil {
		return 0, err
	}
	r.s.state.ledger = append(r.s.state.ledger, stored)
	return id, nil
}

func (r memLedger) Latest(ctx context.Context, parcelID kernel.UUID) (parcel.HistoryEntry, error) {
	history, _ := r.History(ctx, parcelID)
	if len(history) == 0 {
		return parcel.HistoryEntry{}, errs.NewObjectNotFoundError("ledger entry", parcelID)
	}
	return history[len(history)-1], nil
}

func (r memLedger) History(_ context.Context, parcelID kernel.UUID) ([]parcel.HistoryEntry, error) {
	return r.s.ledgerOf(parcelID), nil
}

type memStorages struct{ s *memStore }

func (r memStorages) Add(_ context.Context, a *storage.Assignment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.state.storages[a.ID()] = *a
	r.s.state.storageOrder = append(r.s.state.storageOrder, a.ID())
	return nil
}

func (r memStorages) Update(_ context.Context, a *storage.Assignment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.state.storages[a.ID()]
	if !ok {
		return errs.NewObjectNotFoundError("storage assignment", a.ID())
	}
	if stored.IsReleased() {
		return nil
	}
	r.s.state.storages[a.ID()] = *a
	return nil
}

func (r memStorages) Get(_ context.Context, id kernel.UUID) (*storage.Assignment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.state.storages[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("storage assignment", id)
	}
	return &a, nil
}

func (r memStorages) GetActiveByParcel(_ context.Context, parcelID kernel.UUID, now time.Time) (*storage.Assignment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.state.storages {
		if a.ParcelID() == parcelID && a.IsActive(now) {
			return &a, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("active storage assignment", parcelID)
}

func (r memStorages) GetLatestByParcel(_ context.Context, parcelID kernel.UUID) (*storage.Assignment, error) {
	all := r.s.assignments(parcelID)
	if len(all) == 0 {
		return nil, errs.NewObjectNotFoundError("storage assignment", parcelID)
	}
	latest := all[len(all)-1]
	return &latest, nil
}

func (r memStorages) CountActive(_ context.Context, warehouseID kernel.UUID, now time.Time) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, a := range r.s.state.storages {
		if a.WarehouseID() == warehouseID && a.IsActive(now) {
			n++
		}
	}
	return n, nil
}

func (r memStorages) ListLapsed(_ context.Context, now time.Time, limit int) ([]*storage.Assignment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*storage.Assignment
	for _, id := range r.s.state.storageOrder {
		a := r.s.state.storages[id]
		if !a.IsReleased() && a.IsExpired(now) && len(out) < limit {
			out = append(out, &a)
		}
	}
	return out, nil
}

type memLegs struct{ s *memStore }

func (r memLegs) Add(_ context.Context, l *leg.Leg) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.state.legs[l.ID()] = *l
	return nil
}

func (r memLegs) Update(_ context.Context, l *leg.Leg) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.state.legs[l.ID()]
	if !ok {
		return errs.NewObjectNotFoundError("leg", l.ID())
	}
	if stored.Version() != l.Version() {
		return errs.NewConcurrentModificationError("leg", l.ID())
	}
	l.IncrementVersion()
	r.s.state.legs[l.ID()] = *l
	return nil
}

func (r memLegs) Get(_ context.Context, id kernel.UUID) (*leg.Leg, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.state.legs[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("leg", id)
	}
	return &l, nil
}

func (r memLegs) AppendHistory(_ context.Context, entry leg.HistoryEntry) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.state.legHistory {
		if e.LegID() == entry.LegID() && entry.ChangedAt().Before(e.ChangedAt()) {
			return 0, &leg.StaleHistoryError{LegID: entry.LegID(), Latest: e.ChangedAt(), Attempted: entry.ChangedAt()}
		}
	}
	id := r.s.id()
	stored, err := leg.RestoreHistoryEntry(id, entry.LegID(), entry.Status(), entry.Remarks(), entry.ChangedAt())
	if err != nil {
		return 0, err
	}
	r.s.state.legHistory = append(r.s.state.legHistory, stored)
	return id, nil
}

func (r memLegs) History(_ context.Context, legID kernel.UUID) ([]leg.HistoryEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []leg.HistoryEntry
	for _, e := range r.s.state.legHistory {
		if e.LegID() == legID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r memLegs) FindActiveByParcel(_ context.Context, parcelID kernel.UUID) (*leg.Leg, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, l := range r.s.state.legs {
		if l.Status().IsActive() && l.ContainsParcel(parcelID) {
			return &l, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("active leg", parcelID)
}

func (r memLegs) FindInProgressByCourier(_ context.Context, courierID kernel.UUID) (*leg.Leg, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, l := range r.s.state.legs {
		if id := l.CourierID(); l.Status() == leg.InProgress && id != nil && *id == courierID {
			return &l, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("in-progress leg", courierID)
}

type memCouriers struct{ s *memStore }

func (r memCouriers) Add(_ context.Context, c *courier.Courier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.state.couriers[c.ID()] = *c
	return nil
}

func (r memCouriers) Update(_ context.Context, c *courier.Courier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.state.couriers[c.ID()]
	if !ok {
		return errs.NewObjectNotFoundError("courier", c.ID())
	}
	stored.SetAvailability(c.IsAvailable())
	stored.SetDuty(c.IsOnDuty())
	stored.UpdateDocuments(c.Documents())
	r.s.state.couriers[c.ID()] = stored
	return nil
}

func (r memCouriers) Get(_ context.Context, id kernel.UUID) (*courier.Courier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.state.couriers[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("courier", id)
	}
	return &c, nil
}

func (r memCouriers) FindInBox(_ context.Context, minLat, maxLat, minLon, maxLon float64) ([]*courier.Courier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*courier.Courier
	for _, c := range r.s.state.couriers {
		pos, ok := c.Position()
		if !ok {
			continue
		}
		lat, lon := pos.Point().Lat(), pos.Point().Lon()
		if lat >= minLat && lat <= maxLat && lon >= minLon && lon <= maxLon {
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID().Less(out[j].ID()) })
	return out, nil
}

func (r memCouriers) UpdatePositionIfNewer(_ context.Context, courierID kernel.UUID, pos courier.Position) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.state.couriers[courierID]
	if !ok {
		return false, errs.NewObjectNotFoundError("courier", courierID)
	}
	moved := c.ObservePosition(pos)
	r.s.state.couriers[courierID] = c
	return moved, nil
}

type memSamples struct{ s *memStore }

func (r memSamples) Append(_ context.Context, sample courier.PositionSample) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	id := r.s.id()
	stored, err := courier.RestorePositionSample(id, sample.CourierID(), sample.LegID(), sample.Point(),
		sample.Telemetry(), sample.CapturedAt(), sample.ReceivedAt())
	if err != nil {
		return 0, err
	}
	r.s.state.samples = append(r.s.state.samples, stored)
	return id, nil
}

// fakeLocker records every acquisition.
type fakeLocker struct {
	mu       sync.Mutex
	acquired [][]string
	held     int
	err      error
}

func (l *fakeLocker) Acquire(_ context.Context, keys ...string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, l.err
	}
	l.acquired = append(l.acquired, keys)
	l.held++
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.held--
	}, nil
}

func (l *fakeLocker) heldCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.held
}

type stubWarehouses map[kernel.UUID]int

func (w stubWarehouses) GetCapacity(_ context.Context, id kernel.UUID) (int, error) {
	capacity, ok := w[id]
	if !ok {
		return 0, errs.NewObjectNotFoundError("warehouse", id)
	}
	return capacity, nil
}

type stubAnnouncements map[kernel.UUID]ports.Announcement

func (a stubAnnouncements) GetAnnouncement(_ context.Context, id kernel.UUID) (ports.Announcement, error) {
	announcement, ok := a[id]
	if !ok {
		return ports.Announcement{}, errs.NewObjectNotFoundError("announcement", id)
	}
	return announcement, nil
}

type sentNotice struct {
	UserID  kernel.UUID
	Event   string
	Payload map[string]any
}

type recordingDispatcher struct {
	mu   sync.Mutex
	sent []sentNotice
	err  error

	// locker, when set, is sampled on every call into heldAtNotify.
	locker       *fakeLocker
	heldAtNotify []int
}

func (d *recordingDispatcher) Notify(_ context.Context, userID kernel.UUID, event string, payload map[string]any) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.locker != nil {
		d.heldAtNotify = append(d.heldAtNotify, d.locker.heldCount())
	}
	if d.err != nil {
		return d.err
	}
	d.sent = append(d.sent, sentNotice{UserID: userID, Event: event, Payload: payload})
	return nil
}

func (d *recordingDispatcher) events() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, 0, len(d.sent))
	for _, n := range d.sent {
		out = append(out, n.Event)
	}
	return out
}
