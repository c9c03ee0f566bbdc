package leg

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/pkg/errs"
	"parcelflow/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// Leg is the aggregate root for one courier trip between two points.
//
// The parcel set is fixed when the leg is assigned. Status, start and
// completion timestamps only change through Start, Complete and Cancel, each of
// which returns the history entry to persist with the leg.
type Leg struct {
	id            kernel.UUID
	courierID     *kernel.UUID
	parcelIDs     []kernel.UUID
	pickup        string
	dropoff       string
	scheduledAt   time.Time
	startedAt     *time.Time
	completedAt   *time.Time
	status        Status
	partial       bool
	paymentStatus PaymentStatus
	amount        decimal.Decimal
	lastChangedAt time.Time
	version       int
	createdAt     time.Time

	guard guard.ConstructorGuard
}

// NewLeg creates a scheduled leg and the history entry opening its timeline.
// courierID may be nil; such a leg must be given a courier before it starts.
func NewLeg(
	id kernel.UUID,
	parcelIDs []kernel.UUID,
	courierID *kernel.UUID,
	pickup, dropoff string,
	scheduledAt time.Time,
	amount decimal.Decimal,
	createdAt time.Time,
) (*Leg, HistoryEntry, error) {
	l := &Leg{
		status:        Scheduled,
		paymentStatus: PaymentUnpaid,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		l.setID(id),
		l.setParcels(parcelIDs),
		l.setCourier(courierID),
		l.setRoute(pickup, dropoff),
		l.setScheduledAt(scheduledAt),
		l.setAmount(amount),
		l.setCreatedAt(createdAt),
	); err != nil {
		return nil, HistoryEntry{}, err
	}

	entry, err := NewHistoryEntry(l.id, Scheduled, "leg scheduled", l.createdAt)
	if err != nil {
		return nil, HistoryEntry{}, err
	}
	l.lastChangedAt = entry.ChangedAt()

	return l, entry, nil
}

// RestoreLeg rebuilds a persisted leg. lastChangedAt is the time of its latest
// history entry.
func RestoreLeg(
	id kernel.UUID,
	parcelIDs []kernel.UUID,
	courierID *kernel.UUID,
	pickup, dropoff string,
	scheduledAt time.Time,
	startedAt, completedAt *time.Time,
	status Status,
	partial bool,
	paymentStatus PaymentStatus,
	amount decimal.Decimal,
	lastChangedAt time.Time,
	version int,
	createdAt time.Time,
) (*Leg, error) {
	l := &Leg{
		startedAt:     copyTime(startedAt),
		completedAt:   copyTime(completedAt),
		partial:       partial,
		lastChangedAt: lastChangedAt.UTC(),
		version:       version,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		l.setID(id),
		l.setParcels(parcelIDs),
		l.setCourier(courierID),
		l.setRoute(pickup, dropoff),
		l.setScheduledAt(scheduledAt),
		l.setAmount(amount),
		l.setCreatedAt(createdAt),
		status.Validate(),
		paymentStatus.Validate(),
	); err != nil {
		return nil, err
	}

	l.status = status
	l.paymentStatus = paymentStatus
	return l, nil
}

func (l *Leg) Validate() error {
	if l == nil {
		return ErrLegIsNotConstructed
	}
	return l.guard.Validate(ErrLegIsNotConstructed)
}

func (l *Leg) IsEqual(other *Leg) bool {
	return other != nil && l.id.IsEqual(other.id)
}

func (l *Leg) ID() kernel.UUID              { return l.id }
func (l *Leg) Pickup() string               { return l.pickup }
func (l *Leg) Dropoff() string              { return l.dropoff }
func (l *Leg) ScheduledAt() time.Time       { return l.scheduledAt }
func (l *Leg) StartedAt() *time.Time        { return copyTime(l.startedAt) }
func (l *Leg) CompletedAt() *time.Time      { return copyTime(l.completedAt) }
func (l *Leg) Status() Status               { return l.status }
func (l *Leg) IsPartial() bool              { return l.partial }
func (l *Leg) PaymentStatus() PaymentStatus { return l.paymentStatus }
func (l *Leg) Amount() decimal.Decimal      { return l.amount }
func (l *Leg) LastChangedAt() time.Time     { return l.lastChangedAt }
func (l *Leg) Version() int                 { return l.version }
func (l *Leg) CreatedAt() time.Time         { return l.createdAt }

func (l *Leg) CourierID() *kernel.UUID {
	if l.courierID == nil {
		return nil
	}
	id := *l.courierID
	return &id
}

func (l *Leg) ParcelIDs() []kernel.UUID {
	ids := make([]kernel.UUID, len(l.parcelIDs))
	copy(ids, l.parcelIDs)
	return ids
}

func (l *Leg) ContainsParcel(parcelID kernel.UUID) bool {
	for _, id := range l.parcelIDs {
		if id.IsEqual(parcelID) {
			return true
		}
	}
	return false
}

// AssignCourier sets or replaces the courier of a scheduled leg.
func (l *Leg) AssignCourier(courierID kernel.UUID) error {
	if err := l.Validate(); err != nil {
		return err
	}
	if l.status != Scheduled {
		return fmt.Errorf("%w: leg %s is %s", ErrCourierChangeRejected, l.id, l.status)
	}
	return l.setCourier(&courierID)
}

// Start moves the leg to in_progress at the given time.
func (l *Leg) Start(at time.Time, remarks string) (HistoryEntry, error) {
	if err := l.Validate(); err != nil {
		return HistoryEntry{}, err
	}
	if err := l.checkTransition(InProgress); err != nil {
		return HistoryEntry{}, err
	}
	if l.courierID == nil {
		return HistoryEntry{}, &UnassignedLegError{LegID: l.id}
	}

	entry, err := l.prepareEntry(InProgress, remarks, at)
	if err != nil {
		return HistoryEntry{}, err
	}

	started := entry.ChangedAt()
	l.startedAt = &started
	l.apply(entry)
	return entry, nil
}

// Complete closes the leg. partial marks legs whose parcels ended with
// different outcomes.
func (l *Leg) Complete(at time.Time, partial bool, remarks string) (HistoryEntry, error) {
	if err := l.Validate(); err != nil {
		return HistoryEntry{}, err
	}
	if at.IsZero() {
		return HistoryEntry{}, errs.NewValueIsRequiredError("completedAt")
	}
	if err := l.checkTransition(Completed); err != nil {
		return HistoryEntry{}, err
	}

	entry, err := l.prepareEntry(Completed, remarks, at)
	if err != nil {
		return HistoryEntry{}, err
	}

	completed := entry.ChangedAt()
	l.completedAt = &completed
	l.partial = partial
	l.apply(entry)
	return entry, nil
}

func (l *Leg) Cancel(at time.Time, reason string) (HistoryEntry, error) {
	if err := l.Validate(); err != nil {
		return HistoryEntry{}, err
	}
	if err := l.checkTransition(Cancelled); err != nil {
		return HistoryEntry{}, err
	}

	entry, err := l.prepareEntry(Cancelled, reason, at)
	if err != nil {
		return HistoryEntry{}, err
	}

	l.apply(entry)
	return entry, nil
}

// UpdatePayment stores the payment state reported by the payment service.
func (l *Leg) UpdatePayment(status PaymentStatus, amount decimal.Decimal) error {
	if err := l.Validate(); err != nil {
		return err
	}
	if err := errors.Join(status.Validate(), validateAmount(amount)); err != nil {
		return err
	}
	l.paymentStatus = status
	l.amount = amount
	return nil
}

// IncrementVersion is called by persistence after a successful optimistic write.
func (l *Leg) IncrementVersion() {
	l.version++
}

func (l *Leg) checkTransition(to Status) error {
	if !l.status.CanTransition(to) {
		return &InvalidTransitionError{LegID: l.id, From: l.status, To: to}
	}
	return nil
}

func (l *Leg) prepareEntry(to Status, remarks string, at time.Time) (HistoryEntry, error) {
	if at.IsZero() {
		return HistoryEntry{}, errs.NewValueIsRequiredError("changedAt")
	}
	if at.Before(l.lastChangedAt) {
		return HistoryEntry{}, &StaleHistoryError{LegID: l.id, Latest: l.lastChangedAt, Attempted: at}
	}
	return NewHistoryEntry(l.id, to, remarks, at)
}

func (l *Leg) apply(entry HistoryEntry) {
	l.status = entry.Status()
	l.lastChangedAt = entry.ChangedAt()
}

func (l *Leg) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	l.id = id
	return nil
}

func (l *Leg) setParcels(parcelIDs []kernel.UUID) error {
	if len(parcelIDs) == 0 {
		return errs.NewValueIsRequiredError("parcelIDs")
	}

	seen := make(map[kernel.UUID]struct{}, len(parcelIDs))
	ids := make([]kernel.UUID, 0, len(parcelIDs))
	for _, id := range parcelIDs {
		if err := id.Validate(); err != nil {
			return err
		}
		if _, dup := seen[id]; dup {
			return errs.NewValueIsInvalidErrorWithCause("parcelIDs is invalid", fmt.Errorf("parcel %s listed twice", id))
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	l.parcelIDs = ids
	return nil
}

func (l *Leg) setCourier(courierID *kernel.UUID) error {
	if courierID == nil {
		l.courierID = nil
		return nil
	}
	if err := courierID.Validate(); err != nil {
		return err
	}
	id := *courierID
	l.courierID = &id
	return nil
}

func (l *Leg) setRoute(pickup, dropoff string) error {
	pickup, dropoff = strings.TrimSpace(pickup), strings.TrimSpace(dropoff)

	var err error
	if pickup == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("pickup"))
	}
	if dropoff == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("dropoff"))
	}
	if err != nil {
		return err
	}

	l.pickup, l.dropoff = pickup, dropoff
	return nil
}

func (l *Leg) setScheduledAt(scheduledAt time.Time) error {
	if scheduledAt.IsZero() {
		return errs.NewValueIsRequiredError("scheduledAt")
	}
	l.scheduledAt = scheduledAt.UTC()
	return nil
}

func (l *Leg) setAmount(amount decimal.Decimal) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	l.amount = amount
	return nil
}

func (l *Leg) setCreatedAt(createdAt time.Time) error {
	if createdAt.IsZero() {
		return errs.NewValueIsRequiredError("createdAt")
	}
	l.createdAt = createdAt.UTC()
	return nil
}

func validateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("amount is invalid", fmt.Errorf("%s is negative", amount))
	}
	return nil
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := t.UTC()
	return &c
}
