package parcel

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/pkg/errs"
	"parcelflow/internal/pkg/guard"
)

var ErrParcelIsNotConstructed = errors.New("Parcel must be created via NewParcel or RestoreParcel constructor")

// Parcel is the aggregate root for one physical item tracked end-to-end by its
// tracking number.
//
// Parcel follows these invariants:
//   - The tracking number is issued once, at construction, and never changes
//   - Status and current location change together, through Move or Relocate,
//     and each change yields the HistoryEntry the caller must append
//   - lastMovedAt never decreases
//
// The announcement reference is weak: parcels registered through alternate
// intake flows carry none.
type Parcel struct {
	id             kernel.UUID
	trackingNumber string
	announcementID *kernel.UUID
	weightGrams    int
	dimensions     Dimensions
	description    string
	status         Status
	location       Location
	lastMovedAt    time.Time
	version        int
	createdAt      time.Time

	guard guard.ConstructorGuard
}

// NewParcel registers a new parcel in Stored status with an unset location.
//
// Example:
//
//	dims, _ := parcel.NewDimensions(400, 300, 200)
//	p, err := parcel.NewParcel(kernel.NewUUID(), nil, 2500, dims, "books", time.Now())
//	if err != nil {
//	    // Handle validation error
//	}
func NewParcel(
	id kernel.UUID,
	announcementID *kernel.UUID,
	weightGrams int,
	dimensions Dimensions,
	description string,
	createdAt time.Time,
) (*Parcel, error) {
	p := &Parcel{
		status:   Stored,
		location: UnsetLocation(),
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(id),
		p.setAnnouncementID(announcementID),
		p.setWeight(weightGrams),
		p.setDimensions(dimensions),
		p.setCreatedAt(createdAt),
	); err != nil {
		return nil, err
	}

	p.trackingNumber = IssueTrackingNumber(id)
	p.description = strings.TrimSpace(description)
	return p, nil
}

// RestoreParcel rebuilds a persisted parcel.
func RestoreParcel(
	id kernel.UUID,
	trackingNumber string,
	announcementID *kernel.UUID,
	weightGrams int,
	dimensions Dimensions,
	description string,
	status Status,
	location Location,
	lastMovedAt time.Time,
	version int,
	createdAt time.Time,
) (*Parcel, error) {
	p := &Parcel{
		description: description,
		lastMovedAt: lastMovedAt.UTC(),
		version:     version,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(id),
		p.setTrackingNumber(trackingNumber),
		p.setAnnouncementID(announcementID),
		p.setWeight(weightGrams),
		p.setDimensions(dimensions),
		p.setCreatedAt(createdAt),
		p.setState(status, location),
	); err != nil {
		return nil, err
	}

	return p, nil
}

// IssueTrackingNumber derives the public tracking number from the parcel id.
func IssueTrackingNumber(id kernel.UUID) string {
	raw := id.Bytes()
	return fmt.Sprintf("PT%X", raw[:6])
}

func (p *Parcel) Validate() error {
	if p == nil {
		return ErrParcelIsNotConstructed
	}
	return p.guard.Validate(ErrParcelIsNotConstructed)
}

func (p *Parcel) IsEqual(other *Parcel) bool {
	return other != nil && p.id.IsEqual(other.id)
}

func (p *Parcel) ID() kernel.UUID        { return p.id }
func (p *Parcel) TrackingNumber() string { return p.trackingNumber }
func (p *Parcel) WeightGrams() int       { return p.weightGrams }
func (p *Parcel) Dimensions() Dimensions { return p.dimensions }
func (p *Parcel) Description() string    { return p.description }
func (p *Parcel) Status() Status         { return p.status }
func (p *Parcel) Location() Location     { return p.location }
func (p *Parcel) LastMovedAt() time.Time { return p.lastMovedAt }
func (p *Parcel) Version() int           { return p.version }
func (p *Parcel) CreatedAt() time.Time   { return p.createdAt }

// AnnouncementID returns a copy of the originating announcement id, nil when absent.
func (p *Parcel) AnnouncementID() *kernel.UUID {
	if p.announcementID == nil {
		return nil
	}
	id := *p.announcementID
	return &id
}

// ApplyTransition returns a copy of the parcel in status to. The receiver is
// never modified; a rejected transition returns *InvalidTransitionError.
func (p *Parcel) ApplyTransition(to Status) (*Parcel, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	next, err := p.status.Transition(to)
	if err != nil {
		return nil, err
	}

	moved := *p
	moved.status = next
	return &moved, nil
}

// Move transitions the parcel to status `to` at location `loc` and returns the
// ledger entry describing the move. Nothing changes unless every check passes.
func (p *Parcel) Move(to Status, loc Location, description string, at time.Time) (HistoryEntry, error) {
	next, err := p.ApplyTransition(to)
	if err != nil {
		return HistoryEntry{}, err
	}

	if !to.allowsLocation(loc.Kind()) {
		return HistoryEntry{}, errs.NewValueIsInvalidErrorWithCause(
			"location is invalid",
			fmt.Errorf("%s parcel cannot be at %s", to, loc.Kind()),
		)
	}

	entry, err := p.prepareEntry(loc, description, at)
	if err != nil {
		return HistoryEntry{}, err
	}

	p.status = next.status
	p.location = loc
	p.lastMovedAt = entry.MovedAt()
	return entry, nil
}

// Relocate moves a stored parcel between grounded places (warehouse, storage box)
// without a status change. It is used for storage allocation and manual corrections.
func (p *Parcel) Relocate(loc Location, description string, at time.Time) (HistoryEntry, error) {
	if err := p.Validate(); err != nil {
		return HistoryEntry{}, err
	}

	if p.status != Stored {
		return HistoryEntry{}, fmt.Errorf("%w: parcel is %s", ErrRelocationNotAllowed, p.status)
	}
	if !loc.Kind().IsGrounded() {
		return HistoryEntry{}, fmt.Errorf("%w: %s is not a storage location", ErrRelocationNotAllowed, loc.Kind())
	}

	entry, err := p.prepareEntry(loc, description, at)
	if err != nil {
		return HistoryEntry{}, err
	}

	p.location = loc
	p.lastMovedAt = entry.MovedAt()
	return entry, nil
}

// IncrementVersion is called by persistence after a successful optimistic write.
func (p *Parcel) IncrementVersion() {
	p.version++
}

func (p *Parcel) prepareEntry(loc Location, description string, at time.Time) (HistoryEntry, error) {
	if at.IsZero() {
		return HistoryEntry{}, errs.NewValueIsRequiredError("movedAt")
	}
	if at.Before(p.lastMovedAt) {
		return HistoryEntry{}, &StaleLocationUpdateError{ParcelID: p.id, Latest: p.lastMovedAt, Attempted: at}
	}
	return NewHistoryEntry(p.id, loc, description, at)
}

func (p *Parcel) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Parcel) setTrackingNumber(trackingNumber string) error {
	if trackingNumber == "" {
		return errs.NewValueIsRequiredError("tracking number")
	}
	p.trackingNumber = trackingNumber
	return nil
}

func (p *Parcel) setAnnouncementID(announcementID *kernel.UUID) error {
	if announcementID == nil {
		p.announcementID = nil
		return nil
	}
	if err := announcementID.Validate(); err != nil {
		return err
	}
	id := *announcementID
	p.announcementID = &id
	return nil
}

func (p *Parcel) setWeight(weightGrams int) error {
	if weightGrams <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("weight is invalid", fmt.Errorf("%d is not greater than 0", weightGrams))
	}
	p.weightGrams = weightGrams
	return nil
}

func (p *Parcel) setDimensions(dimensions Dimensions) error {
	if err := dimensions.Validate(); err != nil {
		return err
	}
	p.dimensions = dimensions
	return nil
}

func (p *Parcel) setCreatedAt(createdAt time.Time) error {
	if createdAt.IsZero() {
		return errs.NewValueIsRequiredError("createdAt")
	}
	p.createdAt = createdAt.UTC()
	return nil
}

func (p *Parcel) setState(status Status, location Location) error {
	if err := status.Validate(); err != nil {
		return err
	}
	if !status.allowsLocation(location.Kind()) {
		return errs.NewValueIsInvalidErrorWithCause(
			"location is invalid",
			fmt.Errorf("%s parcel cannot be at %s", status, location.Kind()),
		)
	}
	p.status = status
	p.location = location
	return nil
}
