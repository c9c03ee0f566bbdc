package courier

import (
	"errors"
	"strings"
	"time"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/pkg/errs"
	"parcelflow/internal/pkg/guard"
)

var (
	// ErrNameIsRequired is returned when attempting to register a courier without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrCourierIsNotConstructed is returned when using an improperly initialized Courier.
	ErrCourierIsNotConstructed = errors.New("Courier must be created via NewCourier or RestoreCourier constructor")
)

// Documents holds the licensing and payout metadata of a courier. The engine
// stores these references and never interprets them.
type Documents struct {
	LicenseNumber   string
	InsurancePolicy string
	PayoutAccount   string
}

// Courier represents a person carrying parcels on delivery legs.
// It is an aggregate root owning the operational flags and the cached last
// known position of the courier.
//
// Key responsibilities:
//   - Tracking whether the courier is available for new legs and on duty
//   - Caching the most recent position reported by the courier device
//   - Keeping licensing, insurance and payout references
//
// Business rules:
//   - Courier must have a valid UUID and a non-empty name
//   - A newly registered courier is available, off duty and has no position
//   - The cached position is replaced only by a strictly newer one
//
// Example usage:
//
//	c, err := courier.NewCourier(userID, "Alice", courier.Documents{LicenseNumber: "B-123"}, time.Now())
//	if err != nil {
//	    // Handle construction error
//	}
//	c.SetDuty(true)
type Courier struct {
	// id is shared with the user account of the courier
	id kernel.UUID
	// name is the human-readable name of the courier
	name string
	// available tells whether the courier accepts new legs
	available bool
	// onDuty tells whether the courier is currently working a shift
	onDuty bool
	// position is the last known position, nil until the first sample arrives
	position *Position
	// documents keeps licensing and payout references
	documents Documents
	// createdAt is the registration time
	createdAt time.Time
	// guard ensures the courier was properly constructed
	guard guard.ConstructorGuard
}

// NewCourier registers a courier.
//
// Parameters:
//   - id: identifier of the underlying user (must be valid UUID)
//   - name: human-readable name (must be non-empty)
//   - documents: licensing, insurance and payout references (may be empty)
//   - createdAt: registration time (must be set)
//
// Returns a courier that is available, off duty and has no cached position,
// or the aggregated validation errors.
func NewCourier(id kernel.UUID, name string, documents Documents, createdAt time.Time) (*Courier, error) {
	c := &Courier{
		available: true,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		c.setID(id),
		c.setName(name),
		c.setCreatedAt(createdAt),
	); err != nil {
		return nil, err
	}

	c.documents = documents.trimmed()
	return c, nil
}

// RestoreCourier reconstructs a Courier from persistent storage. position may
// be nil for couriers that never reported one.
func RestoreCourier(
	id kernel.UUID,
	name string,
	available, onDuty bool,
	position *Position,
	documents Documents,
	createdAt time.Time,
) (*Courier, error) {
	c, err := NewCourier(id, name, documents, createdAt)
	if err != nil {
		return nil, err
	}

	c.available = available
	c.onDuty = onDuty
	if position != nil {
		if err := position.Point().Validate(); err != nil {
			return nil, err
		}
		p := *position
		c.position = &p
	}
	return c, nil
}

// Validate checks that the courier was created through a constructor.
func (c *Courier) Validate() error {
	if c == nil {
		return ErrCourierIsNotConstructed
	}
	return c.guard.Validate(ErrCourierIsNotConstructed)
}

func (c *Courier) IsEqual(other *Courier) bool {
	return other != nil && c.id.IsEqual(other.id)
}

func (c *Courier) ID() kernel.UUID      { return c.id }
func (c *Courier) Name() string         { return c.name }
func (c *Courier) IsAvailable() bool    { return c.available }
func (c *Courier) IsOnDuty() bool       { return c.onDuty }
func (c *Courier) Documents() Documents { return c.documents }
func (c *Courier) CreatedAt() time.Time { return c.createdAt }

// Position returns the cached position, or false when none was reported yet.
func (c *Courier) Position() (Position, bool) {
	if c.position == nil {
		return Position{}, false
	}
	return *c.position, true
}

func (c *Courier) SetAvailability(available bool) {
	c.available = available
}

func (c *Courier) SetDuty(onDuty bool) {
	c.onDuty = onDuty
}

// UpdateDocuments replaces the licensing and payout references.
func (c *Courier) UpdateDocuments(documents Documents) {
	c.documents = documents.trimmed()
}

// ObservePosition caches p when it is newer than the cached position and
// reports whether the cache changed.
func (c *Courier) ObservePosition(p Position) bool {
	if c.position != nil && !p.IsNewerThan(*c.position) {
		return false
	}
	c.position = &p
	return true
}

func (c *Courier) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Courier) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameIsRequired
	}
	c.name = name
	return nil
}

func (c *Courier) setCreatedAt(createdAt time.Time) error {
	if createdAt.IsZero() {
		return errs.NewValueIsRequiredError("createdAt")
	}
	c.createdAt = createdAt.UTC()
	return nil
}

func (d Documents) trimmed() Documents {
	return Documents{
		LicenseNumber:   strings.TrimSpace(d.LicenseNumber),
		InsurancePolicy: strings.TrimSpace(d.InsurancePolicy),
		PayoutAccount:   strings.TrimSpace(d.PayoutAccount),
	}
}
