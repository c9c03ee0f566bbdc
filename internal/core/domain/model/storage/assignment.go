package storage

import (
	"errors"
	"strings"
	"time"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/pkg/errs"
	"parcelflow/internal/pkg/guard"
)

// Assignment reserves one unit of a warehouse for a parcel.
type Assignment struct {
	id          kernel.UUID
	parcelID    kernel.UUID
	warehouseID kernel.UUID
	area        string
	storedUntil *time.Time
	description string
	createdAt   time.Time
	releasedAt  *time.Time

	guard guard.ConstructorGuard
}

// NewAssignment creates an active assignment. A nil storedUntil means indefinite.
func NewAssignment(
	id, parcelID, warehouseID kernel.UUID,
	area string,
	storedUntil *time.Time,
	description string,
	createdAt time.Time,
) (*Assignment, error) {
	a := &Assignment{
		description: strings.TrimSpace(description),
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		a.setIDs(id, parcelID, warehouseID),
		a.setArea(area),
		a.setTimes(createdAt, storedUntil),
	); err != nil {
		return nil, err
	}

	return a, nil
}

// RestoreAssignment rebuilds a persisted assignment.
func RestoreAssignment(
	id, parcelID, warehouseID kernel.UUID,
	area string,
	storedUntil *time.Time,
	description string,
	createdAt time.Time,
	releasedAt *time.Time,
) (*Assignment, error) {
	a, err := NewAssignment(id, parcelID, warehouseID, area, storedUntil, description, createdAt)
	if err != nil {
		return nil, err
	}
	if releasedAt != nil {
		released := releasedAt.UTC()
		a.releasedAt = &released
	}
	return a, nil
}

func (a *Assignment) Validate() error {
	if a == nil {
		return ErrAssignmentIsNotConstructed
	}
	return a.guard.Validate(ErrAssignmentIsNotConstructed)
}

func (a *Assignment) ID() kernel.UUID          { return a.id }
func (a *Assignment) ParcelID() kernel.UUID    { return a.parcelID }
func (a *Assignment) WarehouseID() kernel.UUID { return a.warehouseID }
func (a *Assignment) Area() string             { return a.area }
func (a *Assignment) Description() string      { return a.description }
func (a *Assignment) CreatedAt() time.Time     { return a.createdAt }

func (a *Assignment) StoredUntil() *time.Time {
	return copyTime(a.storedUntil)
}

func (a *Assignment) ReleasedAt() *time.Time {
	return copyTime(a.releasedAt)
}

// IsReleased reports an explicit release.
func (a *Assignment) IsReleased() bool {
	return a.releasedAt != nil
}

// IsExpired reports whether the stored-until time has passed at now.
func (a *Assignment) IsExpired(now time.Time) bool {
	return a.storedUntil != nil && !now.Before(*a.storedUntil)
}

// IsActive reports whether the assignment still holds warehouse capacity at now.
func (a *Assignment) IsActive(now time.Time) bool {
	return !a.IsReleased() && !a.IsExpired(now)
}

// Release frees the assignment. It returns false when it was already released,
// so callers can skip persisting a no-op.
func (a *Assignment) Release(at time.Time) bool {
	if a.IsReleased() {
		return false
	}
	released := at.UTC()
	if released.Before(a.createdAt) {
		released = a.createdAt
	}
	a.releasedAt = &released
	return true
}

func (a *Assignment) setIDs(id, parcelID, warehouseID kernel.UUID) error {
	if err := errors.Join(id.Validate(), parcelID.Validate(), warehouseID.Validate()); err != nil {
		return err
	}
	a.id, a.parcelID, a.warehouseID = id, parcelID, warehouseID
	return nil
}

func (a *Assignment) setArea(area string) error {
	area = strings.TrimSpace(area)
	if area == "" {
		return errs.NewValueIsRequiredError("storage area")
	}
	a.area = area
	return nil
}

func (a *Assignment) setTimes(createdAt time.Time, storedUntil *time.Time) error {
	if createdAt.IsZero() {
		return errs.NewValueIsRequiredError("createdAt")
	}
	a.createdAt = createdAt.UTC()

	if storedUntil != nil {
		if !storedUntil.After(createdAt) {
			return errs.NewValueIsInvalidError("storedUntil must be after the allocation time")
		}
		a.storedUntil = copyTime(storedUntil)
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
