package commands

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/core/domain/model/parcel"
	"parcelflow/internal/pkg/errs"
	"parcelflow/internal/pkg/guard"
)

var ErrRelocateParcelCommandIsNotConstructed = errors.New(
	"RelocateParcelCommand must be created via NewRelocateParcelCommand constructor",
)

// RelocateParcelCommand is a manual correction moving a stored parcel between
// a warehouse and a storage box. Area is required for warehouse targets; it
// names the spot of the storage assignment the move may create.
type RelocateParcelCommand struct { //nolint:recvcheck //using for validation
	parcelID     kernel.UUID
	assignmentID kernel.UUID
	location     parcel.Location
	area         string
	description  string
	at           time.Time

	guard guard.ConstructorGuard
}

func NewRelocateParcelCommand(
	parcelID kernel.UUID,
	kind parcel.LocationKind,
	ref kernel.UUID,
	area string,
	description string,
	at time.Time,
) (RelocateParcelCommand, error) {
	if !kind.IsGrounded() {
		return RelocateParcelCommand{}, errs.NewValueIsInvalidErrorWithCause(
			"location kind is invalid",
			fmt.Errorf("%q is not a storage location", kind),
		)
	}

	loc, locErr := parcel.RestoreLocation(kind, &ref, "")

	var atErr error
	if at.IsZero() {
		atErr = errs.NewValueIsRequiredError("at")
	}

	area = strings.TrimSpace(area)
	var areaErr error
	if kind == parcel.LocationWarehouse && area == "" {
		areaErr = errs.NewValueIsRequiredError("storage area")
	}

	if err := errors.Join(parcelID.Validate(), locErr, atErr, areaErr); err != nil {
		return RelocateParcelCommand{}, err
	}

	return RelocateParcelCommand{
		parcelID:     parcelID,
		assignmentID: kernel.NewUUID(),
		location:     loc,
		area:         area,
		description:  strings.TrimSpace(description),
		at:           at,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c RelocateParcelCommand) Validate() error {
	return c.guard.Validate(ErrRelocateParcelCommandIsNotConstructed)
}

func (c RelocateParcelCommand) ParcelID() kernel.UUID     { return c.parcelID }
func (c RelocateParcelCommand) Location() parcel.Location { return c.location }
func (c RelocateParcelCommand) Area() string              { return c.area }
func (c RelocateParcelCommand) Description() string       { return c.description }
func (c RelocateParcelCommand) At() time.Time             { return c.at }

// AssignmentID identifies the storage assignment created when the parcel moves
// into a warehouse it is not yet assigned to.
func (c RelocateParcelCommand) AssignmentID() kernel.UUID { return c.assignmentID }

// WarehouseID returns the target warehouse, if the target is one.
func (c RelocateParcelCommand) WarehouseID() *kernel.UUID {
	if c.location.Kind() != parcel.LocationWarehouse {
		return nil
	}
	return c.location.Ref()
}
