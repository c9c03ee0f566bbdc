package commands

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/pkg/errs"
	"parcelflow/internal/pkg/guard"
)

var ErrAllocateStorageCommandIsNotConstructed = errors.New(
	"AllocateStorageCommand must be created via NewAllocateStorageCommand constructor",
)

// AllocateStorageCommand reserves warehouse space for a parcel. A nil
// storedUntil reserves the space until it is released.
type AllocateStorageCommand struct { //nolint:recvcheck //using for validation
	assignmentID kernel.UUID
	parcelID     kernel.UUID
	target       StorageTarget
	description  string
	at           time.Time

	guard guard.ConstructorGuard
}

func NewAllocateStorageCommand(
	parcelID, warehouseID kernel.UUID,
	area string,
	storedUntil *time.Time,
	description string,
	at time.Time,
) (AllocateStorageCommand, error) {
	command := AllocateStorageCommand{
		assignmentID: kernel.NewUUID(),
		target: StorageTarget{
			WarehouseID: warehouseID,
			Area:        strings.TrimSpace(area),
			StoredUntil: storedUntil,
		},
		description: strings.TrimSpace(description),
		guard:       guard.NewConstructorGuard(),
	}

	var atErr error
	switch {
	case at.IsZero():
		atErr = errs.NewValueIsRequiredError("at")
	case storedUntil != nil && !storedUntil.After(at):
		atErr = errs.NewValueIsInvalidErrorWithCause(
			"stored until is invalid",
			fmt.Errorf("%s is not after %s", storedUntil.Format(time.RFC3339), at.Format(time.RFC3339)),
		)
	}

	if err := errors.Join(parcelID.Validate(), command.target.validate(), atErr); err != nil {
		return AllocateStorageCommand{}, err
	}

	command.parcelID = parcelID
	command.at = at
	return command, nil
}

func (c AllocateStorageCommand) Validate() error {
	return c.guard.Validate(ErrAllocateStorageCommandIsNotConstructed)
}

func (c AllocateStorageCommand) AssignmentID() kernel.UUID { return c.assignmentID }
func (c AllocateStorageCommand) ParcelID() kernel.UUID     { return c.parcelID }
func (c AllocateStorageCommand) Target() StorageTarget     { return c.target }
func (c AllocateStorageCommand) Description() string       { return c.description }
func (c AllocateStorageCommand) At() time.Time             { return c.at }
