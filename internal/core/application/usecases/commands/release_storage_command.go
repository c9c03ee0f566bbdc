package commands

import (
	"errors"
	"time"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/pkg/errs"
	"parcelflow/internal/pkg/guard"
)

var ErrReleaseStorageCommandIsNotConstructed = errors.New(
	"ReleaseStorageCommand must be created via NewReleaseStorageCommand constructor",
)

type ReleaseStorageCommand struct { //nolint:recvcheck //using for validation
	assignmentID kernel.UUID
	at           time.Time

	guard guard.ConstructorGuard
}

func NewReleaseStorageCommand(assignmentID kernel.UUID, at time.Time) (ReleaseStorageCommand, error) {
	if err := assignmentID.Validate(); err != nil {
		return ReleaseStorageCommand{}, err
	}
	if at.IsZero() {
		return ReleaseStorageCommand{}, errs.NewValueIsRequiredError("at")
	}

	return ReleaseStorageCommand{
		assignmentID: assignmentID,
		at:           at,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c ReleaseStorageCommand) Validate() error {
	return c.guard.Validate(ErrReleaseStorageCommandIsNotConstructed)
}

func (c ReleaseStorageCommand) AssignmentID() kernel.UUID { return c.assignmentID }
func (c ReleaseStorageCommand) At() time.Time             { return c.at }
