package commands

import (
	"errors"
	"strings"
	"time"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/pkg/errs"
	"parcelflow/internal/pkg/guard"
)

var ErrStartLegCommandIsNotConstructed = errors.New(
	"StartLegCommand must be created via NewStartLegCommand constructor",
)

type StartLegCommand struct { //nolint:recvcheck //using for validation
	legID   kernel.UUID
	remarks string
	at      time.Time

	guard guard.ConstructorGuard
}

func NewStartLegCommand(legID kernel.UUID, remarks string, at time.Time) (StartLegCommand, error) {
	if err := legID.Validate(); err != nil {
		return StartLegCommand{}, err
	}
	if at.IsZero() {
		return StartLegCommand{}, errs.NewValueIsRequiredError("at")
	}

	return StartLegCommand{
		legID:   legID,
		remarks: strings.TrimSpace(remarks),
		at:      at,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c StartLegCommand) Validate() error {
	return c.guard.Validate(ErrStartLegCommandIsNotConstructed)
}

func (c StartLegCommand) LegID() kernel.UUID { return c.legID }
func (c StartLegCommand) Remarks() string    { return c.remarks }
func (c StartLegCommand) At() time.Time      { return c.at }
