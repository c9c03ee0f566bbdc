package commands

import (
	"errors"
	"strings"
	"time"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/pkg/errs"
	"parcelflow/internal/pkg/guard"
)

var ErrCancelLegCommandIsNotConstructed = errors.New(
	"CancelLegCommand must be created via NewCancelLegCommand constructor",
)

// CancelLegCommand cancels a scheduled or in-progress leg. Restock names the
// storage target for in-transit parcels; parcels without an entry go back to
// the warehouse they were last stored in.
type CancelLegCommand struct { //nolint:recvcheck //using for validation
	legID   kernel.UUID
	reason  string
	restock map[kernel.UUID]StorageTarget
	at      time.Time

	guard guard.ConstructorGuard
}

func NewCancelLegCommand(
	legID kernel.UUID,
	reason string,
	restock map[kernel.UUID]StorageTarget,
	at time.Time,
) (CancelLegCommand, error) {
	var err error
	if vErr := legID.Validate(); vErr != nil {
		err = errors.Join(err, vErr)
	}
	for _, target := range restock {
		if vErr := target.validate(); vErr != nil {
			err = errors.Join(err, vErr)
		}
	}
	if at.IsZero() {
		err = errors.Join(err, errs.NewValueIsRequiredError("at"))
	}
	if err != nil {
		return CancelLegCommand{}, err
	}

	copied := make(map[kernel.UUID]StorageTarget, len(restock))
	for parcelID, target := range restock {
		copied[parcelID] = target
	}

	return CancelLegCommand{
		legID:   legID,
		reason:  strings.TrimSpace(reason),
		restock: copied,
		at:      at,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c CancelLegCommand) Validate() error {
	return c.guard.Validate(ErrCancelLegCommandIsNotConstructed)
}

func (c CancelLegCommand) LegID() kernel.UUID { return c.legID }
func (c CancelLegCommand) Reason() string     { return c.reason }
func (c CancelLegCommand) At() time.Time      { return c.at }

func (c CancelLegCommand) RestockTarget(parcelID kernel.UUID) (StorageTarget, bool) {
	t, ok := c.restock[parcelID]
	return t, ok
}
