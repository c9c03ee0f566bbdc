package commands

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/core/domain/services"
	"parcelflow/internal/pkg/errs"
	"parcelflow/internal/pkg/guard"
)

var ErrCompleteLegCommandIsNotConstructed = errors.New(
	"CompleteLegCommand must be created via NewCompleteLegCommand constructor",
)

// ParcelOutcome is the decision for one parcel of a completed leg. Target is
// required for services.OutcomeRestored and ignored otherwise.
type ParcelOutcome struct {
	Outcome services.Outcome
	Target  *StorageTarget
}

func Delivered() ParcelOutcome { return ParcelOutcome{Outcome: services.OutcomeDelivered} }
func Lost() ParcelOutcome      { return ParcelOutcome{Outcome: services.OutcomeLost} }

func Restored(target StorageTarget) ParcelOutcome {
	return ParcelOutcome{Outcome: services.OutcomeRestored, Target: &target}
}

func (o ParcelOutcome) validate(parcelID kernel.UUID) error {
	switch o.Outcome {
	case services.OutcomeDelivered, services.OutcomeLost:
		return nil
	case services.OutcomeRestored:
		if o.Target == nil {
			return errs.NewValueIsRequiredError(fmt.Sprintf("storage target for parcel %s", parcelID))
		}
		return o.Target.validate()
	default:
		return errs.NewValueIsInvalidErrorWithCause("outcome is invalid", fmt.Errorf("parcel %s has no outcome", parcelID))
	}
}

// CompleteLegCommand closes an in-progress leg with one outcome per parcel.
type CompleteLegCommand struct { //nolint:recvcheck //using for validation
	legID       kernel.UUID
	outcomes    map[kernel.UUID]ParcelOutcome
	assignments map[kernel.UUID]kernel.UUID
	remarks     string
	at          time.Time

	guard guard.ConstructorGuard
}

func NewCompleteLegCommand(
	legID kernel.UUID,
	outcomes map[kernel.UUID]ParcelOutcome,
	remarks string,
	at time.Time,
) (CompleteLegCommand, error) {
	var err error
	if vErr := legID.Validate(); vErr != nil {
		err = errors.Join(err, vErr)
	}
	if len(outcomes) == 0 {
		err = errors.Join(err, errs.NewValueIsRequiredError("outcomes"))
	}
	for parcelID, outcome := range outcomes {
		if vErr := outcome.validate(parcelID); vErr != nil {
			err = errors.Join(err, vErr)
		}
	}
	if at.IsZero() {
		err = errors.Join(err, errs.NewValueIsRequiredError("at"))
	}
	if err != nil {
		return CompleteLegCommand{}, err
	}

	copied := make(map[kernel.UUID]ParcelOutcome, len(outcomes))
	assignments := make(map[kernel.UUID]kernel.UUID)
	for parcelID, outcome := range outcomes {
		copied[parcelID] = outcome
		if outcome.Outcome == services.OutcomeRestored {
			assignments[parcelID] = kernel.NewUUID()
		}
	}

	return CompleteLegCommand{
		legID:       legID,
		outcomes:    copied,
		assignments: assignments,
		remarks:     strings.TrimSpace(remarks),
		at:          at,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c CompleteLegCommand) Validate() error {
	return c.guard.Validate(ErrCompleteLegCommandIsNotConstructed)
}

func (c CompleteLegCommand) LegID() kernel.UUID { return c.legID }
func (c CompleteLegCommand) Remarks() string    { return c.remarks }
func (c CompleteLegCommand) At() time.Time      { return c.at }

func (c CompleteLegCommand) Outcome(parcelID kernel.UUID) (ParcelOutcome, bool) {
	o, ok := c.outcomes[parcelID]
	return o, ok
}

// AssignmentID is the id of the storage assignment created for a restored parcel.
func (c CompleteLegCommand) AssignmentID(parcelID kernel.UUID) kernel.UUID {
	return c.assignments[parcelID]
}

// ParcelIDs lists the parcels with an outcome, in a stable order.
func (c CompleteLegCommand) ParcelIDs() []kernel.UUID {
	ids := make([]kernel.UUID, 0, len(c.outcomes))
	for id := range c.outcomes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
	return ids
}

// WarehouseIDs lists the distinct warehouses restored parcels go to.
func (c CompleteLegCommand) WarehouseIDs() []kernel.UUID {
	seen := make(map[kernel.UUID]struct{})
	ids := make([]kernel.UUID, 0)
	for _, o := range c.outcomes {
		if o.Target == nil || o.Outcome != services.OutcomeRestored {
			continue
		}
		if _, ok := seen[o.Target.WarehouseID]; ok {
			continue
		}
		seen[o.Target.WarehouseID] = struct{}{}
		ids = append(ids, o.Target.WarehouseID)
	}
	return ids
}
