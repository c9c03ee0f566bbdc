package queries

import (
	"errors"
	"time"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/pkg/guard"
)

var ErrLegHistoryQueryIsNotConstructed = errors.New(
	"LegHistoryQuery must be created via NewLegHistoryQuery constructor",
)

// LegHistoryQuery lists the status changes of a leg, oldest first.
type LegHistoryQuery struct {
	legID kernel.UUID

	guard guard.ConstructorGuard
}

func NewLegHistoryQuery(legID kernel.UUID) (LegHistoryQuery, error) {
	if err := legID.Validate(); err != nil {
		return LegHistoryQuery{}, err
	}
	return LegHistoryQuery{legID: legID, guard: guard.NewConstructorGuard()}, nil
}

func (q LegHistoryQuery) Validate() error {
	return q.guard.Validate(ErrLegHistoryQueryIsNotConstructed)
}

type LegHistoryEntryView struct {
	ID        int64
	Status    string
	Remarks   string
	ChangedAt time.Time
}
