package queries

import (
	"errors"
	"time"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/pkg/errs"
	"parcelflow/internal/pkg/guard"
)

const DefaultOverdueLegsLimit = 100

var ErrListOverdueLegsQueryIsNotConstructed = errors.New(
	"ListOverdueLegsQuery must be created via NewListOverdueLegsQuery constructor",
)

// ListOverdueLegsQuery returns scheduled legs whose scheduled time is before
// the cutoff, oldest first. A non-positive limit falls back to DefaultOverdueLegsLimit.
type ListOverdueLegsQuery struct {
	cutoff time.Time
	limit  int

	guard guard.ConstructorGuard
}

func NewListOverdueLegsQuery(cutoff time.Time, limit int) (ListOverdueLegsQuery, error) {
	if cutoff.IsZero() {
		return ListOverdueLegsQuery{}, errs.NewValueIsRequiredError("cutoff")
	}
	if limit <= 0 {
		limit = DefaultOverdueLegsLimit
	}
	return ListOverdueLegsQuery{cutoff: cutoff, limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (q ListOverdueLegsQuery) Validate() error {
	return q.guard.Validate(ErrListOverdueLegsQueryIsNotConstructed)
}

func (q ListOverdueLegsQuery) Limit() int { return q.limit }

type OverdueLegView struct {
	LegID       kernel.UUID
	CourierID   *kernel.UUID
	ScheduledAt time.Time
	ParcelCount int
}
