package leg

import (
	"strings"
	"time"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/pkg/errs"
)

// HistoryEntry records one status change of a leg.
type HistoryEntry struct {
	id        int64
	legID     kernel.UUID
	status    Status
	remarks   string
	changedAt time.Time
}

func NewHistoryEntry(legID kernel.UUID, status Status, remarks string, changedAt time.Time) (HistoryEntry, error) {
	if err := legID.Validate(); err != nil {
		return HistoryEntry{}, err
	}
	if err := status.Validate(); err != nil {
		return HistoryEntry{}, err
	}
	if changedAt.IsZero() {
		return HistoryEntry{}, errs.NewValueIsRequiredError("changedAt")
	}

	return HistoryEntry{
		legID:     legID,
		status:    status,
		remarks:   strings.TrimSpace(remarks),
		changedAt: changedAt.UTC(),
	}, nil
}

func RestoreHistoryEntry(id int64, legID kernel.UUID, status Status, remarks string, changedAt time.Time) (HistoryEntry, error) {
	if id <= 0 {
		return HistoryEntry{}, errs.NewValueIsRequiredError("history entry id")
	}
	entry, err := NewHistoryEntry(legID, status, remarks, changedAt)
	if err != nil {
		return HistoryEntry{}, err
	}
	entry.id = id
	return entry, nil
}

func (e HistoryEntry) ID() int64            { return e.id }
func (e HistoryEntry) LegID() kernel.UUID   { return e.legID }
func (e HistoryEntry) Status() Status       { return e.status }
func (e HistoryEntry) Remarks() string      { return e.remarks }
func (e HistoryEntry) ChangedAt() time.Time { return e.changedAt }
