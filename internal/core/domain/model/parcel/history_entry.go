package parcel

import (
	"time"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/pkg/errs"
)

// HistoryEntry is one append-only record of the location ledger.
// ID is zero until the ledger assigns one.
type HistoryEntry struct {
	id          int64
	parcelID    kernel.UUID
	location    Location
	description string
	movedAt     time.Time
}

// NewHistoryEntry builds an entry that has not been appended yet.
func NewHistoryEntry(parcelID kernel.UUID, location Location, description string, movedAt time.Time) (HistoryEntry, error) {
	if err := parcelID.Validate(); err != nil {
		return HistoryEntry{}, err
	}
	if movedAt.IsZero() {
		return HistoryEntry{}, errs.NewValueIsRequiredError("movedAt")
	}

	return HistoryEntry{
		parcelID:    parcelID,
		location:    location,
		description: description,
		movedAt:     movedAt.UTC(),
	}, nil
}

// RestoreHistoryEntry rebuilds a persisted entry.
func RestoreHistoryEntry(
	id int64,
	parcelID kernel.UUID,
	location Location,
	description string,
	movedAt time.Time,
) (HistoryEntry, error) {
	if id <= 0 {
		return HistoryEntry{}, errs.NewValueIsRequiredError("history entry id")
	}

	entry, err := NewHistoryEntry(parcelID, location, description, movedAt)
	if err != nil {
		return HistoryEntry{}, err
	}
	entry.id = id
	return entry, nil
}

func (e HistoryEntry) ID() int64             { return e.id }
func (e HistoryEntry) ParcelID() kernel.UUID { return e.parcelID }
func (e HistoryEntry) Location() Location    { return e.location }
func (e HistoryEntry) Description() string   { return e.description }
func (e HistoryEntry) MovedAt() time.Time    { return e.movedAt }
