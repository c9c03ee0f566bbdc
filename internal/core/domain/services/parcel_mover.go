package services

import (
	"fmt"
	"time"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/core/domain/model/leg"
	"parcelflow/internal/core/domain/model/parcel"
)

// Outcome is the terminal decision for one parcel when its leg completes.
type Outcome int

const (
	OutcomeUnknown Outcome = iota
	OutcomeDelivered
	OutcomeRestored
	OutcomeLost
)

var outcomeNames = map[Outcome]string{
	OutcomeDelivered: "delivered",
	OutcomeRestored:  "restored",
	OutcomeLost:      "lost",
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return "unknown"
}

// ParseOutcome accepts "delivered", "restored" and "lost".
func ParseOutcome(s string) (Outcome, error) {
	for o, name := range outcomeNames {
		if name == s {
			return o, nil
		}
	}
	return OutcomeUnknown, fmt.Errorf("unknown parcel outcome %q", s)
}

// IsPartial reports whether the outcomes of one leg differ from each other.
func IsPartial(outcomes []Outcome) bool {
	for _, o := range outcomes {
		if o != outcomes[0] {
			return true
		}
	}
	return false
}

// ParcelMover translates leg events into parcel moves. Every method either
// changes the parcel and returns the ledger entry describing the change, or
// leaves the parcel untouched and returns an error.
//
// Location policy:
//   - Dispatch: in_transit, referencing the leg, addressed at the pickup point
//   - Deliver: client address, addressed at the dropoff point
//   - MarkLost: unset location
//   - Restock: warehouse, from in_transit or lost, or a relocation when stored
type ParcelMover struct{}

func NewParcelMover() ParcelMover {
	return ParcelMover{}
}

func (ParcelMover) Dispatch(p *parcel.Parcel, l *leg.Leg, at time.Time) (parcel.HistoryEntry, error) {
	loc, err := parcel.InTransitLocation(l.ID(), l.Pickup())
	if err != nil {
		return parcel.HistoryEntry{}, err
	}
	return p.Move(parcel.InTransit, loc, fmt.Sprintf("picked up for leg %s", l.ID()), at)
}

func (ParcelMover) Deliver(p *parcel.Parcel, l *leg.Leg, at time.Time) (parcel.HistoryEntry, error) {
	loc, err := parcel.ClientAddressLocation(l.Dropoff(), nil)
	if err != nil {
		return parcel.HistoryEntry{}, err
	}
	return p.Move(parcel.Delivered, loc, fmt.Sprintf("delivered by leg %s", l.ID()), at)
}

func (ParcelMover) MarkLost(p *parcel.Parcel, l *leg.Leg, remarks string, at time.Time) (parcel.HistoryEntry, error) {
	description := fmt.Sprintf("lost on leg %s", l.ID())
	if remarks != "" {
		description += ": " + remarks
	}
	return p.Move(parcel.Lost, parcel.UnsetLocation(), description, at)
}

// Restock puts the parcel into a warehouse. In-transit and lost parcels are
// moved back to stored; stored parcels are relocated.
func (ParcelMover) Restock(p *parcel.Parcel, warehouseID kernel.UUID, description string, at time.Time) (parcel.HistoryEntry, error) {
	loc, err := parcel.WarehouseLocation(warehouseID)
	if err != nil {
		return parcel.HistoryEntry{}, err
	}
	if p.Status() == parcel.Stored {
		return p.Relocate(loc, description, at)
	}
	return p.Move(parcel.Stored, loc, description, at)
}
