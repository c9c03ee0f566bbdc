// Package leg models delivery legs: one courier's assignment to carry a set of
// parcels from a pickup point to a dropoff point.
//
// A leg moves through its own state machine:
//
//	scheduled -> in_progress -> completed
//	scheduled | in_progress -> cancelled
//
// Completed and cancelled are terminal. Starting requires an assigned courier.
// Every status change yields a HistoryEntry that callers persist together with
// the leg; entries for one leg never go back in time.
//
// Parcels are linked through explicit association records created when the leg
// is assigned. A parcel may be on at most one scheduled or in-progress leg.
package leg
