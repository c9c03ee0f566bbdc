// Package parcel models the parcel record, its status state machine and the
// location history entries that accompany every move.
//
// The package includes:
//   - Parcel: the aggregate carrying physical attributes, status and current location
//   - Status: the lifecycle state machine (stored, in_transit, delivered, lost)
//   - Location: where a parcel currently is (warehouse, storage box, client address, in transit, unset)
//   - HistoryEntry: one append-only record of the location ledger
//
// Key business rules:
//   - Allowed transitions: stored->in_transit, in_transit->delivered|lost|stored, lost->stored
//   - delivered is terminal; self-loops are rejected
//   - Every status change produces exactly one HistoryEntry, and the parcel's current
//     location always equals the location of its latest entry
//   - Entries for one parcel are non-decreasing in time; late writes are rejected
package parcel
