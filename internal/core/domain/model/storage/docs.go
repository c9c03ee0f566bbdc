// Package storage models warehouse storage assignments: temporary reservations
// of warehouse space for grounded parcels.
//
// Key business rules:
//   - A parcel has at most one active assignment at a time
//   - An assignment is active until it is released or its stored-until time passes
//   - A warehouse never holds more active assignments than its declared capacity
//     (one unit of capacity per active assignment)
//   - Releasing an already released assignment is a no-op
package storage
