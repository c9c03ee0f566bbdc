// Package services provides domain services that coordinate business rules
// across several aggregates of the parcel tracking engine.
//
// The package includes:
//   - ParcelMover: decides where a parcel goes for each leg event and drives
//     the parcel state machine accordingly
//   - CourierLocator: ranks couriers around a point by great-circle distance
//
// Domain services are stateless. They mutate the aggregates passed to them and
// return the history entries callers must persist in the same transaction.
package services
