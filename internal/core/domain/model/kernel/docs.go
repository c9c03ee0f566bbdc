// Package kernel provides the shared domain primitives of the parcel tracking engine.
//
// The package includes:
//   - UUID: a value object for entity identifiers with validation and comparison
//   - GeoPoint: a validated latitude/longitude pair with great-circle distance
//
// These primitives enforce their invariants at construction time, are immutable
// and safe for concurrent use.
package kernel
