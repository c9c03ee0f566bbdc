// Package courier provides the courier aggregate and its position telemetry.
//
// The package includes:
//   - Courier: identity, operational flags and the cached last known position
//   - Position: a point on the globe together with the time it was captured
//   - PositionSample: one raw GPS reading, kept append-only for audit and replay
//
// Key business rules:
//   - Couriers share their identifier with the underlying user account
//   - The cached position only ever moves forward in capture time; late samples
//     are still recorded but never overwrite a newer cached position
//   - Latitude lies in [-90, 90] and longitude in [-180, 180]
package courier
