// Package errs holds the error vocabulary shared by the domain, the use cases
// and the adapters of the parcel engine.
//
// Kinds:
//   - ValueIsRequiredError: a mandatory argument is missing
//   - ValueIsInvalidError: an argument is malformed
//   - ValueIsOutOfRangeError: a number lies outside its bounds (coordinates, radius)
//   - ObjectNotFoundError: a parcel, leg, courier or warehouse does not exist
//   - ConcurrentModificationError: a version check or entity lock was lost
//
// Every kind is a struct carrying its details and unwraps to a package-level
// sentinel (ErrValueIsRequired, ErrObjectNotFound, ...), so callers match with
// errors.Is and read the details with errors.As. The *WithCause constructors
// keep the underlying error for logs; Unwrap still yields the sentinel.
package errs
