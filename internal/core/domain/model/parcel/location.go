package parcel

import (
	"fmt"
	"strings"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/pkg/errs"
)

// LocationKind says what kind of place a parcel location reference points into.
type LocationKind int

const (
	LocationUnset LocationKind = iota
	LocationWarehouse
	LocationStorageBox
	LocationClientAddress
	LocationInTransit
)

var locationKindNames = map[LocationKind]string{
	LocationUnset:         "",
	LocationWarehouse:     "warehouse",
	LocationStorageBox:    "storage_box",
	LocationClientAddress: "client_address",
	LocationInTransit:     "in_transit",
}

// ParseLocationKind maps the stored name back to a LocationKind; "" is LocationUnset.
func ParseLocationKind(s string) (LocationKind, error) {
	for kind, name := range locationKindNames {
		if name == s {
			return kind, nil
		}
	}
	return LocationUnset, errs.NewValueIsInvalidErrorWithCause("location kind", fmt.Errorf("%q is not a location kind", s))
}

func (k LocationKind) String() string {
	if name, ok := locationKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// IsGrounded reports whether a parcel at this kind is physically held by the operator.
func (k LocationKind) IsGrounded() bool {
	return k == LocationWarehouse || k == LocationStorageBox
}

// Location is the current place of a parcel. The reference is an opaque id into
// warehouse, storage-box, address or leg space depending on Kind.
type Location struct {
	kind    LocationKind
	ref     *kernel.UUID
	address string
}

// UnsetLocation is the location of a freshly registered or lost parcel.
func UnsetLocation() Location {
	return Location{kind: LocationUnset}
}

func WarehouseLocation(warehouseID kernel.UUID) (Location, error) {
	return RestoreLocation(LocationWarehouse, &warehouseID, "")
}

func StorageBoxLocation(boxID kernel.UUID) (Location, error) {
	return RestoreLocation(LocationStorageBox, &boxID, "")
}

// ClientAddressLocation records a hand-over at a free-text address; ref may point at a stored address.
func ClientAddressLocation(address string, ref *kernel.UUID) (Location, error) {
	return RestoreLocation(LocationClientAddress, ref, address)
}

// InTransitLocation references the leg carrying the parcel.
func InTransitLocation(legID kernel.UUID, address string) (Location, error) {
	return RestoreLocation(LocationInTransit, &legID, address)
}

// RestoreLocation rebuilds a location and checks that kind, ref and address agree.
func RestoreLocation(kind LocationKind, ref *kernel.UUID, address string) (Location, error) {
	address = strings.TrimSpace(address)

	if ref != nil {
		if err := ref.Validate(); err != nil {
			return Location{}, err
		}
	}

	switch kind {
	case LocationUnset:
		if ref != nil {
			return Location{}, errs.NewValueIsInvalidError("unset location cannot carry a reference")
		}
	case LocationWarehouse, LocationStorageBox, LocationInTransit:
		if ref == nil {
			return Location{}, errs.NewValueIsRequiredError(kind.String() + " location reference")
		}
	case LocationClientAddress:
		if address == "" && ref == nil {
			return Location{}, errs.NewValueIsRequiredError("client address")
		}
	default:
		return Location{}, errs.NewValueIsInvalidErrorWithCause("location kind", fmt.Errorf("%d is not a location kind", kind))
	}

	return Location{kind: kind, ref: ref, address: address}, nil
}

func (l Location) Kind() LocationKind {
	return l.kind
}

// Ref returns a copy of the reference, nil when the location carries none.
func (l Location) Ref() *kernel.UUID {
	if l.ref == nil {
		return nil
	}
	ref := *l.ref
	return &ref
}

func (l Location) Address() string {
	return l.address
}

// IsEqual compares kind, reference and address.
func (l Location) IsEqual(other Location) bool {
	if l.kind != other.kind || l.address != other.address {
		return false
	}
	if l.ref == nil || other.ref == nil {
		return l.ref == nil && other.ref == nil
	}
	return l.ref.IsEqual(*other.ref)
}

func (l Location) String() string {
	if l.ref == nil {
		return fmt.Sprintf("%s(%s)", l.kind, l.address)
	}
	return fmt.Sprintf("%s(%s)", l.kind, l.ref)
}
