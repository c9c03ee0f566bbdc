package storage

import (
	"time"

	"parcelflow/internal/core/domain/model/kernel"
)

// Allocator decides whether a new assignment may be created. It holds no state;
// callers load the parcel's current assignment and the warehouse's active count
// under the parcel and warehouse locks.
type Allocator struct{}

func NewAllocator() Allocator {
	return Allocator{}
}

// CanAllocate checks the one-active-assignment-per-parcel rule and warehouse capacity.
func (Allocator) CanAllocate(
	parcelID, warehouseID kernel.UUID,
	current *Assignment,
	activeInWarehouse, capacity int,
	now time.Time,
) error {
	if current != nil && current.IsActive(now) {
		return &ParcelAlreadyStoredError{ParcelID: parcelID, AssignmentID: current.ID()}
	}
	if activeInWarehouse >= capacity {
		return &CapacityExceededError{WarehouseID: warehouseID, Capacity: capacity, Active: activeInWarehouse}
	}
	return nil
}
