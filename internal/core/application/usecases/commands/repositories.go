// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, entity locking,
// transaction management, persistence, and post-commit notification.
package commands

import (
	"context"

	"parcelflow/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// Each handler depends on the narrowest combination it needs.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// ParcelRepoFactory provides the parcel repository and its location ledger.
	// Both are always written together.
	ParcelRepoFactory interface {
		ParcelRepository() ports.ParcelRepository
		LocationLedger() ports.LocationLedger
	}

	StorageRepoFactory interface {
		StorageRepository() ports.StorageRepository
	}

	LegRepoFactory interface {
		LegRepository() ports.LegRepository
	}

	CourierRepoFactory interface {
		CourierRepository() ports.CourierRepository
	}

	PositionRepoFactory interface {
		PositionLedger() ports.PositionLedger
	}

	// ParcelUoW is used by parcel registration.
	ParcelUoW interface {
		TxManager
		ParcelRepoFactory
	}

	ParcelUoWFactory interface {
		Create() ParcelUoW
	}

	// StorageUoW is used by the storage allocator commands.
	StorageUoW interface {
		TxManager
		ParcelRepoFactory
		StorageRepoFactory
		LegRepoFactory
	}

	StorageUoWFactory interface {
		Create() StorageUoW
	}

	// DeliveryUoW spans every aggregate a leg touches.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   legRepo := uow.LegRepository()
	//   parcelRepo := uow.ParcelRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	DeliveryUoW interface {
		TxManager
		ParcelRepoFactory
		StorageRepoFactory
		LegRepoFactory
		CourierRepoFactory
	}

	DeliveryUoWFactory interface {
		Create() DeliveryUoW
	}

	// CourierUoW manages courier-only operations.
	CourierUoW interface {
		TxManager
		CourierRepoFactory
	}

	CourierUoWFactory interface {
		Create() CourierUoW
	}

	// TelemetryUoW is used by position ingestion.
	TelemetryUoW interface {
		TxManager
		CourierRepoFactory
		PositionRepoFactory
		LegRepoFactory
	}

	TelemetryUoWFactory interface {
		Create() TelemetryUoW
	}
)
