package postgres

import (
	"parcelflow/internal/adapters/out/postgres/courierrepo"
	"parcelflow/internal/adapters/out/postgres/ledgerrepo"
	"parcelflow/internal/adapters/out/postgres/legrepo"
	"parcelflow/internal/adapters/out/postgres/parcelrepo"
	"parcelflow/internal/adapters/out/postgres/positionrepo"
	"parcelflow/internal/adapters/out/postgres/storagerepo"

	"gorm.io/gorm"
)

// Models lists the tables owned by the engine. The warehouses and
// announcements tables belong to other services and are not migrated here.
func Models() []any {
	return []any{
		&parcelrepo.ParcelDTO{},
		&ledgerrepo.LocationEntryDTO{},
		&storagerepo.StorageAssignmentDTO{},
		&legrepo.LegDTO{},
		&legrepo.LegParcelDTO{},
		&legrepo.LegHistoryDTO{},
		&courierrepo.CourierDTO{},
		&positionrepo.PositionSampleDTO{},
	}
}

// Migrate creates or updates the engine tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
