// Package legrepo persists delivery legs, their parcel links and their status
// history.
package legrepo

import (
	"time"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/core/domain/model/leg"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LegDTO represents the database structure for persisting legs.
type LegDTO struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CourierID     *uuid.UUID      `gorm:"type:uuid;index"`
	Pickup        string          `gorm:"type:text;not null"`
	Dropoff       string          `gorm:"type:text;not null"`
	ScheduledAt   time.Time       `gorm:"type:timestamptz;not null;index"`
	StartedAt     *time.Time      `gorm:"type:timestamptz"`
	CompletedAt   *time.Time      `gorm:"type:timestamptz"`
	Status        string          `gorm:"type:varchar(16);not null;index"`
	Partial       bool            `gorm:"not null;default:false"`
	PaymentStatus string          `gorm:"type:varchar(16);not null"`
	Amount        decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	LastChangedAt time.Time       `gorm:"type:timestamptz;not null"`
	Version       int             `gorm:"type:int;not null;default:0"`
	CreatedAt     time.Time       `gorm:"type:timestamptz;not null"`
	Parcels       []LegParcelDTO  `gorm:"foreignKey:LegID;constraint:OnDelete:CASCADE"`
}

func (LegDTO) TableName() string {
	return "legs"
}

// LegParcelDTO links a parcel to a leg. Position keeps the order the parcels
// were given in.
type LegParcelDTO struct {
	LegID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	ParcelID  uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	Position  int       `gorm:"type:int;not null"`
	CreatedAt time.Time `gorm:"type:timestamptz;not null"`
}

func (LegParcelDTO) TableName() string {
	return "leg_parcels"
}

// LegHistoryDTO is one status change of a leg. Rows are never updated.
type LegHistoryDTO struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	LegID     uuid.UUID `gorm:"type:uuid;not null;index:idx_leg_history_leg_changed,priority:1"`
	Status    string    `gorm:"type:varchar(16);not null"`
	Remarks   string    `gorm:"type:text;not null;default:''"`
	ChangedAt time.Time `gorm:"type:timestamptz;not null;index:idx_leg_history_leg_changed,priority:2"`
}

func (LegHistoryDTO) TableName() string {
	return "leg_history"
}

func fromDomain(l *leg.Leg) LegDTO {
	legID := l.ID().Bytes()

	parcels := make([]LegParcelDTO, 0, len(l.ParcelIDs()))
	for i, parcelID := range l.ParcelIDs() {
		parcels = append(parcels, LegParcelDTO{
			LegID:     legID,
			ParcelID:  parcelID.Bytes(),
			Position:  i,
			CreatedAt: l.CreatedAt(),
		})
	}

	var courierID *uuid.UUID
	if id := l.CourierID(); id != nil {
		raw := id.Bytes()
		courierID = &raw
	}

	return LegDTO{
		ID:            legID,
		CourierID:     courierID,
		Pickup:        l.Pickup(),
		Dropoff:       l.Dropoff(),
		ScheduledAt:   l.ScheduledAt(),
		StartedAt:     l.StartedAt(),
		CompletedAt:   l.CompletedAt(),
		Status:        l.Status().String(),
		Partial:       l.IsPartial(),
		PaymentStatus: l.PaymentStatus().String(),
		Amount:        l.Amount(),
		LastChangedAt: l.LastChangedAt(),
		Version:       l.Version(),
		CreatedAt:     l.CreatedAt(),
		Parcels:       parcels,
	}
}

func toDomain(dto LegDTO) (*leg.Leg, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var courierID *kernel.UUID
	if dto.CourierID != nil {
		cID, idErr := kernel.UUIDFromBytes(dto.CourierID[:])
		if idErr != nil {
			return nil, idErr
		}
		courierID = &cID
	}

	parcelIDs := make([]kernel.UUID, 0, len(dto.Parcels))
	for _, link := range dto.Parcels {
		parcelID, idErr := kernel.UUIDFromBytes(link.ParcelID[:])
		if idErr != nil {
			return nil, idErr
		}
		parcelIDs = append(parcelIDs, parcelID)
	}

	status, err := leg.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	paymentStatus, err := leg.ParsePaymentStatus(dto.PaymentStatus)
	if err != nil {
		return nil, err
	}

	return leg.RestoreLeg(
		id, parcelIDs, courierID, dto.Pickup, dto.Dropoff, dto.ScheduledAt, dto.StartedAt, dto.CompletedAt,
		status, dto.Partial, paymentStatus, dto.Amount, dto.LastChangedAt, dto.Version, dto.CreatedAt,
	)
}

func historyFromDomain(entry leg.HistoryEntry) LegHistoryDTO {
	return LegHistoryDTO{
		LegID:     entry.LegID().Bytes(),
		Status:    entry.Status().String(),
		Remarks:   entry.Remarks(),
		ChangedAt: entry.ChangedAt(),
	}
}

func historyToDomain(dto LegHistoryDTO) (leg.HistoryEntry, error) {
	legID, err := kernel.UUIDFromBytes(dto.LegID[:])
	if err != nil {
		return leg.HistoryEntry{}, err
	}
	status, err := leg.ParseStatus(dto.Status)
	if err != nil {
		return leg.HistoryEntry{}, err
	}
	return leg.RestoreHistoryEntry(dto.ID, legID, status, dto.Remarks, dto.ChangedAt)
}
