package directory

import (
	"context"
	"errors"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/core/ports"
	"parcelflow/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AnnouncementDTO is the marketplace listing row.
type AnnouncementDTO struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerID uuid.UUID `gorm:"type:uuid;not null"`
	Status  string    `gorm:"type:varchar(32);not null"`
}

func (AnnouncementDTO) TableName() string {
	return "announcements"
}

// GormAnnouncementService implements ports.AnnouncementService.
type GormAnnouncementService struct {
	db *gorm.DB
}

func NewGormAnnouncementService(db *gorm.DB) *GormAnnouncementService {
	return &GormAnnouncementService{db: db}
}

func (s *GormAnnouncementService) GetAnnouncement(ctx context.Context, id kernel.UUID) (ports.Announcement, error) {
	if err := id.Validate(); err != nil {
		return ports.Announcement{}, err
	}

	var dto AnnouncementDTO
	err := s.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ports.Announcement{}, errs.NewObjectNotFoundError("announcement", id.String())
	}
	if err != nil {
		return ports.Announcement{}, err
	}

	ownerID, err := kernel.UUIDFromBytes(dto.OwnerID[:])
	if err != nil {
		return ports.Announcement{}, err
	}

	return ports.Announcement{ID: id, OwnerID: ownerID, Status: dto.Status}, nil
}
