package ports

import (
	"context"

	"parcelflow/internal/core/domain/model/kernel"
)

// Announcement is the listing a parcel was created for.
type Announcement struct {
	ID      kernel.UUID
	OwnerID kernel.UUID
	Status  string
}

// AnnouncementService resolves announcements owned by the marketplace.
type AnnouncementService interface {
	// GetAnnouncement returns *errs.ObjectNotFoundError for unknown ids.
	GetAnnouncement(ctx context.Context, id kernel.UUID) (Announcement, error)
}

// WarehouseDirectory exposes warehouse metadata owned by the operator tooling.
type WarehouseDirectory interface {
	// GetCapacity returns how many parcels the warehouse may hold at once.
	GetCapacity(ctx context.Context, warehouseID kernel.UUID) (int, error)
}

// Notification event names.
const (
	EventLegAssigned     = "leg.assigned"
	EventLegStarted      = "leg.started"
	EventLegCompleted    = "leg.completed"
	EventLegCancelled    = "leg.cancelled"
	EventParcelStored    = "parcel.stored"
	EventParcelDelivered = "parcel.delivered"
	EventParcelLost      = "parcel.lost"
)

// NotificationDispatcher hands events to the notification service. It is
// only called after the local transaction committed.
type NotificationDispatcher interface {
	Notify(ctx context.Context, userID kernel.UUID, event string, payload map[string]any) error
}
