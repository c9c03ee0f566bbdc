package commands

import (
	"context"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/core/ports"

	"go.uber.org/zap"
)

// notice is one notification waiting for the transaction to commit. Exactly one
// of userID and announcementID is set; announcement notices go to its owner.
type notice struct {
	userID         *kernel.UUID
	announcementID *kernel.UUID
	event          string
	payload        map[string]any
}

type outbox struct {
	notices []notice
}

func (o *outbox) toUser(userID kernel.UUID, event string, payload map[string]any) {
	o.notices = append(o.notices, notice{userID: &userID, event: event, payload: payload})
}

// toOwner queues a notice for the owner of the announcement, if the parcel has one.
func (o *outbox) toOwner(announcementID *kernel.UUID, event string, payload map[string]any) {
	if announcementID == nil {
		return
	}
	id := *announcementID
	o.notices = append(o.notices, notice{announcementID: &id, event: event, payload: payload})
}

// Notifier delivers queued notices after commit. Failures are logged and
// dropped; they never fail the command that produced them.
type Notifier struct {
	dispatcher    ports.NotificationDispatcher
	announcements ports.AnnouncementService
	logger        *zap.Logger
}

func NewNotifier(
	dispatcher ports.NotificationDispatcher,
	announcements ports.AnnouncementService,
	logger *zap.Logger,
) *Notifier {
	return &Notifier{
		dispatcher:    dispatcher,
		announcements: announcements,
		logger:        logger.With(zap.String("component", "notifier")),
	}
}

func (n *Notifier) send(ctx context.Context, o *outbox) {
	if n == nil || o == nil {
		return
	}

	for _, item := range o.notices {
		recipient, err := n.recipient(ctx, item)
		if err != nil {
			n.logger.Warn("notification recipient not resolved",
				zap.String("event", item.event), zap.Error(err))
			continue
		}

		if err := n.dispatcher.Notify(ctx, recipient, item.event, item.payload); err != nil {
			n.logger.Warn("notification dropped",
				zap.String("event", item.event),
				zap.Stringer("user_id", recipient),
				zap.Error(err))
		}
	}
}

func (n *Notifier) recipient(ctx context.Context, item notice) (kernel.UUID, error) {
	if item.userID != nil {
		return *item.userID, nil
	}
	announcement, err := n.announcements.GetAnnouncement(ctx, *item.announcementID)
	if err != nil {
		return kernel.UUID{}, err
	}
	return announcement.OwnerID, nil
}
