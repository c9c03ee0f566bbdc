package redisadapter

import (
	"context"
	"encoding/json"
	"time"

	"parcelflow/internal/core/domain/model/kernel"

	"github.com/redis/go-redis/v9"
)

const DefaultEventsChannel = "parcel-events"

// Event is the JSON message published for the notification service.
type Event struct {
	UserID  string         `json:"user_id"`
	Event   string         `json:"event"`
	Payload map[string]any `json:"payload,omitempty"`
	SentAt  time.Time      `json:"sent_at"`
}

// NotificationPublisher implements ports.NotificationDispatcher over Redis
// pub/sub. Delivery is fire-and-forget: a message published while nobody
// subscribes is lost, which the engine accepts for notifications.
type NotificationPublisher struct {
	client  redis.UniversalClient
	channel string
	clock   func() time.Time
}

func NewNotificationPublisher(client redis.UniversalClient, channel string) *NotificationPublisher {
	if channel == "" {
		channel = DefaultEventsChannel
	}
	return &NotificationPublisher{client: client, channel: channel, clock: time.Now}
}

func (p *NotificationPublisher) Notify(ctx context.Context, userID kernel.UUID, event string, payload map[string]any) error {
	data, err := json.Marshal(Event{
		UserID:  userID.String(),
		Event:   event,
		Payload: payload,
		SentAt:  p.clock().UTC(),
	})
	if err != nil {
		return err
	}

	return p.client.Publish(ctx, p.channel, data).Err()
}
