// Package notifications fans accepted page views out to the owner's live dashboards.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"folio/internal/middleware"
	"folio/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	viewChannelPattern = "views:user:*"
	viewChannelFormat  = "views:user:%d"

	// EventViewRecorded is the event type pushed for every accepted view.
	EventViewRecorded = "view_recorded"
)

// ViewChannel is the Redis channel carrying an owner's view events.
func ViewChannel(ownerID uint) string {
	return fmt.Sprintf(viewChannelFormat, ownerID)
}

// Event is the envelope written to live feed connections.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// ViewPayload describes one accepted view. Visitor identity is never included.
type ViewPayload struct {
	TargetID   string            `json:"target_id"`
	TargetType models.TargetType `json:"target_type"`
	ViewedAt   time.Time         `json:"viewed_at"`
}

// Notifier publishes view events into Redis channels. A Notifier without a Redis
// client, or a nil *Notifier, publishes nothing.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a Notifier using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// PublishView sends a view_recorded event to the owner's channel.
func (n *Notifier) PublishView(ctx context.Context, view *models.PageView) error {
	if n == nil || n.rdb == nil || view == nil {
		return nil
	}
	payload, err := json.Marshal(Event{
		Type: EventViewRecorded,
		Payload: ViewPayload{
			TargetID:   view.TargetID,
			TargetType: view.TargetType,
			ViewedAt:   view.ViewedAt,
		},
	})
	if err != nil {
		return fmt.Errorf("marshal view event: %w", err)
	}
	return n.rdb.Publish(ctx, ViewChannel(view.UserID), payload).Err()
}

// StartViewSubscriber subscribes to every owner's view channel and calls onMessage
// for each incoming message until ctx is done.
func (n *Notifier) StartViewSubscriber(ctx context.Context, onMessage func(channel, payload string)) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, viewChannelPattern)
	// Wait for the subscription to be confirmed so publishes right after start are not lost.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe %s: %w", viewChannelPattern, err)
	}
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							middleware.Logger.Error("panic in view subscriber",
								slog.Any("panic", r),
								slog.String("stack", string(debug.Stack())),
							)
						}
					}()
					onMessage(msg.Channel, msg.Payload)
				}()
			}
		}
	}()

	return nil
}
