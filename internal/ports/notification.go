package ports

import (
	"context"
	"errors"
	"time"

	"github.com/stayseek/gateway/internal/domain/notification"
)

// ErrRotationUnsupported is returned by session stores that cannot re-key
// sessions. Callers treat it as "keep the current credential".
var ErrRotationUnsupported = errors.New("session rotation unsupported")

// NotificationRepository is the durable store of notifications.
type NotificationRepository interface {
	// ListForUser returns the newest notifications for a user,
	// CreatedAt descending, capped at limit. Used for snapshot fetches.
	ListForUser(ctx context.Context, userID string, limit int) ([]notification.Notification, error)

	// Insert persists a new notification. Inserting an id that already
	// exists is a no-op (idempotent at-least-once delivery upstream).
	Insert(ctx context.Context, n notification.Notification) error

	// MarkRead sets read_at for one notification if it is still unread.
	MarkRead(ctx context.Context, userID, id string, at time.Time) error

	// MarkAllRead sets read_at for every unread notification of the user
	// created at or before the cutoff. Returns the ids it transitioned.
	MarkAllRead(ctx context.Context, userID string, cutoff time.Time) ([]string, error)
}

// NotificationFeed is a subscribable stream of per-user feed events.
type NotificationFeed interface {
	// Subscribe opens a subscription for one user. Events arrive on the
	// returned channel in connection order until stop is called or the
	// feed drops the subscription, signalled by closing the channel.
	Subscribe(ctx context.Context, userID string) (events <-chan notification.Event, stop func(), err error)

	// Publish delivers an event to the user's feed. Best-effort: the feed
	// is a live signal, the repository is the source of truth.
	Publish(ctx context.Context, userID string, ev notification.Event) error
}
