package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/stayseek/gateway/internal/domain/notification"
	"github.com/stayseek/gateway/internal/ports"
)

// NotificationFeed implements ports.NotificationFeed over Redis pub/sub.
// One Redis channel per user; events are JSON-encoded notification.Event
// values. Pub/sub gives per-connection ordering and no replay, which is
// exactly the feed contract: the snapshot fetch covers anything missed.
type NotificationFeed struct {
	client  redis.UniversalClient
	prefix  string
	logger  *slog.Logger
	bufSize int
}

// NotificationFeedOptions configures optional feed behavior.
type NotificationFeedOptions struct {
	Prefix  string       // channel prefix, default "notify:user:"
	Logger  *slog.Logger // default slog.Default()
	BufSize int          // delivery buffer per subscriber, default 64
}

// NewNotificationFeed creates a feed with defaults.
func NewNotificationFeed(client redis.UniversalClient) *NotificationFeed {
	return NewNotificationFeedWithOptions(client, NotificationFeedOptions{})
}

// NewNotificationFeedWithOptions creates a feed with custom options.
func NewNotificationFeedWithOptions(client redis.UniversalClient, opts NotificationFeedOptions) *NotificationFeed {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = "notify:user:"
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	bufSize := opts.BufSize
	if bufSize <= 0 {
		bufSize = 64
	}
	return &NotificationFeed{client: client, prefix: prefix, logger: logger, bufSize: bufSize}
}

// Subscribe opens a pub/sub subscription for one user. The returned channel
// closes when the subscription drops or stop is called; callers resync on
// close rather than assuming continuity.
func (f *NotificationFeed) Subscribe(ctx context.Context, userID string) (<-chan notification.Event, func(), error) {
	if userID == "" {
		return nil, nil, fmt.Errorf("user ID cannot be empty")
	}

	pubsub := f.client.Subscribe(ctx, f.prefix+userID)
	// Force the subscribe round-trip so a dead broker surfaces here,
	// not as a silently empty stream.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, fmt.Errorf("subscribe %s: %w", userID, err)
	}

	out := make(chan notification.Event, f.bufSize)
	var stopOnce sync.Once
	stop := func() {
		stopOnce.Do(func() {
			if err := pubsub.Close(); err != nil {
				f.logger.Warn("close notification subscription failed", "user_id", userID, "error", err)
			}
		})
	}

	go f.pump(ctx, pubsub, out, userID)

	return out, stop, nil
}

// pump decodes pub/sub messages into events until the subscription ends.
func (f *NotificationFeed) pump(ctx context.Context, pubsub *redis.PubSub, out chan<- notification.Event, userID string) {
	defer close(out)

	msgs := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			var ev notification.Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				f.logger.Warn("drop malformed feed event", "user_id", userID, "error", err)
				continue
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}
}

// Publish delivers an event to the user's channel. Best-effort; the
// repository remains the source of truth for missed deliveries.
func (f *NotificationFeed) Publish(ctx context.Context, userID string, ev notification.Event) error {
	if userID == "" {
		return fmt.Errorf("user ID cannot be empty")
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := f.client.Publish(ctx, f.prefix+userID, data).Err(); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

var _ ports.NotificationFeed = (*NotificationFeed)(nil)
