package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/stayseek/gateway/internal/domain/notification"
	apperrors "github.com/stayseek/gateway/internal/errors"
	"github.com/stayseek/gateway/internal/observability/metrics"
	"github.com/stayseek/gateway/internal/ports"
)

const (
	defaultSnapshotLimit = 100
	defaultRetryBase     = 500 * time.Millisecond
	defaultRetryMax      = 5
	retryQueueSize       = 64
)

// NotificationServiceOptions groups dependencies for NotificationService.
type NotificationServiceOptions struct {
	Repo    ports.NotificationRepository
	Feed    ports.NotificationFeed
	Logger  *slog.Logger
	Metrics *metrics.Metrics

	// SnapshotLimit caps snapshot fetches (default 100).
	SnapshotLimit int
	// RetryBase is the first mark-read retry delay; doubles per attempt.
	RetryBase time.Duration
	// RetryMax bounds attempts per failed persistence call.
	RetryMax int
}

// NotificationService owns the durable store and the live feed for
// notifications. It opens per-user channels for consumers and publishes
// new notifications for producers.
type NotificationService struct {
	repo    ports.NotificationRepository
	feed    ports.NotificationFeed
	logger  *slog.Logger
	metrics *metrics.Metrics

	snapshotLimit int
	retryBase     time.Duration
	retryMax      int
	now           func() time.Time
}

// NewNotificationService constructs a NotificationService.
func NewNotificationService(opts NotificationServiceOptions) *NotificationService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	limit := opts.SnapshotLimit
	if limit <= 0 {
		limit = defaultSnapshotLimit
	}
	base := opts.RetryBase
	if base <= 0 {
		base = defaultRetryBase
	}
	maxAttempts := opts.RetryMax
	if maxAttempts <= 0 {
		maxAttempts = defaultRetryMax
	}
	return &NotificationService{
		repo:          opts.Repo,
		feed:          opts.Feed,
		logger:        logger,
		metrics:       opts.Metrics,
		snapshotLimit: limit,
		retryBase:     base,
		retryMax:      maxAttempts,
		now:           time.Now,
	}
}

// Publish persists a notification and announces it on the owner's feed.
// The insert is authoritative; a feed delivery failure is logged and
// swallowed because subscribers reconcile from the store on resync.
func (s *NotificationService) Publish(ctx context.Context, n notification.Notification) error {
	if n.UserID == "" {
		return errors.New("user ID is required")
	}
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now()
	}
	n.Type = n.Type.Normalize()

	if err := s.repo.Insert(ctx, n); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}

	if err := s.feed.Publish(ctx, n.UserID, notification.InsertEvent(n)); err != nil {
		s.logger.Warn("publish notification event failed", "user_id", n.UserID, "error", err)
	}
	return nil
}

// MarkRead persists a read transition outside any open channel (REST
// callers). The update event fans out over the feed so open channels of
// the same user converge.
func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) error {
	if userID == "" || id == "" {
		return errors.New("user ID and notification ID are required")
	}
	now := s.now()
	if err := s.repo.MarkRead(ctx, userID, id, now); err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	if err := s.feed.Publish(ctx, userID, notification.UpdateEvent(id, &now)); err != nil {
		s.logger.Debug("publish read event failed", "user_id", userID, "id", id, "error", err)
	}
	return nil
}

// MarkAllRead persists read transitions for everything unread at call time
// and returns the affected ids.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) ([]string, error) {
	if userID == "" {
		return nil, errors.New("user ID is required")
	}
	cutoff := s.now()
	ids, err := s.repo.MarkAllRead(ctx, userID, cutoff)
	if err != nil {
		return nil, fmt.Errorf("mark all read: %w", err)
	}
	for _, id := range ids {
		if pubErr := s.feed.Publish(ctx, userID, notification.UpdateEvent(id, &cutoff)); pubErr != nil {
			s.logger.Debug("publish read event failed", "user_id", userID, "id", id, "error", pubErr)
		}
	}
	return ids, nil
}

// List returns the newest stored notifications for a user.
func (s *NotificationService) List(ctx context.Context, userID string) ([]notification.Notification, error) {
	if userID == "" {
		return nil, errors.New("user ID is required")
	}
	return s.repo.ListForUser(ctx, userID, s.snapshotLimit)
}

// Open establishes a live notification channel for one user: a snapshot-
// seeded cache kept current by the feed, with resync on drop. The caller
// must Close the channel when done.
func (s *NotificationService) Open(ctx context.Context, userID string) (*Channel, error) {
	if userID == "" {
		return nil, errors.New("user ID is required")
	}

	chCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	c := &Channel{
		userID: userID,
		svc:    s,
		cache:  notification.NewCache(),
		ctx:    chCtx,
		cancel: cancel,
		out:    make(chan notification.Event, retryQueueSize),
		retry:  make(chan retryTask, retryQueueSize),
	}

	// Subscribe before the snapshot fetch so nothing published between
	// the two is missed; duplicates are absorbed by cache dedup.
	events, stop, err := s.feed.Subscribe(chCtx, userID)
	if err != nil {
		// Degraded open: serve the snapshot now, reconnect in the
		// background.
		s.logger.Warn("notification feed unavailable, opening degraded", "user_id", userID, "error", err)
		events, stop = nil, nil
	}
	c.setStopFeed(stop)

	snapshot, listErr := s.repo.ListForUser(ctx, userID, s.snapshotLimit)
	if listErr != nil {
		if stop != nil {
			stop()
		}
		cancel()
		return nil, fmt.Errorf("load notification snapshot: %w", listErr)
	}
	c.cache.Seed(snapshot)

	c.wg.Add(2)
	go c.run(events)
	go c.retryLoop()

	return c, nil
}

// retryTask is one failed persistence call queued for background retry.
type retryTask struct {
	id      string // single mark-read when set
	at      time.Time
	all     bool // mark-all-read with cutoff at
	attempt int
}

// Channel is one user's live notification view: an ordered, deduplicated
// cache plus the stream of applied events. All methods are safe for
// concurrent use. Close is idempotent.
type Channel struct {
	userID string
	svc    *NotificationService
	cache  *notification.Cache

	ctx    context.Context
	cancel context.CancelFunc
	out    chan notification.Event
	retry  chan retryTask
	wg     sync.WaitGroup

	mu       sync.Mutex
	stopFeed func()

	closeOnce sync.Once
}

// UserID returns the owner of the channel.
func (c *Channel) UserID() string { return c.userID }

// Events is the stream of events that changed the cache, in applied order.
// It closes when the channel is closed.
func (c *Channel) Events() <-chan notification.Event { return c.out }

// Snapshot returns the cached notifications, newest first.
func (c *Channel) Snapshot() []notification.Notification { return c.cache.List() }

// UnreadCount returns the current number of unread notifications.
func (c *Channel) UnreadCount() int { return c.cache.UnreadCount() }

// MarkAsRead marks one notification read: locally first, then in the
// store. Already-read or unknown ids are a no-op. A store failure is
// retried in the background with backoff and the local state is never
// rolled back; readAt only moves forward.
func (c *Channel) MarkAsRead(ctx context.Context, id string) {
	now := c.svc.now()
	if !c.cache.MarkRead(id, now) {
		return
	}

	if err := c.svc.repo.MarkRead(ctx, c.userID, id, now); err != nil {
		if apperrors.IsNotFound(err) {
			// Known locally but not yet durable; the read state still
			// holds in the cache and the row will land via the feed.
			c.svc.logger.Debug("mark read on unknown id", "user_id", c.userID, "id", id)
			return
		}
		c.svc.logger.Warn("mark read failed, queueing retry", "user_id", c.userID, "id", id, "error", err)
		c.enqueueRetry(retryTask{id: id, at: now})
		return
	}
	c.publishRead(ctx, id, now)
}

// MarkAllAsRead marks every notification unread at the moment of the call.
// Notifications arriving afterwards are unaffected, even if they land
// while the batch is persisting.
func (c *Channel) MarkAllAsRead(ctx context.Context) {
	ids := c.cache.UnreadIDs()
	if len(ids) == 0 {
		return
	}

	cutoff := c.svc.now()
	for _, id := range ids {
		c.cache.MarkRead(id, cutoff)
	}

	updated, err := c.svc.repo.MarkAllRead(ctx, c.userID, cutoff)
	if err != nil {
		c.svc.logger.Warn("mark all read failed, queueing retry", "user_id", c.userID, "error", err)
		c.enqueueRetry(retryTask{all: true, at: cutoff})
		return
	}
	for _, id := range updated {
		c.publishRead(ctx, id, cutoff)
	}
}

// Close stops cache mutation synchronously, releases the subscription, and
// waits for the worker goroutines. Events observed mid-flight after Close
// are dropped by the closed cache.
func (c *Channel) Close() {
	c.closeOnce.Do(func() {
		c.cache.Close()
		c.cancel()
		c.callStopFeed()
		c.wg.Wait()
	})
}

// publishRead announces a read-state change so other devices of the same
// user converge without waiting for their next resync. Best-effort.
func (c *Channel) publishRead(ctx context.Context, id string, at time.Time) {
	t := at
	if err := c.svc.feed.Publish(ctx, c.userID, notification.UpdateEvent(id, &t)); err != nil {
		c.svc.logger.Debug("publish read event failed", "user_id", c.userID, "id", id, "error", err)
	}
}

func (c *Channel) enqueueRetry(task retryTask) {
	select {
	case c.retry <- task:
	default:
		c.svc.logger.Warn("retry queue full, dropping task", "user_id", c.userID, "id", task.id)
	}
}

func (c *Channel) setStopFeed(stop func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopFeed = stop
}

func (c *Channel) callStopFeed() {
	c.mu.Lock()
	stop := c.stopFeed
	c.mu.Unlock()
	if stop != nil {
		stop()
	}
}

// run applies feed events to the cache and forwards the ones that changed
// it. A closed event stream means the subscription dropped: the loop
// resubscribes with backoff and reconciles via a merged snapshot, never
// clearing the cache while degraded.
func (c *Channel) run(events <-chan notification.Event) {
	defer c.wg.Done()
	defer close(c.out)

	attempt := 0
	for {
		if events == nil {
			if c.ctx.Err() != nil {
				return
			}
			if !c.sleep(backoffDelay(c.svc.retryBase, attempt)) {
				return
			}
			fresh, stop, err := c.svc.feed.Subscribe(c.ctx, c.userID)
			if err != nil {
				attempt++
				c.svc.logger.Warn("resubscribe failed", "user_id", c.userID, "attempt", attempt, "error", err)
				continue
			}
			attempt = 0
			c.setStopFeed(stop)
			events = fresh
			c.resync()
		}

		select {
		case <-c.ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				if c.ctx.Err() != nil {
					return
				}
				c.svc.logger.Info("notification subscription dropped", "user_id", c.userID)
				c.callStopFeed()
				events = nil
				continue
			}
			if !c.cache.Apply(ev) {
				continue
			}
			c.svc.metrics.FeedEventApplied()
			select {
			case c.out <- ev:
			case <-c.ctx.Done():
				return
			}
		}
	}
}

// resync reconciles the cache after a gap in the event stream. Local read
// state always wins over a stale unread snapshot row.
func (c *Channel) resync() {
	snapshot, err := c.svc.repo.ListForUser(c.ctx, c.userID, c.svc.snapshotLimit)
	if err != nil {
		// Keep serving the cached state; the next drop retries.
		c.svc.logger.Warn("resync snapshot failed", "user_id", c.userID, "error", err)
		return
	}
	c.cache.Merge(snapshot)
	c.svc.metrics.ChannelResynced()
}

// retryLoop drains failed persistence tasks with exponential backoff.
func (c *Channel) retryLoop() {
	defer c.wg.Done()

	for {
		select {
		case <-c.ctx.Done():
			return
		case task := <-c.retry:
			if !c.sleep(backoffDelay(c.svc.retryBase, task.attempt)) {
				return
			}
			c.svc.metrics.MarkReadRetried()

			var err error
			if task.all {
				_, err = c.svc.repo.MarkAllRead(c.ctx, c.userID, task.at)
			} else {
				err = c.svc.repo.MarkRead(c.ctx, c.userID, task.id, task.at)
			}
			if err == nil {
				continue
			}

			task.attempt++
			if task.attempt >= c.svc.retryMax {
				c.svc.logger.Error("mark read retries exhausted", "user_id", c.userID, "id", task.id, "error", err)
				continue
			}
			c.enqueueRetry(task)
		}
	}
}

// sleep waits for d or channel teardown; reports whether to keep running.
func (c *Channel) sleep(d time.Duration) bool {
	if d <= 0 {
		return c.ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-c.ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// backoffDelay doubles per attempt from base, capped at 30s. Attempt 0 is
// immediate so the first reconnect or retry is not delayed.
func backoffDelay(base time.Duration, attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	const maxDelay = 30 * time.Second
	d := base << (attempt - 1)
	if d > maxDelay || d <= 0 {
		return maxDelay
	}
	return d
}
