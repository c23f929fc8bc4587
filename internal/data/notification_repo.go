package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/stayseek/gateway/internal/data/pgxutil"
	"github.com/stayseek/gateway/internal/domain/notification"
	apperrors "github.com/stayseek/gateway/internal/errors"
)

// ErrNotificationNotFound is returned when a notification is not found.
// It carries apperrors.ErrCodeNotFound so handlers can map it to a 404.
var ErrNotificationNotFound = apperrors.NotFound("notification not found")

// defaultSnapshotLimit caps snapshot fetches when the caller passes no limit.
const defaultSnapshotLimit = 100

// NotificationRepo provides database operations for notifications.
type NotificationRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewNotificationRepo creates a new NotificationRepo with real time provider.
func NewNotificationRepo(db *sql.DB) *NotificationRepo {
	return &NotificationRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewNotificationRepoWithTimeProvider creates a NotificationRepo with a
// custom time provider (useful for tests).
func NewNotificationRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *NotificationRepo {
	return &NotificationRepo{DB: db, timeProvider: tp}
}

// ListForUser returns the newest notifications for a user, created_at
// descending, capped at limit.
func (r *NotificationRepo) ListForUser(ctx context.Context, userID string, limit int) ([]notification.Notification, error) {
	if userID == "" {
		return nil, errors.New("user ID is required")
	}
	if limit <= 0 {
		limit = defaultSnapshotLimit
	}

	var out []notification.Notification
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT id, user_id, type, title, message, data, created_at, read_at
			FROM notifications
			WHERE user_id = $1
			ORDER BY created_at DESC, id
			LIMIT $2
		`, userID, limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			n, scanErr := scanNotification(rows)
			if scanErr != nil {
				return scanErr
			}
			out = append(out, n)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return out, nil
}

// Insert persists a new notification. Re-inserting an existing id is a
// no-op so at-least-once producers stay idempotent.
func (r *NotificationRepo) Insert(ctx context.Context, n notification.Notification) error {
	if n.ID == "" {
		return errors.New("notification ID is required")
	}
	if n.UserID == "" {
		return errors.New("user ID is required")
	}

	data, err := json.Marshal(n.Data)
	if err != nil {
		return fmt.Errorf("marshal data: %w", err)
	}
	createdAt := n.CreatedAt
	if createdAt.IsZero() {
		createdAt = r.timeProvider.Now().UTC()
	}

	err = pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		_, execErr := conn.Exec(ctx, `
			INSERT INTO notifications (id, user_id, type, title, message, data, created_at, read_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, n.ID, n.UserID, string(n.Type.Normalize()), n.Title, n.Message, data, createdAt, n.ReadAt)
		return execErr
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil
		}
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// MarkRead sets read_at for one unread notification. Already-read rows are
// untouched, preserving the first read timestamp; a missing row is
// ErrNotificationNotFound.
func (r *NotificationRepo) MarkRead(ctx context.Context, userID, id string, at time.Time) error {
	if userID == "" || id == "" {
		return errors.New("user ID and notification ID are required")
	}

	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			UPDATE notifications
			SET read_at = $3
			WHERE user_id = $1 AND id = $2 AND read_at IS NULL
			RETURNING id
		`, userID, id, at.UTC())
		if err != nil {
			return err
		}
		defer rows.Close()
		found := rows.Next()
		if err := rows.Err(); err != nil {
			return err
		}
		if found {
			return nil
		}

		// Distinguish already-read (no-op) from missing.
		var exists bool
		if err := conn.QueryRow(ctx, `
			SELECT EXISTS(SELECT 1 FROM notifications WHERE user_id = $1 AND id = $2)
		`, userID, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrNotificationNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotificationNotFound) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}

// MarkAllRead sets read_at for every unread notification of the user
// created at or before cutoff, and returns the transitioned ids.
// Notifications arriving after the cutoff stay unread.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID string, cutoff time.Time) ([]string, error) {
	if userID == "" {
		return nil, errors.New("user ID is required")
	}

	at := r.timeProvider.Now().UTC()
	var ids []string
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			UPDATE notifications
			SET read_at = $3
			WHERE user_id = $1 AND read_at IS NULL AND created_at <= $2
			RETURNING id
		`, userID, cutoff.UTC(), at)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var id string
			if scanErr := rows.Scan(&id); scanErr != nil {
				return scanErr
			}
			ids = append(ids, id)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("mark all notifications read: %w", err)
	}
	return ids, nil
}

// scanNotification maps one result row to the domain type.
func scanNotification(rows pgx.Rows) (notification.Notification, error) {
	var (
		n       notification.Notification
		typ     string
		rawData []byte
		readAt  *time.Time
	)
	if err := rows.Scan(&n.ID, &n.UserID, &typ, &n.Title, &n.Message, &rawData, &n.CreatedAt, &readAt); err != nil {
		return n, fmt.Errorf("scan notification: %w", err)
	}
	n.Type = notification.Type(typ).Normalize()
	n.ReadAt = readAt
	if len(rawData) > 0 {
		if err := json.Unmarshal(rawData, &n.Data); err != nil {
			return n, fmt.Errorf("decode notification data: %w", err)
		}
	}
	return n, nil
}
