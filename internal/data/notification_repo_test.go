package data

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stayseek/gateway/internal/domain/notification"
	"github.com/stayseek/gateway/internal/testutil"
)

func seedNotification(t *testing.T, repo *NotificationRepo, id, userID string, createdAt time.Time) notification.Notification {
	t.Helper()
	n := notification.Notification{
		ID:        id,
		UserID:    userID,
		Type:      notification.TypeBooking,
		Title:     "Booking confirmed",
		Message:   "Your stay is booked",
		Data:      map[string]any{"booking_id": "b-1"},
		CreatedAt: createdAt,
	}
	require.NoError(t, repo.Insert(context.Background(), n))
	return n
}

func TestNotificationRepo_InsertAndList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewNotificationRepo(db)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Millisecond)
	seedNotification(t, repo, "n-1", "user-1", base.Add(-2*time.Hour))
	seedNotification(t, repo, "n-2", "user-1", base)
	seedNotification(t, repo, "n-3", "user-2", base)

	list, err := repo.ListForUser(ctx, "user-1", 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "n-2", list[0].ID, "newest first")
	assert.Equal(t, "n-1", list[1].ID)
	assert.Equal(t, notification.TypeBooking, list[0].Type)
	assert.Equal(t, "b-1", list[0].Data["booking_id"])
	assert.Nil(t, list[0].ReadAt)
}

func TestNotificationRepo_ListLimit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewNotificationRepo(db)

	base := time.Now().UTC()
	for i := range 5 {
		seedNotification(t, repo, "n-"+string(rune('a'+i)), "user-1", base.Add(time.Duration(i)*time.Minute))
	}

	list, err := repo.ListForUser(context.Background(), "user-1", 3)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestNotificationRepo_InsertDuplicateIsNoop(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewNotificationRepo(db)
	ctx := context.Background()

	n := seedNotification(t, repo, "n-1", "user-1", time.Now().UTC())

	// Same id again with a different title: kept as originally written.
	dup := n
	dup.Title = "changed"
	require.NoError(t, repo.Insert(ctx, dup))

	list, err := repo.ListForUser(ctx, "user-1", 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Booking confirmed", list[0].Title)
}

func TestNotificationRepo_MarkRead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewNotificationRepo(db)
	ctx := context.Background()

	seedNotification(t, repo, "n-1", "user-1", time.Now().UTC())

	readAt := time.Now().UTC().Truncate(time.Millisecond)
	require.NoError(t, repo.MarkRead(ctx, "user-1", "n-1", readAt))

	list, err := repo.ListForUser(ctx, "user-1", 10)
	require.NoError(t, err)
	require.NotNil(t, list[0].ReadAt)
	assert.WithinDuration(t, readAt, *list[0].ReadAt, time.Second)

	// Marking again keeps the original timestamp.
	require.NoError(t, repo.MarkRead(ctx, "user-1", "n-1", readAt.Add(time.Hour)))
	list, err = repo.ListForUser(ctx, "user-1", 10)
	require.NoError(t, err)
	assert.WithinDuration(t, readAt, *list[0].ReadAt, time.Second)
}

func TestNotificationRepo_MarkRead_WrongUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewNotificationRepo(db)
	ctx := context.Background()

	seedNotification(t, repo, "n-1", "user-1", time.Now().UTC())

	// Another user's id space does not contain the row; no cross-user leak.
	err := repo.MarkRead(ctx, "user-2", "n-1", time.Now().UTC())
	assert.ErrorIs(t, err, ErrNotificationNotFound)

	list, err := repo.ListForUser(ctx, "user-1", 10)
	require.NoError(t, err)
	assert.Nil(t, list[0].ReadAt, "another user's mark-read must not touch the row")
}

func TestNotificationRepo_MarkAllRead_RespectsCutoff(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewNotificationRepo(db)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Millisecond)
	seedNotification(t, repo, "n-old", "user-1", base.Add(-time.Hour))
	seedNotification(t, repo, "n-mid", "user-1", base.Add(-time.Minute))
	seedNotification(t, repo, "n-new", "user-1", base.Add(time.Hour)) // after cutoff

	ids, err := repo.MarkAllRead(ctx, "user-1", base)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"n-old", "n-mid"}, ids)

	list, err := repo.ListForUser(ctx, "user-1", 10)
	require.NoError(t, err)
	for _, n := range list {
		if n.ID == "n-new" {
			assert.Nil(t, n.ReadAt, "notifications after the cutoff stay unread")
		} else {
			assert.NotNil(t, n.ReadAt)
		}
	}
}

func TestNotificationRepo_MarkRead_MissingID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewNotificationRepo(db)

	err := repo.MarkRead(context.Background(), "user-1", "no-such-id", time.Now().UTC())
	assert.ErrorIs(t, err, ErrNotificationNotFound)
}

func TestNotificationRepo_Validation(t *testing.T) {
	repo := NewNotificationRepo(nil)
	ctx := context.Background()

	_, err := repo.ListForUser(ctx, "", 10)
	assert.Error(t, err)

	err = repo.Insert(ctx, notification.Notification{UserID: "user-1"})
	assert.Error(t, err)

	err = repo.MarkRead(ctx, "", "n-1", time.Now())
	assert.Error(t, err)

	_, err = repo.MarkAllRead(ctx, "", time.Now())
	assert.Error(t, err)
}
