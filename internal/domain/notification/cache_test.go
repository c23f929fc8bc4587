package notification

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testBase = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testNotification(id string, age time.Duration) Notification {
	return Notification{
		ID:        id,
		UserID:    "user-1",
		Type:      TypeBooking,
		Title:     "Booking update",
		CreatedAt: testBase.Add(-age),
	}
}

func TestCache_SeedAndOrdering(t *testing.T) {
	c := NewCache()
	c.Seed([]Notification{
		testNotification("n-old", 2*time.Hour),
		testNotification("n-new", 0),
		testNotification("n-mid", time.Hour),
	})

	list := c.List()
	require.Len(t, list, 3)
	assert.Equal(t, "n-new", list[0].ID)
	assert.Equal(t, "n-mid", list[1].ID)
	assert.Equal(t, "n-old", list[2].ID)
	assert.Equal(t, 3, c.UnreadCount())
}

func TestCache_InsertIsIdempotentOnRepeatedIDs(t *testing.T) {
	c := NewCache()
	n := testNotification("n-1", 0)

	assert.True(t, c.Apply(InsertEvent(n)))
	assert.False(t, c.Apply(InsertEvent(n)), "repeated insert is a no-op")
	assert.Equal(t, 1, c.Len())

	// A long sequence of repeated inserts never duplicates ids.
	for i := range 20 {
		c.Apply(InsertEvent(testNotification(fmt.Sprintf("n-%d", i%5), time.Duration(i)*time.Minute)))
	}
	list := c.List()
	seen := make(map[string]bool)
	for _, got := range list {
		require.False(t, seen[got.ID], "duplicate id %s", got.ID)
		seen[got.ID] = true
	}
}

func TestCache_ReadAtIsMonotonic(t *testing.T) {
	c := NewCache()
	c.Apply(InsertEvent(testNotification("n-1", 0)))

	readAt := testBase.Add(time.Minute)
	assert.True(t, c.Apply(UpdateEvent("n-1", &readAt)))

	// An update with absent ReadAt must not clear it.
	assert.False(t, c.Apply(UpdateEvent("n-1", nil)))
	list := c.List()
	require.NotNil(t, list[0].ReadAt)
	assert.Equal(t, readAt, *list[0].ReadAt)

	// A later read timestamp does not overwrite the first transition.
	later := readAt.Add(time.Hour)
	assert.False(t, c.Apply(UpdateEvent("n-1", &later)))
	assert.Equal(t, readAt, *c.List()[0].ReadAt)
}

func TestCache_UpdateForUnknownID(t *testing.T) {
	c := NewCache()
	readAt := testBase

	// Without a payload the event is dropped until resync.
	assert.False(t, c.Apply(UpdateEvent("ghost", &readAt)))
	assert.Equal(t, 0, c.Len())

	// With a full notification it is an implicit insert.
	n := testNotification("n-1", 0)
	ev := UpdateEvent("n-1", &readAt)
	ev.Notification = &n
	assert.True(t, c.Apply(ev))
	assert.Equal(t, 1, c.Len())
}

func TestCache_MarkRead(t *testing.T) {
	c := NewCache()
	c.Apply(InsertEvent(testNotification("n-1", 0)))

	assert.True(t, c.MarkRead("n-1", testBase))
	assert.False(t, c.MarkRead("n-1", testBase.Add(time.Hour)), "already read is a no-op")
	assert.False(t, c.MarkRead("missing", testBase))
	assert.Equal(t, 0, c.UnreadCount())
}

func TestCache_MergeKeepsLocalReadStateOverStaleSnapshot(t *testing.T) {
	c := NewCache()
	c.Apply(InsertEvent(testNotification("n-1", time.Hour)))
	require.True(t, c.MarkRead("n-1", testBase))

	// Resync snapshot captured before the server saw the mark-read:
	// it still reports n-1 unread, and carries a new row.
	c.Merge([]Notification{
		testNotification("n-1", time.Hour), // unread per server
		testNotification("n-2", 0),
	})

	list := c.List()
	require.Len(t, list, 2)
	assert.Equal(t, "n-2", list[0].ID)
	assert.NotNil(t, list[1].ReadAt, "local read state must survive a stale snapshot")
	assert.Equal(t, 1, c.UnreadCount())
}

func TestCache_MergeAdoptsServerReadState(t *testing.T) {
	c := NewCache()
	c.Apply(InsertEvent(testNotification("n-1", 0)))

	readAt := testBase
	read := testNotification("n-1", 0)
	read.ReadAt = &readAt
	c.Merge([]Notification{read})

	assert.Equal(t, 0, c.UnreadCount())
}

func TestCache_MergeKeepsEntriesMissingFromSnapshot(t *testing.T) {
	c := NewCache()
	c.Apply(InsertEvent(testNotification("n-1", 0)))
	c.Merge([]Notification{testNotification("n-2", time.Hour)})
	assert.Equal(t, 2, c.Len())
}

func TestCache_CloseStopsMutation(t *testing.T) {
	c := NewCache()
	c.Apply(InsertEvent(testNotification("n-1", 0)))
	c.Close()

	assert.False(t, c.Apply(InsertEvent(testNotification("n-2", 0))), "in-flight event after close is dropped")
	assert.False(t, c.MarkRead("n-1", testBase))
	c.Merge([]Notification{testNotification("n-3", 0)})
	c.Seed([]Notification{testNotification("n-4", 0)})

	// Last-known state stays readable.
	require.Len(t, c.List(), 1)
	assert.Equal(t, "n-1", c.List()[0].ID)
}

func TestCache_UnreadIDsOrdered(t *testing.T) {
	c := NewCache()
	c.Apply(InsertEvent(testNotification("n-old", time.Hour)))
	c.Apply(InsertEvent(testNotification("n-new", 0)))
	c.MarkRead("n-new", testBase)
	c.Apply(InsertEvent(testNotification("n-mid", 30*time.Minute)))

	assert.Equal(t, []string{"n-mid", "n-old"}, c.UnreadIDs())
}
