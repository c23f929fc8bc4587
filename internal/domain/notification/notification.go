package notification

// Package notification contains the domain model for user notifications:
// the notification record, its typed data payloads, the per-user cache, and
// the feed events applied to it. Pure data and rules; adapters provide the
// storage and transport.

import "time"

// Type categorizes a notification for display and routing.
type Type string

const (
	TypeMessage Type = "message"
	TypeBooking Type = "booking"
	TypeReview  Type = "review"
	TypePayment Type = "payment"
	TypeOther   Type = "other"
)

// Normalize maps unknown type strings to TypeOther so forward-compatible
// producers never break consumers.
func (t Type) Normalize() Type {
	switch t {
	case TypeMessage, TypeBooking, TypeReview, TypePayment:
		return t
	default:
		return TypeOther
	}
}

// Notification is a single notification delivered to one user. Immutable
// except for ReadAt, which transitions exactly once from nil to a timestamp.
type Notification struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Type      Type           `json:"type"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	ReadAt    *time.Time     `json:"read_at,omitempty"`
}

// Read reports whether the notification has been read.
func (n Notification) Read() bool { return n.ReadAt != nil }

// EventKind discriminates feed events.
type EventKind string

const (
	// EventInsert carries a full notification to add to the cache.
	EventInsert EventKind = "insert"
	// EventUpdate carries a read-state change for an existing id.
	EventUpdate EventKind = "update"
)

// Event is one incremental change on a user's notification feed.
// Insert events populate Notification; Update events populate ID and ReadAt.
type Event struct {
	Kind         EventKind     `json:"kind"`
	Notification *Notification `json:"notification,omitempty"`
	ID           string        `json:"id,omitempty"`
	ReadAt       *time.Time    `json:"read_at,omitempty"`
}

// InsertEvent builds an insert event for n.
func InsertEvent(n Notification) Event {
	return Event{Kind: EventInsert, Notification: &n, ID: n.ID}
}

// UpdateEvent builds a read-state update event for id.
func UpdateEvent(id string, readAt *time.Time) Event {
	return Event{Kind: EventUpdate, ID: id, ReadAt: readAt}
}
