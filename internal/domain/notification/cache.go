package notification

import (
	"sort"
	"sync"
	"time"
)

// Cache is the client-held, ordered, deduplicated view of one user's
// notifications plus the derived unread count. It is mutated only through
// Seed, Apply, Merge, and MarkRead; a closed cache accepts no further
// mutation so an in-flight event racing Close cannot resurrect it.
//
// Invariants:
//   - never two entries with the same id;
//   - entries ordered by CreatedAt descending;
//   - ReadAt is monotonic: once set it is never cleared.
type Cache struct {
	mu     sync.Mutex
	order  []string                 // ids, CreatedAt descending
	byID   map[string]*Notification // id -> entry
	closed bool
}

// NewCache returns an empty open cache.
func NewCache() *Cache {
	return &Cache{byID: make(map[string]*Notification)}
}

// Seed replaces the cache contents with a snapshot. Used on open;
// reconnects should use Merge instead to preserve local read state.
func (c *Cache) Seed(snapshot []Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	c.order = c.order[:0]
	clear(c.byID)
	for _, n := range snapshot {
		c.upsertLocked(n)
	}
}

// Apply folds one feed event into the cache and reports whether anything
// changed. Insert events with a repeated id behave as updates; update
// events for an unknown id are dropped (the next resync reconciles them)
// unless they carry a full notification.
func (c *Cache) Apply(ev Event) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}

	switch ev.Kind {
	case EventInsert:
		if ev.Notification == nil {
			return false
		}
		return c.upsertLocked(*ev.Notification)
	case EventUpdate:
		existing, ok := c.byID[ev.ID]
		if !ok {
			// Implicit insert when the event carries the full record.
			if ev.Notification != nil {
				return c.upsertLocked(*ev.Notification)
			}
			return false
		}
		return setReadAtLocked(existing, ev.ReadAt)
	default:
		return false
	}
}

// MarkRead sets ReadAt for id if it is present and unread. Reports whether
// the entry transitioned from unread to read.
func (c *Cache) MarkRead(id string, at time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}

	existing, ok := c.byID[id]
	if !ok || existing.ReadAt != nil {
		return false
	}
	t := at
	existing.ReadAt = &t
	return true
}

// Merge reconciles a resync snapshot into the cache by id. Snapshot rows
// are added or updated, but a locally read entry is never regressed to
// unread by a snapshot captured before the read was confirmed server-side.
// Entries absent from the snapshot are kept: snapshots may be truncated and
// notifications are never deleted upstream.
func (c *Cache) Merge(snapshot []Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	for _, n := range snapshot {
		existing, ok := c.byID[n.ID]
		if !ok {
			c.upsertLocked(n)
			continue
		}
		if existing.ReadAt == nil {
			existing.ReadAt = n.ReadAt
		}
	}
}

// Close permanently stops cache mutation. Read accessors keep working so
// the UI can show the last-known state during teardown.
func (c *Cache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// List returns a copy of the notifications, CreatedAt descending.
func (c *Cache) List() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Notification, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, *c.byID[id])
	}
	return out
}

// UnreadIDs returns the ids of currently unread notifications,
// CreatedAt descending.
func (c *Cache) UnreadIDs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	var ids []string
	for _, id := range c.order {
		if c.byID[id].ReadAt == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

// UnreadCount returns the number of unread notifications.
func (c *Cache) UnreadCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for _, n := range c.byID {
		if n.ReadAt == nil {
			count++
		}
	}
	return count
}

// Len returns the number of cached notifications.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.byID)
}

// upsertLocked inserts n or folds it into an existing entry with the same
// id. Requires c.mu held.
func (c *Cache) upsertLocked(n Notification) bool {
	if existing, ok := c.byID[n.ID]; ok {
		// Idempotent insert: only the read state may advance.
		return setReadAtLocked(existing, n.ReadAt)
	}

	entry := n
	c.byID[n.ID] = &entry

	// Insert keeping CreatedAt-descending order; ties keep arrival order.
	idx := sort.Search(len(c.order), func(i int) bool {
		return c.byID[c.order[i]].CreatedAt.Before(entry.CreatedAt)
	})
	c.order = append(c.order, "")
	copy(c.order[idx+1:], c.order[idx:])
	c.order[idx] = n.ID
	return true
}

// setReadAtLocked advances the read state monotonically: nil never
// overwrites a set ReadAt. Reports whether the entry changed.
func setReadAtLocked(n *Notification, readAt *time.Time) bool {
	if readAt == nil || n.ReadAt != nil {
		return false
	}
	t := *readAt
	n.ReadAt = &t
	return true
}
