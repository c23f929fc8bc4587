package redis

import "github.com/google/uuid"

// newRandomID returns a fresh opaque identifier for rotated sessions.
func newRandomID() string {
	return uuid.NewString()
}
