package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import "time"

// Role represents an application's authorization role.
// Keep string form for easy persistence and cookies.
// Valid values are defined as constants below.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleHost  Role = "host"
	RoleGuest Role = "guest"
)

// Normalize maps unknown or empty role strings to RoleGuest.
// A session record without a role is always a guest, never undefined.
func (r Role) Normalize() Role {
	switch r {
	case RoleAdmin, RoleHost, RoleGuest:
		return r
	default:
		return RoleGuest
	}
}

// Identity represents the authenticated principal returned by an IdP.
// Adapters map provider-specific claims into this shape.
type Identity struct {
	UserID    string // stable user identifier (e.g., sub claim)
	FirstName string
	LastName  string
	Email     string
	Groups    []string
	ExpiresAt time.Time // absolute expiry from IdP token
}

// Session is the server-side record persisted for an authenticated user.
// ID is an opaque session identifier carried by the session cookie.
// The absence of a Session (nil) is the only representation of
// "not signed in"; an empty Session is never used for that.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsHost returns true if the session may manage host listings.
// Admins are implicitly hosts.
func (s Session) IsHost() bool { return s.Role == RoleHost || s.Role == RoleAdmin }

// IsAdmin returns true if the session has the admin role.
func (s Session) IsAdmin() bool { return s.Role == RoleAdmin }

// Expired reports whether the session has passed its expiry at the given instant.
func (s Session) Expired(now time.Time) bool { return now.After(s.ExpiresAt) }
