package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRole_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   Role
		want Role
	}{
		{name: "admin stays admin", in: RoleAdmin, want: RoleAdmin},
		{name: "host stays host", in: RoleHost, want: RoleHost},
		{name: "guest stays guest", in: RoleGuest, want: RoleGuest},
		{name: "empty defaults to guest", in: Role(""), want: RoleGuest},
		{name: "unknown defaults to guest", in: Role("superuser"), want: RoleGuest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalize())
		})
	}
}

func TestSession_RoleChecks(t *testing.T) {
	assert.True(t, Session{Role: RoleAdmin}.IsAdmin())
	assert.True(t, Session{Role: RoleAdmin}.IsHost(), "admins are implicitly hosts")
	assert.True(t, Session{Role: RoleHost}.IsHost())
	assert.False(t, Session{Role: RoleHost}.IsAdmin())
	assert.False(t, Session{Role: RoleGuest}.IsHost())
	assert.False(t, Session{Role: RoleGuest}.IsAdmin())
}

func TestSession_Expired(t *testing.T) {
	now := time.Now()
	s := Session{ExpiresAt: now.Add(time.Minute)}
	assert.False(t, s.Expired(now))
	assert.True(t, s.Expired(now.Add(2*time.Minute)))
}
