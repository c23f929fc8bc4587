package authroles

import (
	"testing"

	"github.com/stretchr/testify/assert"

	domainauth "github.com/stayseek/gateway/internal/domain/auth"
)

func TestStaticRoleMapper_Map(t *testing.T) {
	m := StaticRoleMapper{AdminGroup: "stayseek-admins", HostGroup: "stayseek-hosts"}

	tests := []struct {
		name   string
		groups []string
		want   domainauth.Role
	}{
		{name: "admin group", groups: []string{"stayseek-admins"}, want: domainauth.RoleAdmin},
		{name: "host group", groups: []string{"stayseek-hosts"}, want: domainauth.RoleHost},
		{name: "admin wins over host", groups: []string{"stayseek-hosts", "stayseek-admins"}, want: domainauth.RoleAdmin},
		{name: "unknown groups", groups: []string{"other"}, want: domainauth.RoleGuest},
		{name: "no groups", groups: nil, want: domainauth.RoleGuest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Map(tt.groups))
		})
	}
}

func TestStaticRoleMapper_EmptyConfigNeverMatches(t *testing.T) {
	m := StaticRoleMapper{}
	assert.Equal(t, domainauth.RoleGuest, m.Map([]string{"", "stayseek-admins"}))
}
