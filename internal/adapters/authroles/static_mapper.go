package authroles

import (
	domainauth "github.com/stayseek/gateway/internal/domain/auth"
)

// StaticRoleMapper maps IdP groups to application roles by simple string
// membership. Admin wins over host; everything else is a guest, so a user
// record without group claims always resolves to a defined role.
type StaticRoleMapper struct {
	AdminGroup string
	HostGroup  string
}

func (m StaticRoleMapper) Map(groups []string) domainauth.Role {
	for _, g := range groups {
		if m.AdminGroup != "" && g == m.AdminGroup {
			return domainauth.RoleAdmin
		}
	}
	for _, g := range groups {
		if m.HostGroup != "" && g == m.HostGroup {
			return domainauth.RoleHost
		}
	}
	return domainauth.RoleGuest
}
