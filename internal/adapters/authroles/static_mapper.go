package authroles

import (
	"strings"

	domainauth "github.com/visitrack/frontdesk/internal/domain/auth"
)

// StaticRoleMapper maps the backend's role claim by case-insensitive name.
// Aliases lets deployments map extra backend role names, e.g. "staff" to receptionist.
type StaticRoleMapper struct {
	Aliases map[string]domainauth.Role
}

func (m StaticRoleMapper) Map(role string) domainauth.Role {
	r := strings.ToLower(strings.TrimSpace(role))
	if mapped, ok := m.Aliases[r]; ok {
		return mapped
	}
	switch domainauth.Role(r) {
	case domainauth.RoleAdmin:
		return domainauth.RoleAdmin
	case domainauth.RoleReceptionist:
		return domainauth.RoleReceptionist
	default:
		return domainauth.RoleGuest
	}
}
