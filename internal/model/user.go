package model

import "strings"

// Role is a granted permission level for an authenticated user.
type Role string

const (
	RoleAdmin            Role = "ADMIN"
	RoleInventoryManager Role = "INVENTORY_MANAGER"
	RoleMarketingManager Role = "MARKETING_MANAGER"
	RoleSalesManager     Role = "SALES_MANAGER"
)

// User is an authenticated principal with a set of granted roles.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Roles    []Role `json:"roles"`
}

// HasRole reports whether the user holds the given role.
func (u User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// ParseRoles converts a comma-separated role list (as stored in the
// users table) into a Role slice. Unknown names are kept as-is so a
// future role does not break existing rows.
func ParseRoles(s string) []Role {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	roles := make([]Role, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		roles = append(roles, Role(strings.ToUpper(p)))
	}
	return roles
}

// RolesString renders a role set back to its comma-separated storage form.
func RolesString(roles []Role) string {
	parts := make([]string, len(roles))
	for i, r := range roles {
		parts[i] = string(r)
	}
	return strings.Join(parts, ",")
}
