package domain

// Role constants define the allowed user roles. Exactly one account, fixed
// by configuration, may ever hold RoleAdmin.
const (
	RoleAdmin   = "admin"
	RolePremium = "premium"
	RoleRegular = "regular"
)

// ValidRoles returns the set of valid user roles.
func ValidRoles() []string {
	return []string{RoleAdmin, RolePremium, RoleRegular}
}

// IsValidRole checks whether the given role string is a valid user role.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles() {
		if r == role {
			return true
		}
	}
	return false
}
