package enums

import "fmt"

// UserRole represents an account-level permissions role. The wire values are
// kept in Portuguese for compatibility with existing clients.
type UserRole string

const (
	UserRoleMembro UserRole = "membro"
	UserRoleAdmin  UserRole = "admin"
	UserRoleMaster UserRole = "master"
)

var validUserRoles = []UserRole{
	UserRoleMembro,
	UserRoleAdmin,
	UserRoleMaster,
}

// String implements fmt.Stringer.
func (r UserRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known UserRole.
func (r UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseUserRole converts raw input into a UserRole.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}
