package models

import "strings"

// RoleName identifies the menu a user gets after login.
type RoleName string

const (
	RoleStaff   RoleName = "STAFF"
	RoleStudent RoleName = "STUDENT"
)

// ParseRoleName resolves a role name in any casing.
func ParseRoleName(raw string) (RoleName, bool) {
	switch RoleName(strings.ToUpper(strings.TrimSpace(raw))) {
	case RoleStaff:
		return RoleStaff, true
	case RoleStudent:
		return RoleStudent, true
	default:
		return "", false
	}
}

// User is an entry of the login directory. Passwords are kept and compared
// in plain text.
type User struct {
	Username string
	Password string
	Role     RoleName
}
