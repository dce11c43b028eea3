package models

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent RoleType = "STUDENT"
	RoleAdvisor RoleType = "ADVISOR"
	// RoleSystem is used by scheduled jobs and admin commands; it is never stored on a user.
	RoleSystem RoleType = "SYSTEM"
)

// IsValid reports whether r is a role a user account can hold.
func (r RoleType) IsValid() bool {
	return r == RoleStudent || r == RoleAdvisor
}
