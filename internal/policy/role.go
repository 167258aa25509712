package policy

import "fmt"

// Role is the organization-wide role of a user. It is a closed set: every
// user carries exactly one of the three values, and an actor without a
// recognized role is an invalid input the caller must reject before
// evaluating any policy.
type Role int

const (
	RoleAssociate Role = iota
	RoleManager
	RoleExecutive
)

// ParseRole converts the stored role string to a Role.
func ParseRole(s string) (Role, error) {
	switch s {
	case "associate":
		return RoleAssociate, nil
	case "manager":
		return RoleManager, nil
	case "executive":
		return RoleExecutive, nil
	default:
		return 0, fmt.Errorf("unknown role %q", s)
	}
}

// String returns the stored form of the role.
func (r Role) String() string {
	switch r {
	case RoleAssociate:
		return "associate"
	case RoleManager:
		return "manager"
	case RoleExecutive:
		return "executive"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// ValidRoleStrings lists the accepted stored role values, for validation
// messages.
func ValidRoleStrings() []string {
	return []string{"associate", "manager", "executive"}
}
