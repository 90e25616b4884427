package workhive

// AccountRole is the marketplace role attached to an account
type AccountRole string

const (
	// RoleCandidate can browse jobs, apply, and message employers
	RoleCandidate AccountRole = "candidate"
	// RoleEmployer can publish jobs and message candidates
	RoleEmployer AccountRole = "employer"
	// RoleAdmin can moderate accounts and listings
	RoleAdmin AccountRole = "admin"
)

// RoleValidator defines the checks route guards run against a role claim
type RoleValidator interface {
	HasRole(role string) bool
	IsAdmin() bool
}

// IsValid checks if the role is one of the predefined valid roles.
// The role set is closed: accounts keep the role they registered with.
func (r AccountRole) IsValid() bool {
	switch r {
	case RoleCandidate, RoleEmployer, RoleAdmin:
		return true
	default:
		return false
	}
}

// GetAllRoles returns the closed set of marketplace roles
func GetAllRoles() []AccountRole {
	return []AccountRole{
		RoleCandidate,
		RoleEmployer,
		RoleAdmin,
	}
}

// ParseRole safely parses a string into an AccountRole
func ParseRole(roleStr string) (AccountRole, bool) {
	role := AccountRole(roleStr)
	return role, role.IsValid()
}
