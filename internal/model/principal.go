package model

import "github.com/google/uuid"

type Role string

const (
	RoleMechanic   Role = "MECHANIC"
	RoleSupervisor Role = "SUPERVISOR"
	RoleAdmin      Role = "ADMIN"
)

// Principal is the authenticated caller as extracted from the access token.
// The service only records identity and request metadata; it does not authenticate.
type Principal struct {
	UserID uuid.UUID
	Branch string
	Role   Role
}

func (p Principal) IsMechanic() bool {
	return p.Role == RoleMechanic
}

func (p Principal) IsSupervisor() bool {
	return p.Role == RoleSupervisor
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// CanReview reports whether the principal may sign off readings and work orders.
func (p Principal) CanReview() bool {
	return p.Role == RoleSupervisor || p.Role == RoleAdmin
}
