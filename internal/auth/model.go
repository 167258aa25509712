package auth

import (
	"github.com/google/uuid"

	"github.com/orgkit/orgkit/internal/policy"
)

// Identity is stored in the request context after authentication.
type Identity struct {
	UserID         uuid.UUID
	UserName       string
	OrganizationID uuid.UUID
	Role           policy.Role
}

// Actor returns the policy engine's view of the authenticated user.
func (i *Identity) Actor() policy.Actor {
	return policy.Actor{ID: i.UserID, Role: i.Role}
}
