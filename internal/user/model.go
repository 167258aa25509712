package user

import (
	"time"

	"github.com/google/uuid"

	"github.com/orgkit/orgkit/internal/policy"
)

// User represents a row in the users table. Every user authenticates with an
// API key and carries exactly one organization-wide role.
type User struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Role           policy.Role
	Name           string
	Email          string
	ApiKeyPrefix   string
	ApiKeyHash     string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Actor returns the policy engine's view of this user.
func (u *User) Actor() policy.Actor {
	return policy.Actor{ID: u.ID, Role: u.Role}
}
