package team

import (
	"time"

	"github.com/google/uuid"
)

// Team represents a row in the teams table.
type Team struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	ManagerID      *uuid.UUID // nil when the team has no manager
	Name           string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Member represents a row in the team_members join table.
type Member struct {
	TeamID   uuid.UUID
	UserID   uuid.UUID
	TeamRole *string
}

// Graph is a team together with the ID sets of its members and assigned
// projects, loaded in one shot for policy evaluation.
type Graph struct {
	Team       Team
	MemberIDs  []uuid.UUID
	ProjectIDs []uuid.UUID
}
