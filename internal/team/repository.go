package team

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrTeamNotFound is returned when a team record is not found.
var ErrTeamNotFound = errors.New("team not found")

// ErrDuplicateMember is returned when adding a user who is already a member
// of the team.
var ErrDuplicateMember = errors.New("user is already a team member")

// ErrMemberNotFound is returned when removing a user who is not a member of
// the team.
var ErrMemberNotFound = errors.New("team member not found")

// Repository provides CRUD and relationship operations on teams.
type Repository interface {
	Create(ctx context.Context, t *Team) error
	GetByID(ctx context.Context, id uuid.UUID) (*Team, error)
	List(ctx context.Context) ([]Team, error)
	Update(ctx context.Context, t *Team) error
	Delete(ctx context.Context, id uuid.UUID) error

	AddMember(ctx context.Context, m *Member) error
	RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error
	ListMembers(ctx context.Context, teamID uuid.UUID) ([]Member, error)

	// ListManagedBy returns the relationship graphs of every team the given
	// user manages, for review visibility decisions.
	ListManagedBy(ctx context.Context, managerID uuid.UUID) ([]Graph, error)

	// ListForMember returns the relationship graphs of every team the given
	// user belongs to.
	ListForMember(ctx context.Context, userID uuid.UUID) ([]Graph, error)
}
