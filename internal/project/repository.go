package project

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrProjectNotFound is returned when a project record is not found.
var ErrProjectNotFound = errors.New("project not found")

// ErrDuplicateAssignment is returned when assigning a team that is already
// assigned to the project.
var ErrDuplicateAssignment = errors.New("team is already assigned to project")

// ErrAssignmentNotFound is returned when removing a team that is not
// assigned to the project.
var ErrAssignmentNotFound = errors.New("project team assignment not found")

// Repository provides CRUD and team-assignment operations on projects.
type Repository interface {
	Create(ctx context.Context, p *Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*Project, error)
	List(ctx context.Context) ([]Project, error)
	Update(ctx context.Context, p *Project) error
	Delete(ctx context.Context, id uuid.UUID) error

	AssignTeam(ctx context.Context, projectID, teamID uuid.UUID) error
	RemoveTeam(ctx context.Context, projectID, teamID uuid.UUID) error
	ListTeamIDs(ctx context.Context, projectID uuid.UUID) ([]uuid.UUID, error)
}
