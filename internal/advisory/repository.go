package advisory

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrAssignmentNotFound is returned when an advisory assignment record is
// not found.
var ErrAssignmentNotFound = errors.New("advisory assignment not found")

// ErrDuplicateAssignment is returned when a user already has an advisory
// assignment on the project.
var ErrDuplicateAssignment = errors.New("advisory assignment already exists")

// Repository provides CRUD and lookup operations on advisory assignments.
type Repository interface {
	Create(ctx context.Context, a *Assignment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Assignment, error)
	List(ctx context.Context) ([]Assignment, error)
	Update(ctx context.Context, a *Assignment) error
	Delete(ctx context.Context, id uuid.UUID) error

	// ExistsForUserAndProject reports whether the user holds an advisory
	// assignment on the project, regardless of the assignment's window.
	ExistsForUserAndProject(ctx context.Context, userID, projectID uuid.UUID) (bool, error)
}
