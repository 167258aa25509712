package organization

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrOrganizationNotFound is returned when an organization record is not found.
var ErrOrganizationNotFound = errors.New("organization not found")

// ErrOrganizationInUse is returned when deleting an organization that still
// has users, teams, or projects referencing it.
var ErrOrganizationInUse = errors.New("organization has dependent records")

// Repository provides CRUD operations on the organizations table.
type Repository interface {
	Create(ctx context.Context, org *Organization) error
	GetByID(ctx context.Context, id uuid.UUID) (*Organization, error)
	List(ctx context.Context) ([]Organization, error)
	Update(ctx context.Context, org *Organization) error
	Delete(ctx context.Context, id uuid.UUID) error
}
