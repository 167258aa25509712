package organization

import (
	"time"

	"github.com/google/uuid"
)

// Organization represents a row in the organizations table.
type Organization struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
