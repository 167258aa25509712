package project

import (
	"time"

	"github.com/google/uuid"
)

// Project represents a row in the projects table.
type Project struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Name           string
	Description    string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
