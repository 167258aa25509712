package advisory

import (
	"time"

	"github.com/google/uuid"

	"github.com/orgkit/orgkit/internal/policy"
)

// Assignment represents a row in the advisory_assignments table: a
// time-bounded advisor link between a user and a project. Either bound may
// be absent, in which case that side of the window is unconstrained.
type Assignment struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	ProjectID uuid.UUID
	StartsAt  *time.Time
	EndsAt    *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActiveAt reports whether the assignment's window contains the given
// instant. Serialized as is_active on every assignment response.
func (a *Assignment) IsActiveAt(now time.Time) bool {
	return policy.WithinWindow(a.StartsAt, a.EndsAt, now)
}
