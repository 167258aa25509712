package project

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

// Create inserts a new project record.
func (r *PostgresRepository) Create(ctx context.Context, p *Project) error {
	query := `
		INSERT INTO projects (organization_id, name, description)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, p.OrganizationID, p.Name, p.Description).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}

	return nil
}

// GetByID retrieves a single project by its UUID.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Project, error) {
	query := `
		SELECT id, organization_id, name, description, created_at, updated_at
		FROM projects
		WHERE id = $1`

	var p Project
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&p.ID, &p.OrganizationID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("querying project: %w", err)
	}

	return &p, nil
}

// List retrieves all projects ordered by creation time.
func (r *PostgresRepository) List(ctx context.Context) ([]Project, error) {
	query := `
		SELECT id, organization_id, name, description, created_at, updated_at
		FROM projects
		ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	projects := []Project{}
	for rows.Next() {
		var p Project
		err := rows.Scan(&p.ID, &p.OrganizationID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning project row: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating project rows: %w", err)
	}

	return projects, nil
}

// Update changes the mutable fields of a project record.
func (r *PostgresRepository) Update(ctx context.Context, p *Project) error {
	query := `
		UPDATE projects
		SET organization_id = $2, name = $3, description = $4, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query, p.ID, p.OrganizationID, p.Name, p.Description).
		Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("updating project: %w", err)
	}

	return nil
}

// Delete removes a project by its UUID. Team assignments, reviews, and
// advisory assignments cascade in the schema.
func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM projects WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrProjectNotFound
	}

	return nil
}

// AssignTeam inserts a project_team row. The (project, team) pair is unique.
func (r *PostgresRepository) AssignTeam(ctx context.Context, projectID, teamID uuid.UUID) error {
	query := `
		INSERT INTO project_team (project_id, team_id)
		VALUES ($1, $2)`

	_, err := r.pool.Exec(ctx, query, projectID, teamID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return ErrDuplicateAssignment
			case "23503":
				return ErrProjectNotFound
			}
		}
		return fmt.Errorf("inserting project team assignment: %w", err)
	}

	return nil
}

// RemoveTeam deletes a project_team row.
func (r *PostgresRepository) RemoveTeam(ctx context.Context, projectID, teamID uuid.UUID) error {
	query := `DELETE FROM project_team WHERE project_id = $1 AND team_id = $2`

	result, err := r.pool.Exec(ctx, query, projectID, teamID)
	if err != nil {
		return fmt.Errorf("deleting project team assignment: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrAssignmentNotFound
	}

	return nil
}

// ListTeamIDs returns the IDs of teams assigned to the project.
func (r *PostgresRepository) ListTeamIDs(ctx context.Context, projectID uuid.UUID) ([]uuid.UUID, error) {
	query := `SELECT team_id FROM project_team WHERE project_id = $1`

	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing project team ids: %w", err)
	}
	defer rows.Close()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning project team id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating project team ids: %w", err)
	}

	return ids, nil
}
