package advisory

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

// Create inserts a new advisory assignment record.
func (r *PostgresRepository) Create(ctx context.Context, a *Assignment) error {
	query := `
		INSERT INTO advisory_assignments (user_id, project_id, starts_at, ends_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, a.UserID, a.ProjectID, a.StartsAt, a.EndsAt).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateAssignment
		}
		return fmt.Errorf("inserting advisory assignment: %w", err)
	}

	return nil
}

// GetByID retrieves a single advisory assignment by its UUID.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Assignment, error) {
	query := `
		SELECT id, user_id, project_id, starts_at, ends_at, created_at, updated_at
		FROM advisory_assignments
		WHERE id = $1`

	var a Assignment
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&a.ID, &a.UserID, &a.ProjectID, &a.StartsAt, &a.EndsAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("querying advisory assignment: %w", err)
	}

	return &a, nil
}

// List retrieves all advisory assignments ordered by creation time.
func (r *PostgresRepository) List(ctx context.Context) ([]Assignment, error) {
	query := `
		SELECT id, user_id, project_id, starts_at, ends_at, created_at, updated_at
		FROM advisory_assignments
		ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing advisory assignments: %w", err)
	}
	defer rows.Close()

	assignments := []Assignment{}
	for rows.Next() {
		var a Assignment
		err := rows.Scan(&a.ID, &a.UserID, &a.ProjectID, &a.StartsAt, &a.EndsAt, &a.CreatedAt, &a.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning advisory assignment row: %w", err)
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating advisory assignment rows: %w", err)
	}

	return assignments, nil
}

// Update changes the mutable fields of an advisory assignment record.
func (r *PostgresRepository) Update(ctx context.Context, a *Assignment) error {
	query := `
		UPDATE advisory_assignments
		SET user_id = $2, project_id = $3, starts_at = $4, ends_at = $5, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query, a.ID, a.UserID, a.ProjectID, a.StartsAt, a.EndsAt).
		Scan(&a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrAssignmentNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateAssignment
		}
		return fmt.Errorf("updating advisory assignment: %w", err)
	}

	return nil
}

// Delete removes an advisory assignment by its UUID.
func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM advisory_assignments WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting advisory assignment: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrAssignmentNotFound
	}

	return nil
}

// ExistsForUserAndProject reports whether the user advises the project.
// The window columns are deliberately not part of the predicate.
func (r *PostgresRepository) ExistsForUserAndProject(ctx context.Context, userID, projectID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM advisory_assignments
			WHERE user_id = $1 AND project_id = $2
		)`

	var exists bool
	err := r.pool.QueryRow(ctx, query, userID, projectID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking advisory assignment existence: %w", err)
	}

	return exists, nil
}
