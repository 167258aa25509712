package organization

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

// Create inserts a new organization record.
func (r *PostgresRepository) Create(ctx context.Context, org *Organization) error {
	query := `
		INSERT INTO organizations (name)
		VALUES ($1)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, org.Name).Scan(&org.ID, &org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting organization: %w", err)
	}

	return nil
}

// GetByID retrieves a single organization by its UUID.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Organization, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM organizations
		WHERE id = $1`

	var org Organization
	err := r.pool.QueryRow(ctx, query, id).Scan(&org.ID, &org.Name, &org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("querying organization: %w", err)
	}

	return &org, nil
}

// List retrieves all organizations ordered by creation time.
func (r *PostgresRepository) List(ctx context.Context) ([]Organization, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM organizations
		ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing organizations: %w", err)
	}
	defer rows.Close()

	var orgs []Organization
	for rows.Next() {
		var org Organization
		err := rows.Scan(&org.ID, &org.Name, &org.CreatedAt, &org.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning organization row: %w", err)
		}
		orgs = append(orgs, org)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating organization rows: %w", err)
	}

	if orgs == nil {
		orgs = []Organization{}
	}

	return orgs, nil
}

// Update changes the name of an organization.
func (r *PostgresRepository) Update(ctx context.Context, org *Organization) error {
	query := `
		UPDATE organizations
		SET name = $2, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query, org.ID, org.Name).Scan(&org.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrOrganizationNotFound
		}
		return fmt.Errorf("updating organization: %w", err)
	}

	return nil
}

// Delete removes an organization by its UUID. Returns ErrOrganizationInUse
// if dependent rows still reference it (FK RESTRICT).
func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM organizations WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrOrganizationInUse
		}
		return fmt.Errorf("deleting organization: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrOrganizationNotFound
	}

	return nil
}
