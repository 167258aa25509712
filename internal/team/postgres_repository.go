package team

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

// Create inserts a new team record.
func (r *PostgresRepository) Create(ctx context.Context, t *Team) error {
	query := `
		INSERT INTO teams (organization_id, manager_id, name)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, t.OrganizationID, t.ManagerID, t.Name).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting team: %w", err)
	}

	return nil
}

// GetByID retrieves a single team by its UUID.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Team, error) {
	query := `
		SELECT id, organization_id, manager_id, name, created_at, updated_at
		FROM teams
		WHERE id = $1`

	var t Team
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&t.ID, &t.OrganizationID, &t.ManagerID, &t.Name, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("querying team: %w", err)
	}

	return &t, nil
}

// List retrieves all teams ordered by creation time.
func (r *PostgresRepository) List(ctx context.Context) ([]Team, error) {
	query := `
		SELECT id, organization_id, manager_id, name, created_at, updated_at
		FROM teams
		ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing teams: %w", err)
	}
	defer rows.Close()

	teams := []Team{}
	for rows.Next() {
		var t Team
		err := rows.Scan(&t.ID, &t.OrganizationID, &t.ManagerID, &t.Name, &t.CreatedAt, &t.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning team row: %w", err)
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating team rows: %w", err)
	}

	return teams, nil
}

// Update changes the mutable fields of a team record.
func (r *PostgresRepository) Update(ctx context.Context, t *Team) error {
	query := `
		UPDATE teams
		SET organization_id = $2, manager_id = $3, name = $4, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query, t.ID, t.OrganizationID, t.ManagerID, t.Name).
		Scan(&t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("updating team: %w", err)
	}

	return nil
}

// Delete removes a team by its UUID. Membership and project assignment rows
// cascade in the schema.
func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM teams WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting team: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrTeamNotFound
	}

	return nil
}

// AddMember inserts a team_members row. The (team, user) pair is unique.
func (r *PostgresRepository) AddMember(ctx context.Context, m *Member) error {
	query := `
		INSERT INTO team_members (team_id, user_id, team_role)
		VALUES ($1, $2, $3)`

	_, err := r.pool.Exec(ctx, query, m.TeamID, m.UserID, m.TeamRole)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return ErrDuplicateMember
			case "23503":
				return ErrTeamNotFound
			}
		}
		return fmt.Errorf("inserting team member: %w", err)
	}

	return nil
}

// RemoveMember deletes a team_members row.
func (r *PostgresRepository) RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error {
	query := `DELETE FROM team_members WHERE team_id = $1 AND user_id = $2`

	result, err := r.pool.Exec(ctx, query, teamID, userID)
	if err != nil {
		return fmt.Errorf("deleting team member: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrMemberNotFound
	}

	return nil
}

// ListMembers returns the membership rows of a team.
func (r *PostgresRepository) ListMembers(ctx context.Context, teamID uuid.UUID) ([]Member, error) {
	query := `
		SELECT team_id, user_id, team_role
		FROM team_members
		WHERE team_id = $1`

	rows, err := r.pool.Query(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("listing team members: %w", err)
	}
	defer rows.Close()

	members := []Member{}
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.TeamID, &m.UserID, &m.TeamRole); err != nil {
			return nil, fmt.Errorf("scanning team member row: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating team member rows: %w", err)
	}

	return members, nil
}

// ListManagedBy returns the relationship graphs of teams managed by the user.
func (r *PostgresRepository) ListManagedBy(ctx context.Context, managerID uuid.UUID) ([]Graph, error) {
	query := `
		SELECT id, organization_id, manager_id, name, created_at, updated_at
		FROM teams
		WHERE manager_id = $1
		ORDER BY created_at ASC`

	return r.loadGraphs(ctx, query, managerID)
}

// ListForMember returns the relationship graphs of teams the user belongs to.
func (r *PostgresRepository) ListForMember(ctx context.Context, userID uuid.UUID) ([]Graph, error) {
	query := `
		SELECT t.id, t.organization_id, t.manager_id, t.name, t.created_at, t.updated_at
		FROM teams t
		JOIN team_members tm ON tm.team_id = t.id
		WHERE tm.user_id = $1
		ORDER BY t.created_at ASC`

	return r.loadGraphs(ctx, query, userID)
}

func (r *PostgresRepository) loadGraphs(ctx context.Context, query string, arg any) ([]Graph, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("querying teams: %w", err)
	}
	defer rows.Close()

	graphs := []Graph{}
	for rows.Next() {
		var t Team
		err := rows.Scan(&t.ID, &t.OrganizationID, &t.ManagerID, &t.Name, &t.CreatedAt, &t.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning team row: %w", err)
		}
		graphs = append(graphs, Graph{Team: t})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating team rows: %w", err)
	}

	for i := range graphs {
		if err := r.fillGraph(ctx, &graphs[i]); err != nil {
			return nil, err
		}
	}

	return graphs, nil
}

func (r *PostgresRepository) fillGraph(ctx context.Context, g *Graph) error {
	memberRows, err := r.pool.Query(ctx,
		`SELECT user_id FROM team_members WHERE team_id = $1`, g.Team.ID)
	if err != nil {
		return fmt.Errorf("querying team member ids: %w", err)
	}
	g.MemberIDs, err = collectIDs(memberRows)
	if err != nil {
		return fmt.Errorf("scanning team member ids: %w", err)
	}

	projectRows, err := r.pool.Query(ctx,
		`SELECT project_id FROM project_team WHERE team_id = $1`, g.Team.ID)
	if err != nil {
		return fmt.Errorf("querying team project ids: %w", err)
	}
	g.ProjectIDs, err = collectIDs(projectRows)
	if err != nil {
		return fmt.Errorf("scanning team project ids: %w", err)
	}

	return nil
}

func collectIDs(rows pgx.Rows) ([]uuid.UUID, error) {
	defer rows.Close()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
