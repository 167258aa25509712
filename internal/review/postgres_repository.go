package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
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

// Create inserts a new review record and loads the joined display names.
func (r *PostgresRepository) Create(ctx context.Context, rev *Review) error {
	query := `
		INSERT INTO reviews (reviewer_id, project_id, reviewee_user_id, rating, content)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		rev.ReviewerID, rev.ProjectID, rev.RevieweeUserID, rev.Rating, rev.Content,
	).Scan(&rev.ID, &rev.CreatedAt, &rev.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting review: %w", err)
	}

	loaded, err := r.GetByID(ctx, rev.ID)
	if err != nil {
		return err
	}
	*rev = *loaded

	return nil
}

const reviewSelect = `
	SELECT r.id, r.reviewer_id, r.reviewee_user_id, r.project_id,
	       r.rating, r.content, r.created_at, r.updated_at,
	       reviewer.name, reviewee.name, p.name
	FROM reviews r
	JOIN users reviewer ON reviewer.id = r.reviewer_id
	LEFT JOIN users reviewee ON reviewee.id = r.reviewee_user_id
	JOIN projects p ON p.id = r.project_id`

func scanReview(row pgx.Row) (*Review, error) {
	var rev Review
	err := row.Scan(
		&rev.ID, &rev.ReviewerID, &rev.RevieweeUserID, &rev.ProjectID,
		&rev.Rating, &rev.Content, &rev.CreatedAt, &rev.UpdatedAt,
		&rev.ReviewerName, &rev.RevieweeName, &rev.ProjectName,
	)
	if err != nil {
		return nil, err
	}
	return &rev, nil
}

// GetByID retrieves a single review by its UUID, with display names joined.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Review, error) {
	query := reviewSelect + ` WHERE r.id = $1`

	rev, err := scanReview(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("querying review: %w", err)
	}

	return rev, nil
}

// List retrieves all reviews in creation order. Visibility filtering happens
// in the caller, one policy decision per review.
func (r *PostgresRepository) List(ctx context.Context) ([]Review, error) {
	query := reviewSelect + ` ORDER BY r.created_at ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing reviews: %w", err)
	}
	defer rows.Close()

	reviews := []Review{}
	for rows.Next() {
		rev, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning review row: %w", err)
		}
		reviews = append(reviews, *rev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating review rows: %w", err)
	}

	return reviews, nil
}

// Update changes the rating and content of a review.
func (r *PostgresRepository) Update(ctx context.Context, rev *Review) error {
	query := `
		UPDATE reviews
		SET rating = $2, content = $3, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query, rev.ID, rev.Rating, rev.Content).Scan(&rev.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrReviewNotFound
		}
		return fmt.Errorf("updating review: %w", err)
	}

	return nil
}

// Delete removes a review by its UUID.
func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM reviews WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting review: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrReviewNotFound
	}

	return nil
}
