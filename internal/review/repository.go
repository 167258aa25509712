package review

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrReviewNotFound is returned when a review record is not found.
var ErrReviewNotFound = errors.New("review not found")

// Repository provides CRUD operations on the reviews table.
type Repository interface {
	Create(ctx context.Context, rev *Review) error
	GetByID(ctx context.Context, id uuid.UUID) (*Review, error)
	List(ctx context.Context) ([]Review, error)
	Update(ctx context.Context, rev *Review) error
	Delete(ctx context.Context, id uuid.UUID) error
}
