package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrUserNotFound is returned when a user record is not found.
var ErrUserNotFound = errors.New("user not found")

// ErrDuplicateEmail is returned when a user with the same email already exists.
var ErrDuplicateEmail = errors.New("email already exists")

// ErrUserInUse is returned when deleting a user that other records still
// reference (authored reviews, managed teams).
var ErrUserInUse = errors.New("user has dependent records")

// Repository provides CRUD and lookup operations on the users table.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByPrefix returns all users whose API key prefix matches. The auth
	// service bcrypt-compares each candidate against the presented raw key.
	FindByPrefix(ctx context.Context, prefix string) ([]User, error)

	// CountAll reports the total number of users, used to decide whether the
	// bootstrap executive must be created.
	CountAll(ctx context.Context) (int, error)
}
