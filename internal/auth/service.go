package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/orgkit/orgkit/internal/organization"
	"github.com/orgkit/orgkit/internal/policy"
	"github.com/orgkit/orgkit/internal/user"
)

// ErrInvalidKey is returned when the provided API key does not match any user.
var ErrInvalidKey = errors.New("invalid API key")

// Service provides authentication operations.
type Service struct {
	users      user.Repository
	orgs       organization.Repository
	bcryptCost int
}

// NewService creates a new auth Service.
func NewService(users user.Repository, orgs organization.Repository, bcryptCost int) *Service {
	return &Service{
		users:      users,
		orgs:       orgs,
		bcryptCost: bcryptCost,
	}
}

// GenerateKey creates a new API key. Returns the raw key, its prefix (first
// 8 chars), and the bcrypt hash. The raw key is: 32 random bytes ->
// base64url -> prepend "ok_".
func (s *Service) GenerateKey() (rawKey, prefix, hash string, err error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", "", fmt.Errorf("generating random bytes: %w", err)
	}

	rawKey = "ok_" + base64.RawURLEncoding.EncodeToString(b)
	prefix = rawKey[:8]

	hashBytes, err := bcrypt.GenerateFromPassword([]byte(rawKey), s.bcryptCost)
	if err != nil {
		return "", "", "", fmt.Errorf("hashing key: %w", err)
	}
	hash = string(hashBytes)

	return rawKey, prefix, hash, nil
}

// Authenticate resolves a raw API key to an Identity. It extracts the
// prefix, looks up candidates, and bcrypt-compares each one.
func (s *Service) Authenticate(ctx context.Context, rawKey string) (*Identity, error) {
	if len(rawKey) < 8 {
		return nil, ErrInvalidKey
	}

	prefix := rawKey[:8]

	candidates, err := s.users.FindByPrefix(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("finding users by prefix: %w", err)
	}

	for _, u := range candidates {
		if bcrypt.CompareHashAndPassword([]byte(u.ApiKeyHash), []byte(rawKey)) == nil {
			return &Identity{
				UserID:         u.ID,
				UserName:       u.Name,
				OrganizationID: u.OrganizationID,
				Role:           u.Role,
			}, nil
		}
	}

	return nil, ErrInvalidKey
}

// Bootstrap creates an initial organization and executive user if the users
// table is empty. Returns the executive's raw API key (only displayed once).
// If users already exist, returns empty string.
func (s *Service) Bootstrap(ctx context.Context) (string, error) {
	count, err := s.users.CountAll(ctx)
	if err != nil {
		return "", fmt.Errorf("counting users: %w", err)
	}

	if count > 0 {
		return "", nil
	}

	org := &organization.Organization{Name: "Default Organization"}
	if err := s.orgs.Create(ctx, org); err != nil {
		return "", fmt.Errorf("creating bootstrap organization: %w", err)
	}

	rawKey, prefix, hash, err := s.GenerateKey()
	if err != nil {
		return "", fmt.Errorf("generating bootstrap key: %w", err)
	}

	u := &user.User{
		OrganizationID: org.ID,
		Role:           policy.RoleExecutive,
		Name:           "bootstrap-executive",
		Email:          "bootstrap@localhost",
		ApiKeyPrefix:   prefix,
		ApiKeyHash:     hash,
	}

	if err := s.users.Create(ctx, u); err != nil {
		return "", fmt.Errorf("creating bootstrap executive: %w", err)
	}

	slog.Info("Bootstrap executive API key created", "key", rawKey)

	return rawKey, nil
}
