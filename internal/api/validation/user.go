package validation

import (
	"strings"

	"github.com/google/uuid"

	"github.com/orgkit/orgkit/internal/policy"
)

// CreateUserRequest mirrors the fields needed for create user validation.
type CreateUserRequest struct {
	OrganizationID string
	Role           string
	Name           string
	Email          string
}

// ValidateCreateUserRequest validates the fields of a create user request.
func ValidateCreateUserRequest(req CreateUserRequest) []FieldError {
	var errs []FieldError

	errs = append(errs, requireUUID("organizationId", req.OrganizationID)...)
	errs = append(errs, validateRole(req.Role, true)...)
	errs = append(errs, validateName(req.Name, true)...)
	errs = append(errs, validateEmail(req.Email, true)...)

	return errs
}

// UpdateUserRequest mirrors the fields needed for update user validation.
// Nil fields are not being changed.
type UpdateUserRequest struct {
	OrganizationID *string
	Role           *string
	Name           *string
	Email          *string
}

// ValidateUpdateUserRequest validates the provided fields of an update user
// request.
func ValidateUpdateUserRequest(req UpdateUserRequest) []FieldError {
	var errs []FieldError

	if req.OrganizationID != nil {
		errs = append(errs, requireUUID("organizationId", *req.OrganizationID)...)
	}
	if req.Role != nil {
		errs = append(errs, validateRole(*req.Role, true)...)
	}
	if req.Name != nil {
		errs = append(errs, validateName(*req.Name, true)...)
	}
	if req.Email != nil {
		errs = append(errs, validateEmail(*req.Email, true)...)
	}

	return errs
}

func requireUUID(field, value string) []FieldError {
	if value == "" {
		return []FieldError{{Field: field, Message: field + " is required"}}
	}
	if _, err := uuid.Parse(value); err != nil {
		return []FieldError{{Field: field, Message: field + " must be a valid UUID"}}
	}
	return nil
}

func optionalUUID(field, value string) []FieldError {
	if value == "" {
		return nil
	}
	if _, err := uuid.Parse(value); err != nil {
		return []FieldError{{Field: field, Message: field + " must be a valid UUID"}}
	}
	return nil
}

func validateRole(role string, required bool) []FieldError {
	if role == "" {
		if required {
			return []FieldError{{Field: "role", Message: "role is required"}}
		}
		return nil
	}
	if _, err := policy.ParseRole(role); err != nil {
		return []FieldError{{
			Field:   "role",
			Message: "role must be one of: " + strings.Join(policy.ValidRoleStrings(), ", "),
		}}
	}
	return nil
}

func validateName(name string, required bool) []FieldError {
	name = strings.TrimSpace(name)
	if name == "" {
		if required {
			return []FieldError{{Field: "name", Message: "name is required"}}
		}
		return nil
	}
	if len(name) > 255 {
		return []FieldError{{Field: "name", Message: "name must be at most 255 characters"}}
	}
	return nil
}

func validateEmail(email string, required bool) []FieldError {
	email = strings.TrimSpace(email)
	if email == "" {
		if required {
			return []FieldError{{Field: "email", Message: "email is required"}}
		}
		return nil
	}
	if len(email) > 255 {
		return []FieldError{{Field: "email", Message: "email must be at most 255 characters"}}
	}
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return []FieldError{{Field: "email", Message: "email must be a valid address"}}
	}
	return nil
}
