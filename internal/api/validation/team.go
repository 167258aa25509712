package validation

import "strings"

// CreateTeamRequest mirrors the fields needed for create team validation.
type CreateTeamRequest struct {
	OrganizationID string
	ManagerID      string
	Name           string
}

// ValidateCreateTeamRequest validates the fields of a create team request.
func ValidateCreateTeamRequest(req CreateTeamRequest) []FieldError {
	var errs []FieldError

	errs = append(errs, requireUUID("organizationId", req.OrganizationID)...)
	errs = append(errs, optionalUUID("managerId", req.ManagerID)...)
	errs = append(errs, validateName(req.Name, true)...)

	return errs
}

// UpdateTeamRequest mirrors the fields needed for update team validation.
// Nil fields are not being changed.
type UpdateTeamRequest struct {
	OrganizationID *string
	ManagerID      *string
	Name           *string
}

// ValidateUpdateTeamRequest validates the provided fields of an update team
// request.
func ValidateUpdateTeamRequest(req UpdateTeamRequest) []FieldError {
	var errs []FieldError

	if req.OrganizationID != nil {
		errs = append(errs, requireUUID("organizationId", *req.OrganizationID)...)
	}
	if req.ManagerID != nil {
		errs = append(errs, optionalUUID("managerId", *req.ManagerID)...)
	}
	if req.Name != nil {
		errs = append(errs, validateName(*req.Name, true)...)
	}

	return errs
}

// AddMemberRequest mirrors the fields needed for add member validation.
type AddMemberRequest struct {
	UserID   string
	TeamRole string
}

// ValidateAddMemberRequest validates the fields of an add member request.
func ValidateAddMemberRequest(req AddMemberRequest) []FieldError {
	var errs []FieldError

	errs = append(errs, requireUUID("userId", req.UserID)...)

	if len(strings.TrimSpace(req.TeamRole)) > 255 {
		errs = append(errs, FieldError{Field: "teamRole", Message: "teamRole must be at most 255 characters"})
	}

	return errs
}
