package validation

// CreateProjectRequest mirrors the fields needed for create project validation.
type CreateProjectRequest struct {
	OrganizationID string
	Name           string
}

// ValidateCreateProjectRequest validates the fields of a create project request.
func ValidateCreateProjectRequest(req CreateProjectRequest) []FieldError {
	var errs []FieldError

	errs = append(errs, requireUUID("organizationId", req.OrganizationID)...)
	errs = append(errs, validateName(req.Name, true)...)

	return errs
}

// UpdateProjectRequest mirrors the fields needed for update project
// validation. Nil fields are not being changed.
type UpdateProjectRequest struct {
	OrganizationID *string
	Name           *string
}

// ValidateUpdateProjectRequest validates the provided fields of an update
// project request.
func ValidateUpdateProjectRequest(req UpdateProjectRequest) []FieldError {
	var errs []FieldError

	if req.OrganizationID != nil {
		errs = append(errs, requireUUID("organizationId", *req.OrganizationID)...)
	}
	if req.Name != nil {
		errs = append(errs, validateName(*req.Name, true)...)
	}

	return errs
}

// AssignTeamRequest mirrors the fields needed for team assignment validation.
type AssignTeamRequest struct {
	TeamID string
}

// ValidateAssignTeamRequest validates the fields of a team assignment request.
func ValidateAssignTeamRequest(req AssignTeamRequest) []FieldError {
	return requireUUID("teamId", req.TeamID)
}
