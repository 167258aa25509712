package validation

import "strings"

// OrganizationRequest mirrors the fields needed for organization validation.
type OrganizationRequest struct {
	Name string
}

// ValidateOrganizationRequest validates create and update organization
// requests, which share the same shape.
func ValidateOrganizationRequest(req OrganizationRequest) []FieldError {
	var errs []FieldError

	name := strings.TrimSpace(req.Name)
	if name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "name is required"})
	} else if len(name) > 255 {
		errs = append(errs, FieldError{Field: "name", Message: "name must be at most 255 characters"})
	}

	return errs
}
