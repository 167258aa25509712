package validation

import "time"

// AdvisoryAssignmentRequest mirrors the fields needed for advisory
// assignment validation. Timestamps arrive as RFC 3339 strings; empty means
// the bound is absent.
type AdvisoryAssignmentRequest struct {
	UserID    string
	ProjectID string
	StartsAt  string
	EndsAt    string
}

// ValidateAdvisoryAssignmentRequest validates the fields of a create or
// update advisory assignment request.
func ValidateAdvisoryAssignmentRequest(req AdvisoryAssignmentRequest) []FieldError {
	var errs []FieldError

	errs = append(errs, requireUUID("userId", req.UserID)...)
	errs = append(errs, requireUUID("projectId", req.ProjectID)...)

	starts, startErrs := parseTimestamp("startsAt", req.StartsAt)
	errs = append(errs, startErrs...)

	ends, endErrs := parseTimestamp("endsAt", req.EndsAt)
	errs = append(errs, endErrs...)

	if starts != nil && ends != nil && ends.Before(*starts) {
		errs = append(errs, FieldError{Field: "endsAt", Message: "endsAt must not be before startsAt"})
	}

	return errs
}

func parseTimestamp(field, value string) (*time.Time, []FieldError) {
	if value == "" {
		return nil, nil
	}
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, []FieldError{{Field: field, Message: field + " must be an RFC 3339 timestamp"}}
	}
	return &ts, nil
}
