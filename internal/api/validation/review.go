package validation

import "strings"

// CreateReviewRequest mirrors the fields needed for create review validation.
type CreateReviewRequest struct {
	ProjectID      string
	RevieweeUserID string
	Rating         *int
	Content        string
}

// ValidateCreateReviewRequest validates the fields of a create review request.
func ValidateCreateReviewRequest(req CreateReviewRequest) []FieldError {
	var errs []FieldError

	errs = append(errs, requireUUID("projectId", req.ProjectID)...)
	errs = append(errs, optionalUUID("revieweeUserId", req.RevieweeUserID)...)

	if req.Rating == nil {
		errs = append(errs, FieldError{Field: "rating", Message: "rating is required"})
	} else {
		errs = append(errs, validateRating(*req.Rating)...)
	}

	if strings.TrimSpace(req.Content) == "" {
		errs = append(errs, FieldError{Field: "content", Message: "content is required"})
	}

	return errs
}

// UpdateReviewRequest mirrors the fields needed for update review
// validation. Nil fields are not being changed.
type UpdateReviewRequest struct {
	Rating  *int
	Content *string
}

// ValidateUpdateReviewRequest validates the provided fields of an update
// review request.
func ValidateUpdateReviewRequest(req UpdateReviewRequest) []FieldError {
	var errs []FieldError

	if req.Rating != nil {
		errs = append(errs, validateRating(*req.Rating)...)
	}
	if req.Content != nil && strings.TrimSpace(*req.Content) == "" {
		errs = append(errs, FieldError{Field: "content", Message: "content must not be empty"})
	}

	return errs
}

// Ratings are a 1-5 scale, bounds inclusive.
func validateRating(rating int) []FieldError {
	if rating < 1 || rating > 5 {
		return []FieldError{{Field: "rating", Message: "rating must be between 1 and 5"}}
	}
	return nil
}
