// Package validation contains pure request validators for the API layer.
// Each validator returns a slice of field errors; an empty slice means the
// request is well formed.
package validation

// FieldError represents a validation error on a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
