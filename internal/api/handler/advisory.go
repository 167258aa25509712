package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/orgkit/orgkit/internal/advisory"
	"github.com/orgkit/orgkit/internal/api/middleware"
	"github.com/orgkit/orgkit/internal/api/response"
	"github.com/orgkit/orgkit/internal/api/validation"
)

type advisoryAssignmentRequest struct {
	UserID    string `json:"userId"`
	ProjectID string `json:"projectId"`
	StartsAt  string `json:"startsAt"`
	EndsAt    string `json:"endsAt"`
}

type advisoryAssignmentResponse struct {
	ID        string  `json:"id"`
	UserID    string  `json:"userId"`
	ProjectID string  `json:"projectId"`
	StartsAt  *string `json:"startsAt"`
	EndsAt    *string `json:"endsAt"`
	IsActive  bool    `json:"isActive"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

func toAdvisoryAssignmentResponse(a *advisory.Assignment, now time.Time) advisoryAssignmentResponse {
	return advisoryAssignmentResponse{
		ID:        a.ID.String(),
		UserID:    a.UserID.String(),
		ProjectID: a.ProjectID.String(),
		StartsAt:  formatOptionalTime(a.StartsAt),
		EndsAt:    formatOptionalTime(a.EndsAt),
		IsActive:  a.IsActiveAt(now),
		CreatedAt: formatTime(a.CreatedAt),
		UpdatedAt: formatTime(a.UpdatedAt),
	}
}

func formatOptionalTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

// AdvisoryAssignmentHandler handles advisory assignment CRUD endpoints.
type AdvisoryAssignmentHandler struct {
	repo advisory.Repository
	now  func() time.Time
}

// NewAdvisoryAssignmentHandler creates a new AdvisoryAssignmentHandler.
// The clock is injectable for deterministic tests.
func NewAdvisoryAssignmentHandler(repo advisory.Repository, now func() time.Time) *AdvisoryAssignmentHandler {
	if now == nil {
		now = time.Now
	}
	return &AdvisoryAssignmentHandler{repo: repo, now: now}
}

// Create handles POST /advisory-assignments.
func (h *AdvisoryAssignmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req advisoryAssignmentRequest
	if !decodeBody(w, r, &req, requestID) {
		return
	}

	fieldErrors := validation.ValidateAdvisoryAssignmentRequest(validation.AdvisoryAssignmentRequest{
		UserID:    req.UserID,
		ProjectID: req.ProjectID,
		StartsAt:  req.StartsAt,
		EndsAt:    req.EndsAt,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	a := &advisory.Assignment{}
	a.UserID, _ = uuid.Parse(req.UserID)
	a.ProjectID, _ = uuid.Parse(req.ProjectID)
	a.StartsAt = parseOptionalTime(req.StartsAt)
	a.EndsAt = parseOptionalTime(req.EndsAt)

	if err := h.repo.Create(r.Context(), a); err != nil {
		if errors.Is(err, advisory.ErrDuplicateAssignment) {
			response.Err(w, http.StatusConflict, "DUPLICATE_ASSIGNMENT", "User already advises this project", requestID)
			return
		}
		slog.Error("failed to create advisory assignment", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create advisory assignment", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toAdvisoryAssignmentResponse(a, h.now()), requestID)
}

// List handles GET /advisory-assignments.
func (h *AdvisoryAssignmentHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	assignments, err := h.repo.List(r.Context())
	if err != nil {
		slog.Error("failed to list advisory assignments", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list advisory assignments", requestID)
		return
	}

	now := h.now()
	items := make([]advisoryAssignmentResponse, 0, len(assignments))
	for i := range assignments {
		items = append(items, toAdvisoryAssignmentResponse(&assignments[i], now))
	}

	response.SuccessList(w, http.StatusOK, items, len(items), 1, 100, requestID)
}

// GetByID handles GET /advisory-assignments/{id}.
func (h *AdvisoryAssignmentHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	a, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, advisory.ErrAssignmentNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Advisory assignment not found", requestID)
			return
		}
		slog.Error("failed to get advisory assignment", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get advisory assignment", requestID)
		return
	}

	response.Success(w, http.StatusOK, toAdvisoryAssignmentResponse(a, h.now()), requestID)
}

// Update handles PATCH /advisory-assignments/{id}.
func (h *AdvisoryAssignmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	a, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, advisory.ErrAssignmentNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Advisory assignment not found", requestID)
			return
		}
		slog.Error("failed to get advisory assignment", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update advisory assignment", requestID)
		return
	}

	req := advisoryAssignmentRequest{
		UserID:    a.UserID.String(),
		ProjectID: a.ProjectID.String(),
		StartsAt:  optionalTimeString(a.StartsAt),
		EndsAt:    optionalTimeString(a.EndsAt),
	}
	if !decodeBody(w, r, &req, requestID) {
		return
	}

	fieldErrors := validation.ValidateAdvisoryAssignmentRequest(validation.AdvisoryAssignmentRequest{
		UserID:    req.UserID,
		ProjectID: req.ProjectID,
		StartsAt:  req.StartsAt,
		EndsAt:    req.EndsAt,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	a.UserID, _ = uuid.Parse(req.UserID)
	a.ProjectID, _ = uuid.Parse(req.ProjectID)
	a.StartsAt = parseOptionalTime(req.StartsAt)
	a.EndsAt = parseOptionalTime(req.EndsAt)

	if err := h.repo.Update(r.Context(), a); err != nil {
		if errors.Is(err, advisory.ErrDuplicateAssignment) {
			response.Err(w, http.StatusConflict, "DUPLICATE_ASSIGNMENT", "User already advises this project", requestID)
			return
		}
		slog.Error("failed to update advisory assignment", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update advisory assignment", requestID)
		return
	}

	response.Success(w, http.StatusOK, toAdvisoryAssignmentResponse(a, h.now()), requestID)
}

// Delete handles DELETE /advisory-assignments/{id}.
func (h *AdvisoryAssignmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, advisory.ErrAssignmentNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Advisory assignment not found", requestID)
			return
		}
		slog.Error("failed to delete advisory assignment", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete advisory assignment", requestID)
		return
	}

	response.NoContent(w)
}

func parseOptionalTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}

func optionalTimeString(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
