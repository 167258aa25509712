package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/orgkit/orgkit/internal/api/middleware"
	"github.com/orgkit/orgkit/internal/api/response"
	"github.com/orgkit/orgkit/internal/api/validation"
	"github.com/orgkit/orgkit/internal/organization"
)

type organizationRequest struct {
	Name string `json:"name"`
}

type organizationResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func toOrganizationResponse(org *organization.Organization) organizationResponse {
	return organizationResponse{
		ID:        org.ID.String(),
		Name:      org.Name,
		CreatedAt: formatTime(org.CreatedAt),
		UpdatedAt: formatTime(org.UpdatedAt),
	}
}

// OrganizationHandler handles organization CRUD endpoints.
type OrganizationHandler struct {
	repo organization.Repository
}

// NewOrganizationHandler creates a new OrganizationHandler.
func NewOrganizationHandler(repo organization.Repository) *OrganizationHandler {
	return &OrganizationHandler{repo: repo}
}

// Create handles POST /organizations.
func (h *OrganizationHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req organizationRequest
	if !decodeBody(w, r, &req, requestID) {
		return
	}

	fieldErrors := validation.ValidateOrganizationRequest(validation.OrganizationRequest{Name: req.Name})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	org := &organization.Organization{Name: req.Name}
	if err := h.repo.Create(r.Context(), org); err != nil {
		slog.Error("failed to create organization", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create organization", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toOrganizationResponse(org), requestID)
}

// List handles GET /organizations.
func (h *OrganizationHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	orgs, err := h.repo.List(r.Context())
	if err != nil {
		slog.Error("failed to list organizations", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list organizations", requestID)
		return
	}

	items := make([]organizationResponse, 0, len(orgs))
	for i := range orgs {
		items = append(items, toOrganizationResponse(&orgs[i]))
	}

	response.SuccessList(w, http.StatusOK, items, len(items), 1, 100, requestID)
}

// GetByID handles GET /organizations/{id}.
func (h *OrganizationHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	org, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, organization.ErrOrganizationNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Organization not found", requestID)
			return
		}
		slog.Error("failed to get organization", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get organization", requestID)
		return
	}

	response.Success(w, http.StatusOK, toOrganizationResponse(org), requestID)
}

// Update handles PATCH /organizations/{id}.
func (h *OrganizationHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	var req organizationRequest
	if !decodeBody(w, r, &req, requestID) {
		return
	}

	fieldErrors := validation.ValidateOrganizationRequest(validation.OrganizationRequest{Name: req.Name})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	org, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, organization.ErrOrganizationNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Organization not found", requestID)
			return
		}
		slog.Error("failed to get organization", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update organization", requestID)
		return
	}

	org.Name = req.Name
	if err := h.repo.Update(r.Context(), org); err != nil {
		slog.Error("failed to update organization", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update organization", requestID)
		return
	}

	response.Success(w, http.StatusOK, toOrganizationResponse(org), requestID)
}

// Delete handles DELETE /organizations/{id}.
func (h *OrganizationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, organization.ErrOrganizationNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Organization not found", requestID)
			return
		}
		if errors.Is(err, organization.ErrOrganizationInUse) {
			response.Err(w, http.StatusConflict, "ORGANIZATION_IN_USE", "Cannot delete organization with dependent records", requestID)
			return
		}
		slog.Error("failed to delete organization", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete organization", requestID)
		return
	}

	response.NoContent(w)
}

// decodeBody parses the JSON request body into dst, writing a 400 and
// returning false on malformed input.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any, requestID string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return false
	}
	return true
}

// parseIDParam parses the {id} URL parameter, writing a 400 and returning
// false when it is not a UUID.
func parseIDParam(w http.ResponseWriter, r *http.Request, requestID string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID", requestID)
		return uuid.Nil, false
	}
	return id, true
}

func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05Z")
}
