package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/orgkit/orgkit/internal/api/middleware"
	"github.com/orgkit/orgkit/internal/api/response"
	"github.com/orgkit/orgkit/internal/api/validation"
	"github.com/orgkit/orgkit/internal/project"
)

type createProjectRequest struct {
	OrganizationID string `json:"organizationId"`
	Name           string `json:"name"`
	Description    string `json:"description"`
}

type updateProjectRequest struct {
	OrganizationID *string `json:"organizationId"`
	Name           *string `json:"name"`
	Description    *string `json:"description"`
}

type assignTeamRequest struct {
	TeamID string `json:"teamId"`
}

type projectResponse struct {
	ID             string   `json:"id"`
	OrganizationID string   `json:"organizationId"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	TeamIDs        []string `json:"teamIds,omitempty"`
	CreatedAt      string   `json:"createdAt"`
	UpdatedAt      string   `json:"updatedAt"`
}

func toProjectResponse(p *project.Project, teamIDs []uuid.UUID) projectResponse {
	resp := projectResponse{
		ID:             p.ID.String(),
		OrganizationID: p.OrganizationID.String(),
		Name:           p.Name,
		Description:    p.Description,
		CreatedAt:      formatTime(p.CreatedAt),
		UpdatedAt:      formatTime(p.UpdatedAt),
	}
	for _, id := range teamIDs {
		resp.TeamIDs = append(resp.TeamIDs, id.String())
	}
	return resp
}

// ProjectHandler handles project CRUD and team assignment endpoints.
type ProjectHandler struct {
	repo project.Repository
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(repo project.Repository) *ProjectHandler {
	return &ProjectHandler{repo: repo}
}

// Create handles POST /projects.
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req createProjectRequest
	if !decodeBody(w, r, &req, requestID) {
		return
	}

	fieldErrors := validation.ValidateCreateProjectRequest(validation.CreateProjectRequest{
		OrganizationID: req.OrganizationID,
		Name:           req.Name,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	p := &project.Project{Name: req.Name, Description: req.Description}
	p.OrganizationID, _ = uuid.Parse(req.OrganizationID)

	if err := h.repo.Create(r.Context(), p); err != nil {
		slog.Error("failed to create project", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create project", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toProjectResponse(p, nil), requestID)
}

// List handles GET /projects.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	projects, err := h.repo.List(r.Context())
	if err != nil {
		slog.Error("failed to list projects", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list projects", requestID)
		return
	}

	items := make([]projectResponse, 0, len(projects))
	for i := range projects {
		items = append(items, toProjectResponse(&projects[i], nil))
	}

	response.SuccessList(w, http.StatusOK, items, len(items), 1, 100, requestID)
}

// GetByID handles GET /projects/{id}.
func (h *ProjectHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	p, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, project.ErrProjectNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Project not found", requestID)
			return
		}
		slog.Error("failed to get project", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get project", requestID)
		return
	}

	teamIDs, err := h.repo.ListTeamIDs(r.Context(), id)
	if err != nil {
		slog.Error("failed to list project teams", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get project", requestID)
		return
	}

	response.Success(w, http.StatusOK, toProjectResponse(p, teamIDs), requestID)
}

// Update handles PATCH /projects/{id}.
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	var req updateProjectRequest
	if !decodeBody(w, r, &req, requestID) {
		return
	}

	fieldErrors := validation.ValidateUpdateProjectRequest(validation.UpdateProjectRequest{
		OrganizationID: req.OrganizationID,
		Name:           req.Name,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	p, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, project.ErrProjectNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Project not found", requestID)
			return
		}
		slog.Error("failed to get project", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update project", requestID)
		return
	}

	if req.OrganizationID != nil {
		p.OrganizationID, _ = uuid.Parse(*req.OrganizationID)
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}

	if err := h.repo.Update(r.Context(), p); err != nil {
		slog.Error("failed to update project", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update project", requestID)
		return
	}

	response.Success(w, http.StatusOK, toProjectResponse(p, nil), requestID)
}

// Delete handles DELETE /projects/{id}.
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, project.ErrProjectNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Project not found", requestID)
			return
		}
		slog.Error("failed to delete project", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete project", requestID)
		return
	}

	response.NoContent(w)
}

// AssignTeam handles POST /projects/{id}/teams.
func (h *ProjectHandler) AssignTeam(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	var req assignTeamRequest
	if !decodeBody(w, r, &req, requestID) {
		return
	}

	fieldErrors := validation.ValidateAssignTeamRequest(validation.AssignTeamRequest{TeamID: req.TeamID})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	teamID, _ := uuid.Parse(req.TeamID)

	if err := h.repo.AssignTeam(r.Context(), id, teamID); err != nil {
		if errors.Is(err, project.ErrProjectNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Project or team not found", requestID)
			return
		}
		if errors.Is(err, project.ErrDuplicateAssignment) {
			response.Err(w, http.StatusConflict, "DUPLICATE_ASSIGNMENT", "Team is already assigned to this project", requestID)
			return
		}
		slog.Error("failed to assign team", "error", err, "projectId", id, "teamId", teamID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to assign team", requestID)
		return
	}

	p, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		slog.Error("failed to get project", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to assign team", requestID)
		return
	}
	teamIDs, err := h.repo.ListTeamIDs(r.Context(), id)
	if err != nil {
		slog.Error("failed to list project teams", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to assign team", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toProjectResponse(p, teamIDs), requestID)
}

// RemoveTeam handles DELETE /projects/{id}/teams/{teamID}.
func (h *ProjectHandler) RemoveTeam(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	teamID, err := uuid.Parse(chi.URLParam(r, "teamID"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "teamID must be a valid UUID", requestID)
		return
	}

	if err := h.repo.RemoveTeam(r.Context(), id, teamID); err != nil {
		if errors.Is(err, project.ErrAssignmentNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Project team assignment not found", requestID)
			return
		}
		slog.Error("failed to remove team", "error", err, "projectId", id, "teamId", teamID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to remove team", requestID)
		return
	}

	response.NoContent(w)
}
