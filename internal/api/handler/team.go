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
	"github.com/orgkit/orgkit/internal/team"
)

type createTeamRequest struct {
	OrganizationID string  `json:"organizationId"`
	ManagerID      *string `json:"managerId"`
	Name           string  `json:"name"`
}

type updateTeamRequest struct {
	OrganizationID *string `json:"organizationId"`
	ManagerID      *string `json:"managerId"`
	Name           *string `json:"name"`
}

type addMemberRequest struct {
	UserID   string  `json:"userId"`
	TeamRole *string `json:"teamRole"`
}

type teamMemberResponse struct {
	UserID   string  `json:"userId"`
	TeamRole *string `json:"teamRole"`
}

type teamResponse struct {
	ID             string               `json:"id"`
	OrganizationID string               `json:"organizationId"`
	ManagerID      *string              `json:"managerId"`
	Name           string               `json:"name"`
	Members        []teamMemberResponse `json:"members,omitempty"`
	CreatedAt      string               `json:"createdAt"`
	UpdatedAt      string               `json:"updatedAt"`
}

func toTeamResponse(t *team.Team, members []team.Member) teamResponse {
	resp := teamResponse{
		ID:             t.ID.String(),
		OrganizationID: t.OrganizationID.String(),
		Name:           t.Name,
		CreatedAt:      formatTime(t.CreatedAt),
		UpdatedAt:      formatTime(t.UpdatedAt),
	}
	if t.ManagerID != nil {
		s := t.ManagerID.String()
		resp.ManagerID = &s
	}
	for _, m := range members {
		resp.Members = append(resp.Members, teamMemberResponse{
			UserID:   m.UserID.String(),
			TeamRole: m.TeamRole,
		})
	}
	return resp
}

// TeamHandler handles team CRUD and membership endpoints.
type TeamHandler struct {
	repo team.Repository
}

// NewTeamHandler creates a new TeamHandler.
func NewTeamHandler(repo team.Repository) *TeamHandler {
	return &TeamHandler{repo: repo}
}

// Create handles POST /teams.
func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req createTeamRequest
	if !decodeBody(w, r, &req, requestID) {
		return
	}

	managerID := ""
	if req.ManagerID != nil {
		managerID = *req.ManagerID
	}
	fieldErrors := validation.ValidateCreateTeamRequest(validation.CreateTeamRequest{
		OrganizationID: req.OrganizationID,
		ManagerID:      managerID,
		Name:           req.Name,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	t := &team.Team{Name: req.Name}
	t.OrganizationID, _ = uuid.Parse(req.OrganizationID)
	if managerID != "" {
		id, _ := uuid.Parse(managerID)
		t.ManagerID = &id
	}

	if err := h.repo.Create(r.Context(), t); err != nil {
		slog.Error("failed to create team", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create team", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toTeamResponse(t, nil), requestID)
}

// List handles GET /teams.
func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	teams, err := h.repo.List(r.Context())
	if err != nil {
		slog.Error("failed to list teams", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list teams", requestID)
		return
	}

	items := make([]teamResponse, 0, len(teams))
	for i := range teams {
		items = append(items, toTeamResponse(&teams[i], nil))
	}

	response.SuccessList(w, http.StatusOK, items, len(items), 1, 100, requestID)
}

// GetByID handles GET /teams/{id}.
func (h *TeamHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	t, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, team.ErrTeamNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Team not found", requestID)
			return
		}
		slog.Error("failed to get team", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get team", requestID)
		return
	}

	members, err := h.repo.ListMembers(r.Context(), id)
	if err != nil {
		slog.Error("failed to list team members", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get team", requestID)
		return
	}

	response.Success(w, http.StatusOK, toTeamResponse(t, members), requestID)
}

// Update handles PATCH /teams/{id}.
func (h *TeamHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	var req updateTeamRequest
	if !decodeBody(w, r, &req, requestID) {
		return
	}

	fieldErrors := validation.ValidateUpdateTeamRequest(validation.UpdateTeamRequest{
		OrganizationID: req.OrganizationID,
		ManagerID:      req.ManagerID,
		Name:           req.Name,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	t, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, team.ErrTeamNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Team not found", requestID)
			return
		}
		slog.Error("failed to get team", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update team", requestID)
		return
	}

	if req.OrganizationID != nil {
		t.OrganizationID, _ = uuid.Parse(*req.OrganizationID)
	}
	if req.ManagerID != nil {
		if *req.ManagerID == "" {
			t.ManagerID = nil
		} else {
			mid, _ := uuid.Parse(*req.ManagerID)
			t.ManagerID = &mid
		}
	}
	if req.Name != nil {
		t.Name = *req.Name
	}

	if err := h.repo.Update(r.Context(), t); err != nil {
		slog.Error("failed to update team", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update team", requestID)
		return
	}

	response.Success(w, http.StatusOK, toTeamResponse(t, nil), requestID)
}

// Delete handles DELETE /teams/{id}.
func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, team.ErrTeamNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Team not found", requestID)
			return
		}
		slog.Error("failed to delete team", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete team", requestID)
		return
	}

	response.NoContent(w)
}

// AddMember handles POST /teams/{id}/members.
func (h *TeamHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	var req addMemberRequest
	if !decodeBody(w, r, &req, requestID) {
		return
	}

	teamRole := ""
	if req.TeamRole != nil {
		teamRole = *req.TeamRole
	}
	fieldErrors := validation.ValidateAddMemberRequest(validation.AddMemberRequest{
		UserID:   req.UserID,
		TeamRole: teamRole,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	userID, _ := uuid.Parse(req.UserID)
	m := &team.Member{TeamID: id, UserID: userID, TeamRole: req.TeamRole}

	if err := h.repo.AddMember(r.Context(), m); err != nil {
		if errors.Is(err, team.ErrTeamNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Team or user not found", requestID)
			return
		}
		if errors.Is(err, team.ErrDuplicateMember) {
			response.Err(w, http.StatusConflict, "DUPLICATE_MEMBER", "User is already a member of this team", requestID)
			return
		}
		slog.Error("failed to add team member", "error", err, "teamId", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to add team member", requestID)
		return
	}

	t, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		slog.Error("failed to get team", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to add team member", requestID)
		return
	}
	members, err := h.repo.ListMembers(r.Context(), id)
	if err != nil {
		slog.Error("failed to list team members", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to add team member", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toTeamResponse(t, members), requestID)
}

// RemoveMember handles DELETE /teams/{id}/members/{userID}.
func (h *TeamHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "userID must be a valid UUID", requestID)
		return
	}

	if err := h.repo.RemoveMember(r.Context(), id, userID); err != nil {
		if errors.Is(err, team.ErrMemberNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Team member not found", requestID)
			return
		}
		slog.Error("failed to remove team member", "error", err, "teamId", id, "userId", userID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to remove team member", requestID)
		return
	}

	response.NoContent(w)
}
