package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/orgkit/orgkit/internal/api/middleware"
	"github.com/orgkit/orgkit/internal/api/response"
	"github.com/orgkit/orgkit/internal/api/validation"
	"github.com/orgkit/orgkit/internal/auth"
	"github.com/orgkit/orgkit/internal/policy"
	"github.com/orgkit/orgkit/internal/user"
)

type createUserRequest struct {
	OrganizationID string `json:"organizationId"`
	Role           string `json:"role"`
	Name           string `json:"name"`
	Email          string `json:"email"`
}

type updateUserRequest struct {
	OrganizationID *string `json:"organizationId"`
	Role           *string `json:"role"`
	Name           *string `json:"name"`
	Email          *string `json:"email"`
}

type userResponse struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organizationId"`
	Role           string `json:"role"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	ApiKey         string `json:"apiKey,omitempty"` // only on create
	CreatedAt      string `json:"createdAt"`
	UpdatedAt      string `json:"updatedAt"`
}

func toUserResponse(u *user.User) userResponse {
	return userResponse{
		ID:             u.ID.String(),
		OrganizationID: u.OrganizationID.String(),
		Role:           u.Role.String(),
		Name:           u.Name,
		Email:          u.Email,
		CreatedAt:      formatTime(u.CreatedAt),
		UpdatedAt:      formatTime(u.UpdatedAt),
	}
}

// UserHandler handles user CRUD endpoints.
type UserHandler struct {
	repo        user.Repository
	authService *auth.Service
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(repo user.Repository, authService *auth.Service) *UserHandler {
	return &UserHandler{repo: repo, authService: authService}
}

// Create handles POST /users. The new user's API key is generated here and
// returned exactly once.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req createUserRequest
	if !decodeBody(w, r, &req, requestID) {
		return
	}

	fieldErrors := validation.ValidateCreateUserRequest(validation.CreateUserRequest{
		OrganizationID: req.OrganizationID,
		Role:           req.Role,
		Name:           req.Name,
		Email:          req.Email,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	orgID, _ := uuid.Parse(req.OrganizationID)
	role, _ := policy.ParseRole(req.Role)

	rawKey, prefix, hash, err := h.authService.GenerateKey()
	if err != nil {
		slog.Error("failed to generate API key", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create user", requestID)
		return
	}

	u := &user.User{
		OrganizationID: orgID,
		Role:           role,
		Name:           req.Name,
		Email:          req.Email,
		ApiKeyPrefix:   prefix,
		ApiKeyHash:     hash,
	}

	if err := h.repo.Create(r.Context(), u); err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			response.Err(w, http.StatusConflict, "DUPLICATE_EMAIL", "A user with this email already exists", requestID)
			return
		}
		slog.Error("failed to create user", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create user", requestID)
		return
	}

	resp := toUserResponse(u)
	resp.ApiKey = rawKey

	response.Success(w, http.StatusCreated, resp, requestID)
}

// List handles GET /users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	users, err := h.repo.List(r.Context())
	if err != nil {
		slog.Error("failed to list users", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list users", requestID)
		return
	}

	items := make([]userResponse, 0, len(users))
	for i := range users {
		items = append(items, toUserResponse(&users[i]))
	}

	response.SuccessList(w, http.StatusOK, items, len(items), 1, 100, requestID)
}

// GetByID handles GET /users/{id}.
func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	u, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "User not found", requestID)
			return
		}
		slog.Error("failed to get user", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get user", requestID)
		return
	}

	response.Success(w, http.StatusOK, toUserResponse(u), requestID)
}

// Update handles PATCH /users/{id}.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	var req updateUserRequest
	if !decodeBody(w, r, &req, requestID) {
		return
	}

	fieldErrors := validation.ValidateUpdateUserRequest(validation.UpdateUserRequest{
		OrganizationID: req.OrganizationID,
		Role:           req.Role,
		Name:           req.Name,
		Email:          req.Email,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	u, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "User not found", requestID)
			return
		}
		slog.Error("failed to get user", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update user", requestID)
		return
	}

	if req.OrganizationID != nil {
		u.OrganizationID, _ = uuid.Parse(*req.OrganizationID)
	}
	if req.Role != nil {
		u.Role, _ = policy.ParseRole(*req.Role)
	}
	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Email != nil {
		u.Email = *req.Email
	}

	if err := h.repo.Update(r.Context(), u); err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			response.Err(w, http.StatusConflict, "DUPLICATE_EMAIL", "A user with this email already exists", requestID)
			return
		}
		slog.Error("failed to update user", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update user", requestID)
		return
	}

	response.Success(w, http.StatusOK, toUserResponse(u), requestID)
}

// Delete handles DELETE /users/{id}.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "User not found", requestID)
			return
		}
		if errors.Is(err, user.ErrUserInUse) {
			response.Err(w, http.StatusConflict, "USER_IN_USE", "Cannot delete user with dependent records", requestID)
			return
		}
		slog.Error("failed to delete user", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete user", requestID)
		return
	}

	response.NoContent(w)
}
