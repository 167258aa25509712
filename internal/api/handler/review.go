package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/orgkit/orgkit/internal/api/middleware"
	"github.com/orgkit/orgkit/internal/api/response"
	"github.com/orgkit/orgkit/internal/api/validation"
	"github.com/orgkit/orgkit/internal/auth"
	"github.com/orgkit/orgkit/internal/policy"
	"github.com/orgkit/orgkit/internal/review"
)

type createReviewRequest struct {
	ProjectID      string  `json:"projectId"`
	RevieweeUserID *string `json:"revieweeUserId"`
	Rating         *int    `json:"rating"`
	Content        string  `json:"content"`
}

type updateReviewRequest struct {
	Rating  *int    `json:"rating"`
	Content *string `json:"content"`
}

type reviewResponse struct {
	ID                  string  `json:"id"`
	ProjectID           string  `json:"projectId"`
	ProjectName         string  `json:"projectName"`
	VisibleReviewerName string  `json:"visibleReviewerName"`
	RevieweeUserID      *string `json:"revieweeUserId"`
	RevieweeName        *string `json:"revieweeName"`
	Rating              int     `json:"rating"`
	Content             string  `json:"content"`
	CreatedAt           string  `json:"createdAt"`
	UpdatedAt           string  `json:"updatedAt"`
}

// toReviewResponse serializes a review for the given viewer. The reviewer's
// identity goes through the visibility transform; the raw reviewer ID is
// never exposed.
func toReviewResponse(rev *review.Review, viewer *policy.Actor) reviewResponse {
	resp := reviewResponse{
		ID:                  rev.ID.String(),
		ProjectID:           rev.ProjectID.String(),
		ProjectName:         rev.ProjectName,
		VisibleReviewerName: rev.VisibleReviewerName(viewer),
		RevieweeName:        rev.RevieweeName,
		Rating:              rev.Rating,
		Content:             rev.Content,
		CreatedAt:           formatTime(rev.CreatedAt),
		UpdatedAt:           formatTime(rev.UpdatedAt),
	}
	if rev.RevieweeUserID != nil {
		s := rev.RevieweeUserID.String()
		resp.RevieweeUserID = &s
	}
	return resp
}

// ReviewHandler handles review CRUD endpoints. Every read goes through the
// review policy; a denial is surfaced as a fixed 403, indistinguishable per
// subject.
type ReviewHandler struct {
	repo   review.Repository
	facts  *review.FactsLoader
	policy policy.ReviewPolicy
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(repo review.Repository, facts *review.FactsLoader) *ReviewHandler {
	return &ReviewHandler{repo: repo, facts: facts}
}

// canView loads the relationship facts for one review and evaluates the view
// policy. Errors fail closed: the caller treats them as a denial or a 500,
// never as access.
func (h *ReviewHandler) canView(ctx context.Context, actor policy.Actor, rev *review.Review) (bool, error) {
	facts, err := h.facts.Load(ctx, actor, rev.Ref())
	if err != nil {
		return false, err
	}
	return h.policy.View(actor, rev.Ref(), facts).Allowed(), nil
}

// Create handles POST /reviews. Any authenticated actor may author a
// review; the reviewer is always the caller, never taken from the body.
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	identity, ok := requireIdentity(w, r, requestID)
	if !ok {
		return
	}

	if !h.policy.Create(identity.Actor()).Allowed() {
		response.Err(w, http.StatusForbidden, "FORBIDDEN", "Insufficient permissions", requestID)
		return
	}

	var req createReviewRequest
	if !decodeBody(w, r, &req, requestID) {
		return
	}

	revieweeID := ""
	if req.RevieweeUserID != nil {
		revieweeID = *req.RevieweeUserID
	}
	fieldErrors := validation.ValidateCreateReviewRequest(validation.CreateReviewRequest{
		ProjectID:      req.ProjectID,
		RevieweeUserID: revieweeID,
		Rating:         req.Rating,
		Content:        req.Content,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	rev := &review.Review{
		ReviewerID: identity.UserID,
		Rating:     *req.Rating,
		Content:    req.Content,
	}
	rev.ProjectID, _ = uuid.Parse(req.ProjectID)
	if revieweeID != "" {
		id, _ := uuid.Parse(revieweeID)
		rev.RevieweeUserID = &id
	}

	if err := h.repo.Create(r.Context(), rev); err != nil {
		slog.Error("failed to create review", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create review", requestID)
		return
	}

	actor := identity.Actor()
	response.Success(w, http.StatusCreated, toReviewResponse(rev, &actor), requestID)
}

// List handles GET /reviews. Executives receive the unfiltered set; every
// other actor receives the subset they may view, one policy decision per
// review, in store order.
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	identity, ok := requireIdentity(w, r, requestID)
	if !ok {
		return
	}
	actor := identity.Actor()

	reviews, err := h.repo.List(r.Context())
	if err != nil {
		slog.Error("failed to list reviews", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list reviews", requestID)
		return
	}

	items := make([]reviewResponse, 0, len(reviews))
	for i := range reviews {
		rev := &reviews[i]
		if !actor.IsExecutive() {
			allowed, err := h.canView(r.Context(), actor, rev)
			if err != nil {
				slog.Error("failed to evaluate review visibility", "error", err, "reviewId", rev.ID)
				response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list reviews", requestID)
				return
			}
			if !allowed {
				continue
			}
		}
		items = append(items, toReviewResponse(rev, &actor))
	}

	response.SuccessList(w, http.StatusOK, items, len(items), 1, 100, requestID)
}

// GetByID handles GET /reviews/{id}.
func (h *ReviewHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	identity, ok := requireIdentity(w, r, requestID)
	if !ok {
		return
	}
	actor := identity.Actor()

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	rev, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, review.ErrReviewNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Review not found", requestID)
			return
		}
		slog.Error("failed to get review", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get review", requestID)
		return
	}

	allowed, err := h.canView(r.Context(), actor, rev)
	if err != nil {
		slog.Error("failed to evaluate review visibility", "error", err, "reviewId", rev.ID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get review", requestID)
		return
	}
	if !allowed {
		response.Err(w, http.StatusForbidden, "FORBIDDEN", "Insufficient permissions", requestID)
		return
	}

	response.Success(w, http.StatusOK, toReviewResponse(rev, &actor), requestID)
}

// Update handles PATCH /reviews/{id}. Only the review's author may update.
func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	identity, ok := requireIdentity(w, r, requestID)
	if !ok {
		return
	}
	actor := identity.Actor()

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	rev, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, review.ErrReviewNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Review not found", requestID)
			return
		}
		slog.Error("failed to get review", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update review", requestID)
		return
	}

	if !h.policy.Update(actor, rev.Ref()).Allowed() {
		response.Err(w, http.StatusForbidden, "FORBIDDEN", "Insufficient permissions", requestID)
		return
	}

	var req updateReviewRequest
	if !decodeBody(w, r, &req, requestID) {
		return
	}

	fieldErrors := validation.ValidateUpdateReviewRequest(validation.UpdateReviewRequest{
		Rating:  req.Rating,
		Content: req.Content,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	if req.Rating != nil {
		rev.Rating = *req.Rating
	}
	if req.Content != nil {
		rev.Content = *req.Content
	}

	if err := h.repo.Update(r.Context(), rev); err != nil {
		slog.Error("failed to update review", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update review", requestID)
		return
	}

	response.Success(w, http.StatusOK, toReviewResponse(rev, &actor), requestID)
}

// Delete handles DELETE /reviews/{id}. The author and any executive may
// delete.
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	identity, ok := requireIdentity(w, r, requestID)
	if !ok {
		return
	}
	actor := identity.Actor()

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	rev, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, review.ErrReviewNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Review not found", requestID)
			return
		}
		slog.Error("failed to get review", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete review", requestID)
		return
	}

	if !h.policy.Delete(actor, rev.Ref()).Allowed() {
		response.Err(w, http.StatusForbidden, "FORBIDDEN", "Insufficient permissions", requestID)
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		slog.Error("failed to delete review", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete review", requestID)
		return
	}

	response.NoContent(w)
}

// requireIdentity fetches the authenticated identity from the context,
// writing a 401 and returning false if the Auth middleware did not run.
func requireIdentity(w http.ResponseWriter, r *http.Request, requestID string) (*auth.Identity, bool) {
	identity := middleware.GetIdentity(r.Context())
	if identity == nil {
		response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "API key is required", requestID)
		return nil, false
	}
	return identity, true
}
