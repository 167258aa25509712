package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orgkit/orgkit/internal/advisory"
	"github.com/orgkit/orgkit/internal/api/handler"
	"github.com/orgkit/orgkit/internal/api/middleware"
	"github.com/orgkit/orgkit/internal/auth"
	"github.com/orgkit/orgkit/internal/policy"
	"github.com/orgkit/orgkit/internal/review"
	"github.com/orgkit/orgkit/internal/team"
)

type mockReviewRepo struct {
	review.Repository
	createFn  func(ctx context.Context, rev *review.Review) error
	getByIDFn func(ctx context.Context, id uuid.UUID) (*review.Review, error)
	listFn    func(ctx context.Context) ([]review.Review, error)
	updateFn  func(ctx context.Context, rev *review.Review) error
	deleteFn  func(ctx context.Context, id uuid.UUID) error
}

func (m *mockReviewRepo) Create(ctx context.Context, rev *review.Review) error {
	return m.createFn(ctx, rev)
}

func (m *mockReviewRepo) GetByID(ctx context.Context, id uuid.UUID) (*review.Review, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockReviewRepo) List(ctx context.Context) ([]review.Review, error) {
	return m.listFn(ctx)
}

func (m *mockReviewRepo) Update(ctx context.Context, rev *review.Review) error {
	return m.updateFn(ctx, rev)
}

func (m *mockReviewRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFn(ctx, id)
}

type mockAdvisoryRepo struct {
	advisory.Repository
	existsFn func(ctx context.Context, userID, projectID uuid.UUID) (bool, error)
}

func (m *mockAdvisoryRepo) ExistsForUserAndProject(ctx context.Context, userID, projectID uuid.UUID) (bool, error) {
	if m.existsFn == nil {
		return false, nil
	}
	return m.existsFn(ctx, userID, projectID)
}

type mockTeamRepo struct {
	team.Repository
	listManagedByFn func(ctx context.Context, managerID uuid.UUID) ([]team.Graph, error)
	listForMemberFn func(ctx context.Context, userID uuid.UUID) ([]team.Graph, error)
}

func (m *mockTeamRepo) ListManagedBy(ctx context.Context, managerID uuid.UUID) ([]team.Graph, error) {
	if m.listManagedByFn == nil {
		return nil, nil
	}
	return m.listManagedByFn(ctx, managerID)
}

func (m *mockTeamRepo) ListForMember(ctx context.Context, userID uuid.UUID) ([]team.Graph, error) {
	if m.listForMemberFn == nil {
		return nil, nil
	}
	return m.listForMemberFn(ctx, userID)
}

func newReviewHandler(repo review.Repository, advisories advisory.Repository, teams team.Repository) *handler.ReviewHandler {
	return handler.NewReviewHandler(repo, review.NewFactsLoader(advisories, teams))
}

func asIdentity(req *http.Request, role policy.Role) (*http.Request, *auth.Identity) {
	identity := &auth.Identity{
		UserID:         uuid.New(),
		UserName:       "Test User",
		OrganizationID: uuid.New(),
		Role:           role,
	}
	return req.WithContext(middleware.WithIdentity(req.Context(), identity)), identity
}

func withIDParam(req *http.Request, id uuid.UUID) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id.String())
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Nil(t, env.Error)
	require.NoError(t, json.Unmarshal(env.Data, out))
}

func sampleReview(reviewer uuid.UUID) review.Review {
	return review.Review{
		ID:           uuid.New(),
		ReviewerID:   reviewer,
		ProjectID:    uuid.New(),
		Rating:       4,
		Content:      "Strong collaboration.",
		ReviewerName: "Dana Reyes",
		ProjectName:  "Apollo",
	}
}

// --- List Tests ---

func TestReviewList_ExecutiveSeesAll(t *testing.T) {
	reviews := []review.Review{sampleReview(uuid.New()), sampleReview(uuid.New())}
	repo := &mockReviewRepo{
		listFn: func(context.Context) ([]review.Review, error) { return reviews, nil },
	}
	h := newReviewHandler(repo, &mockAdvisoryRepo{}, &mockTeamRepo{})

	req, _ := asIdentity(httptest.NewRequest(http.MethodGet, "/v1/reviews", nil), policy.RoleExecutive)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var items []map[string]any
	decodeData(t, rec, &items)
	require.Len(t, items, 2)
	// Executives see the real reviewer name.
	assert.Equal(t, "Dana Reyes", items[0]["visibleReviewerName"])
}

func TestReviewList_FiltersPerReviewForNonExecutives(t *testing.T) {
	visible := sampleReview(uuid.New())
	hidden := sampleReview(uuid.New())
	repo := &mockReviewRepo{
		listFn: func(context.Context) ([]review.Review, error) {
			return []review.Review{visible, hidden}, nil
		},
	}
	teams := &mockTeamRepo{
		listForMemberFn: func(context.Context, uuid.UUID) ([]team.Graph, error) {
			return []team.Graph{{ProjectIDs: []uuid.UUID{visible.ProjectID}}}, nil
		},
	}
	h := newReviewHandler(repo, &mockAdvisoryRepo{}, teams)

	req, _ := asIdentity(httptest.NewRequest(http.MethodGet, "/v1/reviews", nil), policy.RoleAssociate)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var items []map[string]any
	decodeData(t, rec, &items)
	require.Len(t, items, 1)
	assert.Equal(t, visible.ID.String(), items[0]["id"])
	// Non-executives never see the reviewer's identity.
	assert.Equal(t, review.AnonymousReviewer, items[0]["visibleReviewerName"])
}

func TestReviewList_FactLoadErrorIs500(t *testing.T) {
	repo := &mockReviewRepo{
		listFn: func(context.Context) ([]review.Review, error) {
			return []review.Review{sampleReview(uuid.New())}, nil
		},
	}
	advisories := &mockAdvisoryRepo{
		existsFn: func(context.Context, uuid.UUID, uuid.UUID) (bool, error) {
			return false, errors.New("connection reset")
		},
	}
	h := newReviewHandler(repo, advisories, &mockTeamRepo{})

	req, _ := asIdentity(httptest.NewRequest(http.MethodGet, "/v1/reviews", nil), policy.RoleAssociate)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

// --- GetByID Tests ---

func TestReviewGetByID_DeniedActorGets403(t *testing.T) {
	rev := sampleReview(uuid.New())
	repo := &mockReviewRepo{
		getByIDFn: func(_ context.Context, id uuid.UUID) (*review.Review, error) {
			require.Equal(t, rev.ID, id)
			r := rev
			return &r, nil
		},
	}
	h := newReviewHandler(repo, &mockAdvisoryRepo{}, &mockTeamRepo{})

	req, _ := asIdentity(httptest.NewRequest(http.MethodGet, "/v1/reviews/"+rev.ID.String(), nil), policy.RoleAssociate)
	req = withIDParam(req, rev.ID)
	rec := httptest.NewRecorder()
	h.GetByID(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "FORBIDDEN")
}

func TestReviewGetByID_AuthorSeesOwnReviewAnonymized(t *testing.T) {
	rev := sampleReview(uuid.New())
	repo := &mockReviewRepo{
		getByIDFn: func(context.Context, uuid.UUID) (*review.Review, error) {
			r := rev
			return &r, nil
		},
	}
	h := newReviewHandler(repo, &mockAdvisoryRepo{}, &mockTeamRepo{})

	req, identity := asIdentity(httptest.NewRequest(http.MethodGet, "/v1/reviews/"+rev.ID.String(), nil), policy.RoleAssociate)
	rev.ReviewerID = identity.UserID
	repo.getByIDFn = func(context.Context, uuid.UUID) (*review.Review, error) {
		r := rev
		return &r, nil
	}
	req = withIDParam(req, rev.ID)
	rec := httptest.NewRecorder()
	h.GetByID(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var item map[string]any
	decodeData(t, rec, &item)
	// Authors see their own review but not their name echoed back.
	assert.Equal(t, review.AnonymousReviewer, item["visibleReviewerName"])
	// The raw reviewer ID is never serialized.
	_, exposed := item["reviewerId"]
	assert.False(t, exposed)
}

func TestReviewGetByID_NotFound(t *testing.T) {
	repo := &mockReviewRepo{
		getByIDFn: func(context.Context, uuid.UUID) (*review.Review, error) {
			return nil, review.ErrReviewNotFound
		},
	}
	h := newReviewHandler(repo, &mockAdvisoryRepo{}, &mockTeamRepo{})

	id := uuid.New()
	req, _ := asIdentity(httptest.NewRequest(http.MethodGet, "/v1/reviews/"+id.String(), nil), policy.RoleExecutive)
	req = withIDParam(req, id)
	rec := httptest.NewRecorder()
	h.GetByID(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// --- Create Tests ---

func TestReviewCreate_ReviewerIsAlwaysCaller(t *testing.T) {
	var created *review.Review
	repo := &mockReviewRepo{
		createFn: func(_ context.Context, rev *review.Review) error {
			created = rev
			return nil
		},
	}
	h := newReviewHandler(repo, &mockAdvisoryRepo{}, &mockTeamRepo{})

	body := `{"projectId":"` + uuid.NewString() + `","rating":5,"content":"Excellent work"}`
	req, identity := asIdentity(httptest.NewRequest(http.MethodPost, "/v1/reviews", strings.NewReader(body)), policy.RoleAssociate)
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, created)
	assert.Equal(t, identity.UserID, created.ReviewerID)
}

func TestReviewCreate_ValidationFailure(t *testing.T) {
	h := newReviewHandler(&mockReviewRepo{}, &mockAdvisoryRepo{}, &mockTeamRepo{})

	body := `{"projectId":"` + uuid.NewString() + `","rating":6,"content":"x"}`
	req, _ := asIdentity(httptest.NewRequest(http.MethodPost, "/v1/reviews", strings.NewReader(body)), policy.RoleAssociate)
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
}

// --- Update Tests ---

func TestReviewUpdate_NonAuthorGets403(t *testing.T) {
	rev := sampleReview(uuid.New())
	repo := &mockReviewRepo{
		getByIDFn: func(context.Context, uuid.UUID) (*review.Review, error) {
			r := rev
			return &r, nil
		},
	}
	h := newReviewHandler(repo, &mockAdvisoryRepo{}, &mockTeamRepo{})

	body := `{"rating":2}`
	// Executives cannot edit other people's reviews either.
	req, _ := asIdentity(httptest.NewRequest(http.MethodPatch, "/v1/reviews/"+rev.ID.String(), strings.NewReader(body)), policy.RoleExecutive)
	req = withIDParam(req, rev.ID)
	rec := httptest.NewRecorder()
	h.Update(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestReviewUpdate_AuthorSucceeds(t *testing.T) {
	rev := sampleReview(uuid.New())
	var updated *review.Review
	repo := &mockReviewRepo{
		updateFn: func(_ context.Context, r *review.Review) error {
			updated = r
			return nil
		},
	}
	h := newReviewHandler(repo, &mockAdvisoryRepo{}, &mockTeamRepo{})

	body := `{"rating":2,"content":"Revised after follow-up"}`
	req, identity := asIdentity(httptest.NewRequest(http.MethodPatch, "/v1/reviews/"+rev.ID.String(), strings.NewReader(body)), policy.RoleAssociate)
	rev.ReviewerID = identity.UserID
	repo.getByIDFn = func(context.Context, uuid.UUID) (*review.Review, error) {
		r := rev
		return &r, nil
	}
	req = withIDParam(req, rev.ID)
	rec := httptest.NewRecorder()
	h.Update(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, updated)
	assert.Equal(t, 2, updated.Rating)
	assert.Equal(t, "Revised after follow-up", updated.Content)
}

// --- Delete Tests ---

func TestReviewDelete_ExecutiveMayDeleteAnyReview(t *testing.T) {
	rev := sampleReview(uuid.New())
	deleted := false
	repo := &mockReviewRepo{
		getByIDFn: func(context.Context, uuid.UUID) (*review.Review, error) {
			r := rev
			return &r, nil
		},
		deleteFn: func(_ context.Context, id uuid.UUID) error {
			assert.Equal(t, rev.ID, id)
			deleted = true
			return nil
		},
	}
	h := newReviewHandler(repo, &mockAdvisoryRepo{}, &mockTeamRepo{})

	req, _ := asIdentity(httptest.NewRequest(http.MethodDelete, "/v1/reviews/"+rev.ID.String(), nil), policy.RoleExecutive)
	req = withIDParam(req, rev.ID)
	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, deleted)
}

func TestReviewDelete_NonAuthorManagerGets403(t *testing.T) {
	rev := sampleReview(uuid.New())
	repo := &mockReviewRepo{
		getByIDFn: func(context.Context, uuid.UUID) (*review.Review, error) {
			r := rev
			return &r, nil
		},
		deleteFn: func(context.Context, uuid.UUID) error {
			t.Fatal("delete must not be called on deny")
			return nil
		},
	}
	h := newReviewHandler(repo, &mockAdvisoryRepo{}, &mockTeamRepo{})

	req, _ := asIdentity(httptest.NewRequest(http.MethodDelete, "/v1/reviews/"+rev.ID.String(), nil), policy.RoleManager)
	req = withIDParam(req, rev.ID)
	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
