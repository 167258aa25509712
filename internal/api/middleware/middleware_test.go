package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orgkit/orgkit/internal/api/middleware"
	"github.com/orgkit/orgkit/internal/auth"
	"github.com/orgkit/orgkit/internal/policy"
)

// --- RequestID Tests ---

func TestRequestID_GeneratesWhenMissing(t *testing.T) {
	var seen string
	handler := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = middleware.GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotEmpty(t, seen)
	_, err := uuid.Parse(seen)
	assert.NoError(t, err)
	assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))
}

func TestRequestID_PreservesIncomingHeader(t *testing.T) {
	var seen string
	handler := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = middleware.GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "client-supplied-id")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "client-supplied-id", seen)
	assert.Equal(t, "client-supplied-id", rec.Header().Get("X-Request-ID"))
}

// --- Recovery Tests ---

func TestRecovery_PanicReturns500(t *testing.T) {
	handler := middleware.Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL_ERROR")
}

func TestRecovery_PassesThrough(t *testing.T) {
	handler := middleware.Recovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

// --- Authorize Tests ---

func identityWithRole(role policy.Role) *auth.Identity {
	return &auth.Identity{
		UserID:         uuid.New(),
		OrganizationID: uuid.New(),
		Role:           role,
	}
}

func TestAuthorize_AllowsPermittedActor(t *testing.T) {
	var orgPolicy policy.OrganizationPolicy
	called := false
	handler := middleware.Authorize(orgPolicy.Create)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodPost, "/v1/organizations", nil)
	req = req.WithContext(middleware.WithIdentity(req.Context(), identityWithRole(policy.RoleExecutive)))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthorize_DeniedActorGets403(t *testing.T) {
	var orgPolicy policy.OrganizationPolicy
	handler := middleware.Authorize(orgPolicy.Create)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run on deny")
	}))

	for _, role := range []policy.Role{policy.RoleManager, policy.RoleAssociate} {
		req := httptest.NewRequest(http.MethodPost, "/v1/organizations", nil)
		req = req.WithContext(middleware.WithIdentity(req.Context(), identityWithRole(role)))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code, "role %s", role)
		assert.Contains(t, rec.Body.String(), "FORBIDDEN")
	}
}

func TestAuthorize_MissingIdentityGets401(t *testing.T) {
	var orgPolicy policy.OrganizationPolicy
	handler := middleware.Authorize(orgPolicy.View)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run without identity")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/organizations", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// --- Auth Tests ---

func TestAuth_MissingKeyGets401(t *testing.T) {
	handler := middleware.Auth(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run without an API key")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/organizations", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "API key is required")
}

func TestGetIdentity_EmptyContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	assert.Nil(t, middleware.GetIdentity(req.Context()))
}
