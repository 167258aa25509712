package middleware

import (
	"net/http"

	"github.com/orgkit/orgkit/internal/api/response"
	"github.com/orgkit/orgkit/internal/policy"
)

// Authorize returns middleware that evaluates the given policy check against
// the authenticated actor and rejects with 403 on Deny. Decisions that
// depend on the subject entity are made in the handler instead, after the
// subject is loaded.
func Authorize(check func(policy.Actor) policy.Decision) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := GetRequestID(r.Context())

			identity := GetIdentity(r.Context())
			if identity == nil {
				response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "API key is required", requestID)
				return
			}

			if !check(identity.Actor()).Allowed() {
				response.Err(w, http.StatusForbidden, "FORBIDDEN", "Insufficient permissions", requestID)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
