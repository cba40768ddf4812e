package auth

import (
	"net/http"
	"strings"

	"github.com/lectern-lms/lectern/internal/platform/httpx"
	"github.com/lectern-lms/lectern/internal/shared"
	"github.com/lectern-lms/lectern/internal/token"
)

const bearerPrefix = "Bearer "

// Middleware bridges the Authorization header to a verified identity on the
// request context.
type Middleware struct {
	Tokens *token.Manager
}

// RequireAuthenticated verifies the bearer token and attaches the decoded
// identity before calling the next handler. On any failure the chain stops:
// no protected handler runs without a verified claim.
func (m Middleware) RequireAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := extractBearer(r)
		if err != nil {
			httpx.RespondError(w, r, err)
			return
		}
		claims, err := m.Tokens.VerifyAccess(raw)
		if err != nil {
			httpx.RespondError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(shared.ContextWithIdentity(r.Context(), claims)))
	})
}

// OptionalAuthenticated attempts the same extraction and verification but
// swallows every failure: the context simply carries no identity and the
// next handler always runs. Used by endpoints that personalize their
// response but stay reachable anonymously.
func (m Middleware) OptionalAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if raw, err := extractBearer(r); err == nil {
			if claims, err := m.Tokens.VerifyAccess(raw); err == nil {
				r = r.WithContext(shared.ContextWithIdentity(r.Context(), claims))
			}
		}
		next.ServeHTTP(w, r)
	})
}

func extractBearer(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" || !strings.HasPrefix(header, bearerPrefix) {
		return "", shared.ErrMissingCredential
	}
	raw := strings.TrimPrefix(header, bearerPrefix)
	if raw == "" {
		return "", shared.ErrMissingCredential
	}
	return raw, nil
}
