package rbac

import (
	"log/slog"
	"net/http"

	"github.com/lectern-lms/lectern/internal/platform/httpx"
	"github.com/lectern-lms/lectern/internal/shared"
)

// Middleware gates routes on the identity's permission snapshot. It must run
// after the authentication middleware; a request with no attached identity is
// rejected as unauthenticated, never as forbidden.
type Middleware struct {
	Engine Engine
	Logger *slog.Logger
}

// Require allows the request iff the snapshot grants perm.
func (m Middleware) Require(perm Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := shared.IdentityFromContext(r.Context())
			if identity == nil {
				httpx.RespondError(w, r, shared.ErrUnauthenticated)
				return
			}
			if !m.Engine.HasPermission(identity.Permissions, perm) {
				m.deny(w, r, identity.UserID, perm)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAny allows the request iff the snapshot grants at least one of perms.
func (m Middleware) RequireAny(perms ...Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := shared.IdentityFromContext(r.Context())
			if identity == nil {
				httpx.RespondError(w, r, shared.ErrUnauthenticated)
				return
			}
			if !m.Engine.HasAnyPermission(identity.Permissions, perms...) {
				m.deny(w, r, identity.UserID, perms...)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAll allows the request iff the snapshot grants every one of perms.
// The denial enumerates exactly the missing subset.
func (m Middleware) RequireAll(perms ...Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := shared.IdentityFromContext(r.Context())
			if identity == nil {
				httpx.RespondError(w, r, shared.ErrUnauthenticated)
				return
			}
			missing := m.Engine.MissingPermissions(identity.Permissions, perms...)
			if len(missing) > 0 {
				m.deny(w, r, identity.UserID, missing...)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (m Middleware) deny(w http.ResponseWriter, r *http.Request, userID int64, missing ...Permission) {
	if m.Logger != nil {
		m.Logger.Warn("permission denied",
			slog.Int64("user_id", userID),
			slog.String("path", r.URL.Path),
			slog.Any("missing", missing))
	}
	names := make([]string, len(missing))
	for i, p := range missing {
		names[i] = string(p)
	}
	httpx.RespondError(w, r, shared.Forbidden(names...))
}
