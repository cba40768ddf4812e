package rbac

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lectern-lms/lectern/internal/platform/httpx"
)

// PermissionsHandler exposes the capability vocabulary so the dashboard can
// render permission pickers without hard-coding the list.
type PermissionsHandler struct {
	middleware Middleware
}

// NewPermissionsHandler constructs a PermissionsHandler.
func NewPermissionsHandler(mw Middleware) *PermissionsHandler {
	return &PermissionsHandler{middleware: mw}
}

// MountRoutes registers the permission catalog routes.
func (h *PermissionsHandler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.middleware.RequireAny(PermViewRoles, PermEditRole))
		r.Get("/", h.list)
	})
}

func (h *PermissionsHandler) list(w http.ResponseWriter, r *http.Request) {
	httpx.OK(w, map[string]any{
		"permissions": Known(),
		"wildcard":    h.middleware.Engine.Wildcard(),
	})
}
