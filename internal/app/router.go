package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/lectern-lms/lectern/internal/auth"
	"github.com/lectern-lms/lectern/internal/courses"
	"github.com/lectern-lms/lectern/internal/files"
	"github.com/lectern-lms/lectern/internal/notifications"
	"github.com/lectern-lms/lectern/internal/rbac"
	"github.com/lectern-lms/lectern/internal/reports"
	"github.com/lectern-lms/lectern/internal/roles"
	"github.com/lectern-lms/lectern/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger *slog.Logger
	Config *Config

	AuthMiddleware auth.Middleware

	AuthHandler          *auth.Handler
	UsersHandler         *users.Handler
	RolesHandler         *roles.Handler
	PermissionsHandler   *rbac.PermissionsHandler
	CoursesHandler       *courses.Handler
	FilesHandler         *files.Handler
	NotificationsHandler *notifications.Handler
	ReportsHandler       *reports.Handler
}

// NewRouter constructs the chi.Router with Lectern defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)

	// Course reads stay reachable anonymously; the handler installs its own
	// optional and required authentication groups.
	if params.CoursesHandler != nil {
		r.Route("/courses", params.CoursesHandler.MountRoutes)
	}

	r.Group(func(r chi.Router) {
		r.Use(params.AuthMiddleware.RequireAuthenticated)

		if params.UsersHandler != nil {
			r.Route("/users", params.UsersHandler.MountRoutes)
		}
		if params.RolesHandler != nil {
			r.Route("/roles", params.RolesHandler.MountRoutes)
		}
		if params.PermissionsHandler != nil {
			r.Route("/permissions", params.PermissionsHandler.MountRoutes)
		}
		if params.FilesHandler != nil {
			r.Route("/files", params.FilesHandler.MountRoutes)
		}
		if params.NotificationsHandler != nil {
			r.Route("/notifications", params.NotificationsHandler.MountRoutes)
		}
		if params.ReportsHandler != nil {
			r.Route("/reports", params.ReportsHandler.MountRoutes)
		}
	})

	return r
}
