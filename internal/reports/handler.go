package reports

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lectern-lms/lectern/internal/platform/httpx"
	"github.com/lectern-lms/lectern/internal/rbac"
)

// Handler exposes report endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, mw rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: mw}
}

// MountRoutes registers report routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.Require(rbac.PermViewReports))
		r.Get("/summary", h.summary)
	})
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.logger.Error("report summary", slog.Any("error", err))
		httpx.RespondError(w, r, err)
		return
	}
	httpx.OK(w, summary)
}
