package notifications

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/lectern-lms/lectern/internal/platform/httpx"
	"github.com/lectern-lms/lectern/internal/rbac"
	"github.com/lectern-lms/lectern/internal/shared"
)

// Handler manages notification endpoints. Reading is always scoped to the
// authenticated user; sending requires manage_notifications.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	rbac      rbac.Middleware
	validator *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, mw rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: mw, validator: validator.New()}
}

// MountRoutes registers notification routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/unread_count", h.unreadCount)
	r.Post("/{id}/read", h.markRead)
	r.With(h.rbac.Require(rbac.PermManageNotifications)).Post("/", h.send)
}

type sendRequest struct {
	UserID int64  `json:"user_id" validate:"required,gt=0"`
	Title  string `json:"title" validate:"required,max=200"`
	Body   string `json:"body" validate:"max=5000"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	identity := shared.IdentityFromContext(r.Context())
	if identity == nil {
		httpx.RespondError(w, r, shared.ErrUnauthenticated)
		return
	}
	page, perPage := shared.PageParams(r)
	result, err := h.service.ListForUser(r.Context(), identity.UserID, page, perPage)
	if err != nil {
		h.logger.Error("list notifications", slog.Any("error", err))
		httpx.RespondError(w, r, err)
		return
	}
	httpx.OK(w, map[string]any{"notifications": result})
}

func (h *Handler) unreadCount(w http.ResponseWriter, r *http.Request) {
	identity := shared.IdentityFromContext(r.Context())
	if identity == nil {
		httpx.RespondError(w, r, shared.ErrUnauthenticated)
		return
	}
	count, err := h.service.UnreadCount(r.Context(), identity.UserID)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.OK(w, map[string]int64{"unread": count})
}

func (h *Handler) markRead(w http.ResponseWriter, r *http.Request) {
	identity := shared.IdentityFromContext(r.Context())
	if identity == nil {
		httpx.RespondError(w, r, shared.ErrUnauthenticated)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.ValidationFailed(w, r, map[string]string{"id": "must be an integer"})
		return
	}
	if err := h.service.MarkRead(r.Context(), id, identity.UserID); err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) send(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.ValidationFailed(w, r, map[string]string{"body": "invalid JSON"})
		return
	}
	if err := h.validator.Struct(req); err != nil {
		fields := make(map[string]string)
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				fields[fe.Field()] = fe.Tag()
			}
		}
		httpx.ValidationFailed(w, r, fields)
		return
	}
	record, err := h.service.Notify(r.Context(), req.UserID, req.Title, req.Body)
	if err != nil {
		h.logger.Error("send notification", slog.Any("error", err))
		httpx.RespondError(w, r, err)
		return
	}
	httpx.Created(w, record)
}
