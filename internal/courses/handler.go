package courses

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/lectern-lms/lectern/internal/auth"
	"github.com/lectern-lms/lectern/internal/platform/httpx"
	"github.com/lectern-lms/lectern/internal/rbac"
	"github.com/lectern-lms/lectern/internal/shared"
)

// Handler manages course endpoints. Listing and detail are reachable
// anonymously with published content only; an authenticated caller holding
// view_courses also sees unpublished entries.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	authmw    auth.Middleware
	rbac      rbac.Middleware
	validator *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, authmw auth.Middleware, mw rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, authmw: authmw, rbac: mw, validator: validator.New()}
}

// MountRoutes registers course routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authmw.OptionalAuthenticated)
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authmw.RequireAuthenticated)
		r.With(h.rbac.Require(rbac.PermEditCourse)).Post("/", h.create)
		r.With(h.rbac.Require(rbac.PermEditCourse)).Put("/{id}", h.update)
		r.With(h.rbac.Require(rbac.PermDeleteCourse)).Delete("/{id}", h.delete)
	})
}

type courseRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=5000"`
	IsPublished bool   `json:"is_published"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, perPage := shared.PageParams(r)
	filter := ListFilter{Limit: perPage, Offset: (page - 1) * perPage}

	identity := shared.IdentityFromContext(r.Context())
	if identity != nil && h.rbac.Engine.HasPermission(identity.Permissions, rbac.PermViewCourses) {
		filter.IncludeUnpublished = true
	}
	if raw := r.URL.Query().Get("lecturer_id"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filter.LecturerID = &id
		}
	}

	result, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("list courses", slog.Any("error", err))
		httpx.RespondError(w, r, err)
		return
	}
	httpx.OK(w, map[string]any{
		"courses":    result,
		"pagination": shared.NewPagination(page, perPage, total),
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.ValidationFailed(w, r, map[string]string{"id": "must be an integer"})
		return
	}
	course, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	if !course.IsPublished {
		identity := shared.IdentityFromContext(r.Context())
		if identity == nil || !h.rbac.Engine.HasPermission(identity.Permissions, rbac.PermViewCourses) {
			httpx.RespondError(w, r, shared.ErrNotFound)
			return
		}
	}
	httpx.OK(w, course)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	identity := shared.IdentityFromContext(r.Context())
	if identity == nil {
		httpx.RespondError(w, r, shared.ErrUnauthenticated)
		return
	}
	var req courseRequest
	if !h.decode(w, r, &req) {
		return
	}
	course, err := h.service.Create(r.Context(), req.Title, req.Description, identity.UserID)
	if err != nil {
		h.logger.Error("create course", slog.Any("error", err))
		httpx.RespondError(w, r, err)
		return
	}
	httpx.Created(w, course)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.ValidationFailed(w, r, map[string]string{"id": "must be an integer"})
		return
	}
	var req courseRequest
	if !h.decode(w, r, &req) {
		return
	}
	course, err := h.service.Update(r.Context(), id, req.Title, req.Description, req.IsPublished)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.OK(w, course)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.ValidationFailed(w, r, map[string]string{"id": "must be an integer"})
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := httpx.DecodeJSON(r, target); err != nil {
		httpx.ValidationFailed(w, r, map[string]string{"body": "invalid JSON"})
		return false
	}
	if err := h.validator.Struct(target); err != nil {
		fields := make(map[string]string)
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				fields[fe.Field()] = fe.Tag()
			}
		}
		httpx.ValidationFailed(w, r, fields)
		return false
	}
	return true
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
