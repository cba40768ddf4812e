package users

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

// Handler manages user administration endpoints.
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

// MountRoutes registers user routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.PermViewUsers, rbac.PermEditUser))
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.Require(rbac.PermEditUser))
		r.Post("/", h.create)
		r.Put("/{id}", h.update)
		r.Put("/{id}/password", h.changePassword)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.Require(rbac.PermDeleteUser))
		r.Delete("/{id}", h.deactivate)
	})
}

type createUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,max=120"`
	Password string `json:"password" validate:"required,min=8"`
	RoleID   int64  `json:"role_id" validate:"required,gt=0"`
}

type updateUserRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	RoleID   int64  `json:"role_id" validate:"required,gt=0"`
	IsActive bool   `json:"is_active"`
}

type changePasswordRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, perPage := shared.PageParams(r)
	users, total, err := h.service.List(r.Context(), page, perPage)
	if err != nil {
		h.logger.Error("list users", slog.Any("error", err))
		httpx.RespondError(w, r, err)
		return
	}
	httpx.OK(w, map[string]any{
		"users":      users,
		"pagination": shared.NewPagination(page, perPage, total),
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.ValidationFailed(w, r, map[string]string{"id": "must be an integer"})
		return
	}
	user, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.OK(w, user)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if !h.decode(w, r, &req) {
		return
	}
	user, err := h.service.Create(r.Context(), req.Email, req.Name, req.Password, req.RoleID)
	if err != nil {
		h.logger.Error("create user", slog.Any("error", err))
		httpx.RespondError(w, r, err)
		return
	}
	httpx.Created(w, user)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.ValidationFailed(w, r, map[string]string{"id": "must be an integer"})
		return
	}
	var req updateUserRequest
	if !h.decode(w, r, &req) {
		return
	}
	user, err := h.service.Update(r.Context(), id, req.Name, req.RoleID, req.IsActive)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.OK(w, user)
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.ValidationFailed(w, r, map[string]string{"id": "must be an integer"})
		return
	}
	var req changePasswordRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.service.ChangePassword(r.Context(), id, req.Password); err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.ValidationFailed(w, r, map[string]string{"id": "must be an integer"})
		return
	}
	if err := h.service.Deactivate(r.Context(), id); err != nil {
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
