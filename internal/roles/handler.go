package roles

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

// Handler manages role administration endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	rbac      rbac.Middleware
	audit     *shared.AuditLogger
	validator *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, mw rbac.Middleware, audit *shared.AuditLogger) *Handler {
	return &Handler{logger: logger, service: service, rbac: mw, audit: audit, validator: validator.New()}
}

// MountRoutes registers role routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.PermViewRoles, rbac.PermEditRole))
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.Require(rbac.PermEditRole))
		r.Post("/", h.create)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

type roleRequest struct {
	Name        string   `json:"name" validate:"required,max=80"`
	Description string   `json:"description" validate:"max=500"`
	Permissions []string `json:"permissions"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list roles", slog.Any("error", err))
		httpx.RespondError(w, r, err)
		return
	}
	httpx.OK(w, map[string]any{"roles": result})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.ValidationFailed(w, r, map[string]string{"id": "must be an integer"})
		return
	}
	role, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.OK(w, role)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	role, err := h.service.Create(r.Context(), req.Name, req.Description, req.Permissions)
	if err != nil {
		h.logger.Error("create role", slog.Any("error", err))
		httpx.RespondError(w, r, err)
		return
	}
	h.recordAudit(r, "role.create", role.ID)
	httpx.Created(w, role)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.ValidationFailed(w, r, map[string]string{"id": "must be an integer"})
		return
	}
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	role, err := h.service.Update(r.Context(), id, req.Name, req.Description, req.Permissions)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	h.recordAudit(r, "role.update", id)
	httpx.OK(w, role)
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
	h.recordAudit(r, "role.delete", id)
	httpx.NoContent(w)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (roleRequest, bool) {
	var req roleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.ValidationFailed(w, r, map[string]string{"body": "invalid JSON"})
		return req, false
	}
	if err := h.validator.Struct(req); err != nil {
		fields := make(map[string]string)
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				fields[fe.Field()] = fe.Tag()
			}
		}
		httpx.ValidationFailed(w, r, fields)
		return req, false
	}
	return req, true
}

func (h *Handler) recordAudit(r *http.Request, action string, roleID int64) {
	if h.audit == nil {
		return
	}
	var actorID int64
	if identity := shared.IdentityFromContext(r.Context()); identity != nil {
		actorID = identity.UserID
	}
	if err := h.audit.Record(r.Context(), shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "role",
		EntityID: strconv.FormatInt(roleID, 10),
	}); err != nil {
		h.logger.Warn("record audit", slog.Any("error", err))
	}
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
