package auth

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/lectern-lms/lectern/internal/platform/httpx"
	"github.com/lectern-lms/lectern/internal/shared"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger     *slog.Logger
	service    *Service
	middleware Middleware
	audit      *shared.AuditLogger
	validator  *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, mw Middleware, audit *shared.AuditLogger) *Handler {
	return &Handler{
		logger:     logger,
		service:    service,
		middleware: mw,
		audit:      audit,
		validator:  validator.New(),
	}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.handleLogin)
	r.Post("/refresh", h.handleRefresh)
	r.With(h.middleware.RequireAuthenticated).Get("/me", h.handleMe)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.ValidationFailed(w, r, map[string]string{"body": "invalid JSON"})
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.ValidationFailed(w, r, fieldErrors(err))
		return
	}

	pair, user, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	if h.audit != nil {
		if err := h.audit.Record(r.Context(), shared.AuditLog{
			ActorID:  user.ID,
			Action:   "login",
			Entity:   "user",
			EntityID: strconv.FormatInt(user.ID, 10),
			Meta:     map[string]any{"ip": r.RemoteAddr, "ua": r.UserAgent()},
		}); err != nil {
			h.logger.Warn("record login audit", slog.Any("error", err))
		}
	}

	httpx.OK(w, pair)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.ValidationFailed(w, r, map[string]string{"body": "invalid JSON"})
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.ValidationFailed(w, r, fieldErrors(err))
		return
	}

	access, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.OK(w, map[string]string{"access_token": access, "token_type": "Bearer"})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	identity := shared.IdentityFromContext(r.Context())
	if identity == nil {
		httpx.RespondError(w, r, shared.ErrUnauthenticated)
		return
	}
	httpx.OK(w, map[string]any{
		"user_id":     identity.UserID,
		"role_id":     identity.RoleID,
		"permissions": identity.Permissions,
		"expires_at":  identity.ExpiresAt,
	})
}

func fieldErrors(err error) map[string]string {
	fields := make(map[string]string)
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
	}
	return fields
}
