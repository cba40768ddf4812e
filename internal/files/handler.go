package files

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lectern-lms/lectern/internal/platform/httpx"
	"github.com/lectern-lms/lectern/internal/rbac"
	"github.com/lectern-lms/lectern/internal/shared"
)

const maxUploadBytes = 32 << 20

// Handler manages file upload and download endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, mw rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: mw}
}

// MountRoutes registers file routes. All routes assume the authentication
// middleware already ran on the parent router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.rbac.Require(rbac.PermViewCourses)).Get("/course/{courseID}", h.listByCourse)
	r.With(h.rbac.Require(rbac.PermViewCourses)).Get("/{id}/download", h.download)
	r.With(h.rbac.Require(rbac.PermUploadFiles)).Post("/course/{courseID}", h.upload)
	r.With(h.rbac.Require(rbac.PermDeleteFile)).Delete("/{id}", h.delete)
}

func (h *Handler) listByCourse(w http.ResponseWriter, r *http.Request) {
	courseID, err := strconv.ParseInt(chi.URLParam(r, "courseID"), 10, 64)
	if err != nil {
		httpx.ValidationFailed(w, r, map[string]string{"courseID": "must be an integer"})
		return
	}
	result, err := h.service.ListByCourse(r.Context(), courseID)
	if err != nil {
		h.logger.Error("list files", slog.Any("error", err))
		httpx.RespondError(w, r, err)
		return
	}
	httpx.OK(w, map[string]any{"files": result})
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	identity := shared.IdentityFromContext(r.Context())
	if identity == nil {
		httpx.RespondError(w, r, shared.ErrUnauthenticated)
		return
	}
	courseID, err := strconv.ParseInt(chi.URLParam(r, "courseID"), 10, 64)
	if err != nil {
		httpx.ValidationFailed(w, r, map[string]string{"courseID": "must be an integer"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httpx.ValidationFailed(w, r, map[string]string{"file": "multipart body required or too large"})
		return
	}
	part, header, err := r.FormFile("file")
	if err != nil {
		httpx.ValidationFailed(w, r, map[string]string{"file": "file field required"})
		return
	}
	defer part.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	record, err := h.service.Upload(r.Context(), header.Filename, contentType, courseID, identity.UserID, part)
	if err != nil {
		h.logger.Error("upload file", slog.Any("error", err))
		httpx.RespondError(w, r, err)
		return
	}
	httpx.Created(w, record)
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.ValidationFailed(w, r, map[string]string{"id": "must be an integer"})
		return
	}
	record, reader, err := h.service.Download(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", record.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+record.Name+`"`)
	w.Header().Set("Content-Length", strconv.FormatInt(record.SizeBytes, 10))
	if _, err := io.Copy(w, reader); err != nil {
		h.logger.Warn("stream file", slog.Any("error", err))
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
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
