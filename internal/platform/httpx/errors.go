package httpx

import (
	"errors"
	"net/http"

	"github.com/lectern-lms/lectern/internal/shared"
	"github.com/lectern-lms/lectern/internal/token"
)

// Machine-readable error codes returned alongside the localized message.
const (
	CodeMissingCredential = "MISSING_CREDENTIAL"
	CodeSessionExpired    = "SESSION_EXPIRED"
	CodeInvalidCredential = "INVALID_CREDENTIAL"
	CodeUnauthenticated   = "UNAUTHENTICATED"
	CodeForbidden         = "FORBIDDEN"
	CodeInvalidLogin      = "INVALID_LOGIN"
	CodeNotFound          = "NOT_FOUND"
	CodeDuplicate         = "DUPLICATE"
	CodeValidationFailed  = "VALIDATION_FAILED"
	CodeInternalError     = "INTERNAL_ERROR"
)

// RespondError maps a domain error to status, machine code and localized
// message. Authentication failures map to 401, authorization failures to 403;
// anything unrecognized is reported as an internal error, never silently
// downgraded to unauthenticated.
func RespondError(w http.ResponseWriter, r *http.Request, err error) {
	var forbidden *shared.ForbiddenError
	if errors.As(err, &forbidden) {
		JSON(w, http.StatusForbidden, Envelope{
			Error:              Localize(r, CodeForbidden),
			Code:               CodeForbidden,
			MissingPermissions: forbidden.Missing,
		})
		return
	}

	status, code := http.StatusInternalServerError, CodeInternalError
	switch {
	case errors.Is(err, shared.ErrMissingCredential):
		status, code = http.StatusUnauthorized, CodeMissingCredential
	case errors.Is(err, token.ErrExpired):
		status, code = http.StatusUnauthorized, CodeSessionExpired
	case errors.Is(err, token.ErrInvalid), errors.Is(err, token.ErrWrongType):
		// Wrong-type tokens at the boundary look like any other invalid token.
		status, code = http.StatusUnauthorized, CodeInvalidCredential
	case errors.Is(err, shared.ErrUnauthenticated):
		status, code = http.StatusUnauthorized, CodeUnauthenticated
	case errors.Is(err, shared.ErrInvalidCredentials):
		status, code = http.StatusUnauthorized, CodeInvalidLogin
	case errors.Is(err, shared.ErrNotFound):
		status, code = http.StatusNotFound, CodeNotFound
	case errors.Is(err, shared.ErrDuplicate):
		status, code = http.StatusConflict, CodeDuplicate
	}

	JSON(w, status, Envelope{Error: Localize(r, code), Code: code})
}

// ValidationFailed reports a 400 with per-field messages.
func ValidationFailed(w http.ResponseWriter, r *http.Request, fields map[string]string) {
	JSON(w, http.StatusBadRequest, Envelope{
		Error: Localize(r, CodeValidationFailed),
		Code:  CodeValidationFailed,
		Data:  map[string]any{"fields": fields},
	})
}
