package shared

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate indicates a uniqueness violation.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrMissingCredential occurs when the Authorization header is absent or not bearer-shaped.
	ErrMissingCredential = errors.New("missing credential")
	// ErrUnauthenticated occurs when a permission check runs with no identity attached.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// ForbiddenError reports a failed permission check together with the
// permissions the identity was missing. Callers rely on the missing list to
// know which grants to request, not merely that the check failed.
type ForbiddenError struct {
	Missing []string
}

func (e *ForbiddenError) Error() string {
	if len(e.Missing) == 0 {
		return "forbidden"
	}
	return fmt.Sprintf("forbidden: missing permissions %s", strings.Join(e.Missing, ", "))
}

// Forbidden constructs a ForbiddenError for the given missing permissions.
func Forbidden(missing ...string) *ForbiddenError {
	return &ForbiddenError{Missing: missing}
}
