package rbac_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lectern-lms/lectern/internal/rbac"
	"github.com/lectern-lms/lectern/internal/shared"
	"github.com/lectern-lms/lectern/internal/token"
	_ "github.com/lectern-lms/lectern/testing"
)

func newMiddleware(t *testing.T) rbac.Middleware {
	t.Helper()
	engine, err := rbac.NewEngine(rbac.WildcardAll)
	require.NoError(t, err)
	return rbac.Middleware{Engine: engine}
}

func requestWithIdentity(permissions []string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	claims := &token.Claims{
		UserID:      1,
		RoleID:      2,
		Permissions: permissions,
		ExpiresAt:   time.Now().Add(time.Hour),
	}
	return req.WithContext(shared.ContextWithIdentity(req.Context(), claims))
}

func decodeEnvelope(t *testing.T, res *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	return body
}

func TestRequireAllowsGranted(t *testing.T) {
	mw := newMiddleware(t)

	called := false
	handler := mw.Require(rbac.PermViewCourses)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, requestWithIdentity([]string{"view_courses"}))

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, res.Code)
}

func TestRequireDeniesWithMissingList(t *testing.T) {
	mw := newMiddleware(t)

	handler := mw.Require(rbac.PermEditCourse)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, requestWithIdentity([]string{"view_courses"}))

	assert.Equal(t, http.StatusForbidden, res.Code)
	body := decodeEnvelope(t, res)
	assert.Equal(t, "FORBIDDEN", body["code"])
	assert.Equal(t, []any{"edit_course"}, body["missing_permissions"])
}

func TestRequireWithoutIdentityIsUnauthenticated(t *testing.T) {
	mw := newMiddleware(t)

	handler := mw.Require(rbac.PermViewCourses)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/protected", nil))

	// No identity is a 401, never a 403.
	assert.Equal(t, http.StatusUnauthorized, res.Code)
	body := decodeEnvelope(t, res)
	assert.Equal(t, "UNAUTHENTICATED", body["code"])
}

func TestRequireWildcardOverride(t *testing.T) {
	mw := newMiddleware(t)

	handler := mw.RequireAll(rbac.PermEditCourse, rbac.PermDeleteCourse)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, requestWithIdentity([]string{"all"}))

	assert.Equal(t, http.StatusOK, res.Code)
}

func TestRequireAllEnumeratesMissingSubset(t *testing.T) {
	mw := newMiddleware(t)

	handler := mw.RequireAll(rbac.PermViewCourses, rbac.PermEditCourse, rbac.PermDeleteCourse)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run")
		}))

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, requestWithIdentity([]string{"view_courses"}))

	assert.Equal(t, http.StatusForbidden, res.Code)
	body := decodeEnvelope(t, res)
	assert.Equal(t, []any{"edit_course", "delete_course"}, body["missing_permissions"])
}

func TestRequireAnyAcceptsEither(t *testing.T) {
	mw := newMiddleware(t)

	handler := mw.RequireAny(rbac.PermViewRoles, rbac.PermEditRole)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, requestWithIdentity([]string{"edit_role"}))
	assert.Equal(t, http.StatusOK, res.Code)

	res = httptest.NewRecorder()
	handler.ServeHTTP(res, requestWithIdentity([]string{"view_users"}))
	assert.Equal(t, http.StatusForbidden, res.Code)
}
