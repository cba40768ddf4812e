package courses_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lectern-lms/lectern/internal/auth"
	"github.com/lectern-lms/lectern/internal/courses"
	"github.com/lectern-lms/lectern/internal/rbac"
	"github.com/lectern-lms/lectern/internal/shared"
	"github.com/lectern-lms/lectern/internal/token"
	_ "github.com/lectern-lms/lectern/testing"
)

type stubCourseRepo struct {
	courses map[int64]*courses.Course
	nextID  int64
}

func newStubCourseRepo(seed ...courses.Course) *stubCourseRepo {
	repo := &stubCourseRepo{courses: make(map[int64]*courses.Course), nextID: 1}
	for _, c := range seed {
		c := c
		c.ID = repo.nextID
		repo.nextID++
		repo.courses[c.ID] = &c
	}
	return repo
}

func (s *stubCourseRepo) ListCourses(ctx context.Context, filter courses.ListFilter) ([]courses.Course, int, error) {
	var out []courses.Course
	for _, c := range s.courses {
		if !filter.IncludeUnpublished && !c.IsPublished {
			continue
		}
		if filter.LecturerID != nil && c.LecturerID != *filter.LecturerID {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (s *stubCourseRepo) GetCourse(ctx context.Context, id int64) (*courses.Course, error) {
	c, ok := s.courses[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (s *stubCourseRepo) CreateCourse(ctx context.Context, title, description string, lecturerID int64) (*courses.Course, error) {
	c := &courses.Course{ID: s.nextID, Title: title, Description: description, LecturerID: lecturerID}
	s.nextID++
	s.courses[c.ID] = c
	copied := *c
	return &copied, nil
}

func (s *stubCourseRepo) UpdateCourse(ctx context.Context, id int64, title, description string, isPublished bool) (*courses.Course, error) {
	c, ok := s.courses[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	c.Title, c.Description, c.IsPublished = title, description, isPublished
	copied := *c
	return &copied, nil
}

func (s *stubCourseRepo) DeleteCourse(ctx context.Context, id int64) error {
	if _, ok := s.courses[id]; !ok {
		return shared.ErrNotFound
	}
	delete(s.courses, id)
	return nil
}

func newCoursesRouter(t *testing.T, repo courses.Repository) (http.Handler, *token.Manager) {
	t.Helper()
	tokens, err := token.NewManager(token.Config{Secret: "test-secret", AccessTTL: time.Hour, RefreshTTL: 24 * time.Hour})
	require.NoError(t, err)
	engine, err := rbac.NewEngine(rbac.WildcardAll)
	require.NoError(t, err)

	handler := courses.NewHandler(nil, courses.NewService(repo),
		auth.Middleware{Tokens: tokens},
		rbac.Middleware{Engine: engine})

	r := chi.NewRouter()
	r.Route("/courses", handler.MountRoutes)
	return r, tokens
}

func listCourses(t *testing.T, router http.Handler, bearer string) []map[string]any {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/courses/", nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	require.Equal(t, http.StatusOK, res.Code)

	var body struct {
		Data struct {
			Courses []map[string]any `json:"courses"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	return body.Data.Courses
}

func TestAnonymousListSeesPublishedOnly(t *testing.T) {
	repo := newStubCourseRepo(
		courses.Course{Title: "Algoritma", LecturerID: 1, IsPublished: true},
		courses.Course{Title: "Basis Data (draf)", LecturerID: 1, IsPublished: false},
	)
	router, _ := newCoursesRouter(t, repo)

	listed := listCourses(t, router, "")
	require.Len(t, listed, 1)
	assert.Equal(t, "Algoritma", listed[0]["title"])
}

func TestViewCoursesSeesUnpublished(t *testing.T) {
	repo := newStubCourseRepo(
		courses.Course{Title: "Algoritma", LecturerID: 1, IsPublished: true},
		courses.Course{Title: "Basis Data (draf)", LecturerID: 1, IsPublished: false},
	)
	router, tokens := newCoursesRouter(t, repo)

	bearer, err := tokens.IssueAccess(1, 1, []string{"view_courses"})
	require.NoError(t, err)

	listed := listCourses(t, router, bearer)
	assert.Len(t, listed, 2)
}

func TestAuthenticatedWithoutGrantSeesPublishedOnly(t *testing.T) {
	repo := newStubCourseRepo(
		courses.Course{Title: "Algoritma", LecturerID: 1, IsPublished: true},
		courses.Course{Title: "Basis Data (draf)", LecturerID: 1, IsPublished: false},
	)
	router, tokens := newCoursesRouter(t, repo)

	bearer, err := tokens.IssueAccess(1, 1, []string{"view_reports"})
	require.NoError(t, err)

	listed := listCourses(t, router, bearer)
	assert.Len(t, listed, 1)
}

func TestUnpublishedDetailHiddenFromAnonymous(t *testing.T) {
	repo := newStubCourseRepo(courses.Course{Title: "Draf", LecturerID: 1, IsPublished: false})
	router, tokens := newCoursesRouter(t, repo)

	req := httptest.NewRequest(http.MethodGet, "/courses/1", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	// Hidden, not forbidden: anonymous callers cannot probe for drafts.
	assert.Equal(t, http.StatusNotFound, res.Code)

	bearer, err := tokens.IssueAccess(1, 1, []string{"view_courses"})
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/courses/1", nil)
	req.Header.Set("Authorization", "Bearer "+bearer)
	res = httptest.NewRecorder()
	router.ServeHTTP(res, req)
	assert.Equal(t, http.StatusOK, res.Code)
}

func TestCreateRequiresEditCourse(t *testing.T) {
	repo := newStubCourseRepo()
	router, tokens := newCoursesRouter(t, repo)

	payload := `{"title":"Jaringan Komputer","description":"Pengantar jaringan"}`

	// Anonymous create fails before reaching the handler.
	req := httptest.NewRequest(http.MethodPost, "/courses/", strings.NewReader(payload))
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	assert.Equal(t, http.StatusUnauthorized, res.Code)

	// Missing grant yields a 403 naming the gap.
	bearer, err := tokens.IssueAccess(9, 1, []string{"view_courses"})
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodPost, "/courses/", strings.NewReader(payload))
	req.Header.Set("Authorization", "Bearer "+bearer)
	res = httptest.NewRecorder()
	router.ServeHTTP(res, req)
	assert.Equal(t, http.StatusForbidden, res.Code)
	var denied struct {
		MissingPermissions []string `json:"missing_permissions"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &denied))
	assert.Equal(t, []string{"edit_course"}, denied.MissingPermissions)

	// The grant makes it through, and the creator becomes the lecturer.
	bearer, err = tokens.IssueAccess(9, 1, []string{"edit_course"})
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodPost, "/courses/", strings.NewReader(payload))
	req.Header.Set("Authorization", "Bearer "+bearer)
	res = httptest.NewRecorder()
	router.ServeHTTP(res, req)
	require.Equal(t, http.StatusCreated, res.Code)
	var created struct {
		Data struct {
			LecturerID int64 `json:"lecturer_id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &created))
	assert.Equal(t, int64(9), created.Data.LecturerID)
}
