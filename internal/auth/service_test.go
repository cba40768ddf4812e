package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/lectern-lms/lectern/internal/shared"
	"github.com/lectern-lms/lectern/internal/token"
)

type mockRepo struct {
	byEmail map[string]*User
	byID    map[int64]*User
}

func newMockRepo(users ...*User) *mockRepo {
	m := &mockRepo{byEmail: make(map[string]*User), byID: make(map[int64]*User)}
	for _, u := range users {
		m.byEmail[u.Email] = u
		m.byID[u.ID] = u
	}
	return m
}

func (m *mockRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return u, nil
}

func (m *mockRepo) FindByID(ctx context.Context, id int64) (*User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return u, nil
}

type mockPermissions struct {
	perms map[int64][]string
}

func (m *mockPermissions) RolePermissions(ctx context.Context, roleID int64) ([]string, error) {
	return m.perms[roleID], nil
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hashed)
}

func newTokenManager(t *testing.T) *token.Manager {
	t.Helper()
	m, err := token.NewManager(token.Config{Secret: "test-secret", AccessTTL: time.Hour, RefreshTTL: 24 * time.Hour})
	require.NoError(t, err)
	return m
}

func TestLoginIssuesPairWithSnapshot(t *testing.T) {
	user := &User{ID: 1, Email: "dosen@kampus.ac.id", PasswordHash: hashPassword(t, "rahasia123"), RoleID: 2, IsActive: true}
	perms := &mockPermissions{perms: map[int64][]string{2: {"view_courses", "edit_course"}}}
	tokens := newTokenManager(t)
	svc := NewService(newMockRepo(user), perms, tokens)

	pair, got, err := svc.Login(context.Background(), "dosen@kampus.ac.id", "rahasia123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	claims, err := tokens.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(1), claims.UserID)
	assert.Equal(t, int64(2), claims.RoleID)
	assert.Equal(t, []string{"view_courses", "edit_course"}, claims.Permissions)
}

func TestLoginWrongPassword(t *testing.T) {
	user := &User{ID: 1, Email: "dosen@kampus.ac.id", PasswordHash: hashPassword(t, "rahasia123"), RoleID: 2, IsActive: true}
	svc := NewService(newMockRepo(user), &mockPermissions{}, newTokenManager(t))

	_, _, err := svc.Login(context.Background(), "dosen@kampus.ac.id", "salah")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestLoginUnknownAndInactiveFailIdentically(t *testing.T) {
	inactive := &User{ID: 1, Email: "nonaktif@kampus.ac.id", PasswordHash: hashPassword(t, "rahasia123"), RoleID: 2, IsActive: false}
	svc := NewService(newMockRepo(inactive), &mockPermissions{}, newTokenManager(t))

	_, _, errUnknown := svc.Login(context.Background(), "tidakada@kampus.ac.id", "rahasia123")
	_, _, errInactive := svc.Login(context.Background(), "nonaktif@kampus.ac.id", "rahasia123")

	assert.ErrorIs(t, errUnknown, shared.ErrInvalidCredentials)
	assert.ErrorIs(t, errInactive, shared.ErrInvalidCredentials)
	assert.Equal(t, errUnknown, errInactive)
}

func TestRefreshMintsNewAccessWithoutPassword(t *testing.T) {
	user := &User{ID: 1, Email: "dosen@kampus.ac.id", PasswordHash: hashPassword(t, "rahasia123"), RoleID: 2, IsActive: true}
	perms := &mockPermissions{perms: map[int64][]string{2: {"view_courses"}}}
	tokens := newTokenManager(t)
	svc := NewService(newMockRepo(user), perms, tokens)

	pair, _, err := svc.Login(context.Background(), "dosen@kampus.ac.id", "rahasia123")
	require.NoError(t, err)

	access, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)

	claims, err := tokens.VerifyAccess(access)
	require.NoError(t, err)
	assert.Equal(t, int64(1), claims.UserID)
	assert.Equal(t, []string{"view_courses"}, claims.Permissions)
}

func TestRefreshPicksUpRoleEdits(t *testing.T) {
	user := &User{ID: 1, Email: "dosen@kampus.ac.id", PasswordHash: hashPassword(t, "rahasia123"), RoleID: 2, IsActive: true}
	perms := &mockPermissions{perms: map[int64][]string{2: {"view_courses"}}}
	tokens := newTokenManager(t)
	svc := NewService(newMockRepo(user), perms, tokens)

	pair, _, err := svc.Login(context.Background(), "dosen@kampus.ac.id", "rahasia123")
	require.NoError(t, err)

	// The role gains a grant after login. The old access token keeps its
	// snapshot; only the refreshed token sees the new grant.
	perms.perms[2] = []string{"view_courses", "edit_course"}

	oldClaims, err := tokens.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, []string{"view_courses"}, oldClaims.Permissions)

	access, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	newClaims, err := tokens.VerifyAccess(access)
	require.NoError(t, err)
	assert.Equal(t, []string{"view_courses", "edit_course"}, newClaims.Permissions)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	user := &User{ID: 1, Email: "dosen@kampus.ac.id", PasswordHash: hashPassword(t, "rahasia123"), RoleID: 2, IsActive: true}
	tokens := newTokenManager(t)
	svc := NewService(newMockRepo(user), &mockPermissions{}, tokens)

	access, err := tokens.IssueAccess(1, 2, []string{"view_courses"})
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), access)
	assert.ErrorIs(t, err, token.ErrWrongType)
}

func TestRefreshForDeactivatedUser(t *testing.T) {
	user := &User{ID: 1, Email: "dosen@kampus.ac.id", PasswordHash: hashPassword(t, "rahasia123"), RoleID: 2, IsActive: true}
	tokens := newTokenManager(t)
	repo := newMockRepo(user)
	svc := NewService(repo, &mockPermissions{}, tokens)

	refresh, err := tokens.IssueRefresh(1)
	require.NoError(t, err)

	user.IsActive = false
	_, err = svc.Refresh(context.Background(), refresh)
	assert.ErrorIs(t, err, token.ErrInvalid)
}
