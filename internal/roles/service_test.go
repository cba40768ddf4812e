package roles

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lectern-lms/lectern/internal/shared"
)

type mockRepository struct {
	roles       map[int64]*Role
	permissions map[int64][]string
	nextID      int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		roles:       make(map[int64]*Role),
		permissions: make(map[int64][]string),
		nextID:      1,
	}
}

func (m *mockRepository) ListRoles(ctx context.Context) ([]Role, error) {
	out := make([]Role, 0, len(m.roles))
	for _, r := range m.roles {
		out = append(out, *r)
	}
	return out, nil
}

func (m *mockRepository) GetRole(ctx context.Context, id int64) (*Role, error) {
	r, ok := m.roles[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *r
	copied.Permissions = m.permissions[id]
	return &copied, nil
}

func (m *mockRepository) CreateRole(ctx context.Context, name, description string) (*Role, error) {
	id := m.nextID
	m.nextID++
	role := &Role{ID: id, Name: name, Description: description}
	m.roles[id] = role
	copied := *role
	return &copied, nil
}

func (m *mockRepository) UpdateRole(ctx context.Context, id int64, name, description string) (*Role, error) {
	r, ok := m.roles[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	r.Name = name
	r.Description = description
	copied := *r
	return &copied, nil
}

func (m *mockRepository) DeleteRole(ctx context.Context, id int64) error {
	if _, ok := m.roles[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.roles, id)
	delete(m.permissions, id)
	return nil
}

func (m *mockRepository) RolePermissions(ctx context.Context, roleID int64) ([]string, error) {
	return m.permissions[roleID], nil
}

func (m *mockRepository) SetRolePermissions(ctx context.Context, roleID int64, permissions []string) error {
	m.permissions[roleID] = permissions
	return nil
}

func TestCreateRoleWithPermissions(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, "all")

	role, err := svc.Create(context.Background(), "Dosen", "Pengajar mata kuliah", []string{"view_courses", "edit_course", "upload_files"})
	require.NoError(t, err)
	assert.Equal(t, "Dosen", role.Name)
	assert.Equal(t, []string{"view_courses", "edit_course", "upload_files"}, role.Permissions)

	stored, err := repo.RolePermissions(context.Background(), role.ID)
	require.NoError(t, err)
	assert.Equal(t, role.Permissions, stored)
}

func TestCreateRoleRejectsUnknownPermission(t *testing.T) {
	svc := NewService(newMockRepository(), "all")

	_, err := svc.Create(context.Background(), "Dosen", "", []string{"view_courses", "launch_missiles"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "launch_missiles")
}

func TestCreateRoleAcceptsConfiguredWildcard(t *testing.T) {
	svc := NewService(newMockRepository(), "all")
	_, err := svc.Create(context.Background(), "Admin", "", []string{"all"})
	require.NoError(t, err)

	// Under the dunder configuration, "all" is just an unknown name.
	svc = NewService(newMockRepository(), "__all__")
	_, err = svc.Create(context.Background(), "Admin", "", []string{"all"})
	require.Error(t, err)
	_, err = svc.Create(context.Background(), "Admin", "", []string{"__all__"})
	require.NoError(t, err)
}

func TestCreateRoleRequiresName(t *testing.T) {
	svc := NewService(newMockRepository(), "all")
	_, err := svc.Create(context.Background(), "   ", "", nil)
	require.Error(t, err)
}

func TestUpdateRoleReplacesPermissions(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, "all")

	role, err := svc.Create(context.Background(), "Asisten", "", []string{"view_courses"})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), role.ID, "Asisten Dosen", "Membantu pengajaran", []string{"view_courses", "view_reports"})
	require.NoError(t, err)
	assert.Equal(t, "Asisten Dosen", updated.Name)
	assert.Equal(t, []string{"view_courses", "view_reports"}, updated.Permissions)
}

func TestDeleteMissingRole(t *testing.T) {
	svc := NewService(newMockRepository(), "all")
	err := svc.Delete(context.Background(), 99)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
