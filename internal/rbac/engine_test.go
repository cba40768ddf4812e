package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEngineWildcardValidation(t *testing.T) {
	for _, literal := range []string{WildcardAll, WildcardDunderAll} {
		e, err := NewEngine(literal)
		require.NoError(t, err)
		assert.Equal(t, literal, e.Wildcard())
	}

	e, err := NewEngine("")
	require.NoError(t, err)
	assert.Equal(t, WildcardAll, e.Wildcard())

	_, err = NewEngine("superuser")
	require.Error(t, err)
}

func TestHasPermission(t *testing.T) {
	e, err := NewEngine(WildcardAll)
	require.NoError(t, err)

	granted := []string{"view_courses", "edit_course"}
	assert.True(t, e.HasPermission(granted, PermViewCourses))
	assert.False(t, e.HasPermission(granted, PermDeleteCourse))
	assert.False(t, e.HasPermission(nil, PermViewCourses))
}

func TestWildcardGrantsEverything(t *testing.T) {
	e, err := NewEngine(WildcardAll)
	require.NoError(t, err)

	granted := []string{"all"}
	assert.True(t, e.IsSuperAdmin(granted))
	for _, p := range Known() {
		assert.True(t, e.HasPermission(granted, p), string(p))
	}
	// Even names outside the catalog pass the override.
	assert.True(t, e.HasPermission(granted, Permission("frobnicate_widgets")))
	assert.Nil(t, e.MissingPermissions(granted, PermEditCourse, Permission("frobnicate_widgets")))
}

func TestDunderWildcardDoesNotMatchPlainAll(t *testing.T) {
	e, err := NewEngine(WildcardDunderAll)
	require.NoError(t, err)

	assert.False(t, e.IsSuperAdmin([]string{"all"}))
	assert.True(t, e.IsSuperAdmin([]string{"__all__"}))
}

func TestHasAnyPermission(t *testing.T) {
	e, err := NewEngine(WildcardAll)
	require.NoError(t, err)

	granted := []string{"view_roles"}
	assert.True(t, e.HasAnyPermission(granted, PermViewRoles, PermEditRole))
	assert.False(t, e.HasAnyPermission(granted, PermEditRole, PermDeleteUser))
	assert.False(t, e.HasAnyPermission(nil, PermViewRoles))
}

func TestMissingPermissionsExactSubset(t *testing.T) {
	e, err := NewEngine(WildcardAll)
	require.NoError(t, err)

	granted := []string{"view_courses", "view_reports"}
	missing := e.MissingPermissions(granted, PermViewCourses, PermEditCourse, PermDeleteCourse)
	assert.Equal(t, []Permission{PermEditCourse, PermDeleteCourse}, missing)

	assert.Empty(t, e.MissingPermissions(granted, PermViewCourses))
	assert.True(t, e.HasAllPermissions(granted, PermViewCourses, PermViewReports))
	assert.False(t, e.HasAllPermissions(granted, PermViewCourses, PermEditCourse))
}

func TestEmptySnapshotMissesEverything(t *testing.T) {
	e, err := NewEngine(WildcardAll)
	require.NoError(t, err)

	missing := e.MissingPermissions(nil, PermViewUsers, PermEditUser)
	assert.Equal(t, []Permission{PermViewUsers, PermEditUser}, missing)
}

func TestIsKnown(t *testing.T) {
	assert.True(t, IsKnown("view_courses"))
	assert.False(t, IsKnown("view_course"))
	assert.False(t, IsKnown("all"))
}
