package roles

import "context"

// Repository defines persistence operations for roles.
type Repository interface {
	ListRoles(ctx context.Context) ([]Role, error)
	GetRole(ctx context.Context, id int64) (*Role, error)
	CreateRole(ctx context.Context, name, description string) (*Role, error)
	UpdateRole(ctx context.Context, id int64, name, description string) (*Role, error)
	DeleteRole(ctx context.Context, id int64) error
	RolePermissions(ctx context.Context, roleID int64) ([]string, error)
	SetRolePermissions(ctx context.Context, roleID int64, permissions []string) error
}
