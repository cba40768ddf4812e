package roles

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lectern-lms/lectern/internal/rbac"
)

// Service orchestrates role management. Edits made here do not affect tokens
// already in flight: the permission snapshot inside an access token is fixed
// at issuance and refreshed only at the holder's next login or refresh.
type Service struct {
	repo     Repository
	wildcard string
}

// NewService constructs a Service. The wildcard literal is accepted in
// permission lists alongside the closed vocabulary.
func NewService(repo Repository, wildcard string) *Service {
	return &Service{repo: repo, wildcard: wildcard}
}

// List returns all roles.
func (s *Service) List(ctx context.Context) ([]Role, error) {
	return s.repo.ListRoles(ctx)
}

// Get fetches a single role.
func (s *Service) Get(ctx context.Context, id int64) (*Role, error) {
	return s.repo.GetRole(ctx, id)
}

// Create inserts a new role with the given permission list.
func (s *Service) Create(ctx context.Context, name, description string, permissions []string) (*Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("roles: name required")
	}
	if err := s.validatePermissions(permissions); err != nil {
		return nil, err
	}
	role, err := s.repo.CreateRole(ctx, name, strings.TrimSpace(description))
	if err != nil {
		return nil, err
	}
	if len(permissions) > 0 {
		if err := s.repo.SetRolePermissions(ctx, role.ID, permissions); err != nil {
			return nil, err
		}
		role.Permissions = permissions
	}
	return role, nil
}

// Update changes a role's name, description and permission list.
func (s *Service) Update(ctx context.Context, id int64, name, description string, permissions []string) (*Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("roles: name required")
	}
	if err := s.validatePermissions(permissions); err != nil {
		return nil, err
	}
	role, err := s.repo.UpdateRole(ctx, id, name, strings.TrimSpace(description))
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetRolePermissions(ctx, id, permissions); err != nil {
		return nil, err
	}
	role.Permissions = permissions
	return role, nil
}

// Delete removes a role.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.DeleteRole(ctx, id)
}

// RolePermissions resolves the flat permission set for a role. Satisfies
// auth.PermissionSource.
func (s *Service) RolePermissions(ctx context.Context, roleID int64) ([]string, error) {
	return s.repo.RolePermissions(ctx, roleID)
}

func (s *Service) validatePermissions(permissions []string) error {
	for _, p := range permissions {
		if p == s.wildcard || rbac.IsKnown(p) {
			continue
		}
		return fmt.Errorf("roles: unknown permission %q", p)
	}
	return nil
}
