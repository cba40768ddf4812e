package roles

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lectern-lms/lectern/internal/platform/db"
	"github.com/lectern-lms/lectern/internal/shared"
)

// PGRepository provides PostgreSQL backed persistence.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// ListRoles returns all roles with their permission lists.
func (r *PGRepository) ListRoles(ctx context.Context) ([]Role, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, description, created_at, updated_at FROM roles ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []Role
	for rows.Next() {
		var role Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, role)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range result {
		perms, err := r.RolePermissions(ctx, result[i].ID)
		if err != nil {
			return nil, err
		}
		result[i].Permissions = perms
	}
	return result, nil
}

// GetRole fetches a role by ID including its permissions.
func (r *PGRepository) GetRole(ctx context.Context, id int64) (*Role, error) {
	var role Role
	err := r.pool.QueryRow(ctx, `SELECT id, name, description, created_at, updated_at FROM roles WHERE id = $1`, id).
		Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	perms, err := r.RolePermissions(ctx, id)
	if err != nil {
		return nil, err
	}
	role.Permissions = perms
	return &role, nil
}

// CreateRole inserts a new role.
func (r *PGRepository) CreateRole(ctx context.Context, name, description string) (*Role, error) {
	var role Role
	err := r.pool.QueryRow(ctx,
		`INSERT INTO roles (name, description) VALUES ($1, $2) RETURNING id, name, description, created_at, updated_at`,
		name, description).
		Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, shared.ErrDuplicate
		}
		return nil, err
	}
	role.Permissions = []string{}
	return &role, nil
}

// UpdateRole updates name and description of an existing role.
func (r *PGRepository) UpdateRole(ctx context.Context, id int64, name, description string) (*Role, error) {
	var role Role
	err := r.pool.QueryRow(ctx,
		`UPDATE roles SET name = $2, description = $3, updated_at = NOW() WHERE id = $1 RETURNING id, name, description, created_at, updated_at`,
		id, name, description).
		Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		if db.IsUniqueViolation(err) {
			return nil, shared.ErrDuplicate
		}
		return nil, err
	}
	perms, err := r.RolePermissions(ctx, id)
	if err != nil {
		return nil, err
	}
	role.Permissions = perms
	return &role, nil
}

// DeleteRole removes a role. Returns shared.ErrNotFound when nothing matched.
func (r *PGRepository) DeleteRole(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// RolePermissions returns the permission names granted to a role.
func (r *PGRepository) RolePermissions(ctx context.Context, roleID int64) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT permission FROM role_permissions WHERE role_id = $1 ORDER BY permission`, roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	perms := []string{}
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		perms = append(perms, p)
	}
	return perms, rows.Err()
}

// SetRolePermissions replaces the permission list for a role.
func (r *PGRepository) SetRolePermissions(ctx context.Context, roleID int64, permissions []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM role_permissions WHERE role_id = $1`, roleID); err != nil {
		return err
	}
	for _, p := range permissions {
		if _, err := tx.Exec(ctx, `INSERT INTO role_permissions (role_id, permission) VALUES ($1, $2)`, roleID, p); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

var _ Repository = (*PGRepository)(nil)
