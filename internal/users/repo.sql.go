package users

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

const userColumns = `id, email, name, role_id, is_active, created_at, updated_at`

// ListUsers returns a page of users and the total count.
func (r *PGRepository) ListUsers(ctx context.Context, limit, offset int) ([]User, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var result []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.RoleID, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, 0, err
		}
		result = append(result, u)
	}
	return result, total, rows.Err()
}

// GetUser fetches a user by primary key.
func (r *PGRepository) GetUser(ctx context.Context, id int64) (*User, error) {
	var u User
	err := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Email, &u.Name, &u.RoleID, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a new active user account.
func (r *PGRepository) CreateUser(ctx context.Context, email, name, passwordHash string, roleID int64) (*User, error) {
	var u User
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (email, name, password_hash, role_id, is_active) VALUES ($1, $2, $3, $4, TRUE) RETURNING `+userColumns,
		email, name, passwordHash, roleID).
		Scan(&u.ID, &u.Email, &u.Name, &u.RoleID, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, shared.ErrDuplicate
		}
		return nil, err
	}
	return &u, nil
}

// UpdateUser updates mutable account fields.
func (r *PGRepository) UpdateUser(ctx context.Context, id int64, name string, roleID int64, isActive bool) (*User, error) {
	var u User
	err := r.pool.QueryRow(ctx,
		`UPDATE users SET name = $2, role_id = $3, is_active = $4, updated_at = NOW() WHERE id = $1 RETURNING `+userColumns,
		id, name, roleID, isActive).
		Scan(&u.ID, &u.Email, &u.Name, &u.RoleID, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// UpdatePassword replaces the stored password hash.
func (r *PGRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`, id, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeactivateUser flips the active flag off; accounts are never hard-deleted.
func (r *PGRepository) DeactivateUser(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ Repository = (*PGRepository)(nil)
