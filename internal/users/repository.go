package users

import "context"

// Repository defines persistence operations for user management.
type Repository interface {
	ListUsers(ctx context.Context, limit, offset int) ([]User, int, error)
	GetUser(ctx context.Context, id int64) (*User, error)
	CreateUser(ctx context.Context, email, name, passwordHash string, roleID int64) (*User, error)
	UpdateUser(ctx context.Context, id int64, name string, roleID int64, isActive bool) (*User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	DeactivateUser(ctx context.Context, id int64) error
}
