package users

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Service wraps user management business rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns a page of users and the total count.
func (s *Service) List(ctx context.Context, page, perPage int) ([]User, int, error) {
	offset := (page - 1) * perPage
	return s.repo.ListUsers(ctx, perPage, offset)
}

// Get fetches a single user.
func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetUser(ctx, id)
}

// Create registers a new user with a bcrypt-hashed password.
func (s *Service) Create(ctx context.Context, email, name, password string, roleID int64) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)
	if email == "" || name == "" {
		return nil, errors.New("users: email and name required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return s.repo.CreateUser(ctx, email, name, string(hash), roleID)
}

// Update changes mutable account fields. A role change takes effect for the
// user's tokens at their next refresh, not immediately.
func (s *Service) Update(ctx context.Context, id int64, name string, roleID int64, isActive bool) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("users: name required")
	}
	return s.repo.UpdateUser(ctx, id, name, roleID, isActive)
}

// ChangePassword replaces a user's password.
func (s *Service) ChangePassword(ctx context.Context, id int64, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, id, string(hash))
}

// Deactivate disables an account without deleting its records.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	return s.repo.DeactivateUser(ctx, id)
}
