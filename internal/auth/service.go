package auth

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/lectern-lms/lectern/internal/shared"
	"github.com/lectern-lms/lectern/internal/token"
)

// PermissionSource resolves the flat permission set granted to a role. The
// snapshot taken here is embedded into the access token; role edits become
// visible to a user only at their next login or refresh.
type PermissionSource interface {
	RolePermissions(ctx context.Context, roleID int64) ([]string, error)
}

// Service wraps authentication business rules.
type Service struct {
	repo        Repository
	permissions PermissionSource
	tokens      *token.Manager
}

// NewService constructs a new Service.
func NewService(repo Repository, permissions PermissionSource, tokens *token.Manager) *Service {
	return &Service{repo: repo, permissions: permissions, tokens: tokens}
}

// Login validates email/password credentials and mints a token pair carrying
// the role's current permission snapshot. Inactive accounts and unknown
// emails fail identically to avoid account probing.
func (s *Service) Login(ctx context.Context, email, password string) (*token.Pair, *User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, shared.ErrInvalidCredentials
	}

	perms, err := s.permissions.RolePermissions(ctx, user.RoleID)
	if err != nil {
		return nil, nil, fmt.Errorf("auth: resolve permissions: %w", err)
	}
	pair, err := s.tokens.IssuePair(user.ID, user.RoleID, perms)
	if err != nil {
		return nil, nil, err
	}
	return pair, user, nil
}

// Refresh verifies a refresh token and mints a new access token without
// re-authenticating the password. Permissions are re-read from storage, so
// this is the moment role edits take effect.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	userID, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return "", err
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return "", token.ErrInvalid
	}
	if !user.IsActive {
		return "", token.ErrInvalid
	}
	perms, err := s.permissions.RolePermissions(ctx, user.RoleID)
	if err != nil {
		return "", fmt.Errorf("auth: resolve permissions: %w", err)
	}
	return s.tokens.IssueAccess(user.ID, user.RoleID, perms)
}
