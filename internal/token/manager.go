// Package token mints and verifies the bearer credentials used by the API:
// short-lived access tokens carrying a permission snapshot and long-lived
// refresh tokens carrying only the user id. Tokens are stateless HS256 JWTs;
// nothing is persisted server-side.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// DefaultAccessTTL applies when no access lifetime is configured.
	DefaultAccessTTL = 7 * 24 * time.Hour
	// DefaultRefreshTTL applies when no refresh lifetime is configured.
	DefaultRefreshTTL = 30 * 24 * time.Hour
)

// Config holds the signing material and lifetimes for the manager. It is
// injected explicitly so tests can run with short-lived secrets instead of
// reaching for process-wide state.
type Config struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Manager issues and verifies access and refresh tokens.
type Manager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewManager constructs a Manager, applying default lifetimes where the
// configuration leaves them zero.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.Secret == "" {
		return nil, errors.New("token: signing secret required")
	}
	if cfg.AccessTTL == 0 {
		cfg.AccessTTL = DefaultAccessTTL
	}
	if cfg.RefreshTTL == 0 {
		cfg.RefreshTTL = DefaultRefreshTTL
	}
	if cfg.AccessTTL < 0 || cfg.RefreshTTL < 0 {
		return nil, errors.New("token: lifetimes must be positive")
	}
	return &Manager{
		secret:     []byte(cfg.Secret),
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
	}, nil
}

// IssueAccess signs an access token for the given identity. Temporal claims
// are filled in here; the caller supplies only user, role and permissions.
func (m *Manager) IssueAccess(userID, roleID int64, permissions []string) (string, error) {
	now := time.Now()
	return m.sign(&jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTTL)),
		},
		UserID:      userID,
		RoleID:      roleID,
		Permissions: permissions,
	})
}

// IssueRefresh signs a refresh token carrying only the user id and the
// refresh discriminator. Permissions are deliberately absent: a stolen
// refresh token must not leak the permission snapshot.
func (m *Manager) IssueRefresh(userID int64) (string, error) {
	now := time.Now()
	return m.sign(&jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.refreshTTL)),
		},
		UserID:    userID,
		TokenType: refreshTokenType,
	})
}

// IssuePair mints an access/refresh pair for a freshly authenticated user.
func (m *Manager) IssuePair(userID, roleID int64, permissions []string) (*Pair, error) {
	access, err := m.IssueAccess(userID, roleID, permissions)
	if err != nil {
		return nil, fmt.Errorf("token: issue access: %w", err)
	}
	refresh, err := m.IssueRefresh(userID)
	if err != nil {
		return nil, fmt.Errorf("token: issue refresh: %w", err)
	}
	return &Pair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(m.accessTTL.Seconds()),
	}, nil
}

// VerifyAccess checks signature and expiry and returns the decoded identity.
// A refresh-tagged token is rejected with ErrWrongType: the discriminator is
// the only thing preventing a refresh credential from impersonating an
// access credential.
func (m *Manager) VerifyAccess(tokenString string) (*Claims, error) {
	parsed, err := m.parse(tokenString)
	if err != nil {
		return nil, err
	}
	if parsed.TokenType == refreshTokenType {
		return nil, ErrWrongType
	}
	return parsed.toClaims(), nil
}

// VerifyRefresh checks signature and expiry and returns the user id. Tokens
// without the refresh discriminator fail with ErrWrongType on every call;
// accepting an access token here would grant unlimited refreshes.
func (m *Manager) VerifyRefresh(tokenString string) (int64, error) {
	parsed, err := m.parse(tokenString)
	if err != nil {
		return 0, err
	}
	if parsed.TokenType != refreshTokenType {
		return 0, ErrWrongType
	}
	return parsed.UserID, nil
}

func (m *Manager) sign(claims *jwtClaims) (string, error) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

// parse validates signature and expiry in one call; partial validity does
// not exist. Expired and malformed tokens surface as distinct errors.
func (m *Manager) parse(tokenString string) (*jwtClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &jwtClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalid
	}
	claims, ok := parsed.Claims.(*jwtClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalid
	}
	return claims, nil
}
