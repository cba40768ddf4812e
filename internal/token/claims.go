package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const refreshTokenType = "refresh"

// Claims is the identity carried inside a verified access token: the user,
// their role, and the flat permission snapshot resolved at issuance time.
// The snapshot is not re-read from storage per request, so a role edit only
// takes effect for a user at their next refresh.
type Claims struct {
	UserID      int64
	RoleID      int64
	Permissions []string
	IssuedAt    time.Time
	ExpiresAt   time.Time
}

// jwtClaims is the wire representation signed into the JWT.
type jwtClaims struct {
	jwt.RegisteredClaims
	UserID      int64    `json:"user_id"`
	RoleID      int64    `json:"role_id,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
	TokenType   string   `json:"token_type,omitempty"`
}

func (j *jwtClaims) toClaims() *Claims {
	claims := &Claims{
		UserID:      j.UserID,
		RoleID:      j.RoleID,
		Permissions: j.Permissions,
	}
	if j.IssuedAt != nil {
		claims.IssuedAt = j.IssuedAt.Time
	}
	if j.ExpiresAt != nil {
		claims.ExpiresAt = j.ExpiresAt.Time
	}
	return claims
}

// Pair bundles the two credentials minted at login.
type Pair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}
