package shared

import (
	"context"

	"github.com/lectern-lms/lectern/internal/token"
)

type identityContextKey struct{}

// ContextWithIdentity stores the verified identity claims in context. The
// claims live only for the duration of the request carrying them.
func ContextWithIdentity(ctx context.Context, claims *token.Claims) context.Context {
	return context.WithValue(ctx, identityContextKey{}, claims)
}

// IdentityFromContext extracts the verified identity from context, or nil
// when the request was not authenticated.
func IdentityFromContext(ctx context.Context) *token.Claims {
	claims, _ := ctx.Value(identityContextKey{}).(*token.Claims)
	return claims
}
