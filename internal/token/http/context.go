package http

import (
	"context"

	tokenDomain "github.com/allisson/tokengate/internal/token/domain"
)

// principalKey is a context key type for storing resolved principals.
type principalKey struct{}

// WithPrincipal stores a resolved principal in the context.
// This is typically called by RequireLevel after successful token resolution.
func WithPrincipal(ctx context.Context, principal *tokenDomain.PrincipalView) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

// GetPrincipal retrieves the resolved principal from the context.
// Returns (principal, true) if present, or (nil, false) if not set.
func GetPrincipal(ctx context.Context) (*tokenDomain.PrincipalView, bool) {
	principal, ok := ctx.Value(principalKey{}).(*tokenDomain.PrincipalView)
	return principal, ok
}
