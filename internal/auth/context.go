// ABOUTME: Request-scoped identity propagation for authenticated admin requests
// ABOUTME: Provides WithIdentity/IdentityFromContext used by the gate and guard

package auth

import (
	"context"
)

// identityContextKey is the key type for storing an Identity in context.Context.
type identityContextKey struct{}

// WithIdentity returns a new context with the verified identity attached.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext retrieves the verified identity, returning nil if not present.
func IdentityFromContext(ctx context.Context) *Identity {
	id, ok := ctx.Value(identityContextKey{}).(*Identity)
	if !ok {
		return nil
	}
	return id
}

// MustIdentityFromContext retrieves the identity, panicking if not present.
// Only call it from handlers registered behind the Gate or Guard.
func MustIdentityFromContext(ctx context.Context) *Identity {
	id := IdentityFromContext(ctx)
	if id == nil {
		panic("auth: Identity not found in context")
	}
	return id
}
