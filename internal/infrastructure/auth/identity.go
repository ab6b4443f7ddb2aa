package auth

import (
	"context"

	"github.com/google/uuid"
)

// Identity is the authenticated caller of a request
type Identity struct {
	TenantID uuid.UUID
	UserID   uuid.UUID
	Username string
}

type identityKey struct{}

// WithIdentity stores id in ctx
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity stored in ctx
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
