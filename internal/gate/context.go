package gate

import (
	"context"

	"github.com/wolfeidau/omnigate/internal/models"
)

// Identity is the request-scoped authorization result attached by the gate.
// It is owned by the single in-flight request and discarded at request end.
type Identity struct {
	UserID      string
	TenantID    string
	Role        models.Role
	UsedDefault bool
}

type contextKey int

const (
	identityContextKey contextKey = iota
)

// IdentityFromContext extracts the authorized identity from the request
// context. The second return is false for allowlisted requests, which carry
// no identity.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(*Identity)
	return identity, ok
}

func withIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}
