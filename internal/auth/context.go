package auth

import "context"

type identityContextKey struct{}

// ContextWithIdentity attaches the resolved identity to the context.
func ContextWithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, &identity)
}

// IdentityFromContext extracts the resolved identity from the context.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}
	v, ok := ctx.Value(identityContextKey{}).(*Identity)
	if !ok || v == nil {
		return Identity{}, false
	}
	return *v, true
}
