package authcore

import "context"

type identityContextKey struct{}

// WithIdentity attaches an authenticated identity to ctx. The middleware
// package uses it after verifying a request. Only the sanitized view is
// carried; handlers never see server-only fields.
func WithIdentity(ctx context.Context, identity *SanitizedIdentity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, identity)
}

// IdentityFromContext returns the authenticated identity attached by
// WithIdentity, if any.
func IdentityFromContext(ctx context.Context) (*SanitizedIdentity, bool) {
	if ctx == nil {
		return nil, false
	}

	identity, ok := ctx.Value(identityContextKey{}).(*SanitizedIdentity)
	if !ok || identity == nil {
		return nil, false
	}
	return identity, true
}
