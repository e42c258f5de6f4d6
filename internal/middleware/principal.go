package middleware

import (
	"context"
	"slices"
)

// Principal is the caller identity derived from the gateway-issued token
type Principal struct {
	Subject     string
	Authorities []string
}

func (p *Principal) HasAuthority(authority string) bool {
	return p != nil && slices.Contains(p.Authorities, authority)
}

type ctxKey struct{}

// WithPrincipal installs p in ctx. A nil p clears any identity set earlier.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// PrincipalFrom returns the authenticated principal, if any
func PrincipalFrom(ctx context.Context) (*Principal, bool) {
	p, _ := ctx.Value(ctxKey{}).(*Principal)
	return p, p != nil
}
