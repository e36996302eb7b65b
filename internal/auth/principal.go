package auth

import "context"

// Principal is the current visitor as seen by the core. The zero value is an
// anonymous visitor.
type Principal struct {
	UserID string
	Email  string
}

func (p Principal) Authenticated() bool { return p.UserID != "" }

type ctxKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

func FromContext(ctx context.Context) Principal {
	p, _ := ctx.Value(ctxKey{}).(Principal)
	return p
}
