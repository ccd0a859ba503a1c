package auth

import (
	"context"

	"assettrack/internal/repo"
)

type ctxKey string

const (
	claimsKey ctxKey = "authClaims"
	scopeKey  ctxKey = "requestScope"
)

// Claims is the verified identity attached to a request. Role and
// company come from the profile row at gate time, not from the token,
// so approval takes effect on the next request.
type Claims struct {
	Subject string
	JWTID   string
}

func WithClaims(ctx context.Context, c Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

func FromContext(ctx context.Context) Claims {
	if v, ok := ctx.Value(claimsKey).(Claims); ok {
		return v
	}
	return Claims{}
}

func Subject(ctx context.Context) string {
	return FromContext(ctx).Subject
}

// WithScope attaches the authorization scope resolved by the gate.
func WithScope(ctx context.Context, s repo.Scope) context.Context {
	return context.WithValue(ctx, scopeKey, s)
}

func ScopeFrom(ctx context.Context) repo.Scope {
	if v, ok := ctx.Value(scopeKey).(repo.Scope); ok {
		return v
	}
	return repo.Scope{}
}
