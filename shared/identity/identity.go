package identity

import (
	"context"
	"slices"

	"etm/shared/constant"
)

// Principal is the authenticated caller of a request.
type Principal struct {
	AccountID string
	Username  string
	Roles     []string
}

// HasRole reports whether the principal holds role directly.
func (p Principal) HasRole(role string) bool {
	return slices.Contains(p.Roles, role)
}

// Authenticated is false for the zero Principal.
func (p Principal) Authenticated() bool {
	return p.Username != ""
}

// Actor returns the name recorded in audit columns.
func (p Principal) Actor() string {
	if p.Username == "" {
		return constant.ContextSystem
	}

	return p.Username
}

func WithPrincipal(ctx context.Context, principal Principal) context.Context {
	return context.WithValue(ctx, constant.ContextKeyPrincipal, principal)
}

func FromContext(ctx context.Context) (Principal, bool) {
	principal, ok := ctx.Value(constant.ContextKeyPrincipal).(Principal)

	return principal, ok && principal.Authenticated()
}
