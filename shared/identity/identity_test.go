package identity_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"etm/shared/identity"
)

func TestPrincipalContext(t *testing.T) {
	_, ok := identity.FromContext(context.Background())
	assert.False(t, ok)

	principal := identity.Principal{AccountID: "a1", Username: "admin", Roles: []string{"ADMIN"}}
	ctx := identity.WithPrincipal(context.Background(), principal)

	got, ok := identity.FromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, principal, got)
	assert.True(t, got.HasRole("ADMIN"))
	assert.False(t, got.HasRole("USER"))
	assert.Equal(t, "admin", got.Actor())
}

func TestPrincipal_Anonymous(t *testing.T) {
	ctx := identity.WithPrincipal(context.Background(), identity.Principal{})

	_, ok := identity.FromContext(ctx)
	assert.False(t, ok)
	assert.Equal(t, "system", identity.Principal{}.Actor())
}
