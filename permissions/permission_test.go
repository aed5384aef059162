package permissions_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"etm/permissions"
)

func TestGet_LoadsEmbeddedEndpoints(t *testing.T) {
	data := permissions.Get()

	require.NotNil(t, data)
	assert.False(t, data.Skip)
	assert.NotEmpty(t, data.Endpoints)

	for _, endpoint := range data.Endpoints {
		assert.NotEmpty(t, endpoint.Path)
		assert.NotEmpty(t, endpoint.Method)
	}
}

func TestFindPermissions(t *testing.T) {
	data := permissions.Get()
	require.NotNil(t, data)

	register, ok := data.FindPermissions("/api/auth/register", "POST")
	assert.True(t, ok)
	assert.Equal(t, []string{"ADMIN"}, register.Roles)

	login, ok := data.FindPermissions("/api/auth/login", "POST")
	assert.True(t, ok)
	assert.True(t, login.Skip)

	unknown, ok := data.FindPermissions("/api/unknown", "GET")
	assert.False(t, ok)
	assert.Equal(t, permissions.Permission{}, unknown)
}

func TestFindPermissions_IgnoresTrailingSlash(t *testing.T) {
	data := permissions.Get()
	require.NotNil(t, data)

	for _, path := range []string{"/api/trips", "/api/trips/"} {
		permission, ok := data.FindPermissions(path, "POST")
		assert.True(t, ok, path)
		assert.Equal(t, []string{"ADMIN"}, permission.Roles, path)
	}
}

func TestFindPermissions_CollectionRoutesNeedAdmin(t *testing.T) {
	data := permissions.Get()
	require.NotNil(t, data)

	routes := []struct {
		method string
		path   string
	}{
		{method: "POST", path: "/api/employees"},
		{method: "POST", path: "/api/trips"},
		{method: "POST", path: "/api/bookings"},
		{method: "GET", path: "/api/accounts"},
	}

	for _, route := range routes {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			permission, ok := data.FindPermissions(route.path, route.method)
			require.True(t, ok)
			assert.False(t, permission.Allows([]string{"USER"}))
			assert.True(t, permission.Allows([]string{"ADMIN"}))
		})
	}
}

func TestPermission_Allows(t *testing.T) {
	adminOnly := permissions.Permission{Roles: []string{"ADMIN"}}
	userOnly := permissions.Permission{Roles: []string{"USER"}}

	tests := []struct {
		name       string
		permission permissions.Permission
		roles      []string
		expected   bool
	}{
		{name: "admin on admin route", permission: adminOnly, roles: []string{"ADMIN"}, expected: true},
		{name: "user on admin route", permission: adminOnly, roles: []string{"USER"}, expected: false},
		{name: "admin implies user", permission: userOnly, roles: []string{"ADMIN"}, expected: true},
		{name: "seller on user route", permission: userOnly, roles: []string{"SELLER"}, expected: false},
		{name: "no roles on open route", permission: permissions.Permission{}, roles: nil, expected: true},
		{name: "no roles on admin route", permission: adminOnly, roles: nil, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.permission.Allows(tt.roles))
		})
	}
}

func TestExpand(t *testing.T) {
	assert.Equal(t, []string{"ADMIN", "USER"}, permissions.Expand([]string{"ADMIN"}))
	assert.Equal(t, []string{"ADMIN", "USER"}, permissions.Expand([]string{"USER", "ADMIN"}))
	assert.Equal(t, []string{"BUYER"}, permissions.Expand([]string{"BUYER"}))
}
