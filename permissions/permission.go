package permissions

import (
	_ "embed"
	"encoding/json"
	"slices"
	"strings"

	"etm/shared/constant"

	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var permissionsData []byte

// implied lists the roles a role grants on top of itself.
var implied = map[string][]string{
	constant.RoleAdmin: {constant.RoleUser},
}

type Permission struct {
	Roles         []string `json:"roles"`
	Path          string   `json:"path"`
	Method        string   `json:"method"`
	Skip          bool     `json:"skip"`
	Authenticated bool     `json:"authenticated"`
}

// RequiresPrincipal reports whether the endpoint needs an authenticated caller.
func (p Permission) RequiresPrincipal() bool {
	return len(p.Roles) > 0 || p.Authenticated
}

// Allows reports whether any of roles, or a role they imply, is required by the endpoint.
// An endpoint without roles allows everyone.
func (p Permission) Allows(roles []string) bool {
	if len(p.Roles) == 0 {
		return true
	}

	return slices.ContainsFunc(Expand(roles), func(role string) bool {
		return slices.Contains(p.Roles, role)
	})
}

// Expand adds the implied roles to roles.
func Expand(roles []string) []string {
	expanded := slices.Clone(roles)

	for _, role := range roles {
		expanded = append(expanded, implied[role]...)
	}

	slices.Sort(expanded)

	return slices.Compact(expanded)
}

type PermissionData struct {
	Endpoints []Permission `json:"endpoints"`
	Skip      bool         `json:"skip"`
}

// FindPermissions returns the endpoint registered for the route pattern and method.
// A trailing slash is ignored on both sides. ok is false for an unmapped route.
func (r *PermissionData) FindPermissions(path, method string) (Permission, bool) {
	path = normalize(path)

	idx := slices.IndexFunc(r.Endpoints, func(rp Permission) bool {
		return normalize(rp.Path) == path && rp.Method == method
	})

	if idx == -1 {
		return Permission{}, false
	}

	return r.Endpoints[idx], true
}

func normalize(path string) string {
	if len(path) > 1 {
		return strings.TrimSuffix(path, "/")
	}

	return path
}

func Get() *PermissionData {
	var permissions PermissionData

	err := json.Unmarshal(permissionsData, &permissions)
	if err != nil {
		log.Err(err).Msg("Failed to decode embedded permissions")

		return nil
	}

	log.Info().Int("endpoints", len(permissions.Endpoints)).Msg("Successfully loaded embedded permissions")

	return &permissions
}
