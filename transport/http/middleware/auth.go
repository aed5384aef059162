package middleware

//go:generate go run go.uber.org/mock/mockgen -source=./auth.go -destination=./mocks/auth_mock.go -package=mocks

import (
	"context"
	"net/http"

	"etm/config"
	"etm/infras/jwt"
	"etm/infras/otel"
	"etm/permissions"
	"etm/shared/constant"
	"etm/shared/failure"
	"etm/shared/identity"
	"etm/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/gobwas/glob"
	"github.com/rs/zerolog/log"
)

// Resolver turns a bearer token into the principal it was issued to.
type Resolver interface {
	Resolve(ctx context.Context, token string) (identity.Principal, error)
}

// AuthRole authenticates callers and enforces the role requirement of each route.
type AuthRole interface {
	// Authenticate attaches the caller's principal when the request carries a valid
	// bearer token. It never rejects a request.
	Authenticate(next http.Handler) http.Handler
	// Authorize answers 401 when the route needs a principal and there is none, and
	// 403 when the principal lacks every role the route accepts. Routes absent from the
	// permission table answer 403 unless they match a public path.
	Authorize(next http.Handler) http.Handler
}

type authRoleImpl struct {
	resolver    Resolver
	otel        otel.Otel
	permission  *permissions.PermissionData
	publicPaths []glob.Glob
}

func NewAuthRoleMiddleware(resolver Resolver, otel otel.Otel, permissions *permissions.PermissionData, cfg *config.Config) AuthRole {
	publicPaths := make([]glob.Glob, 0, len(cfg.Security.PublicPaths))

	for _, pattern := range cfg.Security.PublicPaths {
		compiled, err := glob.Compile(pattern, '/')
		if err != nil {
			log.Error().Err(err).Str("pattern", pattern).Msg("invalid public path pattern, ignoring")

			continue
		}

		publicPaths = append(publicPaths, compiled)
	}

	return &authRoleImpl{
		resolver:    resolver,
		otel:        otel,
		permission:  permissions,
		publicPaths: publicPaths,
	}
}

func (m *authRoleImpl) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		header := request.Header.Get(constant.RequestHeaderAuthorization)
		if header == "" {
			next.ServeHTTP(writer, request)

			return
		}

		ctx, scope := m.otel.NewScope(request.Context(), constant.OtelMiddlewareScopeName, "auth.authenticate")

		token, err := jwt.ExtractTokenFromHeader(header)
		if err != nil {
			log.Warn().Err(err).Str("path", request.URL.Path).Msg("ignoring malformed authorization header")
			scope.End()
			next.ServeHTTP(writer, request)

			return
		}

		principal, err := m.resolver.Resolve(ctx, token)
		if err != nil {
			log.Warn().Err(err).Str("path", request.URL.Path).Msg("bearer token rejected")
			scope.TraceError(err)
			scope.End()
			next.ServeHTTP(writer, request)

			return
		}

		scope.SetAttributes(map[string]any{
			"auth.username": principal.Username,
			"auth.roles":    principal.Roles,
		})
		scope.End()

		next.ServeHTTP(writer, request.WithContext(identity.WithPrincipal(request.Context(), principal)))
	})
}

func (m *authRoleImpl) Authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()
		_, scope := m.otel.NewScope(ctx, constant.OtelMiddlewareScopeName, "auth.authorize")

		if m.permission == nil {
			scope.End()
			response.WithError(writer, failure.ForbiddenError)

			return
		}

		if m.permission.Skip {
			scope.End()
			next.ServeHTTP(writer, request)

			return
		}

		path := request.URL.Path
		if rctx := chi.RouteContext(ctx); rctx != nil && rctx.Routes != nil {
			path = rctx.Routes.Find(chi.NewRouteContext(), request.Method, request.URL.Path)
		}

		permission, mapped := m.permission.FindPermissions(path, request.Method)

		scope.SetAttributes(map[string]any{
			"http.route":  path,
			"http.method": request.Method,
		})

		if permission.Skip || (!mapped && m.isPublic(request.URL.Path)) {
			scope.End()
			next.ServeHTTP(writer, request)

			return
		}

		// Routes missing from the permission table are closed.
		if !mapped {
			err := failure.ForbiddenError
			scope.TraceError(err)
			scope.SetAttributes(map[string]any{"reason": "route_not_mapped"})
			scope.End()
			log.Warn().Str("method", request.Method).Str("path", request.URL.Path).Msg("request to unmapped route rejected")
			response.WithError(writer, err)

			return
		}

		principal, ok := identity.FromContext(ctx)
		if !ok {
			err := failure.UnauthenticatedError
			scope.TraceError(err)
			scope.End()
			response.WithError(writer, err)

			return
		}

		if !permission.Allows(principal.Roles) {
			err := failure.ForbiddenError
			scope.TraceError(err)
			scope.SetAttributes(map[string]any{
				"user_roles":    principal.Roles,
				"allowed_roles": permission.Roles,
				"reason":        "role_not_allowed",
			})
			scope.End()
			response.WithError(writer, err)

			return
		}

		scope.End()
		next.ServeHTTP(writer, request)
	})
}

func (m *authRoleImpl) isPublic(path string) bool {
	for _, pattern := range m.publicPaths {
		if pattern.Match(path) {
			return true
		}
	}

	return false
}
