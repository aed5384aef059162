package middleware_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"etm/config"
	"etm/infras/jwt"
	otelMocks "etm/infras/otel/mocks"
	"etm/permissions"
	"etm/shared/identity"
	"etm/transport/http/middleware"
	"etm/transport/http/middleware/mocks"
)

func newAuthRouter(t *testing.T) http.Handler {
	t.Helper()

	ctrl := gomock.NewController(t)
	resolver := mocks.NewMockResolver(ctrl)

	resolver.EXPECT().Resolve(gomock.Any(), "admin-token").
		Return(identity.Principal{AccountID: "a1", Username: "admin", Roles: []string{"ADMIN"}}, nil).AnyTimes()
	resolver.EXPECT().Resolve(gomock.Any(), "user-token").
		Return(identity.Principal{AccountID: "a2", Username: "alice", Roles: []string{"USER"}}, nil).AnyTimes()
	resolver.EXPECT().Resolve(gomock.Any(), "expired-token").
		Return(identity.Principal{}, jwt.ErrExpiredToken).AnyTimes()

	cfg := config.Defaults()
	mw := middleware.NewAuthRoleMiddleware(resolver, otelMocks.NewOtel(), permissions.Get(), &cfg)

	echo := func(w http.ResponseWriter, r *http.Request) {
		principal, _ := identity.FromContext(r.Context())
		_ = json.NewEncoder(w).Encode(map[string]string{"username": principal.Username})
	}

	router := chi.NewRouter()
	router.Use(mw.Authenticate, mw.Authorize)
	router.Get("/health", echo)
	router.Route("/api", func(api chi.Router) {
		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/login", echo)
			auth.Post("/register", echo)
			auth.Get("/me", echo)
			auth.Put("/password", echo)
		})
		api.Route("/trips", func(trips chi.Router) {
			trips.Get("/", echo)
			trips.Post("/", echo)
			trips.Get("/{id}", echo)
		})
		api.Get("/reports", echo)
	})

	return router
}

func TestAuthenticateAndAuthorize(t *testing.T) {
	tests := []struct {
		name         string
		method       string
		path         string
		header       string
		wantStatus   int
		wantUsername string
	}{
		{name: "login is open", method: http.MethodPost, path: "/api/auth/login", wantStatus: http.StatusOK},
		{name: "health is public", method: http.MethodGet, path: "/health", wantStatus: http.StatusOK},
		{name: "register needs a principal under a public prefix", method: http.MethodPost, path: "/api/auth/register", wantStatus: http.StatusUnauthorized},
		{name: "register rejects user role", method: http.MethodPost, path: "/api/auth/register", header: "Bearer user-token", wantStatus: http.StatusForbidden},
		{name: "register accepts admin", method: http.MethodPost, path: "/api/auth/register", header: "Bearer admin-token", wantStatus: http.StatusOK, wantUsername: "admin"},
		{name: "admin implies user on me", method: http.MethodGet, path: "/api/auth/me", header: "Bearer admin-token", wantStatus: http.StatusOK, wantUsername: "admin"},
		{name: "password change needs a principal", method: http.MethodPut, path: "/api/auth/password", wantStatus: http.StatusUnauthorized},
		{name: "trip listing needs a principal", method: http.MethodGet, path: "/api/trips", wantStatus: http.StatusUnauthorized},
		{name: "trip listing with user", method: http.MethodGet, path: "/api/trips", header: "Bearer user-token", wantStatus: http.StatusOK, wantUsername: "alice"},
		{name: "trip by id with user", method: http.MethodGet, path: "/api/trips/t1", header: "Bearer user-token", wantStatus: http.StatusOK, wantUsername: "alice"},
		{name: "trip creation rejects user", method: http.MethodPost, path: "/api/trips", header: "Bearer user-token", wantStatus: http.StatusForbidden},
		{name: "trip creation with trailing slash rejects user", method: http.MethodPost, path: "/api/trips/", header: "Bearer user-token", wantStatus: http.StatusForbidden},
		{name: "trip creation accepts admin", method: http.MethodPost, path: "/api/trips", header: "Bearer admin-token", wantStatus: http.StatusOK, wantUsername: "admin"},
		{name: "unmapped route rejects admin", method: http.MethodGet, path: "/api/reports", header: "Bearer admin-token", wantStatus: http.StatusForbidden},
		{name: "unmapped route rejects anonymous", method: http.MethodGet, path: "/api/reports", wantStatus: http.StatusForbidden},
		{name: "expired token is unauthenticated", method: http.MethodGet, path: "/api/trips", header: "Bearer expired-token", wantStatus: http.StatusUnauthorized},
		{name: "malformed header is unauthenticated", method: http.MethodGet, path: "/api/trips", header: "Token admin-token", wantStatus: http.StatusUnauthorized},
		{name: "public route ignores bad token", method: http.MethodPost, path: "/api/auth/login", header: "Bearer expired-token", wantStatus: http.StatusOK},
	}

	router := newAuthRouter(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, req)

			assert.Equal(t, tt.wantStatus, recorder.Code)

			if tt.wantUsername != "" {
				var body map[string]string
				assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
				assert.Equal(t, tt.wantUsername, body["username"])
			}
		})
	}
}

func TestAuthorize_NoPermissionsDenies(t *testing.T) {
	cfg := config.Defaults()
	mw := middleware.NewAuthRoleMiddleware(nil, otelMocks.NewOtel(), nil, &cfg)

	handler := mw.Authorize(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusForbidden, recorder.Code)
}

func TestAuthenticate_ResolverErrorPassesThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	resolver := mocks.NewMockResolver(ctrl)
	resolver.EXPECT().Resolve(gomock.Any(), "bad").Return(identity.Principal{}, errors.New("account disabled"))

	cfg := config.Defaults()
	mw := middleware.NewAuthRoleMiddleware(resolver, otelMocks.NewOtel(), permissions.Get(), &cfg)

	called := false
	handler := mw.Authenticate(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		_, ok := identity.FromContext(r.Context())
		assert.False(t, ok)

		called = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/trips", nil)
	req.Header.Set("Authorization", "Bearer bad")

	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.True(t, called)
}
