package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	otelMocks "etm/infras/otel/mocks"
	"etm/internal/handlers/health"
)

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]health.Check
		wantStatus int
		wantReport health.Status
	}{
		{
			name: "all components healthy",
			checks: map[string]health.Check{
				"postgres": func(context.Context) error { return nil },
				"redis":    health.Redis(nil),
			},
			wantStatus: http.StatusOK,
			wantReport: health.StatusHealthy,
		},
		{
			name: "one component down",
			checks: map[string]health.Check{
				"postgres": func(context.Context) error { return errors.New("connection refused") },
				"redis":    health.Redis(nil),
			},
			wantStatus: http.StatusServiceUnavailable,
			wantReport: health.StatusUnhealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := health.New(tt.checks, otelMocks.NewOtel())

			router := chi.NewRouter()
			handler.Router(router)

			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantStatus, recorder.Code)

			var body struct {
				Data health.Report `json:"data"`
			}
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
			assert.Equal(t, tt.wantReport, body.Data.Status)
			assert.Len(t, body.Data.Components, len(tt.checks))
		})
	}
}

func TestLive(t *testing.T) {
	handler := health.New(nil, otelMocks.NewOtel())

	recorder := httptest.NewRecorder()
	handler.Live(recorder, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
}
