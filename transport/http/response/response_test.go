package response_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"etm/shared/constant"
	"etm/shared/failure"
	"etm/transport/http/response"
)

func decode(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))

	return body
}

func TestWithError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
		wantError   any
	}{
		{
			name:        "not found",
			err:         failure.NotFound("trip t1 not found"),
			wantStatus:  http.StatusNotFound,
			wantMessage: "trip t1 not found",
			wantError:   "Not Found",
		},
		{
			name:        "wrapped conflict",
			err:         fmt.Errorf("failed to create booking: %w", failure.Conflict("employee is already booked on this trip")),
			wantStatus:  http.StatusConflict,
			wantMessage: "failed to create booking: employee is already booked on this trip",
			wantError:   "Conflict",
		},
		{
			name:        "validation carries fields",
			err:         failure.Validation(constant.ResponseErrorValidation, map[string]string{"email": "email must be a valid email address"}),
			wantStatus:  http.StatusBadRequest,
			wantMessage: constant.ResponseErrorValidation,
			wantError:   map[string]any{"email": "email must be a valid email address"},
		},
		{
			name:        "forbidden",
			err:         failure.ForbiddenError,
			wantStatus:  http.StatusForbidden,
			wantMessage: "You don't have the required permissions",
			wantError:   "Forbidden",
		},
		{
			name:        "unexpected error is hidden",
			err:         errors.New("pq: connection refused"),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: constant.ResponseErrorInternal,
			wantError:   "Internal Server Error",
		},
		{
			name:        "service unavailable keeps its message",
			err:         failure.ServiceUnavailable("avatar storage is not configured"),
			wantStatus:  http.StatusServiceUnavailable,
			wantMessage: "avatar storage is not configured",
			wantError:   "Service Unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()

			response.WithError(recorder, tt.err)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.Equal(t, constant.ContentTypeJSON, recorder.Header().Get(constant.RequestHeaderContentType))

			body := decode(t, recorder)
			assert.Equal(t, tt.wantMessage, body["message"])
			assert.InDelta(t, tt.wantStatus, body["status"], 0)
			assert.Equal(t, tt.wantError, body["error"])
			assert.NotEmpty(t, body["timestamp"])
		})
	}
}

func TestWithJSON(t *testing.T) {
	recorder := httptest.NewRecorder()

	response.WithJSON(recorder, http.StatusCreated, map[string]string{"id": "t1"})

	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.JSONEq(t, `{"data":{"id":"t1"}}`, recorder.Body.String())
}

func TestWithMessage(t *testing.T) {
	recorder := httptest.NewRecorder()

	response.WithMessage(recorder, http.StatusOK, "Booking deleted successfully")

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"message":"Booking deleted successfully"}`, recorder.Body.String())
}

func TestDefaultFailures(t *testing.T) {
	tests := []struct {
		name        string
		write       func(http.ResponseWriter)
		wantStatus  int
		wantMessage string
	}{
		{name: "rate limited", write: response.WithRequestLimitExceeded, wantStatus: http.StatusTooManyRequests, wantMessage: constant.ResponseErrorRequestLimitExceeded},
		{name: "shutting down", write: response.WithPreparingShutdown, wantStatus: http.StatusServiceUnavailable, wantMessage: constant.ResponseErrorPrepareShutdown},
		{name: "unhealthy", write: response.WithUnhealthy, wantStatus: http.StatusServiceUnavailable, wantMessage: constant.ResponseErrorUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()

			tt.write(recorder)

			assert.Equal(t, tt.wantStatus, recorder.Code)

			body := decode(t, recorder)
			assert.Equal(t, tt.wantMessage, body["message"])
			assert.Equal(t, http.StatusText(tt.wantStatus), body["error"])
		})
	}
}
