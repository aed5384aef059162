package health

import (
	"context"
	"net/http"
	"time"

	"etm/infras/otel"
	"etm/infras/postgres"
	"etm/shared/constant"
	"etm/transport/http/response"

	"github.com/go-chi/chi/v5"
	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const checkTimeout = 2 * time.Second

type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
)

// Check reports whether a dependency is reachable.
type Check func(ctx context.Context) error

type Report struct {
	Status     Status           `json:"status"`
	CheckedAt  time.Time        `json:"checked_at"`
	Components map[string]Entry `json:"components"`
}

type Entry struct {
	Status     Status `json:"status"`
	Message    string `json:"message,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

type Handler struct {
	checks map[string]Check
	otel   otel.Otel
}

func New(checks map[string]Check, otel otel.Otel) Handler {
	return Handler{
		checks: checks,
		otel:   otel,
	}
}

// Postgres pings both pools.
func Postgres(conn *postgres.Connection) Check {
	return conn.Ping
}

// Redis pings the cache. A nil client means caching is disabled and always passes.
func Redis(client *goRedis.Client) Check {
	return func(ctx context.Context) error {
		if client == nil {
			return nil
		}

		return client.Ping(ctx).Err()
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/health", handler.Health)
	router.Get("/health/live", handler.Live)
}

// Live answers as long as the process serves requests.
// @Summary Liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} response.Message
// @Router /health/live [get]
func (handler *Handler) Live(w http.ResponseWriter, _ *http.Request) {
	response.WithMessage(w, http.StatusOK, "OK")
}

// Health checks every dependency.
// @Summary Readiness probe
// @Tags Health
// @Produce json
// @Success 200 {object} response.Data[Report]
// @Failure 503 {object} response.Data[Report]
// @Router /health [get]
func (handler *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Health")
	defer scope.End()

	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	report := Report{
		Status:     StatusHealthy,
		Components: make(map[string]Entry, len(handler.checks)),
	}

	for name, check := range handler.checks {
		start := time.Now()
		entry := Entry{Status: StatusHealthy}

		if err := check(ctx); err != nil {
			log.Warn().Err(err).Str("component", name).Msg("health check failed")
			scope.TraceError(err)

			entry.Status = StatusUnhealthy
			entry.Message = err.Error()
			report.Status = StatusUnhealthy
		}

		entry.DurationMs = time.Since(start).Milliseconds()
		report.Components[name] = entry
	}

	report.CheckedAt = time.Now()

	code := http.StatusOK
	if report.Status == StatusUnhealthy {
		code = http.StatusServiceUnavailable
	}

	response.WithJSON(w, code, report)
}
