package di

import (
	"context"

	"etm/config"
	"etm/infras/kafka"
	"etm/infras/otel"
	"etm/infras/postgres"
	authService "etm/internal/domains/auth/service"
	bookingService "etm/internal/domains/booking/service"
	employeeService "etm/internal/domains/employee/service"
	tripService "etm/internal/domains/trip/service"
	healthHandler "etm/internal/handlers/health"
	"etm/transport/http"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// App is the API process.
type App struct {
	Config *config.Config
	HTTP   *http.HTTP
	Auth   authService.Auth
	DB     *postgres.Connection
	Kafka  kafka.Client
	Otel   otel.Otel
}

// Worker is the booking event consumer process.
type Worker struct {
	Config *config.Config
	Kafka  kafka.Client
	Otel   otel.Otel
}

// Seeder loads demo data through the domain services.
type Seeder struct {
	Config   *config.Config
	DB       *postgres.Connection
	Auth     authService.Auth
	Employee employeeService.Employee
	Trip     tripService.Trip
	Booking  bookingService.Booking
	Kafka    kafka.Client
	Otel     otel.Otel
}

func healthChecks(conn *postgres.Connection, client *goRedis.Client) map[string]healthHandler.Check {
	return map[string]healthHandler.Check{
		"postgres": healthHandler.Postgres(conn),
		"redis":    healthHandler.Redis(client),
	}
}

// Close releases the pools and flushes pending spans.
func (a *App) Close(ctx context.Context) {
	closeAll(ctx, a.DB, a.Kafka, a.Otel)
}

func (w *Worker) Close(ctx context.Context) {
	closeAll(ctx, nil, w.Kafka, w.Otel)
}

func (s *Seeder) Close(ctx context.Context) {
	closeAll(ctx, s.DB, s.Kafka, s.Otel)
}

func closeAll(ctx context.Context, db *postgres.Connection, client kafka.Client, ot otel.Otel) {
	if db != nil {
		db.Close()
	}

	if err := client.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close kafka client")
	}

	if err := ot.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("failed to shut down tracer provider")
	}
}
