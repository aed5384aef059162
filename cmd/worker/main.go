package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"etm/config"
	"etm/di"
	"etm/internal/domains/booking/event"
	"etm/shared/logger"
	"etm/shared/timezone"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const (
	closeTimeout      = 10 * time.Second
	readHeaderTimeout = 10 * time.Second
)

// The worker consumes booking events and exposes its counters on /metrics.
func main() {
	cfg := config.Get()

	logger.InitLogger(cfg)
	logger.SetLogLevel(cfg)

	if err := timezone.Init(cfg.App.Timezone); err != nil {
		log.Fatal().Err(err).Msg("Failed to load application timezone")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	worker := di.InitializeWorker()

	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()

		worker.Close(closeCtx)
	}()

	server := metricsServer(cfg)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Metrics server stopped")
		}
	}()

	log.Info().Str("topic", cfg.Kafka.Topics.Booking).Str("group", cfg.Kafka.ConsumerGroup).Msg("Starting booking event worker.")

	err := worker.Kafka.Consume(ctx, cfg.Kafka.ConsumerGroup, cfg.Kafka.Topics.Booking, event.Audit(worker.Otel))
	if err != nil {
		log.Error().Err(err).Msg("Booking event worker stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	if err = server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("failed to shut down metrics server")
	}
}

func metricsServer(cfg *config.Config) *http.Server {
	router := chi.NewRouter()
	router.Handle("/metrics", promhttp.Handler())

	return &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}
