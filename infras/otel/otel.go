package otel

import (
	"context"
	"fmt"

	"etm/config"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"google.golang.org/grpc/credentials/insecure"
)

// Otel opens spans. Every layer names its scope after itself ("handler", "service", ...).
type Otel interface {
	NewScope(ctx context.Context, scopeName, spanName string) (context.Context, Scope)
	Shutdown(ctx context.Context) error
}

type tracer struct {
	provider oteltrace.TracerProvider
	shutdown func(ctx context.Context) error
}

func (t *tracer) NewScope(ctx context.Context, scopeName, spanName string) (context.Context, Scope) {
	ctx, span := t.provider.Tracer(scopeName).Start(ctx, spanName)

	return ctx, NewScope(span)
}

// Shutdown flushes pending spans.
func (t *tracer) Shutdown(ctx context.Context) error {
	return t.shutdown(ctx)
}

// New exports spans over OTLP gRPC, sampling External.Otel.SampleRatio of new traces.
// Without an endpoint spans are discarded.
func New(cfg *config.Config) Otel {
	endpoint := cfg.External.Otel.Endpoint
	if endpoint == "" {
		log.Info().Msg("OTLP endpoint not configured, tracing disabled")

		return &tracer{
			provider: noop.NewTracerProvider(),
			shutdown: func(context.Context) error { return nil },
		}
	}

	provider, err := newProvider(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize OTLP tracing")
	}

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	log.Info().
		Str("endpoint", endpoint).
		Float64("sample_ratio", cfg.External.Otel.SampleRatio).
		Msg("OTLP tracing initialized")

	return &tracer{
		provider: provider,
		shutdown: provider.Shutdown,
	}
}

func newProvider(ctx context.Context, cfg *config.Config) (*trace.TracerProvider, error) {
	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.External.Otel.Endpoint),
		otlptracegrpc.WithTLSCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(cfg.App.Name),
		semconv.DeploymentEnvironmentKey.String(cfg.Server.Env),
	)

	return trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
		trace.WithSampler(trace.ParentBased(trace.TraceIDRatioBased(cfg.External.Otel.SampleRatio))),
	), nil
}
