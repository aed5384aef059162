package event

import (
	"context"
	"fmt"

	"etm/infras/kafka"
	"etm/infras/otel"
	"etm/shared/constant"
	"etm/shared/metrics"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

// Audit returns a consumer handler that records every booking event in the log.
func Audit(ot otel.Otel) func(ctx context.Context, message kafkaGo.Message) error {
	return func(ctx context.Context, message kafkaGo.Message) (err error) {
		_, scope := ot.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".Booking.Audit")
		defer scope.End()
		defer func() { scope.TraceIfError(err) }()

		key, event, err := kafka.DecodeKafkaMessage[BookingEvent](message)
		if err != nil {
			metrics.BookingEventsConsumedTotal.WithLabelValues(unknownType, metrics.ResultError).Inc()

			return fmt.Errorf("failed to decode booking event: %w", err)
		}

		if key != event.BookingID {
			log.Warn().Str("key", key).Str("booking", event.BookingID).Msg("booking event key does not match its payload")
		}

		log.Info().
			Str("type", event.Type).
			Str("booking", event.BookingID).
			Str("employee", event.EmployeeID).
			Str("trip", event.TripID).
			Str("actor", event.Actor).
			Time("occurred_at", event.OccurredAt).
			Int64("offset", message.Offset).
			Msg("booking event")

		metrics.BookingEventsConsumedTotal.WithLabelValues(event.Type, metrics.ResultOK).Inc()

		return nil
	}
}
