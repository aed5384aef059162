package event

//go:generate go run go.uber.org/mock/mockgen -source=./event.go -destination=../mocks/event_mock.go -package=mocks

import (
	"context"
	"time"

	"etm/config"
	"etm/infras/kafka"
	"etm/infras/otel"
	"etm/internal/domains/booking/model"
	"etm/shared/constant"
	"etm/shared/metrics"
	"etm/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	TypeCreated = "created"
	TypeUpdated = "updated"
	TypeDeleted = "deleted"

	unknownType = "unknown"
)

// BookingEvent is the payload written to the booking topic, keyed by booking id.
type BookingEvent struct {
	Type       string    `json:"type"`
	BookingID  string    `json:"booking_id"`
	EmployeeID string    `json:"employee_id"`
	TripID     string    `json:"trip_id"`
	Actor      string    `json:"actor"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewBookingEvent(eventType string, booking model.Booking, actor string) BookingEvent {
	return BookingEvent{
		Type:       eventType,
		BookingID:  booking.ID,
		EmployeeID: booking.EmployeeID,
		TripID:     booking.TripID,
		Actor:      actor,
		OccurredAt: timezone.Now(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, event BookingEvent)
}

type publisherImpl struct {
	client kafka.Client
	topic  string
	otel   otel.Otel
}

func NewPublisher(client kafka.Client, cfg *config.Config, otel otel.Otel) Publisher {
	return &publisherImpl{
		client: client,
		topic:  cfg.Kafka.Topics.Booking,
		otel:   otel,
	}
}

// Publish sends the event in the background. Broker failures never reach the caller.
func (p *publisherImpl) Publish(ctx context.Context, event BookingEvent) {
	if !p.client.Enabled() {
		return
	}

	go func() {
		c := context.WithoutCancel(ctx)

		c, scope := p.otel.NewScope(c, constant.OtelEventScopeName, constant.OtelEventScopeName+".Booking.Publish")
		defer scope.End()

		scope.SetAttribute("event.type", event.Type)

		err := p.client.SendMessages(c, p.topic, kafka.Message{Key: event.BookingID, Value: event})
		if err != nil {
			scope.TraceError(err)
			metrics.BookingEventsPublishedTotal.WithLabelValues(event.Type, metrics.ResultError).Inc()
			log.Error().Err(err).Str("booking", event.BookingID).Str("type", event.Type).Msg("failed to publish booking event")

			return
		}

		metrics.BookingEventsPublishedTotal.WithLabelValues(event.Type, metrics.ResultOK).Inc()
	}()
}
