package event_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"etm/config"
	"etm/infras/kafka"
	kafkaMocks "etm/infras/kafka/mocks"
	otelMocks "etm/infras/otel/mocks"
	"etm/internal/domains/booking/event"
	"etm/internal/domains/booking/model"
)

func newConfig() *config.Config {
	cfg := config.Defaults()

	return &cfg
}

func TestNewBookingEvent(t *testing.T) {
	booking := model.Booking{ID: "b1", EmployeeID: "e1", TripID: "t1"}

	evt := event.NewBookingEvent(event.TypeCreated, booking, "admin")

	assert.Equal(t, event.TypeCreated, evt.Type)
	assert.Equal(t, "b1", evt.BookingID)
	assert.Equal(t, "e1", evt.EmployeeID)
	assert.Equal(t, "t1", evt.TripID)
	assert.Equal(t, "admin", evt.Actor)
	assert.False(t, evt.OccurredAt.IsZero())
}

func TestPublish_Disabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := kafkaMocks.NewMockClient(ctrl)

	client.EXPECT().Enabled().Return(false)

	publisher := event.NewPublisher(client, newConfig(), otelMocks.NewOtel())
	publisher.Publish(context.Background(), event.BookingEvent{BookingID: "b1"})
}

func TestPublish_SendsToBookingTopic(t *testing.T) {
	tests := []struct {
		name    string
		sendErr error
	}{
		{name: "delivered"},
		{name: "broker failure is swallowed", sendErr: errors.New("broker unavailable")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := kafkaMocks.NewMockClient(ctrl)
			cfg := newConfig()
			done := make(chan kafka.Message, 1)

			client.EXPECT().Enabled().Return(true)
			client.EXPECT().SendMessages(gomock.Any(), cfg.Kafka.Topics.Booking, gomock.Any()).
				DoAndReturn(func(_ context.Context, _ string, messages ...kafka.Message) error {
					done <- messages[0]

					return tt.sendErr
				})

			publisher := event.NewPublisher(client, cfg, otelMocks.NewOtel())
			publisher.Publish(context.Background(), event.BookingEvent{Type: event.TypeDeleted, BookingID: "b1"})

			select {
			case msg := <-done:
				assert.Equal(t, "b1", msg.Key)
				assert.Equal(t, event.TypeDeleted, msg.Value.(event.BookingEvent).Type)
			case <-time.After(time.Second):
				t.Fatal("event was not published")
			}
		})
	}
}
