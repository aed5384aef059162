package kafka_test

import (
	"context"
	"testing"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"etm/config"
	"etm/infras/kafka"
)

type bookingEvent struct {
	Type      string `json:"type"`
	BookingID string `json:"booking_id"`
}

func TestMessage_RoundTrip(t *testing.T) {
	msg := kafka.Message{Key: "b1", Value: bookingEvent{Type: "booking.created", BookingID: "b1"}}

	raw, err := msg.ToKafkaMessage()
	require.NoError(t, err)
	assert.Equal(t, []byte("b1"), raw.Key)
	assert.JSONEq(t, `{"type":"booking.created","booking_id":"b1"}`, string(raw.Value))

	key, event, err := kafka.DecodeKafkaMessage[bookingEvent](raw)
	require.NoError(t, err)
	assert.Equal(t, "b1", key)
	assert.Equal(t, "booking.created", event.Type)
}

func TestMessage_Unmarshalable(t *testing.T) {
	msg := kafka.Message{Key: "x", Value: make(chan int)}

	_, err := msg.ToKafkaMessage()
	assert.Error(t, err)
}

func TestDecodeKafkaMessage_InvalidJSON(t *testing.T) {
	_, _, err := kafka.DecodeKafkaMessage[bookingEvent](kafkaGo.Message{Value: []byte("{")})
	assert.Error(t, err)
}

func TestClient_WithoutBrokers(t *testing.T) {
	cfg := config.Defaults()
	client := kafka.New(&cfg)

	assert.False(t, client.Enabled())
	assert.ErrorIs(t, client.SendMessages(context.Background(), "etm.bookings", kafka.Message{Key: "k"}), kafka.ErrNoBrokers)
	assert.ErrorIs(t, client.Consume(context.Background(), "", "etm.bookings", nil), kafka.ErrNoBrokers)
	assert.NoError(t, client.Close())
}
