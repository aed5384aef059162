package event_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	otelMocks "etm/infras/otel/mocks"
	"etm/internal/domains/booking/event"
	"etm/shared/metrics"
)

func TestAudit(t *testing.T) {
	handle := event.Audit(otelMocks.NewOtel())

	payload, err := json.Marshal(event.BookingEvent{
		Type:       event.TypeCreated,
		BookingID:  "b1",
		EmployeeID: "e1",
		TripID:     "t1",
		Actor:      "admin",
		OccurredAt: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	consumed := metrics.BookingEventsConsumedTotal.WithLabelValues(event.TypeCreated, metrics.ResultOK)
	before := testutil.ToFloat64(consumed)

	err = handle(context.Background(), kafkaGo.Message{Key: []byte("b1"), Value: payload})

	assert.NoError(t, err)
	assert.Equal(t, before+1, testutil.ToFloat64(consumed))
}

func TestAudit_MalformedPayload(t *testing.T) {
	handle := event.Audit(otelMocks.NewOtel())

	err := handle(context.Background(), kafkaGo.Message{Key: []byte("b1"), Value: []byte("{not json")})

	assert.Error(t, err)
}
