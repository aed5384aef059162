package otel_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"

	"etm/config"
	"etm/infras/otel"
)

func TestNew_WithoutEndpointUsesNoopTracer(t *testing.T) {
	cfg := config.Defaults()

	tracer := otel.New(&cfg)

	ctx, scope := tracer.NewScope(context.Background(), "service", "service.Get")
	assert.NotNil(t, ctx)

	scope.SetAttribute("id", "42")
	scope.SetAttributes(map[string]any{"page": 1, "active": true, "roles": []string{"ADMIN"}})
	scope.AddEvent("loaded")
	scope.TraceIfError(nil)
	scope.TraceIfError(errors.New("boom"))
	scope.End()

	assert.NoError(t, tracer.Shutdown(context.Background()))
}

func TestAttribute(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected attribute.Value
	}{
		{name: "bool", value: true, expected: attribute.BoolValue(true)},
		{name: "string", value: "trip", expected: attribute.StringValue("trip")},
		{name: "int", value: 3, expected: attribute.IntValue(3)},
		{name: "int64", value: int64(7), expected: attribute.Int64Value(7)},
		{name: "float", value: 1.5, expected: attribute.Float64Value(1.5)},
		{name: "roles", value: []string{"ADMIN", "USER"}, expected: attribute.StringSliceValue([]string{"ADMIN", "USER"})},
		{name: "time", value: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), expected: attribute.StringValue("2024-01-10T00:00:00Z")},
		{name: "duration in ms", value: 1500 * time.Millisecond, expected: attribute.Int64Value(1500)},
		{name: "error", value: errors.New("boom"), expected: attribute.StringValue("boom")},
		{name: "fallback", value: struct{ ID string }{ID: "t1"}, expected: attribute.StringValue("{t1}")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := otel.Attribute("key", tt.value)

			assert.Equal(t, attribute.Key("key"), kv.Key)
			assert.Equal(t, tt.expected, kv.Value)
		})
	}
}
