package otel_test

import (
	"context"
	"errors"
	"testing"
	"vprime/config"
	"vprime/infras/otel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestScope(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := trace.NewTracerProvider(trace.WithSpanProcessor(recorder))

	_, span := provider.Tracer("service").Start(context.Background(), "service.project.Create")
	scope := otel.NewScope(span)

	scope.SetAttributes(map[string]any{
		"project.slug":   "bmw-e90-1",
		"project.id":     int64(7),
		"project.public": true,
		"images":         []string{"a", "b"},
		"ratio":          0.5,
		"count":          3,
		"other":          struct{ N int }{N: 1},
	})
	scope.AddEvent("project created")
	scope.TraceIfError(nil)
	scope.TraceError(errors.New("kafka unavailable"))
	scope.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)

	got := ended[0]
	assert.Equal(t, "service.project.Create", got.Name())
	assert.Equal(t, codes.Error, got.Status().Code)
	assert.Equal(t, "kafka unavailable", got.Status().Description)

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range got.Attributes() {
		attrs[kv.Key] = kv.Value
	}

	assert.Equal(t, "bmw-e90-1", attrs["project.slug"].AsString())
	assert.Equal(t, int64(7), attrs["project.id"].AsInt64())
	assert.True(t, attrs["project.public"].AsBool())
	assert.Equal(t, []string{"a", "b"}, attrs["images"].AsStringSlice())
	assert.InDelta(t, 0.5, attrs["ratio"].AsFloat64(), 0)
	assert.Equal(t, int64(3), attrs["count"].AsInt64())
	assert.Equal(t, "{1}", attrs["other"].AsString())

	names := []string{}
	for _, event := range got.Events() {
		names = append(names, event.Name)
	}

	assert.Contains(t, names, "project created")
}

func TestNew_WithoutEndpoint(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.Name = "vprime"

	provider := otel.New(cfg)

	ctx, scope := provider.NewScope(context.Background(), "service", "service.project.List")
	scope.End()

	assert.NotNil(t, ctx)
	assert.NoError(t, provider.Shutdown(context.Background()))
}
