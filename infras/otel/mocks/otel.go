// Package mocks holds otel doubles for tests, backed by an in-memory span recorder.
package mocks

import (
	"context"
	"vprime/infras/otel"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

// NewOtel returns a recorder for tests that never look at spans.
func NewOtel() otel.Otel {
	return NewRecorder()
}

// Recorder is an otel.Otel whose spans are kept by a tracetest.SpanRecorder.
type Recorder struct {
	spans    *tracetest.SpanRecorder
	provider *sdktrace.TracerProvider
}

func NewRecorder() *Recorder {
	spans := tracetest.NewSpanRecorder()

	return &Recorder{
		spans:    spans,
		provider: sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans)),
	}
}

func (r *Recorder) NewScope(ctx context.Context, scopeName, spanName string) (context.Context, otel.Scope) {
	ctx, span := r.provider.Tracer(scopeName).Start(ctx, spanName)

	return ctx, otel.NewScope(span)
}

func (r *Recorder) Shutdown(ctx context.Context) error {
	return r.provider.Shutdown(ctx)
}

// Spans returns the spans started so far, in order.
func (r *Recorder) Spans() []*Span {
	started := r.spans.Started()

	spans := make([]*Span, 0, len(started))
	for _, span := range started {
		spans = append(spans, &Span{ReadOnlySpan: span})
	}

	return spans
}

// Span named name, or nil.
func (r *Recorder) Span(name string) *Span {
	for _, span := range r.Spans() {
		if span.Name() == name {
			return span
		}
	}

	return nil
}

// Span is a live view of a recorded span.
type Span struct {
	sdktrace.ReadOnlySpan
}

func (s *Span) Ended() bool {
	return !s.EndTime().IsZero()
}

// Attribute returns the native value stored under key, or nil.
func (s *Span) Attribute(key string) any {
	for _, kv := range s.Attributes() {
		if string(kv.Key) == key {
			return kv.Value.AsInterface()
		}
	}

	return nil
}

// Errors returns the messages of the errors recorded on the span.
func (s *Span) Errors() []string {
	var messages []string

	for _, event := range s.Events() {
		if event.Name != semconv.ExceptionEventName {
			continue
		}

		for _, kv := range event.Attributes {
			if kv.Key == semconv.ExceptionMessageKey {
				messages = append(messages, kv.Value.AsString())
			}
		}
	}

	return messages
}
