package observe

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestMeta_SpanName(t *testing.T) {
	tests := []struct {
		name string
		meta Meta
		want string
	}{
		{"with namespace", Meta{Namespace: "geo", Name: "lookup"}, "memo.compute.geo.lookup"},
		{"without namespace", Meta{Name: "fib"}, "memo.compute.fib"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.meta.SpanName(); got != tt.want {
				t.Errorf("SpanName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMeta_ID(t *testing.T) {
	if got := (Meta{Namespace: "geo", Name: "lookup"}).ID(); got != "geo.lookup" {
		t.Errorf("ID() = %q, want %q", got, "geo.lookup")
	}
	if got := (Meta{Name: "fib"}).ID(); got != "fib" {
		t.Errorf("ID() = %q, want %q", got, "fib")
	}
}

func spanAttr(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

// TestTracer_SpanAttributes verifies the cache identity is attached to the span.
func TestTracer_SpanAttributes(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tr := NewTracer(tp.Tracer("test"))

	meta := Meta{Namespace: "geo", Name: "lookup", Version: "2"}
	_, span := tr.StartSpan(context.Background(), meta)
	tr.EndSpan(span, nil)

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	s := spans[0]
	if s.Name() != "memo.compute.geo.lookup" {
		t.Errorf("unexpected span name %q", s.Name())
	}
	if v, ok := spanAttr(s.Attributes(), "memo.id"); !ok || v.AsString() != "geo.lookup" {
		t.Errorf("expected memo.id=geo.lookup, got %v", v.Emit())
	}
	if v, ok := spanAttr(s.Attributes(), "memo.version"); !ok || v.AsString() != "2" {
		t.Errorf("expected memo.version=2, got %v", v.Emit())
	}
	if s.Status().Code != codes.Ok {
		t.Errorf("expected Ok status, got %v", s.Status().Code)
	}
}

// TestTracer_EndSpanRecordsError verifies error status and event on failure.
func TestTracer_EndSpanRecordsError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tr := NewTracer(tp.Tracer("test"))

	_, span := tr.StartSpan(context.Background(), Meta{Name: "fails"})
	tr.EndSpan(span, errors.New("boom"))

	s := recorder.Ended()[0]
	if s.Status().Code != codes.Error {
		t.Errorf("expected Error status, got %v", s.Status().Code)
	}
	if s.Status().Description != "boom" {
		t.Errorf("expected description 'boom', got %q", s.Status().Description)
	}
	if v, ok := spanAttr(s.Attributes(), "memo.error"); !ok || !v.AsBool() {
		t.Error("expected memo.error=true")
	}
	if len(s.Events()) == 0 {
		t.Error("expected RecordError to add an event")
	}
}

func TestNoopTracer(t *testing.T) {
	tr := NewNoopTracer()
	ctx, span := tr.StartSpan(context.Background(), Meta{Name: "x"})
	if ctx == nil || span == nil {
		t.Fatal("noop tracer returned nil")
	}
	tr.EndSpan(span, errors.New("ignored"))
}
