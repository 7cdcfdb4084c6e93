package observe

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

type middlewareFixture struct {
	mw     *Middleware
	spans  *tracetest.SpanRecorder
	reader *sdkmetric.ManualReader
	logs   *bytes.Buffer
}

func newMiddlewareFixture(t *testing.T) middlewareFixture {
	t.Helper()
	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	metrics, reader := newTestMetrics(t)
	logs := &bytes.Buffer{}

	return middlewareFixture{
		mw:     NewMiddleware(NewTracer(tp.Tracer("test")), metrics, NewLoggerWithWriter("debug", logs)),
		spans:  spans,
		reader: reader,
		logs:   logs,
	}
}

// TestMiddleware_SuccessPath verifies a successful computation records telemetry.
func TestMiddleware_SuccessPath(t *testing.T) {
	f := newMiddlewareFixture(t)
	meta := Meta{Name: "fib"}

	ran := false
	err := f.mw.Run(context.Background(), meta, func(ctx context.Context) error {
		ran = true
		return nil
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if !ran {
		t.Fatal("compute function was not called")
	}

	spans := f.spans.Ended()
	if len(spans) != 1 || spans[0].Name() != "memo.compute.fib" {
		t.Fatalf("expected one span memo.compute.fib, got %d", len(spans))
	}

	rm := collect(t, f.reader)
	if got := sumValue(rm, "memo.compute.total"); got != 1 {
		t.Errorf("memo.compute.total = %d, want 1", got)
	}
	if !strings.Contains(f.logs.String(), "computation completed") {
		t.Errorf("expected completion log, got %s", f.logs.String())
	}
}

// TestMiddleware_ErrorPath verifies the error is returned unchanged and recorded.
func TestMiddleware_ErrorPath(t *testing.T) {
	f := newMiddlewareFixture(t)
	wantErr := errors.New("upstream down")

	err := f.mw.Run(context.Background(), Meta{Name: "fib"}, func(ctx context.Context) error {
		return wantErr
	})
	if err != wantErr {
		t.Fatalf("expected error to pass through unchanged, got %v", err)
	}

	rm := collect(t, f.reader)
	if got := sumValue(rm, "memo.compute.errors"); got != 1 {
		t.Errorf("memo.compute.errors = %d, want 1", got)
	}
	entry := parseLines(t, f.logs)[0]
	if entry["level"] != "error" || entry["error"] != "upstream down" {
		t.Errorf("unexpected log entry: %v", entry)
	}
}

// TestMiddleware_PropagatesSpanContext verifies fn sees the computation span.
func TestMiddleware_PropagatesSpanContext(t *testing.T) {
	f := newMiddlewareFixture(t)

	var inner bool
	_ = f.mw.Run(context.Background(), Meta{Name: "fib"}, func(ctx context.Context) error {
		inner = trace.SpanContextFromContext(ctx).IsValid()
		return nil
	})
	if !inner {
		t.Error("expected a valid span context inside the computation")
	}
}

func TestNewMiddleware_NilComponents(t *testing.T) {
	mw := NewMiddleware(nil, nil, nil)
	if err := mw.Run(context.Background(), Meta{Name: "x"}, func(context.Context) error { return nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mw.Metrics() == nil || mw.Logger() == nil {
		t.Error("expected no-op components to be installed")
	}
}

func TestMiddlewareFromObserver_Nil(t *testing.T) {
	if _, err := MiddlewareFromObserver(nil); !errors.Is(err, ErrNilObserver) {
		t.Fatalf("expected ErrNilObserver, got %v", err)
	}
}
