package telemetry

import (
	"sync"
	"testing"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

var (
	testOnce     sync.Once
	testRecorder *tracetest.SpanRecorder
)

// SetupForTesting routes every span of the test binary into one in-memory
// recorder. The global provider can only be delegated to once, so every
// caller shares the same recorder.
func SetupForTesting(t testing.TB) *tracetest.SpanRecorder {
	t.Helper()
	testOnce.Do(func() {
		InitSlog(testing.Verbose())
		testRecorder = tracetest.NewSpanRecorder()
		otel.SetTracerProvider(sdktrace.NewTracerProvider(
			sdktrace.WithSpanProcessor(testRecorder),
		))
	})
	return testRecorder
}
