package telemetry

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"salamyar/lib/configutil"
	"salamyar/lib/statedir"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const ConfigName = "telemetry.json5"

var (
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
)

// Tracer returns a named tracer from the global provider. It is safe to call
// before Setup, spans are routed once a provider is installed.
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}

func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// SetupFromEnv searches up the filesystem from the cwd (and then the state
// directory) for telemetry.json5 and uses it to set up exporters. A missing
// file is not an error, the global providers simply stay no-op.
func SetupFromEnv(ctx context.Context, serviceName string) error {
	fallback, _ := statedir.Dir()
	cfg, err := configutil.ReadRecursively[config](ConfigName, fallback)
	if errors.Is(err, os.ErrNotExist) {
		slog.DebugContext(ctx, "no telemetry config found, exporters disabled")
		return nil
	}
	if err != nil {
		return err
	}
	return Setup(ctx, serviceName, cfg)
}

func Setup(ctx context.Context, serviceName string, cfg config) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*15)
	defer cancel()

	r, err := newResource(serviceName)
	if err != nil {
		return err
	}

	if cfg.Traces.enabled() {
		tracerProvider, err = newTraceProvider(ctx, r, cfg)
		if err != nil {
			return err
		}
		otel.SetTracerProvider(tracerProvider)
	}
	if cfg.Metrics.enabled() {
		meterProvider, err = newMetricProvider(ctx, r, cfg)
		if err != nil {
			return err
		}
		otel.SetMeterProvider(meterProvider)
	}

	return nil
}

// Shutdown flushes and stops whatever providers Setup installed.
func Shutdown(ctx context.Context) error {
	var errlist []error
	if tracerProvider != nil {
		errlist = append(errlist, tracerProvider.Shutdown(ctx))
		tracerProvider = nil
	}
	if meterProvider != nil {
		errlist = append(errlist, meterProvider.Shutdown(ctx))
		meterProvider = nil
	}
	return errors.Join(errlist...)
}
