package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Version is reported as service.version.
var Version = "dev"

const (
	protocolGrpc = "grpc"
	protocolHttp = "http"
)

// exporterConfig points one signal at an OTLP collector. An empty endpoint
// disables the signal.
type exporterConfig struct {
	// "grpc" or "http", defaults to http
	Protocol string            `json:"protocol"`
	Endpoint string            `json:"endpoint"`
	Headers  map[string]string `json:"headers"`
}

func (c exporterConfig) enabled() bool {
	return c.Endpoint != ""
}

func (c exporterConfig) protocol() (string, error) {
	switch c.Protocol {
	case "", protocolHttp:
		return protocolHttp, nil
	case protocolGrpc:
		return protocolGrpc, nil
	}
	return "", fmt.Errorf("unknown otlp protocol %q", c.Protocol)
}

type config struct {
	Traces  exporterConfig `json:"traces"`
	Metrics exporterConfig `json:"metrics"`
	// fraction of root spans kept, 0 keeps all of them
	SampleRatio float64 `json:"sample_ratio"`
	// defaults to 30
	MetricIntervalSeconds int `json:"metric_interval_seconds"`
}

func (c config) sampler() trace.Sampler {
	if c.SampleRatio <= 0 || c.SampleRatio >= 1 {
		return trace.AlwaysSample()
	}
	return trace.ParentBased(trace.TraceIDRatioBased(c.SampleRatio))
}

func (c config) metricInterval() time.Duration {
	if c.MetricIntervalSeconds <= 0 {
		return time.Second * 30
	}
	return time.Duration(c.MetricIntervalSeconds) * time.Second
}

func newResource(serviceName string) (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
			semconv.ServiceNamespace("salamyar"),
			semconv.ServiceVersion(Version),
		),
	)
}

func newTraceProvider(ctx context.Context, r *resource.Resource, cfg config) (*trace.TracerProvider, error) {
	protocol, err := cfg.Traces.protocol()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*3)
	defer cancel()

	var exporter trace.SpanExporter
	switch protocol {
	case protocolGrpc:
		exporter, err = otlptracegrpc.New(
			ctx,
			otlptracegrpc.WithEndpointURL(cfg.Traces.Endpoint),
			otlptracegrpc.WithHeaders(cfg.Traces.Headers),
		)
	default:
		exporter, err = otlptracehttp.New(
			ctx,
			otlptracehttp.WithEndpointURL(cfg.Traces.Endpoint),
			otlptracehttp.WithHeaders(cfg.Traces.Headers),
		)
	}
	if err != nil {
		return nil, err
	}
	slog.Debug("trace exporter initialized", "protocol", protocol, "endpoint", cfg.Traces.Endpoint)

	return trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(r),
		trace.WithSampler(cfg.sampler()),
	), nil
}

func newMetricProvider(ctx context.Context, r *resource.Resource, cfg config) (*metric.MeterProvider, error) {
	protocol, err := cfg.Metrics.protocol()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*3)
	defer cancel()

	var exporter metric.Exporter
	switch protocol {
	case protocolGrpc:
		exporter, err = otlpmetricgrpc.New(
			ctx,
			otlpmetricgrpc.WithEndpointURL(cfg.Metrics.Endpoint),
			otlpmetricgrpc.WithHeaders(cfg.Metrics.Headers),
		)
	default:
		exporter, err = otlpmetrichttp.New(
			ctx,
			otlpmetrichttp.WithEndpointURL(cfg.Metrics.Endpoint),
			otlpmetrichttp.WithHeaders(cfg.Metrics.Headers),
		)
	}
	if err != nil {
		return nil, err
	}
	slog.Debug("metric exporter initialized", "protocol", protocol, "endpoint", cfg.Metrics.Endpoint)

	return metric.NewMeterProvider(
		metric.WithReader(metric.NewPeriodicReader(exporter, metric.WithInterval(cfg.metricInterval()))),
		metric.WithResource(r),
	), nil
}
