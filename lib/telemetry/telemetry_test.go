package telemetry

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestSetupFromEnvWithoutConfig(t *testing.T) {
	t.Setenv("SALAMYAR_STATE_DIR", t.TempDir())
	wd, err := os.Getwd()
	require.NoError(t, err)
	if _, err := os.Stat(filepath.Join(wd, ConfigName)); err == nil {
		t.Skip("a telemetry config exists in the working directory")
	}

	err = SetupFromEnv(context.Background(), "test:telemetry")
	require.NoError(t, err)
	require.Nil(t, tracerProvider)
	require.Nil(t, meterProvider)
	require.NoError(t, Shutdown(context.Background()))
}

func TestExporterConfig(t *testing.T) {
	require.False(t, exporterConfig{}.enabled())
	require.True(t, exporterConfig{Endpoint: "http://localhost:4318/v1/traces"}.enabled())

	protocol, err := exporterConfig{}.protocol()
	require.NoError(t, err)
	require.Equal(t, protocolHttp, protocol)

	protocol, err = exporterConfig{Protocol: "grpc"}.protocol()
	require.NoError(t, err)
	require.Equal(t, protocolGrpc, protocol)

	_, err = exporterConfig{Protocol: "udp"}.protocol()
	require.Error(t, err)
}

func TestConfigDefaults(t *testing.T) {
	require.Equal(t, time.Second*30, config{}.metricInterval())
	require.Equal(t, time.Second*5, config{MetricIntervalSeconds: 5}.metricInterval())

	require.Equal(t, sdktrace.AlwaysSample().Description(), config{}.sampler().Description())
	require.Contains(t, config{SampleRatio: 0.25}.sampler().Description(), "TraceIDRatioBased")
}

func TestSetupRejectsUnknownProtocol(t *testing.T) {
	err := Setup(context.Background(), "test:telemetry", config{
		Traces: exporterConfig{Protocol: "udp", Endpoint: "udp://localhost:4317"},
	})
	require.Error(t, err)
	require.Nil(t, tracerProvider)
}

func TestInstrumentPerfStatsStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	InstrumentPerfStats(ctx, time.Millisecond*10)
	time.Sleep(time.Millisecond * 30)
	cancel()
}
