package telemetry

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/process"
	"go.opentelemetry.io/otel/metric"
)

type perfGauges struct {
	cpu        metric.Float64Gauge
	rss        metric.Int64Gauge
	heap       metric.Int64Gauge
	goroutines metric.Int64Gauge
}

func (g perfGauges) record(ctx context.Context, proc *process.Process) {
	if proc != nil {
		cpuPercent, err := proc.CPUPercentWithContext(ctx)
		if err == nil {
			g.cpu.Record(ctx, cpuPercent)
		}
		mem, err := proc.MemoryInfoWithContext(ctx)
		if err == nil {
			g.rss.Record(ctx, int64(mem.RSS))
		}
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	g.heap.Record(ctx, int64(memStats.HeapAlloc))
	g.goroutines.Record(ctx, int64(runtime.NumGoroutine()))
}

// InstrumentPerfStats samples this process every `interval` until ctx is
// done. The interactive shell starts it, one-shot commands don't live long
// enough for it to matter.
func InstrumentPerfStats(ctx context.Context, interval time.Duration) {
	meter := Meter("salamyar/perf_stats")
	var g perfGauges
	g.cpu, _ = meter.Float64Gauge("process.cpu.percent")
	g.rss, _ = meter.Int64Gauge("process.memory.rss", metric.WithUnit("By"))
	g.heap, _ = meter.Int64Gauge("process.runtime.heap_alloc", metric.WithUnit("By"))
	g.goroutines, _ = meter.Int64Gauge("process.runtime.goroutines")

	proc, err := process.NewProcessWithContext(ctx, int32(os.Getpid()))
	if err != nil {
		slog.DebugContext(ctx, "process stats unavailable, recording runtime stats only", "err", err)
		proc = nil
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				g.record(ctx, proc)
			case <-ctx.Done():
				return
			}
		}
	}()
}
