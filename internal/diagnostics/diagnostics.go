// Package diagnostics periodically samples process CPU, memory, and
// goroutine counts and logs them — the "stdout/stderr diagnostic
// logging" external collaborator spec.md §1 names as thin plumbing
// around the core. It is grounded on the periodic-sampling pattern in
// go-server/internal/metrics/system.go and src/resource_guard.go's
// UpdateResources, but, unlike ResourceGuard, it never gates or rejects
// connections: spec.md §1 explicitly excludes flow control and quotas,
// so this module only observes and reports.
package diagnostics

import (
	"context"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"go.uber.org/zap"

	"github.com/amol1000/chat-server/internal/metrics"
)

// Reporter owns the periodic sampling loop.
type Reporter struct {
	logger   *zap.Logger
	metrics  *metrics.Registry
	interval time.Duration
}

// New constructs a Reporter. interval defaults to 15s if non-positive.
func New(logger *zap.Logger, reg *metrics.Registry, interval time.Duration) *Reporter {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &Reporter{logger: logger, metrics: reg, interval: interval}
}

// Run samples resource usage every interval until ctx is cancelled.
// Intended to be run in its own goroutine; it never returns an error,
// matching the fire-and-forget diagnostic-logging role spec.md assigns
// it.
func (r *Reporter) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.sample()
		}
	}
}

func (r *Reporter) sample() {
	var cpuPercent float64
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		cpuPercent = percents[0]
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	goroutines := runtime.NumGoroutine()

	if r.metrics != nil {
		r.metrics.CPUPercent.Set(cpuPercent)
		r.metrics.MemoryBytes.Set(float64(mem.Alloc))
		r.metrics.GoroutineCount.Set(float64(goroutines))
	}

	if r.logger != nil {
		r.logger.Debug("resource sample",
			zap.Float64("cpu_percent", cpuPercent),
			zap.Uint64("heap_alloc_bytes", mem.Alloc),
			zap.Int("goroutines", goroutines),
		)
	}
}
