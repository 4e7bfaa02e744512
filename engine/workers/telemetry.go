package workers

import (
	"canvas-lab/domain/event"
	"canvas-lab/observability"
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"
)

// TelemetryWorker drains the telemetry tap continuously and logs an
// engine snapshot plus process CPU/RAM on each interval.
type TelemetryWorker struct {
	log            *slog.Logger
	metricInterval time.Duration
	telemetryChan  chan event.DomainEvent
	stats          *observability.StatsManager
}

func NewTelemetryWorker(
	log *slog.Logger,
	metricInterval time.Duration,
	telemetryChan chan event.DomainEvent,
	stats *observability.StatsManager) *TelemetryWorker {
	return &TelemetryWorker{
		log:            log,
		metricInterval: metricInterval,
		telemetryChan:  telemetryChan,
		stats:          stats,
	}
}

func (w TelemetryWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		w.log.Warn("Process metrics unavailable", "error", err)
		proc = nil
	}

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping telemetry")
			return nil
		case <-w.telemetryChan:
			// Drained to keep the tap from backing up; the counters were
			// already updated by the fanout.
		case <-ticker.C:
			w.report(proc)
		}
	}
}

func (w TelemetryWorker) report(proc *process.Process) {
	stats := w.stats.Snapshot()

	attrs := []any{
		"actions", stats.ActionsAppended,
		"undone", stats.ActionsUndone,
		"redone", stats.ActionsRedone,
		"messages", stats.MessagesPosted,
		"censored", stats.MessagesCensored,
		"cursor_moves", stats.CursorMoves,
		"events_per_sec", stats.EventRate,
		"dropped", stats.EventsDropped,
		"sink_errors", stats.SinkErrors,
		"alloc_mb", stats.AllocMemMb,
		"gc", stats.NumGC,
	}

	if proc != nil {
		if cpu, err := proc.CPUPercent(); err == nil {
			attrs = append(attrs, "cpu_percent", cpu)
		}
		if ram, err := proc.MemoryPercent(); err == nil {
			attrs = append(attrs, "ram_percent", ram)
		}
	}

	w.log.Info("Engine telemetry", attrs...)
}
