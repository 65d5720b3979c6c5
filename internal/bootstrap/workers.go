package bootstrap

import (
	"fmt"

	"github.com/osse101/PrizeKiosk_Go/internal/catalog"
	"github.com/osse101/PrizeKiosk_Go/internal/config"
	"github.com/osse101/PrizeKiosk_Go/internal/logger"
	"github.com/osse101/PrizeKiosk_Go/internal/scheduler"
	"github.com/osse101/PrizeKiosk_Go/internal/telemetry"
	"github.com/osse101/PrizeKiosk_Go/internal/worker"
)

// Background holds the long-running goroutines started next to the server
type Background struct {
	Pool           *worker.Pool
	Scheduler      *scheduler.Scheduler
	RolloverWorker *worker.RolloverWorker
	CatalogWatcher *catalog.FileWatcher
}

// StartBackground starts the worker pool, the telemetry flush schedule, the
// midnight rollover worker and the catalog file watcher
func StartBackground(cfg *config.Config, svc *Services, rec *telemetry.Recorder) (*Background, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedResolveZone, err)
	}

	pool := worker.NewPool(cfg.WorkerCount, cfg.WorkerQueueSize)
	pool.Start()

	sched := scheduler.New(pool)
	if rec != nil {
		settings := TelemetrySettings(cfg)
		if settings.Uploading() {
			sched.Schedule(JobNameTelemetryFlush, settings.FlushInterval, telemetry.FlushJob{Recorder: rec})
			logger.Info(LogMsgTelemetryScheduled, "interval", settings.FlushInterval, "batch_size", settings.BatchSize)
		}
	}

	rollover := worker.NewRolloverWorker(svc.Engine, loc)
	rollover.Start()

	return &Background{
		Pool:           pool,
		Scheduler:      sched,
		RolloverWorker: rollover,
		CatalogWatcher: svc.Catalog.Watch(cfg.CatalogWatchInterval),
	}, nil
}
