package bootstrap

import (
	"context"
	"log/slog"

	"github.com/osse101/PrizeKiosk_Go/internal/catalog"
	"github.com/osse101/PrizeKiosk_Go/internal/event"
	"github.com/osse101/PrizeKiosk_Go/internal/reward"
	"github.com/osse101/PrizeKiosk_Go/internal/scheduler"
	"github.com/osse101/PrizeKiosk_Go/internal/server"
	"github.com/osse101/PrizeKiosk_Go/internal/sse"
	"github.com/osse101/PrizeKiosk_Go/internal/stock"
	"github.com/osse101/PrizeKiosk_Go/internal/telemetry"
	"github.com/osse101/PrizeKiosk_Go/internal/worker"
)

// ShutdownComponents holds all components that need graceful shutdown.
// Nil fields are skipped.
type ShutdownComponents struct {
	Server             *server.Server
	Display            *sse.Hub
	RolloverWorker     *worker.RolloverWorker
	Scheduler          *scheduler.Scheduler
	Pool               *worker.Pool
	CatalogWatcher     *catalog.FileWatcher
	Engine             *reward.Engine
	Telemetry          *telemetry.Recorder
	Store              stock.Store
	ResilientPublisher *event.ResilientPublisher
}

// GracefulShutdown stops the application in order:
// 1. Display streams, then the HTTP server (stop accepting new plays)
// 2. Timers and background jobs
// 3. Final stock flush and telemetry upload, then the store
// 4. Event publisher (last attempt for queued events)
//
// Errors during shutdown are logged but do not stop the shutdown sequence.
func GracefulShutdown(ctx context.Context, c ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	// Open streams would hold Server.Stop until ctx expires
	if c.Display != nil {
		c.Display.Stop()
	}
	if c.Server != nil {
		if err := c.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if c.RolloverWorker != nil {
		if err := c.RolloverWorker.Shutdown(ctx); err != nil {
			slog.Error(LogMsgRolloverWorkerFailed, "error", err)
		}
	}
	if c.CatalogWatcher != nil {
		c.CatalogWatcher.Stop()
	}
	if c.Scheduler != nil {
		c.Scheduler.Stop()
	}
	if c.Pool != nil {
		c.Pool.Stop()
	}

	if c.Engine != nil {
		if err := c.Engine.Flush(ctx); err != nil {
			slog.Error(LogMsgStockFlushFailed, "error", err)
		}
	}
	if c.Telemetry != nil {
		flushCtx, cancel := context.WithTimeout(ctx, FinalFlushTimeout)
		if err := c.Telemetry.Flush(flushCtx); err != nil {
			slog.Warn(LogMsgTelemetryFlushFailed, "error", err, "pending", c.Telemetry.Pending())
		}
		cancel()
	}
	if c.Store != nil {
		if err := c.Store.Close(); err != nil {
			slog.Error(LogMsgStoreCloseFailed, "error", err)
		}
	}

	if c.ResilientPublisher != nil {
		slog.Info(LogMsgShuttingDownEventPublisher)
		if err := c.ResilientPublisher.Shutdown(ctx); err != nil {
			slog.Error(LogMsgResilientPublisherFailed, "error", err)
		}
	}

	slog.Info(LogMsgServerStopped)
}
