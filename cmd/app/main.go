package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/osse101/PrizeKiosk_Go/internal/bootstrap"
	"github.com/osse101/PrizeKiosk_Go/internal/config"
	"github.com/osse101/PrizeKiosk_Go/internal/handler"
	"github.com/osse101/PrizeKiosk_Go/internal/server"
	"github.com/osse101/PrizeKiosk_Go/internal/sse"
)

// ShutdownTimeout bounds the whole graceful shutdown sequence
const ShutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("Prize kiosk failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		return err
	}
	defer logFile.Close()

	warnings, err := cfg.Validate()
	for _, w := range warnings {
		slog.Warn("Configuration warning", "warning", w)
	}
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bus, publisher, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		return err
	}

	recorder, err := bootstrap.NewTelemetryRecorder(cfg)
	if err != nil {
		return err
	}
	display := sse.NewHub()
	display.Start()
	if err := bootstrap.RegisterEventHandlers(bootstrap.EventHandlerDependencies{
		EventBus:  bus,
		Telemetry: recorder,
		Display:   display,
	}); err != nil {
		return err
	}

	svc, err := bootstrap.BuildServices(ctx, cfg, publisher)
	if err != nil {
		return err
	}

	bg, err := bootstrap.StartBackground(cfg, svc, recorder)
	if err != nil {
		return err
	}

	srv := server.NewServer(cfg.HTTPAddr, cfg.APIKey, cfg.TrustedProxies, server.Services{
		Stock:     svc.Engine,
		Evaluator: svc.Engine,
		Play:      svc.Policy,
		Catalog:   svc.Catalog,
		Health:    []handler.HealthChecker{svc.Engine},
		Display:   display,
	})

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutdown signal received")
	case err = <-serveErr:
		if err != nil {
			slog.Error("Server stopped unexpectedly", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Server:             srv,
		Display:            display,
		RolloverWorker:     bg.RolloverWorker,
		Scheduler:          bg.Scheduler,
		Pool:               bg.Pool,
		CatalogWatcher:     bg.CatalogWatcher,
		Engine:             svc.Engine,
		Telemetry:          recorder,
		Store:              svc.Store,
		ResilientPublisher: publisher,
	})

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
