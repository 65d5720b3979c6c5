// Command reset rebuilds today's stock from the catalog defaults in the
// configured store. Campaign counters are left untouched.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/osse101/PrizeKiosk_Go/internal/bootstrap"
	"github.com/osse101/PrizeKiosk_Go/internal/config"
	"github.com/osse101/PrizeKiosk_Go/internal/domain"
	"github.com/osse101/PrizeKiosk_Go/internal/event"
	"github.com/osse101/PrizeKiosk_Go/internal/logger"
	"github.com/osse101/PrizeKiosk_Go/internal/reward"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.InitLoggerWithWriter(logger.NewConfig(cfg.LogLevel, logger.LogFormatText, logger.DefaultServiceName, cfg.AppVersion, cfg.Environment, false), os.Stderr)

	ctx := context.Background()
	svc, err := bootstrap.BuildServices(ctx, cfg, event.NewMemoryBus())
	if err != nil {
		log.Fatalf("Failed to open stock: %v", err)
	}
	defer svc.Store.Close()

	before := svc.Engine.Report()
	if err := resetToday(ctx, svc.Engine); err != nil {
		log.Fatalf("Reset failed: %v", err)
	}
	printReport(os.Stdout, before, svc.Engine.Report())
}

// resetToday rebuilds the daily pool and writes it out immediately
func resetToday(ctx context.Context, engine *reward.Engine) error {
	if err := engine.ForceResetToday(ctx); err != nil {
		return err
	}
	return engine.Flush(ctx)
}

func printReport(out io.Writer, before, after domain.StockReport) {
	prev := make(map[string]int, len(before.Items))
	for _, it := range before.Items {
		prev[it.ItemID] = it.Today
	}

	fmt.Fprintf(out, "Daily stock reset for %s\n", after.Date)
	for _, it := range after.Items {
		fmt.Fprintf(out, "  %-16s %4d -> %4d  (campaign %d)\n", it.ItemID, prev[it.ItemID], it.Today, it.Campaign)
	}
	fmt.Fprintf(out, "Total today: %d -> %d\n", before.TotalToday, after.TotalToday)
}
