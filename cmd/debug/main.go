// Command debug evaluates scores against a catalog file using an in-memory
// stock store, printing the category and item each score would win.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/joho/godotenv"

	"github.com/osse101/PrizeKiosk_Go/internal/catalog"
	"github.com/osse101/PrizeKiosk_Go/internal/domain"
	"github.com/osse101/PrizeKiosk_Go/internal/event"
	"github.com/osse101/PrizeKiosk_Go/internal/logger"
	"github.com/osse101/PrizeKiosk_Go/internal/reward"
	"github.com/osse101/PrizeKiosk_Go/internal/stock"
	"github.com/osse101/PrizeKiosk_Go/internal/utils"
)

func main() {
	_ = godotenv.Load()

	catalogPath := flag.String("catalog", "configs/catalog.yaml", "Path to the catalog file (.yaml or .json)")
	commit := flag.Bool("commit", false, "Commit every result so later scores see the reduced stock")
	seed := flag.Uint64("seed", 0, "Seed for the random draw inside a category (0 uses crypto randomness)")
	verbose := flag.Bool("v", false, "Log engine activity to stderr")
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "Usage: debug [flags] <score> [score...]")
		flag.PrintDefaults()
	}
	flag.Parse()

	level := logger.LogLevelError
	if *verbose {
		level = logger.LogLevelDebug
	}
	logger.InitLoggerWithWriter(logger.NewConfig(level, logger.LogFormatText, logger.DefaultServiceName, logger.DefaultVersion, "debug", false), os.Stderr)

	scores, err := parseScores(flag.Args())
	if err != nil || len(scores) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cat, err := catalog.NewParser().LoadFile(*catalogPath)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	opts := []reward.Option{}
	if *seed != 0 {
		opts = append(opts, reward.WithRandomSource(utils.NewSeededRandomSource(*seed)))
	}
	engine := reward.NewEngine(stock.NewMemoryStore(), event.NewMemoryBus(), opts...)

	ctx := context.Background()
	if err := engine.LoadConfig(ctx, cat); err != nil {
		log.Fatalf("Failed to apply catalog: %v", err)
	}

	if err := evaluateScores(ctx, engine, scores, *commit, os.Stdout); err != nil {
		log.Fatalf("Evaluation failed: %v", err)
	}
}

func parseScores(args []string) ([]int, error) {
	scores := make([]int, 0, len(args))
	for _, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("invalid score %q: %w", a, err)
		}
		scores = append(scores, n)
	}
	return scores, nil
}

// evaluateScores prints one row per score. Without commit every reservation
// is released, so each score sees the same stock.
func evaluateScores(ctx context.Context, engine *reward.Engine, scores []int, commit bool, out io.Writer) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "SCORE\tPERCENT\tCATEGORY\tITEM\tSTOCK\n")

	for _, score := range scores {
		res := engine.Evaluate(ctx, score)
		if res.Empty() {
			fmt.Fprintf(tw, "%d\t%.1f\t-\t-\t-\n", score, res.Percent)
			continue
		}

		remaining := engine.RemainingForItem(res.ItemID)
		if commit {
			grant, err := engine.Commit(ctx, res, domain.CauseAdmin)
			if err != nil {
				return fmt.Errorf("commit %s: %w", res.ItemID, err)
			}
			remaining = grant.StockAfter
		} else {
			engine.Release(ctx, res.Token)
		}
		fmt.Fprintf(tw, "%d\t%.1f\t%s\t%s\t%d\n", score, res.Percent, res.CategoryName, res.ItemID, remaining)
	}

	report := engine.Report()
	fmt.Fprintf(tw, "\nTOTAL TODAY\t%d\n", report.TotalToday)
	return tw.Flush()
}
