package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/osse101/PrizeKiosk_Go/internal/catalog"
	"github.com/osse101/PrizeKiosk_Go/internal/config"
	"github.com/osse101/PrizeKiosk_Go/internal/event"
	"github.com/osse101/PrizeKiosk_Go/internal/outcome"
	"github.com/osse101/PrizeKiosk_Go/internal/reward"
	"github.com/osse101/PrizeKiosk_Go/internal/stock"
	"github.com/osse101/PrizeKiosk_Go/internal/telemetry"
)

// Services holds the domain components built from configuration
type Services struct {
	Store   stock.Store
	Engine  *reward.Engine
	Policy  *outcome.Policy
	Catalog *CatalogSource
}

// OpenStore opens the configured stock backend
func OpenStore(cfg *config.Config) (stock.Store, error) {
	store, err := stock.NewStore(cfg.StoreBackend, cfg.DataDir, cfg.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedOpenStore, err)
	}
	slog.Info(LogMsgStoreOpened, "backend", cfg.StoreBackend, "data_dir", cfg.DataDir)
	return store, nil
}

// EngineOptions maps configuration onto reward engine options
func EngineOptions(cfg *config.Config) ([]reward.Option, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedResolveZone, err)
	}

	opts := []reward.Option{
		reward.WithTopPrizeItemID(cfg.Rules.TopPrizeItemID),
		reward.WithIgnoredItemID(cfg.Rules.IgnoredItemID),
		reward.WithLowStockThreshold(cfg.Rules.LowStockThreshold),
		reward.WithLocation(loc),
		reward.WithReservationTTL(cfg.ReservationTTL),
	}
	if cfg.Remote.Enabled {
		opts = append(opts, reward.WithRemoteFetcher(
			catalog.NewRemoteFetcher(cfg.Remote.URL, cfg.Remote.Timeout, &http.Client{})))
	}
	return opts, nil
}

// OutcomeRules maps configuration onto the outcome policy rules
func OutcomeRules(cfg *config.Config) outcome.Rules {
	return outcome.Rules{
		TopPrizeItemID:     cfg.Rules.TopPrizeItemID,
		IgnoredItemID:      cfg.Rules.IgnoredItemID,
		BottleItemID:       cfg.Rules.BottleItemID,
		PelletPerfectScore: cfg.Rules.PelletPerfectScore,
		AllPelletsMaxScore: cfg.Rules.AllPelletsMaxScore,
		Language:           cfg.Rules.MessageLanguage,
	}
}

// TelemetrySettings maps configuration onto normalized telemetry settings
func TelemetrySettings(cfg *config.Config) telemetry.Settings {
	t := cfg.Telemetry
	return telemetry.Settings{
		Enabled:         t.Enabled,
		FilePath:        t.File,
		SendToServer:    t.SendToServer,
		EndpointURL:     t.EndpointURL,
		FlushInterval:   t.FlushInterval,
		BatchSize:       t.BatchSize,
		MaxPending:      t.MaxPending,
		AuthHeaderKey:   t.AuthHeaderKey,
		AuthHeaderValue: t.AuthHeaderValue,
		IncludeDeviceID: t.IncludeDeviceID,
		DeviceID:        t.DeviceID,
		Scene:           t.Scene,
		AppVersion:      cfg.AppVersion,
	}.Normalize(cfg.DataDir)
}

// NewTelemetryRecorder builds the recorder, with an uploader only when
// uploads are configured
func NewTelemetryRecorder(cfg *config.Config) (*telemetry.Recorder, error) {
	settings := TelemetrySettings(cfg)

	var uploader telemetry.BatchUploader
	if settings.Uploading() {
		uploader = telemetry.NewUploader(settings, &http.Client{Timeout: settings.HTTPTimeout})
	}

	rec, err := telemetry.NewRecorder(settings, uploader)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedInitTelemetry, err)
	}
	return rec, nil
}

// BuildServices opens the store, builds the engine publishing on bus, applies
// the catalog (remote first when enabled) and builds the outcome policy.
func BuildServices(ctx context.Context, cfg *config.Config, bus event.Bus) (*Services, error) {
	store, err := OpenStore(cfg)
	if err != nil {
		return nil, err
	}

	opts, err := EngineOptions(cfg)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	engine := reward.NewEngine(store, bus, opts...)

	source := NewCatalogSource(cfg.CatalogPath, engine)
	if _, err := source.Reload(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}

	policy, err := outcome.NewPolicy(engine, OutcomeRules(cfg))
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedBuildPolicy, err)
	}

	return &Services{
		Store:   store,
		Engine:  engine,
		Policy:  policy,
		Catalog: source,
	}, nil
}
