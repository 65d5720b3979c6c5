package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/osse101/PrizeKiosk_Go/internal/stock"
)

// Validate checks the configuration. Errors are fatal; warnings describe
// settings that work but are probably not what the operator wants.
func (c *Config) Validate() ([]string, error) {
	var errs []error
	var warnings []string

	switch c.EnvSchemaVersion {
	case ExpectedEnvSchemaVersion:
	case "":
		warnings = append(warnings, fmt.Sprintf("ENV_SCHEMA_VERSION is not set (expected: %s)", ExpectedEnvSchemaVersion))
	default:
		errs = append(errs, fmt.Errorf("ENV_SCHEMA_VERSION mismatch: expected %s, got %s - your .env file may be outdated", ExpectedEnvSchemaVersion, c.EnvSchemaVersion))
	}

	switch c.StoreBackend {
	case stock.BackendFile, stock.BackendSQLite, stock.BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("STORE_BACKEND must be one of file, sqlite, memory (got %q)", c.StoreBackend))
	}
	if c.StoreBackend == stock.BackendMemory {
		warnings = append(warnings, "STORE_BACKEND=memory: stock is lost on restart")
	}

	if strings.TrimSpace(c.CatalogPath) == "" {
		errs = append(errs, errors.New("CATALOG_PATH must be set"))
	}
	if c.CatalogWatchInterval < 0 {
		errs = append(errs, errors.New("CATALOG_WATCH_INTERVAL cannot be negative"))
	}
	if c.Remote.Enabled && strings.TrimSpace(c.Remote.URL) == "" {
		errs = append(errs, errors.New("REMOTE_CATALOG_URL must be set when REMOTE_CATALOG_ENABLED is true"))
	}

	if c.Rules.LowStockThreshold < 0 {
		errs = append(errs, errors.New("LOW_STOCK_THRESHOLD cannot be negative"))
	}
	if c.Rules.PelletPerfectScore > c.Rules.AllPelletsMaxScore {
		warnings = append(warnings, "PELLET_PERFECT_SCORE is above ALL_PELLETS_MAX_SCORE")
	}
	if strings.TrimSpace(c.Rules.TopPrizeItemID) == "" {
		errs = append(errs, errors.New("TOP_PRIZE_ITEM_ID must be set"))
	}

	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	if c.ReservationTTL <= 0 {
		errs = append(errs, errors.New("RESERVATION_TTL must be positive"))
	}
	if c.WorkerCount < 1 {
		errs = append(errs, errors.New("WORKER_COUNT must be at least 1"))
	}

	if c.Telemetry.SendToServer && strings.TrimSpace(c.Telemetry.EndpointURL) == "" {
		warnings = append(warnings, "TELEMETRY_SEND is true but TELEMETRY_ENDPOINT is empty; uploads are disabled")
	}
	if c.Telemetry.IncludeDeviceID && c.Telemetry.DeviceID == "" {
		warnings = append(warnings, "TELEMETRY_INCLUDE_DEVICE_ID is true but TELEMETRY_DEVICE_ID is empty")
	}

	if c.APIKey == "" {
		if c.IsProduction() {
			errs = append(errs, errors.New("API_KEY environment variable must be set for security"))
		} else {
			warnings = append(warnings, "API_KEY is not set; the admin API is unauthenticated")
		}
	} else if c.APIKey == "generate_with_openssl_rand_hex_32" {
		warnings = append(warnings, "API_KEY appears to be using the example value - generate a secure key with: openssl rand -hex 32")
	}

	return warnings, errors.Join(errs...)
}
