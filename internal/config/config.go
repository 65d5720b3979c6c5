package config

import (
	"fmt"
	"time"
	_ "time/tzdata" // kiosks often ship without a zoneinfo database

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Environment      string `env:"APP_ENV" envDefault:"dev"`
	EnvSchemaVersion string `env:"ENV_SCHEMA_VERSION"`
	AppVersion       string `env:"APP_VERSION" envDefault:"dev"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	LogDir    string `env:"LOG_DIR" envDefault:"logs"`

	HTTPAddr       string   `env:"HTTP_ADDR" envDefault:":8080"`
	APIKey         string   `env:"API_KEY"` // API key for the admin API
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	DataDir              string        `env:"DATA_DIR" envDefault:"data"`
	CatalogPath          string        `env:"CATALOG_PATH" envDefault:"configs/catalog.yaml"`
	CatalogWatchInterval time.Duration `env:"CATALOG_WATCH_INTERVAL" envDefault:"2s"`
	Remote               RemoteCatalog `envPrefix:"REMOTE_CATALOG_"`

	StoreBackend string `env:"STORE_BACKEND" envDefault:"file"`
	SQLitePath   string `env:"SQLITE_PATH"`

	Rules Rules

	ResetTimezone  string        `env:"RESET_TIMEZONE" envDefault:"Local"`
	ReservationTTL time.Duration `env:"RESERVATION_TTL" envDefault:"10m"`

	Telemetry Telemetry `envPrefix:"TELEMETRY_"`

	EventDeadLetterPath string `env:"EVENT_DEAD_LETTER_PATH" envDefault:"data/events_deadletter.jsonl"`
	WorkerCount         int    `env:"WORKER_COUNT" envDefault:"2"`
	WorkerQueueSize     int    `env:"WORKER_QUEUE_SIZE" envDefault:"100"`
}

// RemoteCatalog configures the optional remote catalog endpoint
type RemoteCatalog struct {
	Enabled bool          `env:"ENABLED" envDefault:"false"`
	URL     string        `env:"URL"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"6s"`
}

// Rules holds the prize rules of the kiosk game
type Rules struct {
	LowStockThreshold  int    `env:"LOW_STOCK_THRESHOLD" envDefault:"10"`
	TopPrizeItemID     string `env:"TOP_PRIZE_ITEM_ID" envDefault:"labubu"`
	IgnoredItemID      string `env:"IGNORED_ITEM_ID" envDefault:"canetazero"`
	BottleItemID       string `env:"BOTTLE_ITEM_ID" envDefault:"garrafa"`
	PelletPerfectScore int    `env:"PELLET_PERFECT_SCORE" envDefault:"2460"`
	AllPelletsMaxScore int    `env:"ALL_PELLETS_MAX_SCORE" envDefault:"2770"`
	MessageLanguage    string `env:"MESSAGE_LANGUAGE" envDefault:"pt-BR"`
}

// Telemetry configures reward telemetry
type Telemetry struct {
	Enabled         bool          `env:"ENABLED" envDefault:"true"`
	File            string        `env:"FILE" envDefault:"RewardsTelemetry.log"`
	SendToServer    bool          `env:"SEND" envDefault:"false"`
	EndpointURL     string        `env:"ENDPOINT"`
	FlushInterval   time.Duration `env:"FLUSH_INTERVAL" envDefault:"10s"`
	BatchSize       int           `env:"BATCH_SIZE" envDefault:"20"`
	MaxPending      int           `env:"MAX_PENDING"`
	AuthHeaderKey   string        `env:"AUTH_HEADER_KEY" envDefault:"Authorization"`
	AuthHeaderValue string        `env:"AUTH_HEADER_VALUE"`
	IncludeDeviceID bool          `env:"INCLUDE_DEVICE_ID" envDefault:"false"`
	DeviceID        string        `env:"DEVICE_ID"`
	Scene           string        `env:"SCENE" envDefault:"Victory"`
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()
	return Parse()
}

// Parse reads the configuration from the current environment only
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// ParseEnvironment reads the configuration from environ instead of the process environment
func ParseEnvironment(environ map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Location resolves ResetTimezone
func (c *Config) Location() (*time.Location, error) {
	if c.ResetTimezone == "" || c.ResetTimezone == ResetTimezoneLocal {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.ResetTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid RESET_TIMEZONE %q: %w", c.ResetTimezone, err)
	}
	return loc, nil
}

// IsProduction reports whether APP_ENV selects production
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}
