package config

// Default file locations
const (
	DefaultCatalogPath    = "configs/catalog.yaml"
	DefaultDataDir        = "data"
	DefaultLogDir         = "logs"
	DefaultDeadLetterPath = "data/events_deadletter.jsonl"
)

// Environment names
const (
	EnvDev        = "dev"
	EnvStaging    = "staging"
	EnvProduction = "prod"
)

// ResetTimezoneLocal selects the host's local zone for the daily reset
const ResetTimezoneLocal = "Local"

// ExpectedEnvSchemaVersion is the schema version that the application expects
const ExpectedEnvSchemaVersion = "1.0"
