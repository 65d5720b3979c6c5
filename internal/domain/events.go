package domain

// Event type constants used across the application for event bus subscriptions
// and metrics tracking.
//
// Event types follow the pattern: <entity>.<action> (e.g., "reward.granted")
const (
	// EventTypeRewardGranted is published after a reward has been committed against the ledger
	EventTypeRewardGranted = "reward.granted"

	// EventTypeStockLow is published when total daily stock drops to or below the threshold
	EventTypeStockLow = "stock.low"

	// EventTypeStockLowCleared is published when total daily stock rises back above the threshold
	EventTypeStockLowCleared = "stock.low_cleared"

	// EventTypeStockAdjusted is published after an administrative stock change
	EventTypeStockAdjusted = "stock.adjusted"

	// EventTypeDailyRollover is published when the daily pool is rebuilt for a new calendar day
	EventTypeDailyRollover = "stock.daily_rollover"

	// EventTypeCatalogLoaded is published whenever a catalog is (re)loaded into the engine
	EventTypeCatalogLoaded = "catalog.loaded"
)
