package reward

import "time"

// Reservation defaults
const (
	DefaultReservationTTL      = 10 * time.Minute
	DefaultReservationCapacity = 1024
)

// ForcedPercent is reported on results that bypassed the band resolver
const ForcedPercent = -1.0

// Stock adjustment operations published on stock.adjusted
const (
	OpTopUp           = "top_up"
	OpSetToday        = "set_today"
	OpSetCampaign     = "set_campaign"
	OpForceResetToday = "force_reset_today"
)

// Log messages
const (
	LogMsgCatalogApplied       = "Reward catalog applied"
	LogMsgRemoteFallback       = "Remote catalog unavailable, using local catalog"
	LogMsgEvaluateNoCatalog    = "Evaluate called before a catalog was loaded"
	LogMsgEvaluated            = "Score evaluated"
	LogMsgForcedTopPrize       = "Only the top prize is left, forcing it"
	LogMsgNoEligibleItem       = "No eligible item in any category"
	LogMsgRewardCommitted      = "Reward committed"
	LogMsgCommitRejected       = "Reward commit rejected"
	LogMsgPublishFailed        = "Failed to publish event"
	LogMsgStockAdjusted        = "Stock adjusted"
	LogMsgReservationReleased  = "Reservation released"
	LogMsgDailyRolloverApplied = "Daily rollover applied"
)
