package handler

// Generic HTTP error messages for client responses.
// Both handlers and tests reference these constants.
const (
	ErrMsgMethodNotAllowed      = "Method not allowed"
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgMissingItemID         = "Missing item id"

	ErrMsgCatalogReloadFailed = "Failed to reload catalog"
)

// Success messages returned in JSON responses
const (
	MsgStockToppedUp      = "Stock topped up"
	MsgTodayStockSet      = "Today's stock updated"
	MsgCampaignStockSet   = "Campaign stock updated"
	MsgTodayStockReset    = "Today's stock reset from the catalog"
	MsgLowStockEmitted    = "Low-stock state published"
	MsgThresholdSet       = "Low-stock threshold updated"
	MsgStockDecremented   = "One unit handed out"
	MsgCatalogReloaded    = "Catalog reloaded"
	MsgEvaluationReleased = "Preview only, reservation released"
)

// Operation names used in logs
const (
	OpTopUp         = "Top up stock"
	OpSetToday      = "Set today's stock"
	OpSetCampaign   = "Set campaign stock"
	OpResetToday    = "Reset today's stock"
	OpSetThreshold  = "Set low-stock threshold"
	OpEvaluate      = "Evaluate score"
	OpPlay          = "Play"
	OpReloadCatalog = "Reload catalog"
)
