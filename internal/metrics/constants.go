package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Reward metric names
const (
	MetricNameRewardsGranted      = "rewards_granted_total"
	MetricNameDailyStockRemaining = "daily_stock_remaining"
	MetricNameDailyStockTotal     = "daily_stock_total"
	MetricNameLowStockActive      = "low_stock_active"
	MetricNameCatalogLoads        = "catalog_loads_total"
	MetricNameStockAdjustments    = "stock_adjustments_total"
	MetricNameDailyRollovers      = "daily_rollovers_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Reward metric help text
const (
	HelpTextRewardsGranted      = "Total number of rewards committed against the ledger"
	HelpTextDailyStockRemaining = "Remaining daily stock of the last granted item"
	HelpTextDailyStockTotal     = "Remaining daily stock across all items"
	HelpTextLowStockActive      = "1 while daily stock is at or below the low-stock threshold"
	HelpTextCatalogLoads        = "Total number of catalogs applied to the engine"
	HelpTextStockAdjustments    = "Total number of administrative stock changes"
	HelpTextDailyRollovers      = "Total number of daily pool rebuilds for a new calendar day"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod    = "method"
	LabelPath      = "path"
	LabelStatus    = "status"
	LabelType      = "type"
	LabelItem      = "item"
	LabelCause     = "cause"
	LabelCategory  = "category"
	LabelSource    = "source"
	LabelOperation = "operation"
)

// Catalog source label values
const (
	SourceLocal  = "local"
	SourceRemote = "remote"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds, from 1ms to 10s.
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// ============================================================================
// Log Messages
// ============================================================================

// Debug log messages
const (
	LogMsgPayloadDecodeFailed = "Event payload could not be decoded"
	LogMsgMetricsRecorded     = "Metrics recorded for event"
)
