package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Reward Metrics
var (
	RewardsGranted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRewardsGranted,
			Help: HelpTextRewardsGranted,
		},
		[]string{LabelCause, LabelCategory},
	)

	DailyStockRemaining = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: MetricNameDailyStockRemaining,
			Help: HelpTextDailyStockRemaining,
		},
		[]string{LabelItem},
	)

	DailyStockTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameDailyStockTotal,
			Help: HelpTextDailyStockTotal,
		},
	)

	LowStockActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameLowStockActive,
			Help: HelpTextLowStockActive,
		},
	)

	CatalogLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCatalogLoads,
			Help: HelpTextCatalogLoads,
		},
		[]string{LabelSource},
	)

	StockAdjustments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameStockAdjustments,
			Help: HelpTextStockAdjustments,
		},
		[]string{LabelOperation},
	)

	DailyRollovers = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameDailyRollovers,
			Help: HelpTextDailyRollovers,
		},
	)
)
