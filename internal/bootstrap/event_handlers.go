package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/osse101/PrizeKiosk_Go/internal/event"
	"github.com/osse101/PrizeKiosk_Go/internal/metrics"
	"github.com/osse101/PrizeKiosk_Go/internal/sse"
	"github.com/osse101/PrizeKiosk_Go/internal/telemetry"
)

// EventHandlerDependencies holds the dependencies needed for event handler registration.
type EventHandlerDependencies struct {
	EventBus  event.Bus
	Telemetry *telemetry.Recorder
	Display   *sse.Hub
}

// RegisterEventHandlers subscribes the metrics collector and, when present,
// the telemetry recorder and the display feed to the bus.
func RegisterEventHandlers(deps EventHandlerDependencies) error {
	metricsCollector := metrics.NewEventMetricsCollector()
	if err := metricsCollector.Register(deps.EventBus); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedRegisterMetrics, err)
	}
	slog.Info(LogMsgMetricsCollectorRegistered)

	if deps.Telemetry != nil {
		deps.Telemetry.Register(deps.EventBus)
		slog.Info(LogMsgTelemetryRecorderReady, "session", deps.Telemetry.Session())
	}

	if deps.Display != nil {
		sse.NewSubscriber(deps.Display).Subscribe(deps.EventBus)
	}

	return nil
}
