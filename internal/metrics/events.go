package metrics

import (
	"context"

	"github.com/osse101/PrizeKiosk_Go/internal/event"
	"github.com/osse101/PrizeKiosk_Go/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to every reward and stock event
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	eventTypes := []event.Type{
		event.RewardGranted,
		event.StockLow,
		event.StockLowCleared,
		event.StockAdjusted,
		event.DailyRollover,
		event.CatalogLoaded,
	}

	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}

	return nil
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch evt.Type {
	case event.RewardGranted:
		p, err := event.DecodePayload[event.RewardGrantedPayloadV1](evt.Payload)
		if err != nil {
			return e.decodeFailed(ctx, evt, err)
		}
		RewardsGranted.WithLabelValues(string(p.Cause), p.CategoryName).Inc()
		DailyStockRemaining.WithLabelValues(p.ItemID).Set(float64(p.StockAfter))
		DailyStockTotal.Set(float64(p.TotalRemaining))

	case event.StockLow, event.StockLowCleared:
		p, err := event.DecodePayload[event.LowStockPayloadV1](evt.Payload)
		if err != nil {
			return e.decodeFailed(ctx, evt, err)
		}
		if evt.Type == event.StockLow {
			LowStockActive.Set(1)
		} else {
			LowStockActive.Set(0)
		}
		DailyStockTotal.Set(float64(p.TotalRemaining))

	case event.StockAdjusted:
		p, err := event.DecodePayload[event.StockAdjustedPayloadV1](evt.Payload)
		if err != nil {
			return e.decodeFailed(ctx, evt, err)
		}
		StockAdjustments.WithLabelValues(p.Operation).Inc()
		if p.ItemID != "" {
			DailyStockRemaining.WithLabelValues(p.ItemID).Set(float64(p.Today))
		}
		DailyStockTotal.Set(float64(p.TotalRemaining))

	case event.DailyRollover:
		p, err := event.DecodePayload[event.DailyRolloverPayloadV1](evt.Payload)
		if err != nil {
			return e.decodeFailed(ctx, evt, err)
		}
		DailyRollovers.Inc()
		DailyStockTotal.Set(float64(p.TotalRemaining))

	case event.CatalogLoaded:
		p, err := event.DecodePayload[event.CatalogLoadedPayloadV1](evt.Payload)
		if err != nil {
			return e.decodeFailed(ctx, evt, err)
		}
		source := SourceLocal
		if p.Remote {
			source = SourceRemote
		}
		CatalogLoads.WithLabelValues(source).Inc()
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}

func (e *EventMetricsCollector) decodeFailed(ctx context.Context, evt event.Event, err error) error {
	EventHandlerErrors.WithLabelValues(string(evt.Type)).Inc()
	logger.FromContext(ctx).Debug(LogMsgPayloadDecodeFailed, "type", evt.Type, "error", err)
	return nil
}
