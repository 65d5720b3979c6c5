package sse

import (
	"context"

	"github.com/osse101/PrizeKiosk_Go/internal/event"
	"github.com/osse101/PrizeKiosk_Go/internal/logger"
)

// RewardPayload is what a display shows for a grant
type RewardPayload struct {
	ItemID         string `json:"item_id"`
	ItemName       string `json:"item_name"`
	CategoryName   string `json:"category_name"`
	Cause          string `json:"cause"`
	Score          int    `json:"score"`
	StockAfter     int    `json:"stock_after"`
	TotalRemaining int    `json:"total_remaining"`
}

// LowStockPayload drives the low-stock banner. Low=false hides it.
type LowStockPayload struct {
	Low            bool `json:"low"`
	TotalRemaining int  `json:"total_remaining"`
	Threshold      int  `json:"threshold"`
}

// Subscriber bridges the internal event bus to the hub
type Subscriber struct {
	hub *Hub
}

// NewSubscriber creates a subscriber broadcasting on hub
func NewSubscriber(hub *Hub) *Subscriber {
	return &Subscriber{hub: hub}
}

// Subscribe registers the bus handlers
func (s *Subscriber) Subscribe(bus event.Bus) {
	bus.Subscribe(event.RewardGranted, s.handleRewardGranted)
	bus.Subscribe(event.StockLow, s.handleLowStock)
	bus.Subscribe(event.StockLowCleared, s.handleLowStock)
	bus.Subscribe(event.StockAdjusted, s.forward(EventTypeStockAdjusted))
	bus.Subscribe(event.DailyRollover, s.forward(EventTypeDailyRollover))
	bus.Subscribe(event.CatalogLoaded, s.forward(EventTypeCatalogLoaded))

	logger.Info(LogMsgSubscriberReady, "types", []string{
		EventTypeRewardGranted,
		EventTypeLowStock,
		EventTypeStockAdjusted,
		EventTypeDailyRollover,
		EventTypeCatalogLoaded,
	})
}

func (s *Subscriber) handleRewardGranted(ctx context.Context, evt event.Event) error {
	p, err := event.DecodePayload[event.RewardGrantedPayloadV1](evt.Payload)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgDecodeFailed, "event_type", evt.Type, "error", err)
		return nil
	}

	s.hub.Broadcast(EventTypeRewardGranted, RewardPayload{
		ItemID:         p.ItemID,
		ItemName:       p.ItemName,
		CategoryName:   p.CategoryName,
		Cause:          string(p.Cause),
		Score:          p.Score,
		StockAfter:     p.StockAfter,
		TotalRemaining: p.TotalRemaining,
	})
	logger.FromContext(ctx).Debug(LogMsgEventBroadcast, "event_type", EventTypeRewardGranted, "item_id", p.ItemID)
	return nil
}

// handleLowStock folds stock.low and stock.low_cleared into one banner event
func (s *Subscriber) handleLowStock(ctx context.Context, evt event.Event) error {
	p, err := event.DecodePayload[event.LowStockPayloadV1](evt.Payload)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgDecodeFailed, "event_type", evt.Type, "error", err)
		return nil
	}

	s.hub.Broadcast(EventTypeLowStock, LowStockPayload{
		Low:            evt.Type == event.StockLow,
		TotalRemaining: p.TotalRemaining,
		Threshold:      p.Threshold,
	})
	return nil
}

// forward relays the payload unchanged
func (s *Subscriber) forward(eventType string) event.Handler {
	return func(ctx context.Context, evt event.Event) error {
		s.hub.Broadcast(eventType, evt.Payload)
		logger.FromContext(ctx).Debug(LogMsgEventBroadcast, "event_type", eventType)
		return nil
	}
}
