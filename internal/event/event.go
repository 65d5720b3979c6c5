package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/PrizeKiosk_Go/internal/domain"
)

// Type represents the type of an event
type Type string

// Metadata defines the type for event metadata
type Metadata interface{}

// Event represents a generic event in the system
type Event struct {
	Version  string      `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata Metadata    `json:"metadata"`
}

// GetMetadataValue extracts a value from map metadata safely
func (e Event) GetMetadataValue(key string) interface{} {
	if m, ok := e.Metadata.(map[string]interface{}); ok {
		return m[key]
	}
	return nil
}

// Reward and stock event types
const (
	RewardGranted   Type = Type(domain.EventTypeRewardGranted)
	StockLow        Type = Type(domain.EventTypeStockLow)
	StockLowCleared Type = Type(domain.EventTypeStockLowCleared)
	StockAdjusted   Type = Type(domain.EventTypeStockAdjusted)
	DailyRollover   Type = Type(domain.EventTypeDailyRollover)
	CatalogLoaded   Type = Type(domain.EventTypeCatalogLoaded)
)

// Typed event payloads for type safety

// RewardGrantedPayloadV1 carries everything a subscriber needs about a
// committed reward, so handlers never have to query the engine.
type RewardGrantedPayloadV1 struct {
	Token          string       `json:"token"`
	ItemID         string       `json:"item_id"`
	ItemName       string       `json:"item_name"`
	CategoryIndex  int          `json:"category_index"`
	CategoryID     int          `json:"category_id"`
	CategoryName   string       `json:"category_name"`
	Cause          domain.Cause `json:"cause"`
	Score          int          `json:"score"`
	Percent        float64      `json:"percent"`
	Forced         bool         `json:"forced"`
	StockBefore    int          `json:"stock_before"`
	StockAfter     int          `json:"stock_after"`
	TotalRemaining int          `json:"total_remaining"`
	Timestamp      int64        `json:"timestamp"`
}

// LowStockPayloadV1 is the payload of stock.low and stock.low_cleared
type LowStockPayloadV1 struct {
	TotalRemaining int `json:"total_remaining"`
	Threshold      int `json:"threshold"`
}

// StockAdjustedPayloadV1 describes an administrative stock change
type StockAdjustedPayloadV1 struct {
	ItemID         string `json:"item_id,omitempty"`
	Operation      string `json:"operation"`
	Quantity       int    `json:"quantity,omitempty"`
	Today          int    `json:"today"`
	Campaign       int    `json:"campaign"`
	TotalRemaining int    `json:"total_remaining"`
	Timestamp      int64  `json:"timestamp"`
}

// DailyRolloverPayloadV1 is published when a new calendar day rebuilds the daily pool
type DailyRolloverPayloadV1 struct {
	PreviousDate   string `json:"previous_date"`
	Date           string `json:"date"`
	TotalRemaining int    `json:"total_remaining"`
}

// CatalogLoadedPayloadV1 is published after a catalog has been applied
type CatalogLoadedPayloadV1 struct {
	Remote     bool   `json:"remote"`
	Signature  string `json:"signature"`
	Categories int    `json:"categories"`
	Items      int    `json:"items"`
	AutoBands  bool   `json:"auto_bands"`
}

// Type-safe event constructors

// NewRewardGrantedEvent creates a reward.granted event
func NewRewardGrantedEvent(p RewardGrantedPayloadV1) Event {
	if p.Timestamp == 0 {
		p.Timestamp = time.Now().Unix()
	}
	return Event{
		Version: EventSchemaVersion,
		Type:    RewardGranted,
		Payload: p,
		Metadata: map[string]interface{}{
			"cause": string(p.Cause),
		},
	}
}

// NewLowStockEvent creates stock.low when low is true, stock.low_cleared otherwise
func NewLowStockEvent(low bool, total, threshold int) Event {
	t := StockLowCleared
	if low {
		t = StockLow
	}
	return Event{
		Version: EventSchemaVersion,
		Type:    t,
		Payload: LowStockPayloadV1{
			TotalRemaining: total,
			Threshold:      threshold,
		},
	}
}

// NewStockAdjustedEvent creates a stock.adjusted event
func NewStockAdjustedEvent(p StockAdjustedPayloadV1) Event {
	if p.Timestamp == 0 {
		p.Timestamp = time.Now().Unix()
	}
	return Event{
		Version: EventSchemaVersion,
		Type:    StockAdjusted,
		Payload: p,
	}
}

// NewDailyRolloverEvent creates a stock.daily_rollover event
func NewDailyRolloverEvent(previousDate, date string, total int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    DailyRollover,
		Payload: DailyRolloverPayloadV1{
			PreviousDate:   previousDate,
			Date:           date,
			TotalRemaining: total,
		},
	}
}

// NewCatalogLoadedEvent creates a catalog.loaded event
func NewCatalogLoadedEvent(p CatalogLoadedPayloadV1) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    CatalogLoaded,
		Payload: p,
		Metadata: map[string]interface{}{
			"remote": p.Remote,
		},
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish runs every subscriber synchronously and joins their errors
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	if !ok {
		return nil
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
