package sse

import "time"

// Buffer sizes
const (
	// BroadcastBufferSize is the buffer size for the broadcast channel
	BroadcastBufferSize = 100

	// ClientEventBuffer is the buffer size for each client's event channel
	ClientEventBuffer = 50

	// ClientChannelBuffer is the buffer size for register/unregister channels
	ClientChannelBuffer = 10
)

// KeepaliveInterval is how often idle streams get a ping
const KeepaliveInterval = 30 * time.Second

// Event types sent to display clients
const (
	EventTypeConnected     = "connected"
	EventTypeKeepalive     = "keepalive"
	EventTypeRewardGranted = "reward.granted"
	EventTypeLowStock      = "stock.low"
	EventTypeStockAdjusted = "stock.adjusted"
	EventTypeDailyRollover = "stock.daily_rollover"
	EventTypeCatalogLoaded = "catalog.loaded"
)

// QueryParamTypes selects event types, comma separated
const QueryParamTypes = "types"

// Log messages
const (
	LogMsgClientConnected    = "Display client connected"
	LogMsgClientDisconnected = "Display client disconnected"
	LogMsgEventBroadcast     = "Broadcasting display event"
	LogMsgEventDropped       = "Display event dropped, broadcast buffer full"
	LogMsgClientLagging      = "Display client lagging, event skipped"
	LogMsgWriteError         = "Failed to write display event"
	LogMsgSubscriberReady    = "Display feed subscribed to events"
	LogMsgDecodeFailed       = "Failed to decode event for display"
)

// ErrMsgStreamingUnsupported is returned when the writer cannot flush
const ErrMsgStreamingUnsupported = "streaming not supported"
