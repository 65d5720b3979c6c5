// Package sse streams kiosk events to display clients (the attract screen and
// the low-stock banner) as server-sent events.
package sse

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/PrizeKiosk_Go/internal/logger"
)

// Event is one message on the stream
type Event struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
	Payload   any    `json:"payload"`
}

// Client is a connected display
type Client struct {
	ID     string
	Events chan Event
	filter map[string]bool // nil means every type
}

func (c *Client) wants(eventType string) bool {
	return c.filter == nil || c.filter[eventType]
}

// Hub fans events out to the registered clients. Slow clients miss events
// instead of blocking the broadcaster.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client

	broadcast  chan Event
	register   chan *Client
	unregister chan string

	shutdown chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	now      func() time.Time
}

// NewHub creates a hub. Call Start before registering clients.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		broadcast:  make(chan Event, BroadcastBufferSize),
		register:   make(chan *Client, ClientChannelBuffer),
		unregister: make(chan string, ClientChannelBuffer),
		shutdown:   make(chan struct{}),
		now:        time.Now,
	}
}

// Start runs the broadcast loop
func (h *Hub) Start() {
	h.wg.Add(1)
	go h.run()
}

// Stop ends the loop and closes every client channel. It is safe to call twice.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.shutdown)
		h.wg.Wait()

		h.mu.Lock()
		for id, c := range h.clients {
			close(c.Events)
			delete(h.clients, id)
		}
		h.mu.Unlock()
	})
}

func (h *Hub) run() {
	defer h.wg.Done()

	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c.ID] = c
			h.mu.Unlock()

		case id := <-h.unregister:
			h.mu.Lock()
			if c, ok := h.clients[id]; ok {
				close(c.Events)
				delete(h.clients, id)
			}
			h.mu.Unlock()

		case evt := <-h.broadcast:
			h.fanOut(evt)

		case <-h.shutdown:
			return
		}
	}
}

func (h *Hub) fanOut(evt Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		if !c.wants(evt.Type) {
			continue
		}
		select {
		case c.Events <- evt:
		default:
			logger.Debug(LogMsgClientLagging, "client_id", c.ID, "event_type", evt.Type)
		}
	}
}

// Register adds a client interested in eventTypes, or in everything when empty
func (h *Hub) Register(eventTypes []string) *Client {
	c := &Client{
		ID:     uuid.New().String(),
		Events: make(chan Event, ClientEventBuffer),
	}
	if len(eventTypes) > 0 {
		c.filter = make(map[string]bool, len(eventTypes))
		for _, t := range eventTypes {
			c.filter[t] = true
		}
	}

	select {
	case h.register <- c:
	case <-h.shutdown:
		close(c.Events)
	}
	return c
}

// Unregister removes a client and closes its channel
func (h *Hub) Unregister(clientID string) {
	select {
	case h.unregister <- clientID:
	case <-h.shutdown:
	}
}

// Broadcast queues an event for every interested client. It never blocks;
// when the buffer is full the event is dropped.
func (h *Hub) Broadcast(eventType string, payload any) {
	evt := Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: h.now().Unix(),
		Payload:   payload,
	}

	select {
	case h.broadcast <- evt:
	default:
		logger.Warn(LogMsgEventDropped, "event_type", eventType)
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// FormatSSEMessage renders evt in the text/event-stream wire format
func FormatSSEMessage(evt Event) ([]byte, error) {
	data, err := json.Marshal(evt)
	if err != nil {
		return nil, err
	}
	return fmt.Appendf(nil, "id: %s\nevent: %s\ndata: %s\n\n", evt.ID, evt.Type, data), nil
}
