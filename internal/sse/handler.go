package sse

import (
	"net/http"
	"strings"
	"time"

	"github.com/osse101/PrizeKiosk_Go/internal/logger"
)

// Handler streams hub events to one display client until it disconnects or
// the hub stops. ?types=stock.low,reward.granted narrows the stream.
func Handler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rc := http.NewResponseController(w)
		log := logger.FromContext(r.Context())

		var eventTypes []string
		if filter := r.URL.Query().Get(QueryParamTypes); filter != "" {
			for _, t := range strings.Split(filter, ",") {
				if t = strings.TrimSpace(t); t != "" {
					eventTypes = append(eventTypes, t)
				}
			}
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		if err := rc.Flush(); err != nil {
			http.Error(w, ErrMsgStreamingUnsupported, http.StatusInternalServerError)
			return
		}

		client := hub.Register(eventTypes)
		log.Info(LogMsgClientConnected, "client_id", client.ID, "filters", eventTypes)
		defer func() {
			hub.Unregister(client.ID)
			log.Info(LogMsgClientDisconnected, "client_id", client.ID)
		}()

		send := func(evt Event) bool {
			msg, err := FormatSSEMessage(evt)
			if err != nil {
				log.Error(LogMsgWriteError, "event_type", evt.Type, "error", err)
				return true
			}
			if _, err := w.Write(msg); err != nil {
				log.Warn(LogMsgWriteError, "event_type", evt.Type, "error", err)
				return false
			}
			if err := rc.Flush(); err != nil {
				log.Warn(LogMsgWriteError, "event_type", evt.Type, "error", err)
				return false
			}
			return true
		}

		if !send(Event{
			ID:        client.ID,
			Type:      EventTypeConnected,
			Timestamp: time.Now().Unix(),
			Payload:   map[string]any{"client_id": client.ID, "filters": eventTypes},
		}) {
			return
		}

		ticker := time.NewTicker(KeepaliveInterval)
		defer ticker.Stop()

		ctx := r.Context()
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-client.Events:
				if !ok || !send(evt) {
					return
				}
			case <-ticker.C:
				if !send(Event{Type: EventTypeKeepalive, Timestamp: time.Now().Unix()}) {
					return
				}
			}
		}
	}
}
