package sse

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// knownTypes are the pool event types a client may filter on
var knownTypes = map[string]bool{
	EventTypeEntered:       true,
	EventTypeDrawRequested: true,
	EventTypeWinnerPicked:  true,
	EventTypePayoutFailed:  true,
	EventTypeDrawReset:     true,
}

// ParseTypes splits a comma separated ?types= value. Unknown names are
// dropped; an empty result means every event.
func ParseTypes(raw string) []string {
	if raw == "" {
		return nil
	}
	var types []string
	for _, t := range strings.Split(raw, ",") {
		t = strings.TrimSpace(t)
		if knownTypes[t] {
			types = append(types, t)
		}
	}
	return types
}

// parseLastEventID reads the resume point from the header, or from
// ?last_event_id= for clients that cannot set headers
func parseLastEventID(r *http.Request) uint64 {
	raw := r.Header.Get(HeaderLastEventID)
	if raw == "" {
		raw = r.URL.Query().Get("last_event_id")
	}
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// Handler returns an HTTP handler streaming pool events to a client
func Handler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "SSE not supported", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")

		eventTypes := ParseTypes(r.URL.Query().Get("types"))
		lastID := parseLastEventID(r)
		client := hub.Resume(eventTypes, lastID)
		slog.Info(LogMsgClientConnected, "client_id", client.ID, "filters", eventTypes, "last_event_id", lastID)

		defer func() {
			hub.Unregister(client.ID)
			slog.Info(LogMsgClientDisconnected, "client_id", client.ID)
		}()

		write := func(e Event) bool {
			msg, err := FormatSSEMessage(e)
			if err != nil {
				slog.Error(LogMsgWriteError, "error", err)
				return true
			}
			if _, err := w.Write(msg); err != nil {
				slog.Warn(LogMsgWriteError, "client_id", client.ID, "error", err)
				return false
			}
			flusher.Flush()
			return true
		}

		if !write(Event{
			Type:      EventTypeConnected,
			Timestamp: time.Now().Unix(),
			Payload:   map[string]interface{}{"client_id": client.ID, "filters": eventTypes},
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
			case e, ok := <-client.EventChannel:
				if !ok {
					// hub stopped
					return
				}
				if !write(e) {
					return
				}
			case <-ticker.C:
				if !write(Event{Type: EventTypeKeepalive, Timestamp: time.Now().Unix()}) {
					return
				}
			}
		}
	}
}
