package sse

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event is one message on the stream. Pool events carry a sequence number
// as ID so a reconnecting client can ask for what it missed.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Timestamp int64       `json:"timestamp"`
	Payload   interface{} `json:"payload"`

	seq uint64
}

// Client is a connected subscriber
type Client struct {
	ID           string
	EventChannel chan Event
	EventFilter  map[string]bool // nil means every type

	resumeAfter uint64
}

func (c *Client) wants(e Event) bool {
	return c.EventFilter == nil || c.EventFilter[e.Type]
}

// offer delivers without blocking; slow clients miss events
func (c *Client) offer(e Event) {
	select {
	case c.EventChannel <- e:
	default:
	}
}

// Hub fans pool events out to clients and keeps a short history for replay
type Hub struct {
	clients    map[string]*Client
	broadcast  chan Event
	register   chan *Client
	unregister chan string
	mu         sync.RWMutex
	shutdown   chan struct{}
	stopOnce   sync.Once
	wg         sync.WaitGroup

	// owned by run
	seq     uint64
	history []Event
}

// NewHub creates a new SSE Hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		broadcast:  make(chan Event, BroadcastBufferSize),
		register:   make(chan *Client, ClientChannelBuffer),
		unregister: make(chan string, ClientChannelBuffer),
		shutdown:   make(chan struct{}),
		history:    make([]Event, 0, ReplayBufferSize),
	}
}

// Start starts the hub's broadcast loop
func (h *Hub) Start() {
	h.wg.Add(1)
	go h.run()
}

// Stop shuts down the loop and closes every client channel. Safe to call twice.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.shutdown)
		h.wg.Wait()

		h.mu.Lock()
		for _, client := range h.clients {
			close(client.EventChannel)
		}
		h.clients = make(map[string]*Client)
		h.mu.Unlock()
	})
}

func (h *Hub) run() {
	defer h.wg.Done()

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()
			h.replay(client)

		case clientID := <-h.unregister:
			h.mu.Lock()
			if client, ok := h.clients[clientID]; ok {
				close(client.EventChannel)
				delete(h.clients, clientID)
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			h.seq++
			event.seq = h.seq
			event.ID = strconv.FormatUint(h.seq, 10)
			h.remember(event)

			h.mu.RLock()
			for _, client := range h.clients {
				if client.wants(event) {
					client.offer(event)
				}
			}
			h.mu.RUnlock()

		case <-h.shutdown:
			return
		}
	}
}

func (h *Hub) remember(e Event) {
	if len(h.history) == ReplayBufferSize {
		copy(h.history, h.history[1:])
		h.history = h.history[:ReplayBufferSize-1]
	}
	h.history = append(h.history, e)
}

// replay runs on the hub loop, so nothing broadcast later can overtake it
func (h *Hub) replay(c *Client) {
	if c.resumeAfter == 0 {
		return
	}
	for _, e := range h.history {
		if e.seq > c.resumeAfter && c.wants(e) {
			c.offer(e)
		}
	}
}

// Register adds a client that receives events from now on. An empty
// eventTypes subscribes to everything.
func (h *Hub) Register(eventTypes []string) *Client {
	return h.Resume(eventTypes, 0)
}

// Resume adds a client and first sends it the retained events with an ID
// greater than lastEventID. Zero means no replay.
func (h *Hub) Resume(eventTypes []string, lastEventID uint64) *Client {
	client := &Client{
		ID:           uuid.New().String(),
		EventChannel: make(chan Event, ClientEventBuffer),
		resumeAfter:  lastEventID,
	}
	if len(eventTypes) > 0 {
		client.EventFilter = make(map[string]bool, len(eventTypes))
		for _, t := range eventTypes {
			client.EventFilter[t] = true
		}
	}

	select {
	case h.register <- client:
	case <-h.shutdown:
		close(client.EventChannel)
	}
	return client
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(clientID string) {
	select {
	case h.unregister <- clientID:
	case <-h.shutdown:
	}
}

// Broadcast queues an event for every interested client. The ID is
// assigned when the hub loop picks it up.
func (h *Hub) Broadcast(eventType string, payload interface{}) {
	event := Event{
		Type:      eventType,
		Timestamp: time.Now().Unix(),
		Payload:   payload,
	}

	select {
	case h.broadcast <- event:
	default:
		slog.Warn(LogMsgEventDropped, "event_type", eventType)
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// FormatSSEMessage renders event in text/event-stream framing. Events
// without an ID omit the id field so they do not move the client's
// Last-Event-ID.
func FormatSSEMessage(event Event) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}

	var msg []byte
	if event.ID != "" {
		msg = append(msg, "id: "+event.ID+"\n"...)
	}
	msg = append(msg, "event: "+event.Type+"\n"...)
	msg = append(msg, "data: "...)
	msg = append(msg, data...)
	msg = append(msg, "\n\n"...)
	return msg, nil
}
