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

	// ReplayBufferSize is how many past events a reconnecting client can recover
	ReplayBufferSize = 64
)

// HeaderLastEventID is sent by browsers when an EventSource reconnects
const HeaderLastEventID = "Last-Event-ID"

// SSE connection settings
const (
	// KeepaliveInterval is how often to send keepalive pings
	KeepaliveInterval = 30 * time.Second
)

// Event types for SSE
const (
	EventTypeEntered       = "lotto.entered"
	EventTypeDrawRequested = "lotto.draw_requested"
	EventTypeWinnerPicked  = "lotto.winner_picked"
	EventTypePayoutFailed  = "lotto.payout_failed"
	EventTypeDrawReset     = "lotto.draw_reset"

	// EventTypeConnected is sent once when a client connects
	EventTypeConnected = "connected"

	// EventTypeKeepalive is the keepalive ping event type
	EventTypeKeepalive = "keepalive"
)

// Log messages
const (
	LogMsgClientConnected    = "SSE client connected"
	LogMsgClientDisconnected = "SSE client disconnected"
	LogMsgEventBroadcast     = "Broadcasting SSE event"
	LogMsgEventDropped       = "SSE broadcast buffer full, event dropped"
	LogMsgWriteError         = "Failed to write SSE event"
	LogMsgInvalidPayload     = "Invalid pool event payload"
)
