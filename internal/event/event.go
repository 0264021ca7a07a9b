package event

import (
	"context"
	"fmt"
	"sync"
	"time"
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

// GetMetadataValue extracts a value from the event metadata safely
func (e Event) GetMetadataValue(key string) interface{} {
	if m, ok := e.Metadata.(map[string]interface{}); ok {
		return m[key]
	}
	return nil
}

// Pool event types
const (
	PoolEntered       Type = "lotto.entered"
	PoolDrawRequested Type = "lotto.draw_requested"
	PoolWinnerPicked  Type = "lotto.winner_picked"
	PoolPayoutFailed  Type = "lotto.payout_failed"
	PoolDrawReset     Type = "lotto.draw_reset"
)

// AllPoolTypes lists every event the pool emits, in lifecycle order
var AllPoolTypes = []Type{PoolEntered, PoolDrawRequested, PoolWinnerPicked, PoolPayoutFailed, PoolDrawReset}

// Amounts are carried as base-10 strings so they survive JSON without precision loss.

// EnteredPayloadV1 is emitted for every accepted entry
type EnteredPayloadV1 struct {
	PoolID    string `json:"pool_id"`
	Player    string `json:"player"`
	Index     int    `json:"index"`
	Value     string `json:"value"`
	Balance   string `json:"balance"`
	Timestamp int64  `json:"timestamp"`
}

// DrawRequestedPayloadV1 is emitted when a draw moves the pool into CALCULATING
type DrawRequestedPayloadV1 struct {
	PoolID          string `json:"pool_id"`
	RequestID       uint64 `json:"request_id"`
	NumParticipants int    `json:"num_participants"`
	Pot             string `json:"pot"`
	Timestamp       int64  `json:"timestamp"`
}

// WinnerPickedPayloadV1 is emitted after a successful payout
type WinnerPickedPayloadV1 struct {
	PoolID          string `json:"pool_id"`
	RequestID       uint64 `json:"request_id"`
	Winner          string `json:"winner"`
	WinnerIndex     int    `json:"winner_index"`
	Payout          string `json:"payout"`
	NumParticipants int    `json:"num_participants"`
	Timestamp       int64  `json:"timestamp"`
}

// PayoutFailedPayloadV1 is emitted when the winner refuses the transfer and the draw is rolled back
type PayoutFailedPayloadV1 struct {
	PoolID    string `json:"pool_id"`
	RequestID uint64 `json:"request_id"`
	Winner    string `json:"winner"`
	Amount    string `json:"amount"`
	Timestamp int64  `json:"timestamp"`
}

// DrawResetPayloadV1 is emitted when a stuck draw is abandoned
type DrawResetPayloadV1 struct {
	PoolID         string  `json:"pool_id"`
	RequestID      uint64  `json:"request_id"`
	PendingSeconds float64 `json:"pending_seconds"`
	Timestamp      int64   `json:"timestamp"`
}

func newPoolEvent(t Type, poolID string, payload interface{}) Event {
	return Event{
		Version:  EventSchemaVersion,
		Type:     t,
		Payload:  payload,
		Metadata: map[string]interface{}{"pool_id": poolID},
	}
}

// NewEnteredEvent creates a pool entry event
func NewEnteredEvent(poolID, player string, index int, value, balance string, at time.Time) Event {
	return newPoolEvent(PoolEntered, poolID, EnteredPayloadV1{
		PoolID:    poolID,
		Player:    player,
		Index:     index,
		Value:     value,
		Balance:   balance,
		Timestamp: at.Unix(),
	})
}

// NewDrawRequestedEvent creates a draw requested event
func NewDrawRequestedEvent(poolID string, requestID uint64, numParticipants int, pot string, at time.Time) Event {
	return newPoolEvent(PoolDrawRequested, poolID, DrawRequestedPayloadV1{
		PoolID:          poolID,
		RequestID:       requestID,
		NumParticipants: numParticipants,
		Pot:             pot,
		Timestamp:       at.Unix(),
	})
}

// NewWinnerPickedEvent creates a winner picked event
func NewWinnerPickedEvent(poolID string, requestID uint64, winner string, winnerIndex int, payout string, numParticipants int, at time.Time) Event {
	return newPoolEvent(PoolWinnerPicked, poolID, WinnerPickedPayloadV1{
		PoolID:          poolID,
		RequestID:       requestID,
		Winner:          winner,
		WinnerIndex:     winnerIndex,
		Payout:          payout,
		NumParticipants: numParticipants,
		Timestamp:       at.Unix(),
	})
}

// NewPayoutFailedEvent creates a payout failed event
func NewPayoutFailedEvent(poolID string, requestID uint64, winner, amount string, at time.Time) Event {
	return newPoolEvent(PoolPayoutFailed, poolID, PayoutFailedPayloadV1{
		PoolID:    poolID,
		RequestID: requestID,
		Winner:    winner,
		Amount:    amount,
		Timestamp: at.Unix(),
	})
}

// NewDrawResetEvent creates a draw reset event
func NewDrawResetEvent(poolID string, requestID uint64, pending time.Duration, at time.Time) Event {
	return newPoolEvent(PoolDrawReset, poolID, DrawResetPayloadV1{
		PoolID:         poolID,
		RequestID:      requestID,
		PendingSeconds: pending.Seconds(),
		Timestamp:      at.Unix(),
	})
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

// Publish publishes an event to all subscribers.
// Handlers run synchronously in subscription order.
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
