package sse

import (
	"context"
	"log/slog"

	"github.com/osse101/lotto/internal/event"
)

// Subscriber bridges the internal event bus to the SSE hub
type Subscriber struct {
	hub *Hub
	bus event.Bus
}

// NewSubscriber creates a new SSE subscriber
func NewSubscriber(hub *Hub, bus event.Bus) *Subscriber {
	return &Subscriber{
		hub: hub,
		bus: bus,
	}
}

// Subscribe registers handlers for every pool event
func (s *Subscriber) Subscribe() {
	s.bus.Subscribe(event.PoolEntered, s.handleEntered)
	s.bus.Subscribe(event.PoolDrawRequested, s.handleDrawRequested)
	s.bus.Subscribe(event.PoolWinnerPicked, s.handleWinnerPicked)
	s.bus.Subscribe(event.PoolPayoutFailed, s.handlePayoutFailed)
	s.bus.Subscribe(event.PoolDrawReset, s.handleDrawReset)

	slog.Info("SSE subscriber registered for event types", "types", event.AllPoolTypes)
}

func (s *Subscriber) handleEntered(_ context.Context, evt event.Event) error {
	p, err := event.DecodePayload[event.EnteredPayloadV1](evt.Payload)
	if err != nil {
		slog.Warn(LogMsgInvalidPayload, "event_type", evt.Type, "error", err)
		return nil
	}
	s.hub.Broadcast(EventTypeEntered, EntryPayload{
		Player:  p.Player,
		Index:   p.Index,
		Value:   p.Value,
		Balance: p.Balance,
	})
	slog.Debug(LogMsgEventBroadcast, "event_type", EventTypeEntered, "player", p.Player)
	return nil
}

func (s *Subscriber) handleDrawRequested(_ context.Context, evt event.Event) error {
	p, err := event.DecodePayload[event.DrawRequestedPayloadV1](evt.Payload)
	if err != nil {
		slog.Warn(LogMsgInvalidPayload, "event_type", evt.Type, "error", err)
		return nil
	}
	s.hub.Broadcast(EventTypeDrawRequested, DrawRequestedPayload{
		RequestID:       p.RequestID,
		NumParticipants: p.NumParticipants,
		Pot:             p.Pot,
	})
	return nil
}

func (s *Subscriber) handleWinnerPicked(_ context.Context, evt event.Event) error {
	p, err := event.DecodePayload[event.WinnerPickedPayloadV1](evt.Payload)
	if err != nil {
		slog.Warn(LogMsgInvalidPayload, "event_type", evt.Type, "error", err)
		return nil
	}
	s.hub.Broadcast(EventTypeWinnerPicked, WinnerPayload{
		RequestID:   p.RequestID,
		Winner:      p.Winner,
		WinnerIndex: p.WinnerIndex,
		Payout:      p.Payout,
	})
	slog.Debug(LogMsgEventBroadcast, "event_type", EventTypeWinnerPicked, "winner", p.Winner)
	return nil
}

func (s *Subscriber) handlePayoutFailed(_ context.Context, evt event.Event) error {
	p, err := event.DecodePayload[event.PayoutFailedPayloadV1](evt.Payload)
	if err != nil {
		slog.Warn(LogMsgInvalidPayload, "event_type", evt.Type, "error", err)
		return nil
	}
	s.hub.Broadcast(EventTypePayoutFailed, PayoutFailedPayload{
		RequestID: p.RequestID,
		Winner:    p.Winner,
		Amount:    p.Amount,
	})
	return nil
}

func (s *Subscriber) handleDrawReset(_ context.Context, evt event.Event) error {
	p, err := event.DecodePayload[event.DrawResetPayloadV1](evt.Payload)
	if err != nil {
		slog.Warn(LogMsgInvalidPayload, "event_type", evt.Type, "error", err)
		return nil
	}
	s.hub.Broadcast(EventTypeDrawReset, DrawResetPayload{
		RequestID:      p.RequestID,
		PendingSeconds: p.PendingSeconds,
	})
	return nil
}
