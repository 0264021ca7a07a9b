package metrics

import (
	"context"
	"math/big"

	"github.com/osse101/lotto/internal/event"
	"github.com/osse101/lotto/internal/logger"
)

// EventMetricsCollector subscribes to pool events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all pool events
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	for _, eventType := range event.AllPoolTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}
	return nil
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	var err error
	switch evt.Type {
	case event.PoolEntered:
		var p event.EnteredPayloadV1
		if p, err = event.DecodePayload[event.EnteredPayloadV1](evt.Payload); err == nil {
			Entries.WithLabelValues(p.PoolID).Inc()
			EntryValue.WithLabelValues(p.PoolID).Add(weiToFloat(ctx, p.Value))
			PoolBalance.WithLabelValues(p.PoolID).Set(weiToFloat(ctx, p.Balance))
			PoolParticipants.WithLabelValues(p.PoolID).Set(float64(p.Index + 1))
		}

	case event.PoolDrawRequested:
		var p event.DrawRequestedPayloadV1
		if p, err = event.DecodePayload[event.DrawRequestedPayloadV1](evt.Payload); err == nil {
			DrawsRequested.WithLabelValues(p.PoolID).Inc()
		}

	case event.PoolWinnerPicked:
		var p event.WinnerPickedPayloadV1
		if p, err = event.DecodePayload[event.WinnerPickedPayloadV1](evt.Payload); err == nil {
			WinnersPicked.WithLabelValues(p.PoolID).Inc()
			LastPayout.WithLabelValues(p.PoolID).Set(weiToFloat(ctx, p.Payout))
			PoolBalance.WithLabelValues(p.PoolID).Set(0)
			PoolParticipants.WithLabelValues(p.PoolID).Set(0)
		}

	case event.PoolPayoutFailed:
		var p event.PayoutFailedPayloadV1
		if p, err = event.DecodePayload[event.PayoutFailedPayloadV1](evt.Payload); err == nil {
			PayoutFailures.WithLabelValues(p.PoolID).Inc()
		}

	case event.PoolDrawReset:
		var p event.DrawResetPayloadV1
		if p, err = event.DecodePayload[event.DrawResetPayloadV1](evt.Payload); err == nil {
			DrawsReset.WithLabelValues(p.PoolID).Inc()
		}
	}

	if err != nil {
		EventHandlerErrors.WithLabelValues(string(evt.Type)).Inc()
		log.Warn(LogMsgEventPayloadInvalid, "type", evt.Type, "error", err)
		return nil
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}

func weiToFloat(ctx context.Context, s string) float64 {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		logger.FromContext(ctx).Debug(LogMsgAmountUnparseable, "amount", s)
		return 0
	}
	f, _ := new(big.Float).SetInt(v).Float64()
	return f
}
