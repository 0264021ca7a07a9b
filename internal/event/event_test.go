package event

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBus_PublishSubscribe(t *testing.T) {
	bus := NewMemoryBus()
	eventType := Type("test_event")
	handled := false

	bus.Subscribe(eventType, func(ctx context.Context, event Event) error {
		assert.Equal(t, eventType, event.Type)
		assert.Equal(t, "payload", event.Payload)
		handled = true
		return nil
	})

	err := bus.Publish(context.Background(), Event{Version: "1.0", Type: eventType, Payload: "payload"})
	require.NoError(t, err)
	assert.True(t, handled, "handler was not called")
}

func TestMemoryBus_HandlersRunInOrder(t *testing.T) {
	bus := NewMemoryBus()
	var order []int

	bus.Subscribe(PoolEntered, func(ctx context.Context, event Event) error {
		order = append(order, 1)
		return nil
	})
	bus.Subscribe(PoolEntered, func(ctx context.Context, event Event) error {
		order = append(order, 2)
		return nil
	})

	require.NoError(t, bus.Publish(context.Background(), Event{Type: PoolEntered}))
	assert.Equal(t, []int{1, 2}, order)

	// no subscribers is not an error
	assert.NoError(t, bus.Publish(context.Background(), Event{Type: PoolDrawReset}))
}

func TestMemoryBus_PublishErrorAggregates(t *testing.T) {
	bus := NewMemoryBus()
	calls := 0

	bus.Subscribe(PoolWinnerPicked, func(ctx context.Context, event Event) error {
		calls++
		return errors.New("handler error")
	})
	bus.Subscribe(PoolWinnerPicked, func(ctx context.Context, event Event) error {
		calls++
		return nil
	})

	err := bus.Publish(context.Background(), Event{Type: PoolWinnerPicked})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 errors")
	assert.Equal(t, 2, calls, "a failing handler does not stop the others")
}

func TestPoolEventConstructors(t *testing.T) {
	at := time.Unix(1700000030, 0)

	tests := []struct {
		name  string
		event Event
		want  Type
	}{
		{"entered", NewEnteredEvent("main", "0xabc", 0, "100", "100", at), PoolEntered},
		{"draw requested", NewDrawRequestedEvent("main", 1, 3, "300", at), PoolDrawRequested},
		{"winner picked", NewWinnerPickedEvent("main", 1, "0xabc", 0, "300", 3, at), PoolWinnerPicked},
		{"payout failed", NewPayoutFailedEvent("main", 1, "0xabc", "300", at), PoolPayoutFailed},
		{"draw reset", NewDrawResetEvent("main", 1, 2*time.Hour, at), PoolDrawReset},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.event.Type)
			assert.Equal(t, EventSchemaVersion, tt.event.Version)
			assert.Equal(t, "main", tt.event.GetMetadataValue("pool_id"))
			assert.Nil(t, tt.event.GetMetadataValue("missing"))
		})
	}
}

func TestDecodePayload(t *testing.T) {
	ev := NewWinnerPickedEvent("main", 7, "0xabc", 2, "300000000000000000", 3, time.Unix(1700000030, 0))

	t.Run("in-process payload", func(t *testing.T) {
		p, err := DecodePayload[WinnerPickedPayloadV1](ev.Payload)
		require.NoError(t, err)
		assert.Equal(t, uint64(7), p.RequestID)
	})

	t.Run("serialized payload", func(t *testing.T) {
		data, err := json.Marshal(ev)
		require.NoError(t, err)
		var raw Event
		require.NoError(t, json.Unmarshal(data, &raw))

		p, err := DecodePayload[WinnerPickedPayloadV1](raw.Payload)
		require.NoError(t, err)
		assert.Equal(t, "300000000000000000", p.Payout)
		assert.Equal(t, 2, p.WinnerIndex)
	})

	t.Run("pointer payload", func(t *testing.T) {
		in := ev.Payload.(WinnerPickedPayloadV1)
		p, err := DecodePayload[WinnerPickedPayloadV1](&in)
		require.NoError(t, err)
		assert.Equal(t, in, p)
	})
}

func TestCalculateRetryDelay(t *testing.T) {
	base := 2 * time.Second
	assert.Equal(t, 2*time.Second, CalculateRetryDelay(base, 0))
	assert.Equal(t, 2*time.Second, CalculateRetryDelay(base, 1))
	assert.Equal(t, 4*time.Second, CalculateRetryDelay(base, 2))
	assert.Equal(t, 32*time.Second, CalculateRetryDelay(base, 5))
}
