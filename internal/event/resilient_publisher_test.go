package event

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBusDown = errors.New("bus down")

// flakyBus fails the first failures publishes and records every attempt
type flakyBus struct {
	mu       sync.Mutex
	failures int
	attempts []time.Time
	handlers map[Type][]Handler
}

func (b *flakyBus) Publish(ctx context.Context, e Event) error {
	b.mu.Lock()
	b.attempts = append(b.attempts, time.Now())
	fail := len(b.attempts) <= b.failures
	b.mu.Unlock()
	if fail {
		return errBusDown
	}
	return nil
}

func (b *flakyBus) Subscribe(t Type, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.handlers == nil {
		b.handlers = make(map[Type][]Handler)
	}
	b.handlers[t] = append(b.handlers[t], h)
}

func (b *flakyBus) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.attempts)
}

func (b *flakyBus) gaps() []time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]time.Duration, 0, len(b.attempts))
	for i := 1; i < len(b.attempts); i++ {
		out = append(out, b.attempts[i].Sub(b.attempts[i-1]))
	}
	return out
}

func newPublisher(t *testing.T, bus Bus, maxRetries int, delay time.Duration) (*ResilientPublisher, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deadletter.jsonl")
	p, err := NewResilientPublisher(bus, maxRetries, delay, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Shutdown(context.Background()) })
	return p, path
}

func readDeadLetters(t *testing.T, path string) []DeadLetterEntry {
	t.Helper()
	entries, err := ReadDeadLetters(path)
	require.NoError(t, err)
	return entries
}

// deadLetterCount is safe to call from an Eventually condition
func deadLetterCount(path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0
	}
	return bytes.Count(data, []byte("\n"))
}

func winnerEvent() Event {
	return NewWinnerPickedEvent("main", 7, "0xa1", 0, "200", 2, time.Unix(1700000000, 0))
}

func TestResilientPublisher_Delivery(t *testing.T) {
	tests := []struct {
		name         string
		failures     int
		maxRetries   int
		wantAttempts int
		deadLettered bool
	}{
		{"first attempt succeeds", 0, 3, 1, false},
		{"second attempt succeeds", 1, 3, 2, false},
		{"retries exhausted", 100, 3, 4, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := &flakyBus{failures: tt.failures}
			p, path := newPublisher(t, bus, tt.maxRetries, 5*time.Millisecond)

			require.NoError(t, p.Publish(context.Background(), winnerEvent()))

			require.Eventually(t, func() bool { return bus.count() >= tt.wantAttempts }, 2*time.Second, 5*time.Millisecond)
			if !tt.deadLettered {
				time.Sleep(30 * time.Millisecond)
				assert.Equal(t, tt.wantAttempts, bus.count(), "no extra attempts after success")
				assert.Empty(t, readDeadLetters(t, path))
				return
			}

			require.Eventually(t, func() bool { return deadLetterCount(path) == 1 }, 2*time.Second, 5*time.Millisecond)
			entry := readDeadLetters(t, path)[0]
			assert.Equal(t, DeadLetterSchemaVersion, entry.SchemaVersion)
			assert.Equal(t, PoolWinnerPicked, entry.Event.Type)
			assert.Equal(t, tt.maxRetries, entry.Attempts)
			assert.Equal(t, errBusDown.Error(), entry.LastError)

			// the payload survives the trip through the file
			payload, err := DecodePayload[WinnerPickedPayloadV1](entry.Event.Payload)
			require.NoError(t, err)
			assert.Equal(t, uint64(7), payload.RequestID)
			assert.Equal(t, "0xa1", payload.Winner)
		})
	}
}

func TestResilientPublisher_BackoffDoubles(t *testing.T) {
	bus := &flakyBus{failures: 3}
	p, _ := newPublisher(t, bus, 5, 40*time.Millisecond)

	p.PublishWithRetry(context.Background(), winnerEvent())
	require.Eventually(t, func() bool { return bus.count() == 4 }, 2*time.Second, 5*time.Millisecond)

	gaps := bus.gaps()
	require.Len(t, gaps, 3)
	assert.InDelta(t, 40, gaps[0].Milliseconds(), 30)
	assert.InDelta(t, 80, gaps[1].Milliseconds(), 30)
	assert.InDelta(t, 160, gaps[2].Milliseconds(), 30)
}

func TestResilientPublisher_QueueOverflowDeadLetters(t *testing.T) {
	bus := &flakyBus{failures: 1000}
	path := filepath.Join(t.TempDir(), "deadletter.jsonl")
	dl, err := NewDeadLetterWriter(path)
	require.NoError(t, err)

	// no retry worker: the queue fills after two entries
	p := &ResilientPublisher{
		bus:        bus,
		retryQueue: make(chan retryEntry, 2),
		maxRetries: 3,
		retryDelay: time.Hour,
		deadLetter: dl,
		shutdown:   make(chan struct{}),
	}
	for i := 0; i < 5; i++ {
		p.PublishWithRetry(context.Background(), NewDrawRequestedEvent("main", uint64(i+1), 2, "200", time.Now()))
	}

	assert.Len(t, p.retryQueue, 2)
	assert.Len(t, readDeadLetters(t, path), 3)
	require.NoError(t, dl.Close())
}

func TestResilientPublisher_ShutdownFlushesQueue(t *testing.T) {
	bus := &flakyBus{failures: 3}
	path := filepath.Join(t.TempDir(), "deadletter.jsonl")
	p, err := NewResilientPublisher(bus, 5, time.Hour, path)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		p.PublishWithRetry(context.Background(), NewDrawRequestedEvent("main", uint64(i+1), 2, "200", time.Now()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, p.Shutdown(ctx))

	// each queued event gets one last attempt instead of waiting out the hour
	assert.Equal(t, 6, bus.count())
	assert.Empty(t, readDeadLetters(t, path))

	// the synchronous attempt still happens after shutdown
	p.PublishWithRetry(context.Background(), winnerEvent())
	assert.Equal(t, 7, bus.count())
}

func TestResilientPublisher_ConcurrentPublishes(t *testing.T) {
	bus := &flakyBus{}
	p, _ := newPublisher(t, bus, 3, 5*time.Millisecond)

	const goroutines, perGoroutine = 8, 25
	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				p.PublishWithRetry(context.Background(), NewEnteredEvent("main", "0xa1", g*perGoroutine+i, "1", "1", time.Now()))
			}
		}(g)
	}
	wg.Wait()

	assert.Equal(t, goroutines*perGoroutine, bus.count())
}

func TestResilientPublisher_SubscribeReachesInnerBus(t *testing.T) {
	p, _ := newPublisher(t, NewMemoryBus(), 1, time.Millisecond)

	var bus Bus = p
	got := make(chan Event, 1)
	bus.Subscribe(PoolDrawRequested, func(ctx context.Context, e Event) error {
		got <- e
		return nil
	})

	require.NoError(t, bus.Publish(context.Background(), NewDrawRequestedEvent("main", 1, 2, "200", time.Now())))
	select {
	case e := <-got:
		assert.Equal(t, PoolDrawRequested, e.Type)
		assert.Equal(t, "main", e.GetMetadataValue("pool_id"))
	case <-time.After(time.Second):
		t.Fatal("subscriber was not called")
	}
}

func TestDeadLetterWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dead.jsonl")

	entries, err := ReadDeadLetters(path)
	require.NoError(t, err)
	assert.Empty(t, entries, "missing file")

	w, err := NewDeadLetterWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.Write(winnerEvent(), 3, errBusDown))
	require.NoError(t, w.Write(winnerEvent(), 1, nil))
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	assert.ErrorIs(t, w.Write(winnerEvent(), 1, nil), os.ErrClosed)

	entries, err = ReadDeadLetters(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 3, entries[0].Attempts)
	assert.Equal(t, errBusDown.Error(), entries[0].LastError)
	assert.Empty(t, entries[1].LastError)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
	require.NoError(t, err)
	_, err = f.WriteString("not json\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	entries, err = ReadDeadLetters(path)
	assert.ErrorContains(t, err, "dead-letter line 3")
	assert.Len(t, entries, 2)
}
