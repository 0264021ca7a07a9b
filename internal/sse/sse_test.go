package sse

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/lotto/internal/event"
	"github.com/osse101/lotto/internal/testing/leaktest"
)

func receive(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case e := <-c.EventChannel:
		return e
	case <-time.After(time.Second):
		t.Fatal("no event received")
		return Event{}
	}
}

func waitClients(t *testing.T, h *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return h.ClientCount() == n }, time.Second, 5*time.Millisecond)
}

func TestHub_FiltersByType(t *testing.T) {
	hub := NewHub()
	hub.Start()
	defer hub.Stop()

	all := hub.Register(nil)
	winners := hub.Register([]string{EventTypeWinnerPicked})
	waitClients(t, hub, 2)

	hub.Broadcast(EventTypeEntered, EntryPayload{Player: "0xa1"})
	hub.Broadcast(EventTypeWinnerPicked, WinnerPayload{Winner: "0xa1"})

	assert.Equal(t, EventTypeEntered, receive(t, all).Type)
	assert.Equal(t, EventTypeWinnerPicked, receive(t, all).Type)
	assert.Equal(t, EventTypeWinnerPicked, receive(t, winners).Type)

	hub.Unregister(all.ID)
	waitClients(t, hub, 1)
}

func TestHub_AssignsSequentialIDs(t *testing.T) {
	hub := NewHub()
	hub.Start()
	defer hub.Stop()

	c := hub.Register(nil)
	waitClients(t, hub, 1)

	hub.Broadcast(EventTypeEntered, EntryPayload{})
	hub.Broadcast(EventTypeEntered, EntryPayload{})
	assert.Equal(t, "1", receive(t, c).ID)
	assert.Equal(t, "2", receive(t, c).ID)
}

func TestHub_ResumeReplaysMissedEvents(t *testing.T) {
	hub := NewHub()
	hub.Start()
	defer hub.Stop()

	first := hub.Register(nil)
	waitClients(t, hub, 1)
	hub.Broadcast(EventTypeEntered, EntryPayload{Player: "0xa1"})
	hub.Broadcast(EventTypeWinnerPicked, WinnerPayload{Winner: "0xa1"})
	hub.Broadcast(EventTypeDrawReset, DrawResetPayload{RequestID: 2})
	receive(t, first)
	receive(t, first)
	receive(t, first)

	resumed := hub.Resume(nil, 1)
	got := []Event{receive(t, resumed), receive(t, resumed)}
	assert.Equal(t, "2", got[0].ID)
	assert.Equal(t, "3", got[1].ID)

	filtered := hub.Resume([]string{EventTypeDrawReset}, 1)
	assert.Equal(t, EventTypeDrawReset, receive(t, filtered).Type)

	fresh := hub.Register(nil)
	waitClients(t, hub, 4)
	select {
	case e := <-fresh.EventChannel:
		t.Fatalf("unexpected replay of %s", e.ID)
	default:
	}
}

func TestHub_ReplayIsBounded(t *testing.T) {
	hub := NewHub()
	hub.Start()
	defer hub.Stop()

	watcher := hub.Register(nil)
	waitClients(t, hub, 1)
	total := ReplayBufferSize + 5
	for i := 0; i < total; i++ {
		hub.Broadcast(EventTypeEntered, EntryPayload{})
		receive(t, watcher)
	}

	resumed := hub.Resume(nil, 1)
	assert.Equal(t, "6", receive(t, resumed).ID, "oldest retained event")
}

func TestParseLastEventID(t *testing.T) {
	tests := []struct {
		name   string
		header string
		query  string
		want   uint64
	}{
		{"none", "", "", 0},
		{"header", "12", "", 12},
		{"query fallback", "", "?last_event_id=7", 7},
		{"header wins", "3", "?last_event_id=7", 3},
		{"garbage", "abc", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/events"+tt.query, nil)
			if tt.header != "" {
				r.Header.Set(HeaderLastEventID, tt.header)
			}
			assert.Equal(t, tt.want, parseLastEventID(r))
		})
	}
}

func TestSubscriber_ForwardsPoolEvents(t *testing.T) {
	hub := NewHub()
	hub.Start()
	defer hub.Stop()

	bus := event.NewMemoryBus()
	NewSubscriber(hub, bus).Subscribe()
	client := hub.Register(nil)
	waitClients(t, hub, 1)

	ctx := context.Background()
	now := time.Now()
	require.NoError(t, bus.Publish(ctx, event.NewEnteredEvent("main", "0xa1", 0, "100", "100", now)))
	require.NoError(t, bus.Publish(ctx, event.NewDrawRequestedEvent("main", 1, 1, "100", now)))
	require.NoError(t, bus.Publish(ctx, event.NewWinnerPickedEvent("main", 1, "0xa1", 0, "100", 1, now)))
	require.NoError(t, bus.Publish(ctx, event.NewPayoutFailedEvent("main", 2, "0xb2", "5", now)))
	require.NoError(t, bus.Publish(ctx, event.NewDrawResetEvent("main", 3, time.Hour, now)))

	got := []Event{receive(t, client), receive(t, client), receive(t, client), receive(t, client), receive(t, client)}
	assert.Equal(t, EventTypeEntered, got[0].Type)
	assert.Equal(t, EventTypeDrawRequested, got[1].Type)
	assert.Equal(t, WinnerPayload{RequestID: 1, Winner: "0xa1", Payout: "100"}, got[2].Payload)
	assert.Equal(t, EventTypePayoutFailed, got[3].Type)
	assert.Equal(t, DrawResetPayload{RequestID: 3, PendingSeconds: 3600}, got[4].Payload)
}

func TestHandler_StreamsEvents(t *testing.T) {
	hub := NewHub()
	hub.Start()
	defer hub.Stop()

	srv := httptest.NewServer(Handler(hub))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"?types="+EventTypeWinnerPicked, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	readEventLine := func() string {
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			if strings.HasPrefix(line, "event: ") {
				return strings.TrimSpace(strings.TrimPrefix(line, "event: "))
			}
		}
	}

	assert.Equal(t, EventTypeConnected, readEventLine())
	waitClients(t, hub, 1)

	hub.Broadcast(EventTypeEntered, EntryPayload{})
	hub.Broadcast(EventTypeWinnerPicked, WinnerPayload{Winner: "0xa1"})
	assert.Equal(t, EventTypeWinnerPicked, readEventLine())
}

func TestFormatSSEMessage(t *testing.T) {
	msg, err := FormatSSEMessage(Event{ID: "1", Type: EventTypeDrawReset, Payload: DrawResetPayload{RequestID: 4}})
	require.NoError(t, err)
	s := string(msg)
	assert.True(t, strings.HasPrefix(s, "id: 1\nevent: lotto.draw_reset\ndata: {"))
	assert.True(t, strings.HasSuffix(s, "\n\n"))
	assert.Contains(t, s, `"request_id":4`)
}

func TestParseTypes(t *testing.T) {
	assert.Nil(t, ParseTypes(""))
	assert.Equal(t, []string{EventTypeEntered, EventTypeDrawReset}, ParseTypes("lotto.entered, bogus ,lotto.draw_reset"))
	assert.Nil(t, ParseTypes("bogus"))
}

func TestHub_StopLeavesNoGoroutines(t *testing.T) {
	leaktest.CheckNoGoroutineLeak(t, func() {
		hub := NewHub()
		hub.Start()
		hub.Register(nil)
		hub.Stop()
	})
}
