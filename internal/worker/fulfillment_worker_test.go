package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/lotto/internal/domain"
	"github.com/osse101/lotto/internal/event"
	"github.com/osse101/lotto/internal/vrf"
)

type mockFulfiller struct {
	mock.Mock
	called chan domain.RequestID
}

func newMockFulfiller() *mockFulfiller {
	return &mockFulfiller{called: make(chan domain.RequestID, 10)}
}

func (m *mockFulfiller) FulfillRandomWords(ctx context.Context, requestID domain.RequestID) (*vrf.Fulfillment, error) {
	args := m.Called(ctx, requestID)
	m.called <- requestID
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vrf.Fulfillment), args.Error(1)
}

func (m *mockFulfiller) IsPending(requestID domain.RequestID) bool {
	return m.Called(requestID).Bool(0)
}

type staticPending struct {
	id  *domain.RequestID
	err error
}

func (s staticPending) GetPendingRequestID(context.Context) (*domain.RequestID, error) {
	return s.id, s.err
}

func waitCall(t *testing.T, m *mockFulfiller) domain.RequestID {
	t.Helper()
	select {
	case id := <-m.called:
		return id
	case <-time.After(time.Second):
		t.Fatal("fulfillment was not attempted")
		return 0
	}
}

func TestFulfillmentWorker_FulfillsRequestedDraws(t *testing.T) {
	coord := newMockFulfiller()
	coord.On("IsPending", domain.RequestID(3)).Return(true)
	coord.On("FulfillRandomWords", mock.Anything, domain.RequestID(3)).Return(&vrf.Fulfillment{RequestID: 3}, nil).Once()

	var outcomes []string
	outcome := make(chan string, 1)
	w := NewFulfillmentWorker(coord, staticPending{}, 10*time.Millisecond, func(o string) { outcome <- o })
	bus := event.NewMemoryBus()
	w.Subscribe(bus)

	require.NoError(t, bus.Publish(context.Background(), event.NewDrawRequestedEvent("main", 3, 2, "200", time.Now())))
	assert.Equal(t, domain.RequestID(3), waitCall(t, coord))
	outcomes = append(outcomes, <-outcome)

	require.NoError(t, w.Shutdown(context.Background()))
	assert.Equal(t, []string{FulfillOutcomeDelivered}, outcomes)
	coord.AssertExpectations(t)
}

func TestFulfillmentWorker_StartReschedulesPendingRequest(t *testing.T) {
	id := domain.RequestID(7)
	coord := newMockFulfiller()
	coord.On("IsPending", id).Return(true)
	rejection := fmt.Errorf("%w: %w", vrf.ErrCallbackFailed, domain.ErrPayoutTransferFailed)
	coord.On("FulfillRandomWords", mock.Anything, id).Return(nil, rejection).Once()

	outcome := make(chan string, 1)
	w := NewFulfillmentWorker(coord, staticPending{id: &id}, 0, func(o string) { outcome <- o })
	w.Start(context.Background())

	assert.Equal(t, id, waitCall(t, coord))
	assert.Equal(t, FulfillOutcomeRejected, <-outcome)
	require.NoError(t, w.Shutdown(context.Background()))
}

func TestFulfillmentWorker_StartWithNothingPending(t *testing.T) {
	coord := newMockFulfiller()
	w := NewFulfillmentWorker(coord, staticPending{err: errors.New("db down")}, 0, nil)
	w.Start(context.Background())
	w.Start(context.Background())

	require.NoError(t, w.Shutdown(context.Background()))
	coord.AssertNotCalled(t, "FulfillRandomWords", mock.Anything, mock.Anything)
}

func TestFulfillmentWorker_SkipsSettledRequests(t *testing.T) {
	coord := newMockFulfiller()
	coord.On("IsPending", domain.RequestID(1)).Return(false)

	w := NewFulfillmentWorker(coord, staticPending{}, 0, nil)
	w.schedule(1)
	require.NoError(t, w.Shutdown(context.Background()))

	coord.AssertNotCalled(t, "FulfillRandomWords", mock.Anything, mock.Anything)
}

func TestFulfillmentWorker_ShutdownCancelsTimers(t *testing.T) {
	coord := newMockFulfiller()
	w := NewFulfillmentWorker(coord, staticPending{}, time.Hour, nil)
	bus := event.NewMemoryBus()
	w.Subscribe(bus)

	require.NoError(t, bus.Publish(context.Background(), event.NewDrawRequestedEvent("main", 1, 1, "1", time.Now())))
	require.NoError(t, bus.Publish(context.Background(), event.NewDrawRequestedEvent("main", 2, 1, "1", time.Now())))
	assert.Equal(t, 2, w.pendingTimers())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, w.Shutdown(ctx))
	assert.Zero(t, w.pendingTimers())

	// scheduling after shutdown is a no-op
	w.schedule(3)
	assert.Zero(t, w.pendingTimers())
	coord.AssertNotCalled(t, "FulfillRandomWords", mock.Anything, mock.Anything)
}

func TestFulfillmentWorker_TimerFiringAfterShutdownIsDropped(t *testing.T) {
	coord := newMockFulfiller()
	w := NewFulfillmentWorker(coord, staticPending{}, 0, nil)
	require.NoError(t, w.Shutdown(context.Background()))

	// a timer that passed its closed check before Shutdown still reaches fulfill
	w.fulfill(5)
	require.NoError(t, w.Shutdown(context.Background()))
	coord.AssertNotCalled(t, "IsPending", mock.Anything)
	coord.AssertNotCalled(t, "FulfillRandomWords", mock.Anything, mock.Anything)
}

func TestFulfillmentWorker_ConcurrentFulfillAndShutdown(t *testing.T) {
	coord := newMockFulfiller()
	coord.On("IsPending", mock.Anything).Return(false)
	w := NewFulfillmentWorker(coord, staticPending{}, 0, nil)

	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(id domain.RequestID) {
			defer wg.Done()
			<-start
			w.fulfill(id)
		}(domain.RequestID(i))
	}
	close(start)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, w.Shutdown(ctx))
	wg.Wait()
	require.NoError(t, w.Shutdown(ctx))
	coord.AssertNotCalled(t, "FulfillRandomWords", mock.Anything, mock.Anything)
}
