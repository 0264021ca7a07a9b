package worker

import (
	"context"
	"sync"
	"time"

	"github.com/osse101/lotto/internal/domain"
	"github.com/osse101/lotto/internal/event"
	"github.com/osse101/lotto/internal/logger"
	"github.com/osse101/lotto/internal/vrf"
)

// Fulfiller delivers randomness for a pending request
type Fulfiller interface {
	FulfillRandomWords(ctx context.Context, requestID domain.RequestID) (*vrf.Fulfillment, error)
	IsPending(requestID domain.RequestID) bool
}

// PendingSource reports the request a pool is waiting on
type PendingSource interface {
	GetPendingRequestID(ctx context.Context) (*domain.RequestID, error)
}

// FulfillmentWorker plays the oracle node on local networks: every draw
// request is fulfilled by the mock coordinator after a fixed delay
type FulfillmentWorker struct {
	timers *requestTimers

	mu      sync.Mutex
	stopped bool // guards running.Add against Shutdown's Wait
	running sync.WaitGroup

	coordinator Fulfiller
	pool        PendingSource
	delay       time.Duration
	observe     func(outcome string)
}

// NewFulfillmentWorker creates a new FulfillmentWorker
func NewFulfillmentWorker(coordinator Fulfiller, pool PendingSource, delay time.Duration, observe func(outcome string)) *FulfillmentWorker {
	return &FulfillmentWorker{
		timers:      newRequestTimers(),
		coordinator: coordinator,
		pool:        pool,
		delay:       delay,
		observe:     observe,
	}
}

// Start schedules the request the pool is already waiting on, if any
func (w *FulfillmentWorker) Start(ctx context.Context) {
	pending, err := w.pool.GetPendingRequestID(ctx)
	if err != nil {
		logger.FromContext(ctx).Error(LogMsgFailedToLoadPendingOnStartup, "error", err)
		return
	}
	if pending != nil {
		w.schedule(*pending)
	}
}

// Subscribe subscribes the worker to draw requests
func (w *FulfillmentWorker) Subscribe(bus event.Bus) {
	bus.Subscribe(event.PoolDrawRequested, w.handleDrawRequested)
}

func (w *FulfillmentWorker) handleDrawRequested(ctx context.Context, e event.Event) error {
	payload, err := event.DecodePayload[event.DrawRequestedPayloadV1](e.Payload)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgFulfillmentInvalidEventPayload, "error", err)
		return nil
	}
	w.schedule(domain.RequestID(payload.RequestID))
	return nil
}

func (w *FulfillmentWorker) schedule(id domain.RequestID) {
	if w.timers.isClosed() {
		return
	}
	logger.Info(LogMsgSchedulingFulfillment, "request_id", id, "delay", w.delay)

	if w.delay <= 0 {
		w.fulfill(id)
		return
	}
	w.timers.arm(id, w.delay, func() {
		if !w.timers.isClosed() {
			w.fulfill(id)
		}
	})
}

func (w *FulfillmentWorker) pendingTimers() int {
	return w.timers.len()
}

// fulfill runs one delivery in a tracked goroutine. Deliveries that fire
// after Shutdown has begun are dropped.
func (w *FulfillmentWorker) fulfill(id domain.RequestID) {
	if !w.track() {
		logger.Info(LogMsgFulfillmentDroppedStopped, "request_id", id)
		return
	}
	go func() {
		defer w.running.Done()

		ctx := logger.WithRequestID(context.Background(), logger.GenerateRequestID())
		log := logger.FromContext(ctx)

		if !w.coordinator.IsPending(id) {
			log.Info(LogMsgFulfillmentSkippedNotPending, "request_id", id)
			return
		}

		log.Info(LogMsgExecutingFulfillment, "request_id", id)
		_, err := w.coordinator.FulfillRandomWords(ctx, id)
		switch {
		case err == nil:
			w.record(FulfillOutcomeDelivered)
		case vrf.IsCallbackFailure(err):
			w.record(FulfillOutcomeRejected)
			log.Warn(LogMsgFulfillmentRejectedByConsumer, "request_id", id, "error", err)
		default:
			w.record(FulfillOutcomeError)
			log.Error(LogMsgFulfillmentFailed, "request_id", id, "error", err)
		}
	}()
}

func (w *FulfillmentWorker) track() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return false
	}
	w.running.Add(1)
	return true
}

func (w *FulfillmentWorker) record(outcome string) {
	if w.observe != nil {
		w.observe(outcome)
	}
}

// Shutdown cancels scheduled fulfillments and waits for running ones
func (w *FulfillmentWorker) Shutdown(ctx context.Context) error {
	log := logger.FromContext(ctx)
	w.mu.Lock()
	w.stopped = true
	w.mu.Unlock()

	for _, id := range w.timers.close() {
		log.Info(LogMsgFulfillmentCancelled, "request_id", id)
	}

	done := make(chan struct{})
	go func() {
		w.running.Wait()
		close(done)
	}()
	select {
	case <-done:
		log.Info(LogMsgWorkerStopped, "worker", FulfillmentWorkerName)
		return nil
	case <-ctx.Done():
		log.Warn(LogMsgWorkerStopTimeout, "worker", FulfillmentWorkerName)
		return ctx.Err()
	}
}
