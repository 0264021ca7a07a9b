package worker

import (
	"sync"
	"time"

	"github.com/osse101/lotto/internal/domain"
)

// requestTimers holds at most one pending timer per randomness request.
// After close, arm refuses new timers.
type requestTimers struct {
	mu     sync.Mutex
	timers map[domain.RequestID]*time.Timer
	closed bool
}

func newRequestTimers() *requestTimers {
	return &requestTimers{timers: make(map[domain.RequestID]*time.Timer)}
}

// arm replaces any timer for id with one that runs fn after delay. The
// entry is dropped before fn runs. Returns false once closed.
func (t *requestTimers) arm(id domain.RequestID, delay time.Duration, fn func()) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return false
	}
	if old, ok := t.timers[id]; ok {
		old.Stop()
	}
	var timer *time.Timer
	timer = time.AfterFunc(delay, func() {
		t.mu.Lock()
		// a re-armed id owns a newer timer
		if t.timers[id] == timer {
			delete(t.timers, id)
		}
		t.mu.Unlock()
		fn()
	})
	t.timers[id] = timer
	return true
}

func (t *requestTimers) isClosed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

// close stops every timer that has not fired and returns their ids
func (t *requestTimers) close() []domain.RequestID {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	ids := make([]domain.RequestID, 0, len(t.timers))
	for id, timer := range t.timers {
		if timer.Stop() {
			ids = append(ids, id)
		}
	}
	t.timers = make(map[domain.RequestID]*time.Timer)
	return ids
}

func (t *requestTimers) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.timers)
}
