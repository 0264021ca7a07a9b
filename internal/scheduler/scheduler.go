package scheduler

import (
	"sync"
	"time"

	"github.com/osse101/lotto/internal/logger"
	"github.com/osse101/lotto/internal/worker"
)

// LogMsgTickSkipped is logged when a tick finds the worker queue full
const LogMsgTickSkipped = "Scheduled job skipped, worker queue full"

// Scheduler enqueues jobs on a worker pool at fixed intervals
type Scheduler struct {
	workerPool *worker.Pool
	quit       chan struct{}
	once       sync.Once
	wg         sync.WaitGroup
}

// New creates a new scheduler
func New(pool *worker.Pool) *Scheduler {
	return &Scheduler{
		workerPool: pool,
		quit:       make(chan struct{}),
	}
}

// Schedule registers a job to run every interval, starting one interval from
// now. A tick that finds the queue full is dropped rather than queued up.
func (s *Scheduler) Schedule(name string, interval time.Duration, job worker.Job) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if !s.workerPool.Enqueue(job) {
					logger.Warn(LogMsgTickSkipped, "job", name)
				}
			case <-s.quit:
				return
			}
		}
	}()
}

// Stop stops all scheduled jobs. Safe to call more than once.
func (s *Scheduler) Stop() {
	s.once.Do(func() { close(s.quit) })
	s.wg.Wait()
}
