package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/osse101/lotto/internal/testing/leaktest"
)

type testJob struct {
	executed *int32
}

func (j *testJob) Process(ctx context.Context) error {
	atomic.AddInt32(j.executed, 1)
	return nil
}

type blockingJob struct {
	release chan struct{}
}

func (j *blockingJob) Process(ctx context.Context) error {
	select {
	case <-j.release:
	case <-ctx.Done():
	}
	return ctx.Err()
}

func TestPool(t *testing.T) {
	var executed int32
	pool := NewPool(TestWorkerCount, TestQueueSize)
	pool.Start()

	job := &testJob{executed: &executed}
	assert.True(t, pool.Enqueue(job))
	assert.True(t, pool.Enqueue(job))

	// Wait a bit for workers to process
	time.Sleep(TestWorkerProcessWaitTime * time.Millisecond)

	pool.Stop()

	assert.Equal(t, int32(TestExpectedJobCount), atomic.LoadInt32(&executed))
	assert.False(t, pool.Enqueue(job), "stopped pool rejects jobs")
}

func TestPool_EnqueueDoesNotBlockWhenFull(t *testing.T) {
	pool := NewPool(1, 1)
	pool.Start()

	release := make(chan struct{})
	blocker := &blockingJob{release: release}
	assert.True(t, pool.Enqueue(blocker))
	time.Sleep(20 * time.Millisecond) // worker picks up the blocker

	assert.True(t, pool.Enqueue(blocker), "one slot in the queue")
	assert.False(t, pool.Enqueue(blocker), "queue full")

	close(release)
	pool.Stop()
}

func TestPool_JobTimeout(t *testing.T) {
	pool := NewPool(1, 1).WithJobTimeout(10 * time.Millisecond)
	pool.Start()
	defer pool.Stop()

	done := make(chan struct{})
	pool.Enqueue(jobFunc(func(ctx context.Context) error {
		<-ctx.Done()
		close(done)
		return ctx.Err()
	}))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("job context was not cancelled")
	}
}

type jobFunc func(ctx context.Context) error

func (f jobFunc) Process(ctx context.Context) error { return f(ctx) }

func TestPool_StopReleasesWorkers(t *testing.T) {
	leaktest.CheckNoGoroutineLeak(t, func() {
		pool := NewPool(4, 4)
		pool.Start()
		var executed int32
		pool.Enqueue(&testJob{executed: &executed})
		pool.Stop()
	})
}
