package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adlens/internal/queue"
)

func TestWorkerPool_RunsTasksAndRecoversPanics(t *testing.T) {
	pool := NewWorkerPool(2, zerolog.Nop())
	pool.Start()

	var ran int32
	var wg sync.WaitGroup
	wg.Add(3)
	require.NoError(t, pool.Submit(func() { defer wg.Done(); panic("boom") }))
	require.NoError(t, pool.Submit(func() { defer wg.Done(); atomic.AddInt32(&ran, 1) }))
	require.NoError(t, pool.Submit(func() { defer wg.Done(); atomic.AddInt32(&ran, 1) }))
	wg.Wait()

	pool.Stop()
	assert.Equal(t, int32(2), atomic.LoadInt32(&ran))
	assert.Equal(t, 0, pool.ActiveWorkers())
	assert.ErrorIs(t, pool.Submit(func() {}), ErrPoolStopped)
}

func TestWorkerPool_SubmitTimesOutWhenFull(t *testing.T) {
	pool := NewWorkerPool(1, zerolog.Nop())
	pool.submitTimeout = 20 * time.Millisecond
	pool.Start()

	release := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, pool.Submit(func() { close(started); <-release }))
	<-started
	require.NoError(t, pool.Submit(func() {}))

	assert.ErrorIs(t, pool.Submit(func() {}), ErrPoolFull)

	close(release)
	pool.Stop()
}

type stubRunner struct {
	mu   sync.Mutex
	ran  []uint
	fail map[uint]bool
}

func (r *stubRunner) Run(_ context.Context, job queue.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ran = append(r.ran, job.AnalysisID)
	if r.fail[job.AnalysisID] {
		return errors.New("analysis failed")
	}
	return nil
}

func (r *stubRunner) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ran)
}

func TestAnalysisWorker_ProcessesQueuedJobs(t *testing.T) {
	q := queue.NewMemory(10)
	runner := &stubRunner{fail: map[uint]bool{2: true}}
	w := NewAnalysisWorker(NewWorkerPool(2, zerolog.Nop()), q, runner, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))

	for id := uint(1); id <= 3; id++ {
		require.NoError(t, q.Publish(context.Background(), queue.Job{AnalysisID: id, VideoKey: "analyses/1/source.mp4"}))
	}

	assert.Eventually(t, func() bool { return runner.count() == 3 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	w.Stop()

	stats := w.Stats()
	assert.Equal(t, 3, stats.TotalProcessed)
	assert.Equal(t, 1, stats.FailedJobs)
	assert.Equal(t, 2, stats.MaxWorkers)
	assert.ElementsMatch(t, []uint{1, 2, 3}, runner.ran)
}

// blockingRunner runs until its context ends.
type blockingRunner struct {
	started chan uint
	mu      sync.Mutex
	ran     []uint
}

func (r *blockingRunner) Run(ctx context.Context, job queue.Job) error {
	r.mu.Lock()
	r.ran = append(r.ran, job.AnalysisID)
	r.mu.Unlock()
	r.started <- job.AnalysisID
	<-ctx.Done()
	return ctx.Err()
}

type stubQueue struct {
	queue.Queue
	deliveries chan queue.Delivery
}

func (q *stubQueue) Consume(context.Context) (<-chan queue.Delivery, error) {
	return q.deliveries, nil
}

type ackLog struct {
	mu       sync.Mutex
	acked    []uint
	requeued []uint
	dropped  []uint
}

func (l *ackLog) delivery(id uint) queue.Delivery {
	return queue.Delivery{
		Job: queue.Job{AnalysisID: id},
		Ack: func() error {
			l.mu.Lock()
			defer l.mu.Unlock()
			l.acked = append(l.acked, id)
			return nil
		},
		Nack: func(requeue bool) error {
			l.mu.Lock()
			defer l.mu.Unlock()
			if requeue {
				l.requeued = append(l.requeued, id)
			} else {
				l.dropped = append(l.dropped, id)
			}
			return nil
		},
	}
}

func TestAnalysisWorker_ShutdownRequeuesUnfinishedJobs(t *testing.T) {
	q := &stubQueue{deliveries: make(chan queue.Delivery, 2)}
	runner := &blockingRunner{started: make(chan uint, 2)}
	w := NewAnalysisWorker(NewWorkerPool(1, zerolog.Nop()), q, runner, zerolog.Nop())

	acks := &ackLog{}
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))

	q.deliveries <- acks.delivery(1)
	select {
	case id := <-runner.started:
		assert.Equal(t, uint(1), id)
	case <-time.After(2 * time.Second):
		t.Fatal("job 1 never started")
	}
	// waits in the pool behind job 1
	q.deliveries <- acks.delivery(2)
	assert.Eventually(t, func() bool { return len(q.deliveries) == 0 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	w.Stop()

	acks.mu.Lock()
	defer acks.mu.Unlock()
	assert.Empty(t, acks.acked)
	assert.Empty(t, acks.dropped)
	assert.ElementsMatch(t, []uint{1, 2}, acks.requeued)
	assert.Equal(t, []uint{1}, runner.ran)
	assert.Equal(t, 0, w.Stats().FailedJobs)
}
