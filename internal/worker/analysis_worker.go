package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"adlens/internal/queue"
)

// JobRunner executes one analysis job.
type JobRunner interface {
	Run(ctx context.Context, job queue.Job) error
}

type Stats struct {
	ActiveWorkers  int `json:"active_workers"`
	MaxWorkers     int `json:"max_workers"`
	QueueLength    int `json:"queue_length"`
	TotalProcessed int `json:"total_processed"`
	FailedJobs     int `json:"failed_jobs"`
}

// AnalysisWorker feeds queued jobs to the worker pool.
type AnalysisWorker struct {
	pool       *WorkerPool
	queue      queue.Queue
	runner     JobRunner
	logger     zerolog.Logger
	stats      Stats
	statsMutex sync.Mutex
	done       chan struct{}
	startTime  time.Time
}

func NewAnalysisWorker(pool *WorkerPool, q queue.Queue, runner JobRunner, logger zerolog.Logger) *AnalysisWorker {
	return &AnalysisWorker{
		pool:   pool,
		queue:  q,
		runner: runner,
		logger: logger,
		done:   make(chan struct{}),
	}
}

// Start consumes jobs until ctx is cancelled. Jobs run with ctx: cancelling it aborts running
// analyses and returns them, and any job still waiting in the pool, to the queue.
func (w *AnalysisWorker) Start(ctx context.Context) error {
	deliveries, err := w.queue.Consume(ctx)
	if err != nil {
		return fmt.Errorf("failed to start consuming jobs: %w", err)
	}

	w.startTime = time.Now()
	w.pool.Start()
	go w.processDeliveries(ctx, deliveries)

	w.logger.Info().Msg("Analysis worker started")
	return nil
}

// Stop waits for the consumer loop to exit and running jobs to finish. Cancel the Start context first.
func (w *AnalysisWorker) Stop() {
	<-w.done
	w.pool.Stop()

	stats := w.Stats()
	w.logger.Info().
		Int("total_processed", stats.TotalProcessed).
		Int("failed_jobs", stats.FailedJobs).
		Dur("uptime", time.Since(w.startTime)).
		Msg("Analysis worker stopped")
}

func (w *AnalysisWorker) processDeliveries(ctx context.Context, deliveries <-chan queue.Delivery) {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				w.logger.Warn().Msg("Job channel closed")
				return
			}
			w.dispatch(ctx, d)
		}
	}
}

func (w *AnalysisWorker) dispatch(ctx context.Context, d queue.Delivery) {
	for {
		err := w.pool.Submit(func() { w.handle(ctx, d) })
		if err == nil {
			return
		}
		if errors.Is(err, ErrPoolFull) && ctx.Err() == nil {
			continue
		}
		w.logger.Warn().Err(err).Uint("analysis_id", d.Job.AnalysisID).Msg("Returning job to the queue")
		if nackErr := d.Nack(true); nackErr != nil {
			w.logger.Error().Err(nackErr).Msg("Failed to nack job")
		}
		return
	}
}

// handle runs one job. The runner records failures on the analysis itself, so failed jobs are not redelivered.
// Jobs cut short by shutdown are.
func (w *AnalysisWorker) handle(ctx context.Context, d queue.Delivery) {
	if ctx.Err() != nil {
		w.requeue(d)
		return
	}
	err := w.runner.Run(ctx, d.Job)
	if err != nil && ctx.Err() != nil {
		w.requeue(d)
		return
	}

	w.statsMutex.Lock()
	w.stats.TotalProcessed++
	if err != nil {
		w.stats.FailedJobs++
	}
	w.statsMutex.Unlock()

	if err != nil {
		if nackErr := d.Nack(false); nackErr != nil {
			w.logger.Error().Err(nackErr).Msg("Failed to nack job")
		}
		return
	}
	if ackErr := d.Ack(); ackErr != nil {
		w.logger.Error().Err(ackErr).Msg("Failed to ack job")
	}
}

func (w *AnalysisWorker) requeue(d queue.Delivery) {
	w.logger.Info().Uint("analysis_id", d.Job.AnalysisID).Msg("Shutting down, returning job to the queue")
	if err := d.Nack(true); err != nil {
		w.logger.Error().Err(err).Msg("Failed to requeue job")
	}
}

func (w *AnalysisWorker) Stats() Stats {
	stats := w.pool.Stats()
	w.statsMutex.Lock()
	stats.TotalProcessed = w.stats.TotalProcessed
	stats.FailedJobs = w.stats.FailedJobs
	w.statsMutex.Unlock()
	return stats
}
