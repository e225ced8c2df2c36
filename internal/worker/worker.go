// Package worker drains the processing queue: claim a pending entry, run
// the evaluator, and make sure every claimed entry reaches a terminal state.
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// RunEvaluator processes one claimed run to a terminal state. A nil return
// means the entry was closed, whether done or error.
type RunEvaluator interface {
	Evaluate(ctx context.Context, runID int64) error
}

// Queue is the subset of the processing repository the drain loop needs.
type Queue interface {
	GetPending(ctx context.Context) ([]int64, error)
	Claim(ctx context.Context, runID int64) (bool, error)
	MarkError(ctx context.Context, runID int64, message string) error
}

type Config struct {
	Interval time.Duration `yaml:"interval"`
}

type Worker struct {
	logger    *slog.Logger
	queue     Queue
	evaluator RunEvaluator
	interval  time.Duration
}

func New(logger *slog.Logger, queue Queue, evaluator RunEvaluator, cfg Config) *Worker {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Worker{
		logger:    logger,
		queue:     queue,
		evaluator: evaluator,
		interval:  interval,
	}
}

// Run drains the queue on a fixed interval until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.DrainOnce(ctx)
		}
	}
}

// DrainOnce snapshots the pending entries in creation order and processes
// each to completion. One failing entry never blocks the rest: an entry
// whose evaluation raises unexpectedly is closed with "unexpected error"
// and the loop continues. Cancellation between entries leaves the remainder
// pending for the next drain.
func (w *Worker) DrainOnce(ctx context.Context) {
	pending, err := w.queue.GetPending(ctx)
	if err != nil {
		w.logger.Error("list pending entries", "error", err)
		return
	}
	if len(pending) == 0 {
		return
	}

	batchID := uuid.NewString()
	w.logger.Info("draining processing queue", "batch_id", batchID, "pending", len(pending))

	for _, runID := range pending {
		if ctx.Err() != nil {
			return
		}
		claimed, err := w.queue.Claim(ctx, runID)
		if err != nil {
			w.logger.Error("claim entry", "batch_id", batchID, "run_id", runID, "error", err)
			continue
		}
		if !claimed {
			// Another worker got there first.
			continue
		}
		if err := w.evaluator.Evaluate(ctx, runID); err != nil {
			w.logger.Error("unexpected evaluation error", "batch_id", batchID, "run_id", runID, "error", err)
			if markErr := w.queue.MarkError(ctx, runID, "unexpected error"); markErr != nil {
				w.logger.Error("mark error after failure", "batch_id", batchID, "run_id", runID, "error", markErr)
			}
		}
	}
}
