package repo

import (
	"context"
	"errors"

	"github.com/openml-labs/runeval/internal/domain"
)

// ErrNotFound reports that a requested row does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEvaluation reports a second write of the same (run, measure)
// pair. This is a programming error, not an expected condition.
var ErrDuplicateEvaluation = errors.New("duplicate evaluation")

// RunRepository reads uploaded runs.
type RunRepository interface {
	GetRun(ctx context.Context, runID int64) (domain.Run, error)
}

// TaskRepository reads tasks, task types and task inputs.
type TaskRepository interface {
	GetTask(ctx context.Context, taskID int64) (domain.Task, error)
	GetTaskType(ctx context.Context, taskTypeID int64) (domain.TaskType, error)
	GetTaskInputs(ctx context.Context, taskID int64) (domain.TaskInputs, error)
}

// DatasetRepository reads dataset rows and their file records.
type DatasetRepository interface {
	GetDataset(ctx context.Context, datasetID int64) (domain.Dataset, error)
	GetDatasetFile(ctx context.Context, fileID int64) (domain.DatasetFile, error)
}

// ProcessingRepository owns the processing_run work queue.
type ProcessingRepository interface {
	Enqueue(ctx context.Context, runID int64) error
	GetPending(ctx context.Context) ([]int64, error)
	// Claim transitions pending -> in_progress and reports whether this
	// caller won the row.
	Claim(ctx context.Context, runID int64) (bool, error)
	MarkDone(ctx context.Context, runID int64) error
	MarkError(ctx context.Context, runID int64, message string) error
	// FinishDone writes all evaluation rows and the done transition in one
	// transaction.
	FinishDone(ctx context.Context, runID int64, results []domain.EvaluationResult) error
}

// EvaluationRepository appends evaluation rows.
type EvaluationRepository interface {
	StoreEvaluation(ctx context.Context, result domain.EvaluationResult) error
}
