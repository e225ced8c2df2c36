// Package evaluator runs the per-run evaluation pipeline: load the run and
// its task, fetch splits and predictions, compute metrics and persist them.
package evaluator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/openml-labs/runeval/internal/arff"
	"github.com/openml-labs/runeval/internal/domain"
	"github.com/openml-labs/runeval/internal/metrics"
	"github.com/openml-labs/runeval/internal/repo"
	"github.com/openml-labs/runeval/internal/splits"
)

// ArtifactFetcher is the subset of the fetcher the evaluator needs.
type ArtifactFetcher interface {
	DatasetBytes(ctx context.Context, ds domain.Dataset) ([]byte, error)
	SplitsText(ctx context.Context, taskID int64) (string, error)
	LocalPredictions(runID int64) ([]byte, error)
}

// Queue is the subset of the processing repository the evaluator needs to
// close its own entry.
type Queue interface {
	MarkError(ctx context.Context, runID int64, message string) error
	FinishDone(ctx context.Context, runID int64, results []domain.EvaluationResult) error
}

type Evaluator struct {
	logger   *slog.Logger
	runs     repo.RunRepository
	tasks    repo.TaskRepository
	datasets repo.DatasetRepository
	queue    Queue
	fetcher  ArtifactFetcher
}

func New(logger *slog.Logger, runs repo.RunRepository, tasks repo.TaskRepository, datasets repo.DatasetRepository, queue Queue, fetcher ArtifactFetcher) *Evaluator {
	return &Evaluator{
		logger:   logger,
		runs:     runs,
		tasks:    tasks,
		datasets: datasets,
		queue:    queue,
		fetcher:  fetcher,
	}
}

// Evaluate processes one claimed run to a terminal state. Domain failures
// are recorded on the entry with a stable reason and reported as nil; only
// unexpected errors surface to the caller.
func (e *Evaluator) Evaluate(ctx context.Context, runID int64) error {
	run, err := e.runs.GetRun(ctx, runID)
	if errors.Is(err, repo.ErrNotFound) {
		return e.fail(ctx, runID, "run row not found", err)
	}
	if err != nil {
		return fmt.Errorf("load run %d: %w", runID, err)
	}

	task, err := e.tasks.GetTask(ctx, run.TaskID)
	if errors.Is(err, repo.ErrNotFound) {
		return e.fail(ctx, runID, "task not found", err)
	}
	if err != nil {
		return fmt.Errorf("load task %d: %w", run.TaskID, err)
	}

	taskType, err := e.tasks.GetTaskType(ctx, task.TaskTypeID)
	if errors.Is(err, repo.ErrNotFound) {
		return e.fail(ctx, runID, "task type not found", err)
	}
	if err != nil {
		return fmt.Errorf("load task type %d: %w", task.TaskTypeID, err)
	}

	inputs, err := e.tasks.GetTaskInputs(ctx, task.ID)
	if err != nil {
		return fmt.Errorf("load task inputs %d: %w", task.ID, err)
	}
	datasetID, ok := inputs.SourceData()
	if !ok {
		return e.fail(ctx, runID, "no source_data task input", nil)
	}
	target := inputs.TargetFeature()

	dataset, err := e.datasets.GetDataset(ctx, datasetID)
	if errors.Is(err, repo.ErrNotFound) {
		return e.fail(ctx, runID, "dataset not found", err)
	}
	if err != nil {
		return fmt.Errorf("load dataset %d: %w", datasetID, err)
	}

	splitsText, err := e.fetcher.SplitsText(ctx, task.ID)
	if err != nil {
		return e.fail(ctx, runID, "could not fetch splits", err)
	}
	// Only the first repeat is evaluated; the split table may carry more.
	foldIndex := splits.BuildFoldIndex(splits.ParseARFF(splitsText), 0)

	predBytes, err := e.fetcher.LocalPredictions(runID)
	if err != nil {
		return e.fail(ctx, runID, "predictions file not found", err)
	}
	preds, skipped := arff.ParsePredictions(string(predBytes))
	if skipped > 0 {
		e.logger.Warn("skipped malformed prediction rows", "run_id", runID, "skipped", skipped)
	}

	labelByRow := make(map[int64]string, len(preds))
	scoreByRow := make(map[int64]float64, len(preds))
	hasScores := false
	for _, pred := range preds {
		labelByRow[pred.RowID] = pred.Label
		if pred.Confidence != nil {
			scoreByRow[pred.RowID] = *pred.Confidence
			hasScores = true
		}
	}

	datasetBytes, err := e.fetcher.DatasetBytes(ctx, dataset)
	if err != nil {
		return e.fail(ctx, runID, "could not fetch dataset", err)
	}

	var yTrue, yPred []string
	var yScore []float64
	for _, fold := range foldIndex.Folds() {
		testIDs := foldIndex[fold].Test
		truth, found := arff.LoadGroundTruth(datasetBytes, target, testIDs)
		if !found {
			e.logger.Warn("target column not found in dataset", "run_id", runID, "dataset_id", dataset.ID, "target", target)
			continue
		}
		yTrue = append(yTrue, truth...)
		for _, rowID := range testIDs {
			yPred = append(yPred, labelByRow[rowID])
			if hasScores {
				// Rows without a score contribute 0.
				yScore = append(yScore, scoreByRow[rowID])
			}
		}
	}

	var scores []float64
	if hasScores {
		scores = yScore
	}
	measures, err := metrics.Compute(taskType.Category, yTrue, yPred, scores)
	if err != nil {
		return e.fail(ctx, runID, "could not compute metrics", err)
	}

	results := make([]domain.EvaluationResult, 0, len(measures))
	for _, name := range sortedKeys(measures) {
		results = append(results, domain.EvaluationResult{
			RunID:   runID,
			Measure: name,
			Value:   measures[name],
		})
	}
	if err := e.queue.FinishDone(ctx, runID, results); err != nil {
		return fmt.Errorf("finish run %d: %w", runID, err)
	}
	e.logger.Info("run evaluated", "run_id", runID, "task_id", task.ID, "measures", len(results))
	return nil
}

// fail records a domain failure on the processing entry. The original error
// is logged but only the stable reason is persisted.
func (e *Evaluator) fail(ctx context.Context, runID int64, reason string, cause error) error {
	e.logger.Info("evaluation failed", "run_id", runID, "reason", reason, "error", cause)
	if err := e.queue.MarkError(ctx, runID, reason); err != nil {
		return fmt.Errorf("mark error run %d: %w", runID, err)
	}
	return nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
