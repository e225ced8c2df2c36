package domain

import (
	"errors"
	"time"
)

// Run is one uploaded experiment result. Rows are written by the upload path
// and never mutated here.
type Run struct {
	ID         int64
	TaskID     int64
	FlowID     int64
	UploaderID int64
	UploadTime time.Time
}

func (r Run) Validate() error {
	if r.ID <= 0 {
		return errors.New("run id is required")
	}
	if r.TaskID <= 0 {
		return errors.New("task id is required")
	}
	return nil
}

// ProcessingEntry tracks the evaluation state of a single run. A row moves
// from pending to exactly one of done or error.
type ProcessingEntry struct {
	RunID        int64
	Status       ProcessingStatus
	CreatedAt    time.Time
	ErrorMessage string
}

func (e ProcessingEntry) Terminal() bool {
	return e.Status == ProcessingDone || e.Status == ProcessingError
}

// EvaluationResult is one computed measure for a run, keyed (run_id, measure).
type EvaluationResult struct {
	RunID   int64
	Measure string
	Value   float64
	PerFold []float64
}

func (r EvaluationResult) Validate() error {
	if r.RunID <= 0 {
		return errors.New("run id is required")
	}
	if r.Measure == "" {
		return errors.New("measure name is required")
	}
	return nil
}
