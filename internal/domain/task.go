package domain

import (
	"errors"
	"strconv"
)

type Task struct {
	ID         int64
	TaskTypeID int64
}

type TaskType struct {
	ID       int64
	Name     string
	Category TaskCategory
}

// TaskInputs holds task inputs after coercion: pure-digit values become
// int64, everything else stays a string.
type TaskInputs map[string]any

// CoerceTaskInputs converts raw input rows into typed values.
func CoerceTaskInputs(raw map[string]string) TaskInputs {
	out := make(TaskInputs, len(raw))
	for name, value := range raw {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			out[name] = n
			continue
		}
		out[name] = value
	}
	return out
}

// SourceData returns the dataset id bound to the task, if present as an
// integer input.
func (in TaskInputs) SourceData() (int64, bool) {
	n, ok := in["source_data"].(int64)
	return n, ok
}

// TargetFeature returns the target column name, defaulting to "class".
func (in TaskInputs) TargetFeature() string {
	if s, ok := in["target_feature"].(string); ok && s != "" {
		return s
	}
	return "class"
}

// EstimationProcedure returns the estimation procedure id when present.
func (in TaskInputs) EstimationProcedure() (int64, bool) {
	n, ok := in["estimation_procedure"].(int64)
	return n, ok
}

func (t Task) Validate() error {
	if t.ID <= 0 {
		return errors.New("task id is required")
	}
	if t.TaskTypeID <= 0 {
		return errors.New("task type id is required")
	}
	return nil
}
