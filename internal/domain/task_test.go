package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoerceTaskInputs(t *testing.T) {
	inputs := CoerceTaskInputs(map[string]string{
		"source_data":          "61",
		"target_feature":       "class",
		"estimation_procedure": "5",
		"evaluation_measures":  "predictive accuracy",
	})

	assert.Equal(t, int64(61), inputs["source_data"])
	assert.Equal(t, "class", inputs["target_feature"])
	assert.Equal(t, "predictive accuracy", inputs["evaluation_measures"])

	did, ok := inputs.SourceData()
	assert.True(t, ok)
	assert.Equal(t, int64(61), did)

	proc, ok := inputs.EstimationProcedure()
	assert.True(t, ok)
	assert.Equal(t, int64(5), proc)
}

func TestTargetFeatureDefault(t *testing.T) {
	assert.Equal(t, "class", TaskInputs{}.TargetFeature())
	assert.Equal(t, "label", TaskInputs{"target_feature": "label"}.TargetFeature())
	// A numeric target_feature is nonsense; fall back to the default.
	assert.Equal(t, "class", TaskInputs{"target_feature": int64(3)}.TargetFeature())
}

func TestSourceDataMissing(t *testing.T) {
	_, ok := TaskInputs{"source_data": "not-a-number"}.SourceData()
	assert.False(t, ok)
	_, ok = TaskInputs{}.SourceData()
	assert.False(t, ok)
}

func TestProcessingEntryTerminal(t *testing.T) {
	assert.False(t, ProcessingEntry{Status: ProcessingPending}.Terminal())
	assert.False(t, ProcessingEntry{Status: ProcessingInProgress}.Terminal())
	assert.True(t, ProcessingEntry{Status: ProcessingDone}.Terminal())
	assert.True(t, ProcessingEntry{Status: ProcessingError}.Terminal())
}

func TestTaskCategoryKnown(t *testing.T) {
	assert.True(t, TaskSupervisedClassification.Known())
	assert.True(t, TaskSupervisedRegression.Known())
	assert.False(t, TaskCategory(4).Known())
}
