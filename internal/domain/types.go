package domain

// TaskCategory is the closed set of evaluable task kinds. Categories outside
// the known set are carried as their raw id and produce no metrics.
type TaskCategory int64

const (
	TaskSupervisedClassification TaskCategory = 1
	TaskSupervisedRegression     TaskCategory = 2
)

func (c TaskCategory) Known() bool {
	switch c {
	case TaskSupervisedClassification, TaskSupervisedRegression:
		return true
	}
	return false
}

type ProcessingStatus string

const (
	ProcessingPending    ProcessingStatus = "pending"
	ProcessingInProgress ProcessingStatus = "in_progress"
	ProcessingDone       ProcessingStatus = "done"
	ProcessingError      ProcessingStatus = "error"
)

type FileFormat string

const (
	FormatARFF       FileFormat = "arff"
	FormatSparseARFF FileFormat = "sparse_arff"
	FormatParquet    FileFormat = "parquet"
)

type FeatureType string

const (
	FeatureNumeric FeatureType = "numeric"
	FeatureNominal FeatureType = "nominal"
	FeatureString  FeatureType = "string"
)

type SplitKind string

const (
	SplitTrain SplitKind = "TRAIN"
	SplitTest  SplitKind = "TEST"
)
