// Package metrics implements the evaluation measures computed for finished
// runs. All functions are pure over their inputs.
package metrics

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/openml-labs/runeval/internal/domain"
)

// ErrLengthMismatch reports truth/prediction sequences of different lengths.
var ErrLengthMismatch = errors.New("length mismatch")

// ErrInvalidLabel reports an AUC truth label outside {0, 1}.
var ErrInvalidLabel = errors.New("invalid label")

const (
	MeasurePredictiveAccuracy = "predictive_accuracy"
	MeasureAreaUnderROCCurve  = "area_under_roc_curve"
	MeasureRMSE               = "root_mean_squared_error"
	MeasureMAE                = "mean_absolute_error"
)

// Accuracy is the fraction of exact label matches. Empty input yields 0.
func Accuracy(yTrue, yPred []string) (float64, error) {
	if len(yTrue) != len(yPred) {
		return 0, fmt.Errorf("%w: %d truth vs %d predicted", ErrLengthMismatch, len(yTrue), len(yPred))
	}
	if len(yTrue) == 0 {
		return 0, nil
	}
	matches := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			matches++
		}
	}
	return float64(matches) / float64(len(yTrue)), nil
}

// RMSE is the root mean squared error. Empty input yields 0.
func RMSE(yTrue, yPred []float64) (float64, error) {
	if len(yTrue) != len(yPred) {
		return 0, fmt.Errorf("%w: %d truth vs %d predicted", ErrLengthMismatch, len(yTrue), len(yPred))
	}
	if len(yTrue) == 0 {
		return 0, nil
	}
	var sum float64
	for i := range yTrue {
		d := yTrue[i] - yPred[i]
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(yTrue))), nil
}

// MAE is the mean absolute error. Empty input yields 0.
func MAE(yTrue, yPred []float64) (float64, error) {
	if len(yTrue) != len(yPred) {
		return 0, fmt.Errorf("%w: %d truth vs %d predicted", ErrLengthMismatch, len(yTrue), len(yPred))
	}
	if len(yTrue) == 0 {
		return 0, nil
	}
	var sum float64
	for i := range yTrue {
		sum += math.Abs(yTrue[i] - yPred[i])
	}
	return sum / float64(len(yTrue)), nil
}

// AUC is the rank-based Mann-Whitney area under the ROC curve. Truth labels
// must be 0 or 1. Tie groups receive the average of the ranks they span.
// Returns 0 when the input is empty or either class is absent.
func AUC(yTrue []int, yScore []float64) (float64, error) {
	if len(yTrue) != len(yScore) {
		return 0, fmt.Errorf("%w: %d truth vs %d scores", ErrLengthMismatch, len(yTrue), len(yScore))
	}
	nPos, nNeg := 0, 0
	for _, label := range yTrue {
		switch label {
		case 1:
			nPos++
		case 0:
			nNeg++
		default:
			return 0, fmt.Errorf("%w: %d", ErrInvalidLabel, label)
		}
	}
	if nPos == 0 || nNeg == 0 {
		return 0, nil
	}

	n := len(yScore)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return yScore[order[a]] < yScore[order[b]]
	})

	// 1-indexed ranks, tie groups averaged across the spanned ranks.
	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && yScore[order[j+1]] == yScore[order[i]] {
			j++
		}
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[order[k]] = avg
		}
		i = j + 1
	}

	var posRankSum float64
	for i, label := range yTrue {
		if label == 1 {
			posRankSum += ranks[i]
		}
	}
	u := posRankSum - float64(nPos)*float64(nPos+1)/2
	return u / (float64(nPos) * float64(nNeg)), nil
}

// Compute dispatches on the task category and returns the measures for one
// run. Unknown categories return an empty map without error. Scores may be
// nil when the uploader provided no confidences.
func Compute(category domain.TaskCategory, yTrue, yPred []string, yScore []float64) (map[string]float64, error) {
	out := map[string]float64{}
	switch category {
	case domain.TaskSupervisedClassification:
		acc, err := Accuracy(yTrue, yPred)
		if err != nil {
			return nil, err
		}
		out[MeasurePredictiveAccuracy] = acc

		if yScore == nil {
			return out, nil
		}
		positive, binary := binaryPositiveLabel(yTrue)
		if !binary {
			return out, nil
		}
		labels := make([]int, len(yTrue))
		for i, v := range yTrue {
			if v == positive {
				labels[i] = 1
			}
		}
		auc, err := AUC(labels, yScore)
		if err != nil {
			return nil, err
		}
		out[MeasureAreaUnderROCCurve] = auc
		return out, nil

	case domain.TaskSupervisedRegression:
		trueVals, err := toFloats(yTrue)
		if err != nil {
			return nil, err
		}
		predVals, err := toFloats(yPred)
		if err != nil {
			return nil, err
		}
		rmse, err := RMSE(trueVals, predVals)
		if err != nil {
			return nil, err
		}
		mae, err := MAE(trueVals, predVals)
		if err != nil {
			return nil, err
		}
		out[MeasureRMSE] = rmse
		out[MeasureMAE] = mae
		return out, nil
	}
	return out, nil
}

// binaryPositiveLabel reports the lexicographically larger of exactly two
// distinct labels, or false when the label set is not binary.
func binaryPositiveLabel(yTrue []string) (string, bool) {
	distinct := make(map[string]struct{}, 2)
	for _, v := range yTrue {
		distinct[v] = struct{}{}
		if len(distinct) > 2 {
			return "", false
		}
	}
	if len(distinct) != 2 {
		return "", false
	}
	var positive string
	first := true
	for v := range distinct {
		if first || v > positive {
			positive = v
			first = false
		}
	}
	return positive, true
}

func toFloats(values []string) ([]float64, error) {
	out := make([]float64, len(values))
	for i, v := range values {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("parse numeric value %q: %w", v, err)
		}
		out[i] = f
	}
	return out, nil
}
