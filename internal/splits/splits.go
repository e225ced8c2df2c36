// Package splits generates and parses cross-validation splits. Generation is
// deterministic for a given seed: the shuffle source is MT19937 and the
// shuffle itself is the Fisher-Yates walk of math/rand.Shuffle, so two runs
// with the same seed produce bit-identical output.
package splits

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/openml-labs/runeval/internal/domain"
	"github.com/seehuhn/mt19937"
)

// ErrInvalidArgument reports a non-positive fold or repeat count.
var ErrInvalidArgument = errors.New("invalid argument")

// Generate produces the full split table for nRepeats repetitions of
// nFolds-fold cross validation over nSamples rows. The PRNG advances across
// repeats, so each repeat sees a fresh shuffle. nSamples <= 0 yields an
// empty table.
func Generate(nSamples, nFolds, nRepeats int, seed int64) ([]domain.SplitEntry, error) {
	if nFolds <= 0 {
		return nil, fmt.Errorf("%w: n_folds must be positive, got %d", ErrInvalidArgument, nFolds)
	}
	if nRepeats <= 0 {
		return nil, fmt.Errorf("%w: n_repeats must be positive, got %d", ErrInvalidArgument, nRepeats)
	}
	if nSamples <= 0 {
		return nil, nil
	}

	rng := rand.New(mt19937.New())
	rng.Seed(seed)

	out := make([]domain.SplitEntry, 0, nSamples*nFolds*nRepeats)
	for repeat := 0; repeat < nRepeats; repeat++ {
		indices := make([]int64, nSamples)
		for i := range indices {
			indices[i] = int64(i)
		}
		rng.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})

		for fold := 0; fold < nFolds; fold++ {
			for pos, rowID := range indices {
				kind := domain.SplitTrain
				if pos%nFolds == fold {
					kind = domain.SplitTest
				}
				out = append(out, domain.SplitEntry{
					Repeat: repeat,
					Fold:   fold,
					RowID:  rowID,
					Kind:   kind,
				})
			}
		}
	}
	return out, nil
}

// FoldRows is one fold's ordered train and test row ids.
type FoldRows struct {
	Train []int64
	Test  []int64
}

// FoldIndex maps fold number to its rows for a fixed repeat.
type FoldIndex map[int]FoldRows

// BuildFoldIndex buckets the entries of one repeat by fold. Input order is
// preserved within each bucket; kinds other than TRAIN/TEST are dropped.
func BuildFoldIndex(entries []domain.SplitEntry, repeat int) FoldIndex {
	index := FoldIndex{}
	for _, entry := range entries {
		if entry.Repeat != repeat {
			continue
		}
		rows := index[entry.Fold]
		switch entry.Kind {
		case domain.SplitTrain:
			rows.Train = append(rows.Train, entry.RowID)
		case domain.SplitTest:
			rows.Test = append(rows.Test, entry.RowID)
		default:
			continue
		}
		index[entry.Fold] = rows
	}
	return index
}

// Folds returns the fold numbers in ascending order.
func (fi FoldIndex) Folds() []int {
	out := make([]int, 0, len(fi))
	for fold := range fi {
		out = append(out, fold)
	}
	sort.Ints(out)
	return out
}
