package splits

import (
	"testing"

	"github.com/openml-labs/runeval/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateShape(t *testing.T) {
	entries, err := Generate(100, 5, 2, 42)
	require.NoError(t, err)
	assert.Len(t, entries, 100*5*2)
}

func TestGenerateDeterministic(t *testing.T) {
	a, err := Generate(50, 10, 3, 7)
	require.NoError(t, err)
	b, err := Generate(50, 10, 3, 7)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGenerateSeedChangesShuffle(t *testing.T) {
	a, err := Generate(50, 5, 1, 1)
	require.NoError(t, err)
	b, err := Generate(50, 5, 1, 2)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestGenerateInvalidArguments(t *testing.T) {
	_, err := Generate(10, 0, 1, 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = Generate(10, 5, -1, 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	entries, err := Generate(0, 5, 1, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGeneratePartitions(t *testing.T) {
	const nSamples, nFolds = 100, 5
	entries, err := Generate(nSamples, nFolds, 1, 0)
	require.NoError(t, err)

	index := BuildFoldIndex(entries, 0)
	require.Len(t, index, nFolds)

	seenTest := map[int64]int{}
	for _, fold := range index.Folds() {
		rows := index[fold]
		assert.Len(t, rows.Train, nSamples-len(rows.Test))
		assert.InDelta(t, nSamples/nFolds, len(rows.Test), 1)

		union := map[int64]struct{}{}
		for _, id := range rows.Train {
			union[id] = struct{}{}
		}
		for _, id := range rows.Test {
			_, overlap := union[id]
			assert.False(t, overlap, "fold %d: row %d in both train and test", fold, id)
			union[id] = struct{}{}
			seenTest[id]++
		}
		assert.Len(t, union, nSamples)
	}
	// Test sets across folds are disjoint and cover every row exactly once.
	require.Len(t, seenTest, nSamples)
	for id, count := range seenTest {
		assert.Equal(t, 1, count, "row %d", id)
	}
}

func TestParseARFF(t *testing.T) {
	text := `% splits for task 1
@RELATION splits
@ATTRIBUTE type {TRAIN,TEST}
@ATTRIBUTE rowid integer
@ATTRIBUTE repeat integer
@ATTRIBUTE fold integer
@DATA
'train',0,0,0
"TEST",1,0,0
TRAIN,2,0,1
% trailing comment
TEST,not-a-number,0,0
TRAIN,3,0
`
	entries := ParseARFF(text)
	require.Len(t, entries, 3)
	assert.Equal(t, domain.SplitEntry{Repeat: 0, Fold: 0, RowID: 0, Kind: domain.SplitTrain}, entries[0])
	assert.Equal(t, domain.SplitEntry{Repeat: 0, Fold: 0, RowID: 1, Kind: domain.SplitTest}, entries[1])
	assert.Equal(t, domain.SplitEntry{Repeat: 0, Fold: 1, RowID: 2, Kind: domain.SplitTrain}, entries[2])
}

func TestRenderRoundTrip(t *testing.T) {
	entries, err := Generate(20, 4, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, entries, ParseARFF(RenderARFF(entries)))
}

func TestBuildFoldIndexFiltersRepeatAndKind(t *testing.T) {
	entries := []domain.SplitEntry{
		{Repeat: 0, Fold: 0, RowID: 5, Kind: domain.SplitTest},
		{Repeat: 0, Fold: 0, RowID: 2, Kind: domain.SplitTrain},
		{Repeat: 1, Fold: 0, RowID: 9, Kind: domain.SplitTest},
		{Repeat: 0, Fold: 0, RowID: 4, Kind: domain.SplitKind("VALIDATION")},
		{Repeat: 0, Fold: 0, RowID: 1, Kind: domain.SplitTest},
	}
	index := BuildFoldIndex(entries, 0)
	require.Len(t, index, 1)
	// Insertion order within the bucket is preserved.
	assert.Equal(t, []int64{5, 1}, index[0].Test)
	assert.Equal(t, []int64{2}, index[0].Train)
}
