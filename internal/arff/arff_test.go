package arff

import (
	"strings"
	"testing"

	"github.com/openml-labs/runeval/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const denseDataset = `% iris-ish sample
@RELATION demo
@ATTRIBUTE sepallength NUMERIC
@ATTRIBUTE 'petal width' REAL
@ATTRIBUTE counter INTEGER
@ATTRIBUTE class {setosa,versicolor,'virginica'}
@ATTRIBUTE comment STRING
@ATTRIBUTE mystery sometype
@DATA
5.1,0.2,1,setosa,'nice one',x
?,0.3,2,versicolor,?,y
4.9,?,3,setosa,'ok',z
`

func TestAnalyzeDense(t *testing.T) {
	features, err := Analyze(strings.NewReader(denseDataset), Options{
		TargetNames: []string{"class"},
		RowIDNames:  []string{"counter"},
	})
	require.NoError(t, err)
	require.Len(t, features, 6)

	assert.Equal(t, domain.FeatureNumeric, features[0].DataType)
	assert.Equal(t, domain.FeatureNumeric, features[1].DataType)
	assert.Equal(t, "petal width", features[1].Name)
	assert.Equal(t, domain.FeatureNumeric, features[2].DataType)
	assert.Equal(t, domain.FeatureNominal, features[3].DataType)
	assert.Equal(t, []string{"setosa", "versicolor", "virginica"}, features[3].NominalValues)
	assert.Equal(t, domain.FeatureString, features[4].DataType)
	// Unknown declared types fall back to string.
	assert.Equal(t, domain.FeatureString, features[5].DataType)

	assert.True(t, features[3].IsTarget)
	assert.True(t, features[2].IsRowIdentifier)
	assert.False(t, features[0].IsTarget)

	assert.Equal(t, int64(1), features[0].MissingCount)
	assert.Equal(t, int64(1), features[1].MissingCount)
	assert.Equal(t, int64(0), features[2].MissingCount)
	assert.Equal(t, int64(1), features[4].MissingCount)
}

func TestAnalyzeSparse(t *testing.T) {
	text := `@relation sparse
@attribute a numeric
@attribute b numeric
@attribute c numeric
@data
{0 1, 2 5}
{1 ?, 2 3}
{}
`
	features, err := Analyze(strings.NewReader(text), Options{})
	require.NoError(t, err)
	require.Len(t, features, 3)

	// Absent indices are implicit zeros, not missing; only explicit "?" counts.
	assert.Equal(t, int64(0), features[0].MissingCount)
	assert.Equal(t, int64(1), features[1].MissingCount)
	assert.Equal(t, int64(0), features[2].MissingCount)
}

func TestParsePredictions(t *testing.T) {
	text := `@relation predictions
@attribute row_id numeric
@attribute fold numeric
@attribute repeat numeric
@attribute prediction {a,b}
@attribute 'confidence.a' numeric
@data
0,0,0,'a',0.9
1,0,0,b,0.4
bogus,0,0,a,0.5
2,0,0,a,not-a-float
`
	preds, skipped := ParsePredictions(text)
	require.Len(t, preds, 2)
	assert.Equal(t, 2, skipped)

	assert.Equal(t, int64(0), preds[0].RowID)
	assert.Equal(t, "a", preds[0].Label)
	require.NotNil(t, preds[0].Confidence)
	assert.Equal(t, 0.9, *preds[0].Confidence)

	assert.Equal(t, int64(1), preds[1].RowID)
	assert.Equal(t, "b", preds[1].Label)
}

func TestParsePredictionsWithoutConfidence(t *testing.T) {
	text := "@data\n3,1,0,yes\n"
	preds, skipped := ParsePredictions(text)
	require.Len(t, preds, 1)
	assert.Zero(t, skipped)
	assert.Equal(t, int64(3), preds[0].RowID)
	assert.Equal(t, "yes", preds[0].Label)
	assert.Nil(t, preds[0].Confidence)
}

func TestParsePredictionsShortRowTakesLastColumn(t *testing.T) {
	text := "@data\n7,maybe\n"
	preds, skipped := ParsePredictions(text)
	require.Len(t, preds, 1)
	assert.Zero(t, skipped)
	assert.Equal(t, "maybe", preds[0].Label)
}

func TestLoadGroundTruth(t *testing.T) {
	values, found := LoadGroundTruth([]byte(denseDataset), "class", []int64{2, 0, 99})
	require.True(t, found)
	assert.Equal(t, []string{"setosa", "setosa", ""}, values)
}

func TestLoadGroundTruthMissingColumn(t *testing.T) {
	values, found := LoadGroundTruth([]byte(denseDataset), "label", []int64{0})
	assert.False(t, found)
	assert.Empty(t, values)
}
