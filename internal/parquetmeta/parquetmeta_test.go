package parquetmeta

import (
	"bytes"
	"testing"

	"github.com/openml-labs/runeval/internal/domain"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Label string  `parquet:"label"`
	Score float64 `parquet:"score"`
	Count int64   `parquet:"count"`
	Flag  bool    `parquet:"flag"`
	Note  *string `parquet:"note,optional"`
}

func writeSample(t *testing.T) []byte {
	t.Helper()
	note := "hello"
	rows := []record{
		{Label: "cat", Score: 0.5, Count: 1, Flag: true, Note: &note},
		{Label: "dog", Score: 1.5, Count: 2, Flag: false, Note: nil},
		{Label: "cat", Score: 2.5, Count: 3, Flag: true, Note: &note},
	}

	buf := new(bytes.Buffer)
	w := parquet.NewGenericWriter[record](buf)
	_, err := w.Write(rows)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func columnByName(t *testing.T, meta Metadata, name string) ColumnInfo {
	t.Helper()
	for _, col := range meta.Columns {
		if col.Name == name {
			return col
		}
	}
	t.Fatalf("column %q not found", name)
	return ColumnInfo{}
}

func featureByName(t *testing.T, features []domain.Feature, name string) domain.Feature {
	t.Helper()
	for _, f := range features {
		if f.Name == name {
			return f
		}
	}
	t.Fatalf("feature %q not found", name)
	return domain.Feature{}
}

func TestReadMetadata(t *testing.T) {
	data := writeSample(t)

	meta, err := ReadMetadata(data)
	require.NoError(t, err)
	assert.Equal(t, int64(3), meta.NumRows)
	assert.Equal(t, 5, meta.NumColumns)

	assert.Equal(t, domain.FeatureNumeric, columnByName(t, meta, "score").DataType)
	assert.Equal(t, domain.FeatureNumeric, columnByName(t, meta, "count").DataType)
	assert.Equal(t, domain.FeatureNominal, columnByName(t, meta, "flag").DataType)
	assert.Equal(t, int64(1), columnByName(t, meta, "note").MissingCount)
	assert.Equal(t, int64(0), columnByName(t, meta, "score").MissingCount)
}

func TestReadMetadataChecksumDeterministic(t *testing.T) {
	data := writeSample(t)
	a, err := ReadMetadata(data)
	require.NoError(t, err)
	b, err := ReadMetadata(data)
	require.NoError(t, err)
	assert.Equal(t, a.MD5Checksum, b.MD5Checksum)
	assert.Len(t, a.MD5Checksum, 32)
}

func TestReadMetadataInvalidFormat(t *testing.T) {
	_, err := ReadMetadata([]byte("definitely not parquet"))
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = Analyze([]byte{0x00, 0x01}, Options{})
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestAnalyze(t *testing.T) {
	data := writeSample(t)

	features, err := Analyze(data, Options{TargetNames: []string{"label"}})
	require.NoError(t, err)
	require.Len(t, features, 5)

	flag := featureByName(t, features, "flag")
	assert.Equal(t, domain.FeatureNominal, flag.DataType)
	assert.Equal(t, []string{"false", "true"}, flag.NominalValues)

	label := featureByName(t, features, "label")
	assert.True(t, label.IsTarget)
	assert.Equal(t, []string{"cat", "dog"}, label.NominalValues)

	note := featureByName(t, features, "note")
	assert.Equal(t, []string{"hello"}, note.NominalValues)
	assert.Equal(t, int64(1), note.MissingCount)

	score := featureByName(t, features, "score")
	assert.Equal(t, domain.FeatureNumeric, score.DataType)
	assert.Empty(t, score.NominalValues)
}
