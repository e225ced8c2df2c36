package ingest

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/openml-labs/runeval/internal/parquetmeta"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	datasetID int64
	data      []byte
}

func (p *fakePutter) PutDatasetObject(ctx context.Context, data []byte, datasetID int64) (string, error) {
	p.datasetID = datasetID
	p.data = data
	return "datasets/0000/0061/dataset_61.pq", nil
}

type sample struct {
	Label string  `parquet:"label"`
	Value float64 `parquet:"value"`
}

func TestIngestParquet(t *testing.T) {
	buf := new(bytes.Buffer)
	w := parquet.NewGenericWriter[sample](buf)
	_, err := w.Write([]sample{{"a", 1.5}, {"b", 2.5}})
	require.NoError(t, err)
	require.NoError(t, w.Close())

	putter := &fakePutter{}
	svc := NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), putter)

	result, err := svc.IngestParquet(context.Background(), 61, buf.Bytes(), parquetmeta.Options{
		TargetNames: []string{"label"},
	})
	require.NoError(t, err)

	assert.Equal(t, "datasets/0000/0061/dataset_61.pq", result.ObjectKey)
	assert.Equal(t, int64(2), result.Metadata.NumRows)
	assert.Equal(t, 2, result.Metadata.NumColumns)
	assert.Len(t, result.Features, 2)
	assert.Equal(t, int64(61), putter.datasetID)
	assert.Equal(t, buf.Bytes(), putter.data)
}

func TestIngestParquetInvalidBytes(t *testing.T) {
	putter := &fakePutter{}
	svc := NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), putter)

	_, err := svc.IngestParquet(context.Background(), 61, []byte("junk"), parquetmeta.Options{})
	require.ErrorIs(t, err, parquetmeta.ErrInvalidFormat)
	// Nothing reaches the object store for a corrupt file.
	assert.Nil(t, putter.data)
}
