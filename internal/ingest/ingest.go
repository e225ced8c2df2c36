// Package ingest prepares an uploaded parquet dataset for serving: metadata
// extraction, feature analysis and the object-store mirror write. The
// metadata subsystem owns persisting the result.
package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/openml-labs/runeval/internal/domain"
	"github.com/openml-labs/runeval/internal/parquetmeta"
)

// ObjectPutter uploads a dataset file and returns its object key.
type ObjectPutter interface {
	PutDatasetObject(ctx context.Context, data []byte, datasetID int64) (string, error)
}

type Result struct {
	ObjectKey string
	Metadata  parquetmeta.Metadata
	Features  []domain.Feature
}

type Service struct {
	logger *slog.Logger
	putter ObjectPutter
}

func NewService(logger *slog.Logger, putter ObjectPutter) *Service {
	return &Service{logger: logger, putter: putter}
}

// IngestParquet validates the file, derives its features and mirrors it to
// the object store. Nothing is written when the file does not parse.
func (s *Service) IngestParquet(ctx context.Context, datasetID int64, data []byte, opts parquetmeta.Options) (Result, error) {
	meta, err := parquetmeta.ReadMetadata(data)
	if err != nil {
		return Result{}, fmt.Errorf("read metadata for dataset %d: %w", datasetID, err)
	}
	features, err := parquetmeta.Analyze(data, opts)
	if err != nil {
		return Result{}, fmt.Errorf("analyze dataset %d: %w", datasetID, err)
	}
	key, err := s.putter.PutDatasetObject(ctx, data, datasetID)
	if err != nil {
		return Result{}, err
	}
	s.logger.Info("dataset ingested",
		"dataset_id", datasetID,
		"object_key", key,
		"rows", meta.NumRows,
		"columns", meta.NumColumns,
		"md5", meta.MD5Checksum,
	)
	return Result{ObjectKey: key, Metadata: meta, Features: features}, nil
}
