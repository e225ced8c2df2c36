package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/openml-labs/runeval/internal/domain"
)

type DatasetStore struct {
	db DB
}

func NewDatasetStore(db DB) *DatasetStore {
	if db == nil {
		return nil
	}
	return &DatasetStore{db: db}
}

func (s *DatasetStore) GetDataset(ctx context.Context, datasetID int64) (domain.Dataset, error) {
	if s == nil || s.db == nil {
		return domain.Dataset{}, fmt.Errorf("dataset store not initialized")
	}
	var ds domain.Dataset
	var fileID sql.NullInt64
	var visibility sql.NullString
	row := s.db.QueryRowContext(
		ctx,
		`SELECT did, name, format, file_id, visibility, uploader
		 FROM dataset
		 WHERE did = $1`,
		datasetID,
	)
	if err := row.Scan(&ds.ID, &ds.Name, &ds.Format, &fileID, &visibility, &ds.UploaderID); err != nil {
		return domain.Dataset{}, handleNotFound(err)
	}
	if fileID.Valid {
		ds.FileID = fileID.Int64
	}
	if visibility.Valid {
		ds.Visibility = visibility.String
	}
	return ds, nil
}

func (s *DatasetStore) GetDatasetFile(ctx context.Context, fileID int64) (domain.DatasetFile, error) {
	if s == nil || s.db == nil {
		return domain.DatasetFile{}, fmt.Errorf("dataset store not initialized")
	}
	var f domain.DatasetFile
	var md5 sql.NullString
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, md5_hash FROM file WHERE id = $1`,
		fileID,
	)
	if err := row.Scan(&f.ID, &md5); err != nil {
		return domain.DatasetFile{}, handleNotFound(err)
	}
	if md5.Valid {
		f.MD5Hash = md5.String
	}
	return f, nil
}
