package domain

import (
	"errors"
	"strings"
)

type Dataset struct {
	ID         int64
	Name       string
	Format     FileFormat
	FileID     int64
	Visibility string
	UploaderID int64
}

func (d Dataset) Validate() error {
	if d.ID <= 0 {
		return errors.New("dataset id is required")
	}
	if strings.TrimSpace(d.Name) == "" {
		return errors.New("dataset name is required")
	}
	if d.Format == "" {
		return errors.New("dataset format is required")
	}
	return nil
}

type DatasetFile struct {
	ID      int64
	MD5Hash string
}

// Feature describes one dataset column as discovered at ingest time.
type Feature struct {
	Index           int
	Name            string
	DataType        FeatureType
	IsTarget        bool
	IsIgnore        bool
	IsRowIdentifier bool
	MissingCount    int64
	NominalValues   []string
}

// SplitEntry is one (repeat, fold, row) assignment of a CV split. Derived,
// never persisted.
type SplitEntry struct {
	Repeat int
	Fold   int
	RowID  int64
	Kind   SplitKind
}

// Prediction is one parsed row of an uploaded predictions file.
type Prediction struct {
	RowID      int64
	Label      string
	Confidence *float64
}
