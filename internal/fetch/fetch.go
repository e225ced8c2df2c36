// Package fetch resolves the external artifacts one evaluation needs: the
// dataset file, the task splits and the uploaded predictions.
package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/openml-labs/runeval/internal/domain"
	"github.com/openml-labs/runeval/internal/platform/objectstore"
)

// ErrArtifactUnavailable reports an artifact that could not be fetched. The
// wrapped message carries the origin URL or path.
var ErrArtifactUnavailable = errors.New("artifact unavailable")

const DefaultTimeout = 30 * time.Second

type Config struct {
	// ServerBase is the API server root, e.g. "https://www.openml.org".
	ServerBase string `yaml:"server_base"`
	// MinioBase is the public root of the parquet mirror.
	MinioBase string `yaml:"minio_base"`
	// UploadDir holds per-run upload directories with predictions files.
	UploadDir string `yaml:"upload_dir"`
	// Timeout bounds every remote fetch. Zero means DefaultTimeout. Set via
	// environment, not the config file.
	Timeout time.Duration `yaml:"-"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ServerBase) == "" {
		return errors.New("server base is required")
	}
	if strings.TrimSpace(c.UploadDir) == "" {
		return errors.New("upload dir is required")
	}
	return nil
}

type Fetcher struct {
	cfg    Config
	client *http.Client
	store  objectstore.Store
	bucket string
}

func New(cfg Config, store objectstore.Store, bucket string) (*Fetcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
		store:  store,
		bucket: bucket,
	}, nil
}

// DatasetBytes downloads the dataset artifact from its canonical URL, which
// depends on the stored format.
func (f *Fetcher) DatasetBytes(ctx context.Context, ds domain.Dataset) ([]byte, error) {
	return f.get(ctx, f.DatasetURL(ds))
}

// DatasetURL is the canonical download location for a dataset.
func (f *Fetcher) DatasetURL(ds domain.Dataset) string {
	if ds.Format == domain.FormatParquet {
		return fmt.Sprintf("%s/dataset%d/dataset_%d.pq", strings.TrimRight(f.cfg.MinioBase, "/"), ds.ID, ds.ID)
	}
	return fmt.Sprintf(
		"%s/data/v1/download/%d/%s.%s",
		strings.TrimRight(f.cfg.ServerBase, "/"),
		ds.FileID,
		ds.Name,
		strings.ToLower(string(ds.Format)),
	)
}

// SplitsText downloads the canonical splits file for a task.
func (f *Fetcher) SplitsText(ctx context.Context, taskID int64) (string, error) {
	url := fmt.Sprintf(
		"%s/api_splits/get/%d/Task_%d_splits.arff",
		strings.TrimRight(f.cfg.ServerBase, "/"),
		taskID,
		taskID,
	)
	body, err := f.get(ctx, url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// LocalPredictions reads the uploaded predictions file for a run.
func (f *Fetcher) LocalPredictions(runID int64) ([]byte, error) {
	path := filepath.Join(f.cfg.UploadDir, fmt.Sprintf("%d", runID), "predictions.arff")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrArtifactUnavailable, path, err)
	}
	return data, nil
}

// PutDatasetObject uploads a parquet dataset to the content-addressed layout
// of the datasets bucket and returns the object key.
func (f *Fetcher) PutDatasetObject(ctx context.Context, data []byte, datasetID int64) (string, error) {
	if f.store == nil {
		return "", fmt.Errorf("object store not configured")
	}
	key := DatasetObjectKey(datasetID)
	err := f.store.Put(ctx, f.bucket, key, bytes.NewReader(data), int64(len(data)), "application/octet-stream")
	if err != nil {
		return "", fmt.Errorf("%w: put %s/%s: %v", ErrArtifactUnavailable, f.bucket, key, err)
	}
	return key, nil
}

// DatasetObjectKey is the bucket layout for dataset objects: ten-thousands
// prefix, then the zero-padded id.
func DatasetObjectKey(datasetID int64) string {
	return fmt.Sprintf("datasets/%04d/%04d/dataset_%d.pq", datasetID/10000, datasetID, datasetID)
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrArtifactUnavailable, url, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrArtifactUnavailable, url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s: status %d", ErrArtifactUnavailable, url, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrArtifactUnavailable, url, err)
	}
	return body, nil
}
