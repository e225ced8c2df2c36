package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/openml-labs/runeval/internal/fetch"
	"github.com/openml-labs/runeval/internal/platform/env"
	"github.com/openml-labs/runeval/internal/platform/objectstore"
	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML shape of the worker config file. Timeouts and
// intervals come from the environment; object-store credentials in the file
// are overridden by the environment when set.
type fileConfig struct {
	Artifacts   fetch.Config       `yaml:"artifacts"`
	ObjectStore objectstore.Config `yaml:"object_store"`
}

type workerConfig struct {
	Artifacts       fetch.Config
	ObjectStore     objectstore.Config
	DrainInterval   time.Duration
	FetchTimeout    time.Duration
	HTTPAddr        string
	ShutdownTimeout time.Duration
}

func loadConfig(path string) (workerConfig, error) {
	var file fileConfig
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return workerConfig{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err == nil {
			if err := yaml.Unmarshal(raw, &file); err != nil {
				return workerConfig{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	drainInterval, err := env.Duration("RUNEVAL_DRAIN_INTERVAL", 10*time.Second)
	if err != nil {
		return workerConfig{}, err
	}
	fetchTimeout, err := env.Duration("RUNEVAL_FETCH_TIMEOUT", fetch.DefaultTimeout)
	if err != nil {
		return workerConfig{}, err
	}
	shutdownTimeout, err := env.Duration("RUNEVAL_SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return workerConfig{}, err
	}

	cfg := workerConfig{
		Artifacts:       file.Artifacts,
		ObjectStore:     file.ObjectStore.WithEnvCredentials(),
		DrainInterval:   drainInterval,
		FetchTimeout:    fetchTimeout,
		HTTPAddr:        env.String("RUNEVAL_HTTP_ADDR", ":8084"),
		ShutdownTimeout: shutdownTimeout,
	}

	cfg.Artifacts.ServerBase = env.String("RUNEVAL_SERVER_BASE", cfg.Artifacts.ServerBase)
	cfg.Artifacts.MinioBase = env.String("RUNEVAL_MINIO_BASE", cfg.Artifacts.MinioBase)
	cfg.Artifacts.UploadDir = env.String("RUNEVAL_UPLOAD_DIR", cfg.Artifacts.UploadDir)
	cfg.Artifacts.Timeout = fetchTimeout

	if cfg.ObjectStore.Endpoint == "" {
		store, err := objectstore.ConfigFromEnv()
		if err != nil {
			return workerConfig{}, err
		}
		cfg.ObjectStore = store
	}

	if err := cfg.Artifacts.Validate(); err != nil {
		return workerConfig{}, fmt.Errorf("artifact config: %w", err)
	}
	if err := cfg.ObjectStore.Validate(); err != nil {
		return workerConfig{}, fmt.Errorf("object store config: %w", err)
	}
	return cfg, nil
}
