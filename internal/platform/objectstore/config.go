package objectstore

import (
	"errors"
	"strings"

	"github.com/openml-labs/runeval/internal/platform/env"
)

type Config struct {
	Endpoint       string `yaml:"endpoint"`
	AccessKey      string `yaml:"access_key"`
	SecretKey      string `yaml:"secret_key"`
	Region         string `yaml:"region"`
	UseSSL         bool   `yaml:"use_ssl"`
	BucketDatasets string `yaml:"bucket_datasets"`
}

func ConfigFromEnv() (Config, error) {
	useSSL, err := env.Bool("RUNEVAL_MINIO_USE_SSL", false)
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		Endpoint:       env.String("RUNEVAL_MINIO_ENDPOINT", "localhost:9000"),
		AccessKey:      env.String("RUNEVAL_MINIO_ACCESS_KEY", "runeval"),
		SecretKey:      env.String("RUNEVAL_MINIO_SECRET_KEY", "runevalminio"),
		Region:         env.String("RUNEVAL_MINIO_REGION", "us-east-1"),
		UseSSL:         useSSL,
		BucketDatasets: env.String("RUNEVAL_MINIO_BUCKET_DATASETS", "datasets"),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// WithEnvCredentials returns the config with access/secret keys replaced by
// RUNEVAL_MINIO_ACCESS_KEY / RUNEVAL_MINIO_SECRET_KEY when those are set.
// Environment credentials always win over file-sourced ones.
func (c Config) WithEnvCredentials() Config {
	c.AccessKey = env.String("RUNEVAL_MINIO_ACCESS_KEY", c.AccessKey)
	c.SecretKey = env.String("RUNEVAL_MINIO_SECRET_KEY", c.SecretKey)
	return c
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Endpoint) == "" {
		return errors.New("endpoint is required")
	}
	if strings.Contains(c.Endpoint, "://") {
		return errors.New("endpoint must not include a scheme")
	}
	if strings.TrimSpace(c.AccessKey) == "" {
		return errors.New("access key is required")
	}
	if strings.TrimSpace(c.SecretKey) == "" {
		return errors.New("secret key is required")
	}
	if strings.TrimSpace(c.Region) == "" {
		return errors.New("region is required")
	}
	if strings.TrimSpace(c.BucketDatasets) == "" {
		return errors.New("datasets bucket is required")
	}
	return nil
}
