package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/openml-labs/runeval/internal/evaluator"
	"github.com/openml-labs/runeval/internal/fetch"
	"github.com/openml-labs/runeval/internal/platform/env"
	"github.com/openml-labs/runeval/internal/platform/httpserver"
	"github.com/openml-labs/runeval/internal/platform/objectstore"
	"github.com/openml-labs/runeval/internal/platform/postgres"
	repopg "github.com/openml-labs/runeval/internal/repo/postgres"
	"github.com/openml-labs/runeval/internal/worker"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx := context.Background()
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(env.String("RUNEVAL_CONFIG", "runeval.yaml"))
	if err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(2)
	}

	dbCfg, err := postgres.ConfigFromEnv()
	if err != nil {
		logger.Error("invalid database config", "error", err)
		os.Exit(2)
	}
	db, err := postgres.Open(ctx, dbCfg)
	if err != nil {
		logger.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	storeClient, err := objectstore.NewMinIOClient(cfg.ObjectStore)
	if err != nil {
		logger.Error("object store client init failed", "error", err)
		os.Exit(2)
	}
	startupCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := objectstore.EnsureBuckets(startupCtx, storeClient, cfg.ObjectStore); err != nil {
		cancel()
		logger.Error("object store unavailable", "error", err)
		os.Exit(1)
	}
	cancel()

	store, err := objectstore.NewMinioStore(storeClient)
	if err != nil {
		logger.Error("object store wrapper init failed", "error", err)
		os.Exit(2)
	}
	fetcher, err := fetch.New(cfg.Artifacts, store, cfg.ObjectStore.BucketDatasets)
	if err != nil {
		logger.Error("fetcher init failed", "error", err)
		os.Exit(2)
	}

	runs := repopg.NewRunStore(db)
	tasks := repopg.NewTaskStore(db)
	datasets := repopg.NewDatasetStore(db)
	processing := repopg.NewProcessingStore(db)

	eval := evaluator.New(logger, runs, tasks, datasets, processing, fetcher)
	w := worker.New(logger, processing, eval, worker.Config{Interval: cfg.DrainInterval})
	go w.Run(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", httpserver.Healthz("evalworker"))
	mux.HandleFunc(
		"/readyz",
		httpserver.ReadyzWithChecks(
			"evalworker",
			httpserver.ReadinessCheck{
				Name: "postgres",
				Check: func(ctx context.Context) error {
					checkCtx, cancel := context.WithTimeout(ctx, 750*time.Millisecond)
					defer cancel()
					return db.PingContext(checkCtx)
				},
			},
			httpserver.ReadinessCheck{
				Name: "minio",
				Check: func(ctx context.Context) error {
					checkCtx, cancel := context.WithTimeout(ctx, 750*time.Millisecond)
					defer cancel()
					return objectstore.CheckBuckets(checkCtx, storeClient, cfg.ObjectStore)
				},
			},
		),
	)

	srvCfg := httpserver.Config{
		Service:         "evalworker",
		Addr:            cfg.HTTPAddr,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}
	if err := httpserver.Run(ctx, logger, srvCfg, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
}
