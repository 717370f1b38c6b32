// Package main provides the feature pipeline entry point.
// Executes: ingest → prepare → family aggregates → features → export
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"api-volume-lab/internal/config"
	"api-volume-lab/internal/export"
	"api-volume-lab/internal/ingest"
	"api-volume-lab/internal/observability"
	"api-volume-lab/internal/pipeline"
	"api-volume-lab/internal/storage"
	"api-volume-lab/internal/storage/clickhouse"
	"api-volume-lab/internal/storage/memory"
	"api-volume-lab/internal/storage/postgres"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "", "Path to YAML config file (defaults apply if empty)")
	input := flag.String("input", "", "CSV file or directory with raw call-volume logs")
	outputDir := flag.String("output-dir", "feature_pipeline_output", "Output directory for parquet and manifest")
	postgresDSN := flag.String("postgres-dsn", "", "Read raw events from PostgreSQL instead of CSV")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "Also load the feature table into ClickHouse")
	featureTable := flag.String("table", "api_features", "ClickHouse destination table name")
	verbose := flag.Bool("verbose", false, "Verbose output")
	flag.Parse()

	logger := newLogger(*verbose)
	defer logger.Sync()

	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal, cancelling pipeline", zap.String("signal", sig.String()))
		cancel()
	}()

	if err := run(ctx, logger, *configPath, *input, *outputDir, *postgresDSN, *clickhouseDSN, *featureTable); err != nil {
		logger.Error("pipeline failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *zap.Logger, configPath, input, outputDir, postgresDSN, clickhouseDSN, featureTable string) error {
	cfg := config.Default()
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
	}

	events, err := openEventStore(ctx, logger, input, postgresDSN)
	if err != nil {
		return err
	}

	var features storage.FeatureStore
	if clickhouseDSN != "" {
		conn, err := clickhouse.NewConn(ctx, clickhouseDSN)
		if err != nil {
			return err
		}
		defer conn.Close()
		features = clickhouse.NewFeatureStore(conn)
	}

	orch, err := pipeline.New(pipeline.Options{
		Events:       events,
		Features:     features,
		FeatureTable: featureTable,
		Config:       cfg,
		Logger:       logger,
		Metrics:      observability.NewMetrics(""),
	})
	if err != nil {
		return err
	}

	result, err := orch.Run(ctx)
	if err != nil {
		if errors.Is(err, pipeline.ErrNoInput) {
			return fmt.Errorf("nothing to process: %w", err)
		}
		return err
	}
	for _, f := range result.Failures {
		logger.Warn("key excluded from output", zap.String("failure", f.Error()))
	}

	featurePath, err := export.WriteParquet(result.Table, outputDir)
	if err != nil {
		return err
	}
	manifestPath, err := export.WriteManifest(result.Summary, featurePath, outputDir)
	if err != nil {
		return err
	}
	logger.Info("wrote feature artifacts",
		zap.String("parquet", featurePath),
		zap.String("manifest", manifestPath),
		zap.Int("rows", result.Summary.Rows),
		zap.Int("cols", result.Summary.Cols))

	return nil
}

// openEventStore picks the raw event source: PostgreSQL when a DSN is given,
// otherwise CSV loaded into the in-memory store.
func openEventStore(ctx context.Context, logger *zap.Logger, input, postgresDSN string) (storage.RawEventStore, error) {
	if postgresDSN != "" {
		pool, err := postgres.NewPool(ctx, postgresDSN)
		if err != nil {
			return nil, err
		}
		return postgres.NewEventStore(pool), nil
	}

	if input == "" {
		return nil, errors.New("either -input or -postgres-dsn is required")
	}
	raw, err := ingest.ReadPath(input)
	if err != nil {
		return nil, err
	}
	logger.Info("read raw events", zap.String("input", input), zap.Int("events", len(raw)))

	store := memory.NewEventStore()
	if err := store.InsertBulk(ctx, raw); err != nil {
		return nil, err
	}
	return store, nil
}

func newLogger(verbose bool) *zap.Logger {
	if verbose {
		logger, err := zap.NewDevelopment()
		if err == nil {
			return logger
		}
	}
	logger, err := zap.NewProduction()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
