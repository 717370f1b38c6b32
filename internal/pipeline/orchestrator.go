// Package pipeline provides end-to-end feature generation orchestration.
// It coordinates: load events → prepare series → family aggregates → features.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"api-volume-lab/internal/config"
	"api-volume-lab/internal/domain"
	"api-volume-lab/internal/family"
	"api-volume-lab/internal/features"
	"api-volume-lab/internal/holiday"
	"api-volume-lab/internal/observability"
	"api-volume-lab/internal/prepare"
	"api-volume-lab/internal/storage"
)

// ErrNoInput is returned when the event store holds no rows at all.
var ErrNoInput = errors.New("no raw events to process")

var errMalformedKey = errors.New("empty api_name or familia")

// DefaultFeatureTable is the warehouse table used when Options does not
// name one.
const DefaultFeatureTable = "api_features"

// Stage names for per-key failures.
const (
	StagePrepare  = "prepare"
	StageFamily   = "family"
	StageFeatures = "features"
)

// KeyError is a per-key failure. A failing key is excluded from the output
// but never aborts the run.
type KeyError struct {
	Key   domain.SeriesKey
	Stage string
	Err   error
}

func (e KeyError) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Key, e.Stage, e.Err)
}

// Orchestrator coordinates the feature generation pipeline.
// Flow: load events → prepare per key → family aggregates → feature frames.
type Orchestrator struct {
	events       storage.RawEventStore
	features     storage.FeatureStore
	featureTable string
	cfg          config.Config
	freq         time.Duration
	builder      *features.Builder
	logger       *zap.Logger
	metrics      *observability.Metrics
}

// Options for creating Orchestrator.
type Options struct {
	// Events is the raw event source. Required.
	Events storage.RawEventStore

	// Features is an optional warehouse sink; when set, the finished
	// table is loaded into FeatureTable after the run.
	Features storage.FeatureStore

	// FeatureTable is the destination table name for Features. Empty
	// means DefaultFeatureTable.
	FeatureTable string

	// Config drives lags, windows, spans and the frequency. Zero value
	// means config.Default().
	Config config.Config

	// Holidays overrides the provider derived from Config.HolidayCountry.
	Holidays holiday.Provider

	// Logger defaults to a no-op logger.
	Logger *zap.Logger

	// Metrics is optional; nil disables instrumentation.
	Metrics *observability.Metrics
}

// New creates a new Orchestrator. The configuration is validated once here
// so Run can assume it is sound.
func New(opts Options) (*Orchestrator, error) {
	if opts.Events == nil {
		return nil, errors.New("pipeline: event store is required")
	}

	cfg := opts.Config
	if cfg.Freq == "" {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("pipeline config: %w", err)
	}

	holidays := opts.Holidays
	if holidays == nil {
		holidays, _ = holiday.ForCountry(cfg.HolidayCountry)
	}

	freq, err := cfg.FreqDuration()
	if err != nil {
		return nil, err
	}

	builder, err := features.NewBuilder(cfg, holidays)
	if err != nil {
		return nil, fmt.Errorf("feature builder: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	table := opts.FeatureTable
	if table == "" {
		table = DefaultFeatureTable
	}

	return &Orchestrator{
		events:       opts.Events,
		features:     opts.Features,
		featureTable: table,
		cfg:          cfg,
		freq:         freq,
		builder:      builder,
		logger:       logger,
		metrics:      opts.Metrics,
	}, nil
}

// Result contains the finished table and per-key failure detail.
type Result struct {
	Table         *domain.FeatureTable
	Summary       domain.Summary
	KeysProcessed int
	Failures      []KeyError
}

// Run executes the full pipeline.
// Phases:
//  1. Load raw events and group them by series key
//  2. Prepare an aligned series per key
//  3. Build the family aggregates over all prepared members
//  4. Build per-key feature frames, join family columns, concatenate
//
// Keys are processed in canonical order so two runs over the same store
// produce byte-identical tables.
func (o *Orchestrator) Run(ctx context.Context) (*Result, error) {
	started := time.Now()
	result := &Result{}

	// Phase 1: load and group
	o.logger.Info("loading raw events")
	events, err := o.events.GetAll(ctx)
	if err != nil {
		o.recordRun("error", started)
		return nil, fmt.Errorf("load raw events: %w", err)
	}
	if len(events) == 0 {
		o.recordRun("error", started)
		return nil, ErrNoInput
	}

	byKey := make(map[domain.SeriesKey][]domain.RawEvent)
	for i := range events {
		k := events[i].Key()
		byKey[k] = append(byKey[k], events[i])
	}
	keys := make([]domain.SeriesKey, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	o.logger.Info("grouped raw events",
		zap.Int("events", len(events)),
		zap.Int("keys", len(keys)))

	// Phase 2: prepare aligned series per key
	prepared := make(map[domain.SeriesKey]*domain.AlignedSeries, len(keys))
	for _, k := range keys {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if k.APIName == "" || k.Familia == "" {
			result.Failures = append(result.Failures, KeyError{Key: k, Stage: StagePrepare, Err: errMalformedKey})
			o.failSeries(StagePrepare)
			o.logger.Warn("skipping malformed key", zap.String("key", k.String()))
			continue
		}
		s, err := prepare.Prepare(byKey[k], o.freq)
		if err != nil {
			result.Failures = append(result.Failures, KeyError{Key: k, Stage: StagePrepare, Err: err})
			o.failSeries(StagePrepare)
			o.logger.Warn("prepare failed", zap.String("key", k.String()), zap.Error(err))
			continue
		}
		prepared[k] = s
	}
	if len(prepared) == 0 {
		o.recordRun("error", started)
		return nil, fmt.Errorf("%w: every key failed preparation", ErrNoInput)
	}

	// Phase 3: family aggregates over the prepared members. This is the
	// barrier: no feature frame is built until every member of its family
	// has been prepared.
	members := make(map[string][]*domain.AlignedSeries)
	for _, k := range keys {
		if s, ok := prepared[k]; ok {
			members[k.Familia] = append(members[k.Familia], s)
		}
	}
	aggregates := make(map[string]*family.Aggregate, len(members))
	familias := make([]string, 0, len(members))
	for f := range members {
		familias = append(familias, f)
	}
	sort.Strings(familias)
	for _, f := range familias {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		agg, err := family.New(f, members[f], o.cfg.RollingWindows)
		if err != nil {
			for _, k := range keys {
				if k.Familia == f && prepared[k] != nil {
					result.Failures = append(result.Failures, KeyError{Key: k, Stage: StageFamily, Err: err})
					o.failSeries(StageFamily)
					delete(prepared, k)
				}
			}
			o.logger.Warn("family aggregate failed", zap.String("familia", f), zap.Error(err))
			continue
		}
		aggregates[f] = agg
		if o.metrics != nil {
			o.metrics.FamiliesAggregated.Inc()
		}
	}

	// Phase 4: per-key feature frames, concatenated in key order
	table := domain.NewFeatureTable(features.Columns(o.cfg))
	for _, k := range keys {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s, ok := prepared[k]
		if !ok {
			continue
		}
		agg, ok := aggregates[k.Familia]
		if !ok {
			continue
		}

		fr, err := o.builder.Build(s)
		if err != nil {
			result.Failures = append(result.Failures, KeyError{Key: k, Stage: StageFeatures, Err: err})
			o.failSeries(StageFeatures)
			o.logger.Warn("feature build failed", zap.String("key", k.String()), zap.Error(err))
			continue
		}
		if err := agg.JoinTo(fr, o.cfg.RollingWindows); err != nil {
			result.Failures = append(result.Failures, KeyError{Key: k, Stage: StageFeatures, Err: err})
			o.failSeries(StageFeatures)
			continue
		}
		if err := table.AppendFrame(fr); err != nil {
			result.Failures = append(result.Failures, KeyError{Key: k, Stage: StageFeatures, Err: err})
			o.failSeries(StageFeatures)
			continue
		}

		result.KeysProcessed++
		if o.metrics != nil {
			o.metrics.SeriesProcessed.Inc()
			o.metrics.FeatureRowsBuilt.Add(float64(fr.NumRows()))
		}
	}

	result.Table = table
	result.Summary = table.Summary()

	// Phase 5: optional warehouse load
	if o.features != nil {
		o.logger.Info("loading feature table",
			zap.String("table", o.featureTable),
			zap.Int("rows", result.Summary.Rows))
		if err := o.features.EnsureTable(ctx, o.featureTable, table); err != nil {
			o.recordRun("error", started)
			return nil, fmt.Errorf("ensure feature table %s: %w", o.featureTable, err)
		}
		if err := o.features.InsertTable(ctx, o.featureTable, table); err != nil {
			o.recordRun("error", started)
			return nil, fmt.Errorf("insert feature table %s: %w", o.featureTable, err)
		}
	}

	o.recordRun("ok", started)
	if o.metrics != nil {
		o.metrics.LastSuccessfulRun.SetToCurrentTime()
	}

	o.logger.Info("pipeline completed",
		zap.Int("keys_processed", result.KeysProcessed),
		zap.Int("keys_failed", len(result.Failures)),
		zap.Int("rows", result.Summary.Rows),
		zap.Int("cols", result.Summary.Cols),
		zap.Int("prev_day_shift", o.builder.PrevDayShift()),
		zap.Duration("elapsed", time.Since(started)))

	return result, nil
}

// Config returns the validated configuration the orchestrator runs with.
func (o *Orchestrator) Config() config.Config {
	return o.cfg
}

func (o *Orchestrator) recordRun(status string, started time.Time) {
	if o.metrics != nil {
		o.metrics.RecordRun(status, time.Since(started).Seconds())
	}
}

func (o *Orchestrator) failSeries(stage string) {
	if o.metrics != nil {
		o.metrics.RecordSeriesFailure(stage)
	}
}
