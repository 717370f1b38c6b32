// Package storage defines the persistence contracts of the feature
// pipeline: where raw call-volume events come from and where the finished
// feature table goes. Implementations live in the memory, postgres and
// clickhouse subpackages.
package storage

import (
	"context"

	"api-volume-lab/internal/domain"
)

// RawEventStore provides access to the raw call-volume event log.
type RawEventStore interface {
	// InsertBulk adds raw events. Implementations reject negative call
	// counts with ErrInvalidInput.
	InsertBulk(ctx context.Context, events []domain.RawEvent) error

	// GetAll retrieves every event, ordered by (familia, api_name,
	// timestamp) ascending.
	GetAll(ctx context.Context) ([]domain.RawEvent, error)

	// GetByKey retrieves all events for one series key, ordered by
	// timestamp ascending.
	GetByKey(ctx context.Context, key domain.SeriesKey) ([]domain.RawEvent, error)

	// Keys returns the distinct series keys in canonical order.
	Keys(ctx context.Context) ([]domain.SeriesKey, error)
}

// FeatureStore receives the finished feature table. The schema is derived
// from the table's column list, so the warehouse follows the configuration
// rather than a hand-maintained DDL file.
type FeatureStore interface {
	// EnsureTable creates the destination table for the given column
	// order if it does not exist yet.
	EnsureTable(ctx context.Context, table string, t *domain.FeatureTable) error

	// InsertTable loads every row of the feature table.
	InsertTable(ctx context.Context, table string, t *domain.FeatureTable) error
}
