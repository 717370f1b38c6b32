package clickhouse

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"api-volume-lab/internal/domain"
	"api-volume-lab/internal/storage"
)

// FeatureStore implements storage.FeatureStore using ClickHouse. The table
// schema is generated from the feature table's column list: identifier
// columns are typed, every feature column is Float64. This mirrors the
// upstream practice of deriving the warehouse table from the produced
// frame instead of maintaining DDL by hand.
type FeatureStore struct {
	conn *Conn
}

// NewFeatureStore creates a new FeatureStore.
func NewFeatureStore(conn *Conn) *FeatureStore {
	return &FeatureStore{conn: conn}
}

// Compile-time interface check.
var _ storage.FeatureStore = (*FeatureStore)(nil)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// EnsureTable creates the destination table for the table's column order
// if it does not exist yet.
func (s *FeatureStore) EnsureTable(ctx context.Context, table string, t *domain.FeatureTable) error {
	if !identPattern.MatchString(table) {
		return fmt.Errorf("%w: bad table name %q", storage.ErrInvalidInput, table)
	}

	cols := make([]string, 0, 3+len(t.FeatureColumns))
	cols = append(cols,
		fmt.Sprintf("`%s` DateTime('UTC')", domain.ColTimestamp),
		fmt.Sprintf("`%s` String", domain.ColAPIName),
		fmt.Sprintf("`%s` String", domain.ColFamilia),
	)
	for _, name := range t.FeatureColumns {
		if !identPattern.MatchString(name) {
			return fmt.Errorf("%w: bad column name %q", storage.ErrInvalidInput, name)
		}
		cols = append(cols, fmt.Sprintf("`%s` Float64", name))
	}

	ddl := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			%s
		) ENGINE = MergeTree()
		ORDER BY (%s, %s, %s)
	`, table, strings.Join(cols, ",\n\t\t\t"), domain.ColFamilia, domain.ColAPIName, domain.ColTimestamp)

	if err := s.conn.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("create table %s: %w", table, err)
	}
	return nil
}

// InsertTable loads every row of the feature table in one batch.
func (s *FeatureStore) InsertTable(ctx context.Context, table string, t *domain.FeatureTable) error {
	if t.NumRows() == 0 {
		return nil
	}
	if !identPattern.MatchString(table) {
		return fmt.Errorf("%w: bad table name %q", storage.ErrInvalidInput, table)
	}

	names := make([]string, 0, 3+len(t.FeatureColumns))
	names = append(names, domain.ColTimestamp, domain.ColAPIName, domain.ColFamilia)
	names = append(names, t.FeatureColumns...)
	for _, n := range names {
		if !identPattern.MatchString(n) {
			return fmt.Errorf("%w: bad column name %q", storage.ErrInvalidInput, n)
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, fmt.Sprintf(
		"INSERT INTO %s (`%s`)", table, strings.Join(names, "`, `"),
	))
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	row := make([]any, len(names))
	for i := 0; i < t.NumRows(); i++ {
		row[0] = t.Timestamps[i]
		row[1] = t.APINames[i]
		row[2] = t.Familias[i]
		for j, name := range t.FeatureColumns {
			row[3+j] = t.Features[name][i]
		}
		if err := batch.Append(row...); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}
