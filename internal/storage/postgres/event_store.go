package postgres

import (
	"context"
	"fmt"

	"api-volume-lab/internal/domain"
	"api-volume-lab/internal/storage"
)

// EventStore implements storage.RawEventStore using PostgreSQL.
type EventStore struct {
	pool *Pool
}

// NewEventStore creates a new EventStore.
func NewEventStore(pool *Pool) *EventStore {
	return &EventStore{pool: pool}
}

// Compile-time interface check.
var _ storage.RawEventStore = (*EventStore)(nil)

// InsertBulk adds raw events atomically. The table's CHECK constraint
// rejects negative call counts; that surfaces as ErrInvalidInput.
func (s *EventStore) InsertBulk(ctx context.Context, events []domain.RawEvent) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO raw_events (fecha_hora, api_name, familia, llamados)
		VALUES ($1, $2, $3, $4)
	`

	for i := range events {
		e := &events[i]
		if _, err := tx.Exec(ctx, query, e.Timestamp.UTC(), e.APIName, e.Familia, e.Llamados); err != nil {
			if isCheckViolation(err) {
				return storage.ErrInvalidInput
			}
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert raw event: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetAll retrieves every event in canonical order.
func (s *EventStore) GetAll(ctx context.Context) ([]domain.RawEvent, error) {
	query := `
		SELECT fecha_hora, api_name, familia, llamados
		FROM raw_events
		ORDER BY familia ASC, api_name ASC, fecha_hora ASC
	`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query raw events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// GetByKey retrieves all events for one series key, ordered by timestamp.
func (s *EventStore) GetByKey(ctx context.Context, key domain.SeriesKey) ([]domain.RawEvent, error) {
	query := `
		SELECT fecha_hora, api_name, familia, llamados
		FROM raw_events
		WHERE api_name = $1 AND familia = $2
		ORDER BY fecha_hora ASC
	`
	rows, err := s.pool.Query(ctx, query, key.APIName, key.Familia)
	if err != nil {
		return nil, fmt.Errorf("query raw events by key: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// Keys returns the distinct series keys in canonical order.
func (s *EventStore) Keys(ctx context.Context) ([]domain.SeriesKey, error) {
	query := `
		SELECT DISTINCT api_name, familia
		FROM raw_events
		ORDER BY familia ASC, api_name ASC
	`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query series keys: %w", err)
	}
	defer rows.Close()

	var keys []domain.SeriesKey
	for rows.Next() {
		var k domain.SeriesKey
		if err := rows.Scan(&k.APIName, &k.Familia); err != nil {
			return nil, fmt.Errorf("scan series key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanEvents(rows rowScanner) ([]domain.RawEvent, error) {
	var events []domain.RawEvent
	for rows.Next() {
		var e domain.RawEvent
		if err := rows.Scan(&e.Timestamp, &e.APIName, &e.Familia, &e.Llamados); err != nil {
			return nil, fmt.Errorf("scan raw event: %w", err)
		}
		e.Timestamp = e.Timestamp.UTC()
		events = append(events, e)
	}
	return events, rows.Err()
}
