package memory

import (
	"context"
	"sort"
	"sync"

	"api-volume-lab/internal/domain"
	"api-volume-lab/internal/storage"
)

// EventStore is an in-memory implementation of storage.RawEventStore,
// used by tests and by CSV-driven pipeline runs.
type EventStore struct {
	mu     sync.RWMutex
	events []domain.RawEvent
}

// NewEventStore creates a new in-memory raw event store.
func NewEventStore() *EventStore {
	return &EventStore{}
}

// Compile-time interface check.
var _ storage.RawEventStore = (*EventStore)(nil)

// InsertBulk adds raw events. Negative call counts are rejected.
func (s *EventStore) InsertBulk(_ context.Context, events []domain.RawEvent) error {
	for i := range events {
		if events[i].Llamados < 0 {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, events...)
	return nil
}

// GetAll retrieves every event in canonical order.
func (s *EventStore) GetAll(_ context.Context) ([]domain.RawEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.RawEvent, len(s.events))
	copy(out, s.events)
	sort.SliceStable(out, func(i, j int) bool {
		ki, kj := out[i].Key(), out[j].Key()
		if ki != kj {
			return ki.Less(kj)
		}
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}

// GetByKey retrieves all events for one series key, ordered by timestamp.
func (s *EventStore) GetByKey(_ context.Context, key domain.SeriesKey) ([]domain.RawEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.RawEvent
	for i := range s.events {
		if s.events[i].Key() == key {
			out = append(out, s.events[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}

// Keys returns the distinct series keys in canonical order.
func (s *EventStore) Keys(_ context.Context) ([]domain.SeriesKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[domain.SeriesKey]struct{})
	var keys []domain.SeriesKey
	for i := range s.events {
		k := s.events[i].Key()
		if _, ok := seen[k]; !ok {
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys, nil
}
