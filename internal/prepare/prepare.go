// Package prepare turns irregular raw events for one series key into an
// aligned, gap-free, fixed-frequency series.
package prepare

import (
	"errors"
	"fmt"
	"time"

	"api-volume-lab/internal/domain"
)

// Errors returned by the preparer.
var (
	// ErrNoEvents is returned for a key with no raw rows at all.
	ErrNoEvents = errors.New("no events for series key")
)

// Prepare resamples raw events to fixed freq buckets over the continuous
// range [first, last] observed bucket:
//   - events are summed into their bucket (UTC truncation)
//   - which buckets had real observations is recorded before any filling
//   - gaps are forward-filled from the last known value
//   - leading gaps (nothing to fill from) become 0
//   - Imputed is 1 exactly for the buckets with no contributing events
//
// A key with a single observation yields a single-bucket series.
func Prepare(events []domain.RawEvent, freq time.Duration) (*domain.AlignedSeries, error) {
	if len(events) == 0 {
		return nil, ErrNoEvents
	}
	if freq <= 0 {
		return nil, fmt.Errorf("freq must be positive, got %s", freq)
	}

	key := events[0].Key()

	sums := make(map[time.Time]float64)
	var first, last time.Time
	for i := range events {
		bucket := events[i].Timestamp.UTC().Truncate(freq)
		sums[bucket] += events[i].Llamados
		if first.IsZero() || bucket.Before(first) {
			first = bucket
		}
		if last.IsZero() || bucket.After(last) {
			last = bucket
		}
	}

	n := int(last.Sub(first)/freq) + 1
	values := make([]float64, n)
	imputed := make([]uint8, n)

	lastKnown := 0.0
	haveKnown := false
	for i := 0; i < n; i++ {
		bucket := first.Add(time.Duration(i) * freq)
		if v, ok := sums[bucket]; ok {
			values[i] = v
			lastKnown = v
			haveKnown = true
			continue
		}
		imputed[i] = 1
		if haveKnown {
			values[i] = lastKnown
		}
		// leading gap stays 0; cannot happen for i==0 since first is observed
	}

	return &domain.AlignedSeries{
		Key:     key,
		Start:   first,
		Freq:    freq,
		Values:  values,
		Imputed: imputed,
	}, nil
}
