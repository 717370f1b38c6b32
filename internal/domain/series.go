package domain

import "time"

// AlignedSeries is a gap-filled, fixed-frequency value sequence for one
// series key. Buckets run [Start, Start+freq, ...] with no duplicates and
// no holes; Values never contains NaN once the preparer is done with it.
type AlignedSeries struct {
	Key     SeriesKey
	Start   time.Time     // first bucket, UTC
	Freq    time.Duration // bucket width
	Values  []float64     // summed llamados per bucket
	Imputed []uint8       // 1 = bucket had no contributing raw events
}

// Len returns the number of buckets.
func (s *AlignedSeries) Len() int {
	return len(s.Values)
}

// TimeAt returns the timestamp of bucket i.
func (s *AlignedSeries) TimeAt(i int) time.Time {
	return s.Start.Add(time.Duration(i) * s.Freq)
}

// Timestamps materializes the full bucket index.
func (s *AlignedSeries) Timestamps() []time.Time {
	ts := make([]time.Time, len(s.Values))
	for i := range ts {
		ts[i] = s.TimeAt(i)
	}
	return ts
}

// ImputedCount returns how many buckets were filled rather than observed.
func (s *AlignedSeries) ImputedCount() int {
	n := 0
	for _, f := range s.Imputed {
		if f == 1 {
			n++
		}
	}
	return n
}
