// Package family computes the family-level aggregate signal: the summed
// call volume of all member series, with rolling means joined back onto
// each member's rows by timestamp.
package family

import (
	"fmt"
	"sort"
	"time"

	"api-volume-lab/internal/domain"
)

// Aggregate is the family-level series plus its rolling means, keyed by
// timestamp for the member join.
type Aggregate struct {
	Familia string
	Index   []time.Time

	// rollMeans[w][ts] is the rolling mean of window w at ts.
	rollMeans map[int]map[time.Time]float64
}

// New builds the aggregate for one family from its prepared member series.
// The aggregate index is the union of all member timestamps; buckets a
// member does not cover contribute that member's nearest earlier value,
// the same forward-fill-then-zero policy the preparer applies.
func New(familia string, members []*domain.AlignedSeries, windows []int) (*Aggregate, error) {
	if len(members) == 0 {
		return nil, fmt.Errorf("family %s has no prepared members", familia)
	}

	union := make(map[time.Time]struct{})
	for _, m := range members {
		for i := 0; i < m.Len(); i++ {
			union[m.TimeAt(i)] = struct{}{}
		}
	}
	index := make([]time.Time, 0, len(union))
	for ts := range union {
		index = append(index, ts)
	}
	sort.Slice(index, func(i, j int) bool { return index[i].Before(index[j]) })

	total := make([]float64, len(index))
	for _, m := range members {
		for i, ts := range index {
			total[i] += memberValueAt(m, ts)
		}
	}

	agg := &Aggregate{
		Familia:   familia,
		Index:     index,
		rollMeans: make(map[int]map[time.Time]float64, len(windows)),
	}
	for _, w := range windows {
		mean := rollingMean(total, w)
		byTS := make(map[time.Time]float64, len(index))
		for i, ts := range index {
			byTS[ts] = mean[i]
		}
		agg.rollMeans[w] = byTS
	}
	return agg, nil
}

// memberValueAt returns the member's value at ts, forward-filling from the
// member's last bucket before ts and zero before the member's range.
func memberValueAt(m *domain.AlignedSeries, ts time.Time) float64 {
	if ts.Before(m.Start) {
		return 0
	}
	i := int(ts.Sub(m.Start) / m.Freq)
	if i >= m.Len() {
		i = m.Len() - 1
	}
	return m.Values[i]
}

// JoinTo appends family_roll_mean_{w} columns onto a member frame, matching
// rows by timestamp. Every member timestamp is part of the union index, so
// the lookup always hits.
func (a *Aggregate) JoinTo(fr *domain.Frame, windows []int) error {
	for _, w := range windows {
		byTS := a.rollMeans[w]
		col := make([]float64, fr.NumRows())
		for i, ts := range fr.Index {
			col[i] = byTS[ts]
		}
		if err := fr.AddColumn(fmt.Sprintf("family_roll_mean_%d", w), col); err != nil {
			return err
		}
	}
	return nil
}

// rollingMean is a trailing mean with a minimum of one sample.
func rollingMean(v []float64, w int) []float64 {
	out := make([]float64, len(v))
	sum := 0.0
	for i := range v {
		sum += v[i]
		if i >= w {
			sum -= v[i-w]
		}
		size := i + 1
		if size > w {
			size = w
		}
		out[i] = sum / float64(size)
	}
	return out
}
