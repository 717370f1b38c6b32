package domain

import (
	"fmt"
	"math"
	"time"
)

// Frame is a timestamp-indexed columnar table of float64 feature columns.
// Column order is insertion order and never depends on the data, which is
// what makes the output column set a pure function of the configuration.
type Frame struct {
	Key   SeriesKey
	Index []time.Time

	order []string
	cols  map[string][]float64
}

// NewFrame creates an empty frame over the given index.
func NewFrame(key SeriesKey, index []time.Time) *Frame {
	return &Frame{
		Key:   key,
		Index: index,
		cols:  make(map[string][]float64),
	}
}

// NumRows returns the number of rows.
func (f *Frame) NumRows() int {
	return len(f.Index)
}

// Columns returns column names in insertion order.
func (f *Frame) Columns() []string {
	out := make([]string, len(f.order))
	copy(out, f.order)
	return out
}

// AddColumn appends a named column. The slice length must match the index.
func (f *Frame) AddColumn(name string, values []float64) error {
	if len(values) != len(f.Index) {
		return fmt.Errorf("column %s: %d values for %d rows", name, len(values), len(f.Index))
	}
	if _, exists := f.cols[name]; exists {
		return fmt.Errorf("column %s already present", name)
	}
	f.order = append(f.order, name)
	f.cols[name] = values
	return nil
}

// Column returns the values of a named column, or nil if absent.
func (f *Frame) Column(name string) []float64 {
	return f.cols[name]
}

// FillForwardThenZero replaces NaN in every column by the last preceding
// finite value, and whatever remains (leading NaN) by zero. Infinities are
// treated as undefined too.
func (f *Frame) FillForwardThenZero() {
	for _, name := range f.order {
		fillForwardThenZero(f.cols[name])
	}
}

// FillZero replaces every undefined value directly by zero, without
// propagating earlier values.
func (f *Frame) FillZero() {
	for _, name := range f.order {
		v := f.cols[name]
		for i := range v {
			if !isDefined(v[i]) {
				v[i] = 0
			}
		}
	}
}

func fillForwardThenZero(v []float64) {
	last := math.NaN()
	for i := range v {
		if isDefined(v[i]) {
			last = v[i]
			continue
		}
		if isDefined(last) {
			v[i] = last
		} else {
			v[i] = 0
		}
	}
}

func isDefined(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
