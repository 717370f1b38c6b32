package domain

import (
	"fmt"
	"time"
)

// Identifier column names. They always lead the output column order.
const (
	ColTimestamp = "fecha_hora"
	ColAPIName   = "api_name"
	ColFamilia   = "familia"
)

// FeatureTable is the concatenation of per-key feature frames: one row per
// (timestamp, series key) with identifier columns followed by the feature
// columns in their configured order.
type FeatureTable struct {
	Timestamps []time.Time
	APINames   []string
	Familias   []string

	FeatureColumns []string
	Features       map[string][]float64
}

// NewFeatureTable creates an empty table with the given feature column order.
func NewFeatureTable(featureColumns []string) *FeatureTable {
	cols := make([]string, len(featureColumns))
	copy(cols, featureColumns)
	feats := make(map[string][]float64, len(cols))
	for _, c := range cols {
		feats[c] = nil
	}
	return &FeatureTable{FeatureColumns: cols, Features: feats}
}

// AppendFrame appends all rows of a per-key frame. The frame's columns must
// match the table's feature column order exactly.
func (t *FeatureTable) AppendFrame(f *Frame) error {
	got := f.Columns()
	if len(got) != len(t.FeatureColumns) {
		return fmt.Errorf("frame for %s has %d columns, table expects %d", f.Key, len(got), len(t.FeatureColumns))
	}
	for i, name := range t.FeatureColumns {
		if got[i] != name {
			return fmt.Errorf("frame for %s: column %d is %s, expected %s", f.Key, i, got[i], name)
		}
	}

	t.Timestamps = append(t.Timestamps, f.Index...)
	for i := 0; i < f.NumRows(); i++ {
		t.APINames = append(t.APINames, f.Key.APIName)
		t.Familias = append(t.Familias, f.Key.Familia)
	}
	for _, name := range t.FeatureColumns {
		t.Features[name] = append(t.Features[name], f.Column(name)...)
	}
	return nil
}

// NumRows returns the number of rows.
func (t *FeatureTable) NumRows() int {
	return len(t.Timestamps)
}

// Columns returns the full output column order, identifiers first.
func (t *FeatureTable) Columns() []string {
	out := make([]string, 0, 3+len(t.FeatureColumns))
	out = append(out, ColTimestamp, ColAPIName, ColFamilia)
	out = append(out, t.FeatureColumns...)
	return out
}

// Summary describes the finished table for the writing collaborator.
type Summary struct {
	Rows int `yaml:"rows"`
	Cols int `yaml:"cols"`
}

// Summary returns row and column counts.
func (t *FeatureTable) Summary() Summary {
	return Summary{Rows: t.NumRows(), Cols: 3 + len(t.FeatureColumns)}
}
