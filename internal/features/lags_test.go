package features

import (
	"math"
	"testing"
)

func TestShiftBack(t *testing.T) {
	out := shiftBack([]float64{10, 20, 30}, 2)
	if !math.IsNaN(out[0]) || !math.IsNaN(out[1]) {
		t.Errorf("first 2 shifted values should be NaN, got %v", out[:2])
	}
	if out[2] != 10 {
		t.Errorf("out[2] = %v, want 10", out[2])
	}
}

func TestDiffOnePeriod(t *testing.T) {
	lagged := shiftBack([]float64{10, 20, 35}, 1) // [NaN 10 20]
	out := diffOnePeriod(lagged)
	if !math.IsNaN(out[0]) || !math.IsNaN(out[1]) {
		t.Errorf("diff with an undefined side should be NaN, got %v", out[:2])
	}
	if out[2] != 10 {
		t.Errorf("out[2] = %v, want 10", out[2])
	}
}

func TestPctChange(t *testing.T) {
	out := pctChange([]float64{10, 15, 15, 0, 7})
	want := []float64{0, 0.5, 0, 0, 0} // first row and zero denominator are 0
	for i := range want {
		if !almostEqual(out[i], want[i]) {
			t.Errorf("out[%d] = %v, want %v", i, out[i], want[i])
		}
	}
}

func TestPctChange_NaNInput(t *testing.T) {
	out := pctChange([]float64{math.NaN(), 5, 10})
	if out[1] != 0 {
		t.Errorf("pct change from NaN should be 0, got %v", out[1])
	}
	if !almostEqual(out[2], 1) {
		t.Errorf("out[2] = %v, want 1", out[2])
	}
}
