package features

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputeAggStats_Empty(t *testing.T) {
	s := computeAggStats(nil, false)
	for _, m := range metricNames {
		if !math.IsNaN(s.byName(m)) {
			t.Errorf("%s over empty input = %v, want NaN", m, s.byName(m))
		}
	}
}

func TestComputeAggStats_Single(t *testing.T) {
	s := computeAggStats([]float64{5}, false)
	if s.sum != 5 || s.mean != 5 || s.median != 5 || s.min != 5 || s.max != 5 {
		t.Errorf("point stats over single value: %+v", s)
	}
	if s.std != 0 {
		t.Errorf("sample std of single value = %v, want 0", s.std)
	}
	if s.q25 != 5 || s.q75 != 5 {
		t.Errorf("quantiles of single value: q25=%v q75=%v", s.q25, s.q75)
	}
}

func TestComputeAggStats_SampleStd(t *testing.T) {
	s := computeAggStats([]float64{2, 4, 4, 4, 5, 5, 7, 9}, false)
	if !almostEqual(s.mean, 5) {
		t.Errorf("mean = %v, want 5", s.mean)
	}
	// sample std with n-1 denominator
	want := math.Sqrt(32.0 / 7.0)
	if !almostEqual(s.std, want) {
		t.Errorf("std = %v, want %v", s.std, want)
	}
}

func TestComputeAggStats_PopulationStd(t *testing.T) {
	s := computeAggStats([]float64{2, 4, 4, 4, 5, 5, 7, 9}, true)
	if !almostEqual(s.std, 2) {
		t.Errorf("population std = %v, want 2", s.std)
	}
}

func TestComputePercentile_LinearInterpolation(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}
	cases := []struct {
		p    float64
		want float64
	}{
		{0.25, 1.75},
		{0.50, 2.5},
		{0.75, 3.25},
		{0, 1},
		{1, 4},
	}
	for _, c := range cases {
		got := computePercentile(sorted, c.p)
		if !almostEqual(got, c.want) {
			t.Errorf("percentile %v = %v, want %v", c.p, got, c.want)
		}
	}
}

func TestOLSSlope(t *testing.T) {
	if got := olsSlope([]float64{5}); got != 0 {
		t.Errorf("slope of single point = %v, want 0", got)
	}
	if got := olsSlope([]float64{1, 3, 5, 7}); !almostEqual(got, 2) {
		t.Errorf("slope of linear ramp = %v, want 2", got)
	}
	if got := olsSlope([]float64{4, 4, 4}); !almostEqual(got, 0) {
		t.Errorf("slope of constant series = %v, want 0", got)
	}
}
