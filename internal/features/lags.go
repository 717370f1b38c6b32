package features

import "math"

// shiftBack returns the series shifted back by k periods: out[i] = v[i-k],
// NaN where no earlier value exists.
func shiftBack(v []float64, k int) []float64 {
	out := make([]float64, len(v))
	for i := range out {
		if i < k {
			out[i] = math.NaN()
		} else {
			out[i] = v[i-k]
		}
	}
	return out
}

// diffOnePeriod returns x[i] - x[i-1], NaN where either side is undefined.
func diffOnePeriod(x []float64) []float64 {
	out := make([]float64, len(x))
	for i := range out {
		if i == 0 || math.IsNaN(x[i]) || math.IsNaN(x[i-1]) {
			out[i] = math.NaN()
		} else {
			out[i] = x[i] - x[i-1]
		}
	}
	return out
}

// pctChange returns (x[i]-x[i-1])/x[i-1] with every undefined case (no
// previous value, NaN, zero denominator) set to 0.
func pctChange(x []float64) []float64 {
	out := make([]float64, len(x))
	for i := range out {
		if i == 0 {
			continue
		}
		prev := x[i-1]
		cur := x[i]
		if math.IsNaN(prev) || math.IsNaN(cur) || prev == 0 {
			continue
		}
		out[i] = (cur - prev) / prev
	}
	return out
}
