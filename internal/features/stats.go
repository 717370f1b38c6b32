package features

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// aggStats is the metric set computed over a slice of values.
type aggStats struct {
	sum    float64
	mean   float64
	median float64
	max    float64
	min    float64
	std    float64
	q25    float64
	q75    float64
}

// computeAggStats calculates the metric set over values. Std is the sample
// standard deviation (0 for fewer than 2 values) unless populationStd is
// set, which matches the weekday-history family's convention.
func computeAggStats(values []float64, populationStd bool) aggStats {
	n := len(values)
	if n == 0 {
		return aggStats{
			sum: math.NaN(), mean: math.NaN(), median: math.NaN(),
			max: math.NaN(), min: math.NaN(), std: math.NaN(),
			q25: math.NaN(), q75: math.NaN(),
		}
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	mean := stat.Mean(values, nil)
	sum := 0.0
	for _, v := range values {
		sum += v
	}

	var std float64
	switch {
	case populationStd:
		sumSq := 0.0
		for _, v := range values {
			d := v - mean
			sumSq += d * d
		}
		std = math.Sqrt(sumSq / float64(n))
	case n < 2:
		std = 0
	default:
		std = stat.StdDev(values, nil)
	}

	return aggStats{
		sum:    sum,
		mean:   mean,
		median: computePercentile(sorted, 0.50),
		max:    sorted[n-1],
		min:    sorted[0],
		std:    std,
		q25:    computePercentile(sorted, 0.25),
		q75:    computePercentile(sorted, 0.75),
	}
}

// metricNames is the column suffix order of every aggregate family.
var metricNames = []string{"sum", "mean", "median", "max", "min", "std", "q25", "q75"}

// byName returns the metric value for a suffix from metricNames.
func (a aggStats) byName(name string) float64 {
	switch name {
	case "sum":
		return a.sum
	case "mean":
		return a.mean
	case "median":
		return a.median
	case "max":
		return a.max
	case "min":
		return a.min
	case "std":
		return a.std
	case "q25":
		return a.q25
	case "q75":
		return a.q75
	}
	return math.NaN()
}

// computePercentile uses linear interpolation on a pre-sorted slice.
// p is the percentile as a fraction (0.25 = 25th percentile).
func computePercentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}

	idx := p * float64(n-1)
	lower := int(idx)
	upper := lower + 1
	if upper >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}

// olsSlope fits value against position in window and returns the slope.
// Needs at least 2 points; numerically singular fits collapse to 0.
func olsSlope(window []float64) float64 {
	if len(window) < 2 {
		return 0
	}
	xs := make([]float64, len(window))
	for i := range xs {
		xs[i] = float64(i)
	}
	_, beta := stat.LinearRegression(xs, window, nil, false)
	if math.IsNaN(beta) || math.IsInf(beta, 0) {
		return 0
	}
	return beta
}
