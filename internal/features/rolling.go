package features

// rollingColumns holds the nine trailing-window signals for one window size.
type rollingColumns struct {
	sum, mean, median, min, max, std, q25, q75, slope []float64
}

// computeRolling calculates trailing-window statistics over v, window
// inclusive of the current period with a minimum of 1 sample, so there are
// no leading gaps. Slope needs 2 points and is 0 until it has them.
func computeRolling(v []float64, w int) rollingColumns {
	n := len(v)
	rc := rollingColumns{
		sum:    make([]float64, n),
		mean:   make([]float64, n),
		median: make([]float64, n),
		min:    make([]float64, n),
		max:    make([]float64, n),
		std:    make([]float64, n),
		q25:    make([]float64, n),
		q75:    make([]float64, n),
		slope:  make([]float64, n),
	}

	for i := 0; i < n; i++ {
		lo := i - w + 1
		if lo < 0 {
			lo = 0
		}
		window := v[lo : i+1]
		s := computeAggStats(window, false)
		rc.sum[i] = s.sum
		rc.mean[i] = s.mean
		rc.median[i] = s.median
		rc.min[i] = s.min
		rc.max[i] = s.max
		rc.std[i] = s.std
		rc.q25[i] = s.q25
		rc.q75[i] = s.q75
		rc.slope[i] = olsSlope(window)
	}
	return rc
}
