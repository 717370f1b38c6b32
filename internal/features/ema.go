package features

// computeEMA returns the recursive exponential moving average with
// alpha = 2/(span+1), seeded at the first observation:
//
//	ema[0] = x[0]
//	ema[t] = alpha*x[t] + (1-alpha)*ema[t-1]
func computeEMA(v []float64, span int) []float64 {
	out := make([]float64, len(v))
	if len(v) == 0 {
		return out
	}
	alpha := 2.0 / float64(span+1)
	out[0] = v[0]
	for i := 1; i < len(v); i++ {
		out[i] = alpha*v[i] + (1-alpha)*out[i-1]
	}
	return out
}
