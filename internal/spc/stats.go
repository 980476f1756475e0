package spc

import "math"

// Summary holds the reduction of a value sequence to its summary statistics.
// StdDev uses the (n−1)-denominator sample formula and is exactly 0 for a
// single-value sequence.
type Summary struct {
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
	Count  int
}

// Summarize reduces vals to a Summary. The second return is false when
// vals is empty; callers must treat that as "statistics absent".
func Summarize(vals []float64) (Summary, bool) {
	n := len(vals)
	if n == 0 {
		return Summary{}, false
	}

	var sum float64
	min, max := vals[0], vals[0]
	for _, v := range vals {
		sum += v
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	mean := sum / float64(n)

	var stdDev float64
	if n > 1 {
		var sq float64
		for _, v := range vals {
			d := v - mean
			sq += d * d
		}
		stdDev = math.Sqrt(sq / float64(n-1))
	}

	return Summary{Mean: mean, StdDev: stdDev, Min: min, Max: max, Count: n}, true
}
