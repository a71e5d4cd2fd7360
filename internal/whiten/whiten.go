// Package whiten normalizes the per-dimension variance of a dataset before
// clustering so that no single feature dominates the squared distances.
package whiten

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// StdDevs returns the Bessel-corrected sample standard deviation of every
// dimension. Dimensions of a dataset with fewer than two samples report 0.
func StdDevs(samples [][]float64) []float64 {
	if len(samples) == 0 {
		return nil
	}
	dim := len(samples[0])
	sd := make([]float64, dim)
	if len(samples) < 2 {
		return sd
	}
	col := make([]float64, len(samples))
	for d := 0; d < dim; d++ {
		for i, s := range samples {
			col[i] = s[d]
		}
		sd[d] = stat.StdDev(col, nil)
	}
	return sd
}

// Whiten returns a copy of samples with each dimension divided by its
// standard deviation. Dimensions with zero or undefined deviation are copied
// unchanged. The input is not modified.
func Whiten(samples [][]float64) [][]float64 {
	sd := StdDevs(samples)
	out := make([][]float64, len(samples))
	for i, s := range samples {
		row := make([]float64, len(s))
		for d, v := range s {
			if d < len(sd) && sd[d] > 0 && !math.IsNaN(sd[d]) {
				v /= sd[d]
			}
			row[d] = v
		}
		out[i] = row
	}
	return out
}
