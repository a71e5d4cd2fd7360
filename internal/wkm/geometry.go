package wkm

import (
	"gonum.org/v1/gonum/floats"
)

// SqDist returns the squared Euclidean distance between a and b.
func SqDist(a, b []float64) float64 {
	d := floats.Distance(a, b, 2)
	return d * d
}

// Centroid returns the per-dimension arithmetic mean of points.
// A singleton cluster yields a copy of its only point.
func Centroid(points [][]float64) []float64 {
	c := make([]float64, len(points[0]))
	if len(points) == 1 {
		copy(c, points[0])
		return c
	}
	for _, p := range points {
		floats.Add(c, p)
	}
	floats.Scale(1/float64(len(points)), c)
	return c
}

// CumulativeLength returns the arc length travelled along samples up to each
// index (L[0] == 0) together with the total length L[N-1].
func CumulativeLength(samples [][]float64) ([]float64, float64) {
	steps := make([]float64, len(samples))
	for i := 1; i < len(samples); i++ {
		steps[i] = floats.Distance(samples[i], samples[i-1], 2)
	}
	cum := floats.CumSum(make([]float64, len(steps)), steps)
	return cum, cum[len(cum)-1]
}
