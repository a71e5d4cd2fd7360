package wkm

import "gonum.org/v1/gonum/floats"

// incrementalMeans moves sample from cluster j (n points before the move) to
// cluster best (m points before the move) using the online mean recurrence:
//
//	c[best] += (sample - c[best]) / (m+1)
//	c[j]    -= (sample - c[j]) / (n-1)
//
// Requires n >= 2.
func incrementalMeans(centroids [][]float64, sample []float64, j, best, n, m int) {
	diff := make([]float64, len(sample))
	floats.SubTo(diff, sample, centroids[best])
	floats.AddScaled(centroids[best], 1/float64(m+1), diff)
	floats.SubTo(diff, sample, centroids[j])
	floats.AddScaled(centroids[j], -1/float64(n-1), diff)
}
