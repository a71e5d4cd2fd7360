package wkm

import (
	"fmt"
	"math"
	"strings"
)

// InitMethod selects how the initial cluster boundaries are placed.
type InitMethod int

const (
	// InitDefault uses trace segmentation when there are at least two
	// samples per cluster on average and equal-count resampling otherwise.
	InitDefault InitMethod = iota
	// InitTraceSegmentation splits the cumulative path length evenly.
	InitTraceSegmentation
	// InitResample splits the sample count evenly.
	InitResample
)

func (m InitMethod) String() string {
	switch m {
	case InitTraceSegmentation:
		return "ts"
	case InitResample:
		return "eq"
	default:
		return "default"
	}
}

// ParseInitMethod maps "ts", "eq", "default" or "" to an InitMethod.
func ParseInitMethod(s string) (InitMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default":
		return InitDefault, nil
	case "ts":
		return InitTraceSegmentation, nil
	case "eq":
		return InitResample, nil
	}
	return InitDefault, fmt.Errorf("%w: %q", ErrUnknownInitMethod, s)
}

// initialBoundaries returns strictly increasing cluster start indices for
// m clusters over samples, always beginning at 0.
func initialBoundaries(samples [][]float64, m int, method InitMethod) []int {
	n := len(samples)
	if m <= 1 {
		return []int{0}
	}
	if m >= n {
		b := make([]int, n)
		for i := range b {
			b[i] = i
		}
		return b
	}

	switch method {
	case InitTraceSegmentation:
		return traceSegmentation(samples, m)
	case InitResample:
		return resample(n, m)
	}
	if float64(n)/float64(m) < 2 {
		return resample(n, m)
	}
	return traceSegmentation(samples, m)
}

// traceSegmentation places boundaries at equal fractions of the cumulative
// arc length. The scan pointer only moves forward so no index is chosen twice.
// A boundary never passes the last index that still leaves one sample for each
// remaining cluster; this only matters when the tail of the trace is flat.
func traceSegmentation(samples [][]float64, m int) []int {
	n := len(samples)
	cum, total := CumulativeLength(samples)
	incr := total / float64(m)
	boundaries := make([]int, 0, m)
	i := 0
	for j := 1; j <= m; j++ {
		target := float64(j-1) * incr
		limit := n - (m - j) - 1
		for i < limit && (target > cum[i] || (len(boundaries) > 0 && boundaries[len(boundaries)-1] == i)) {
			i++
		}
		boundaries = append(boundaries, i)
	}
	return boundaries
}

// resample allocates n points to m clusters linearly, ignoring geometry.
func resample(n, m int) []int {
	boundaries := make([]int, 0, m)
	b := -1.0
	for i := 0; i < n; i++ {
		q := math.Floor(float64((i+1)*m) / float64(n+1))
		if q > b {
			b = q
			boundaries = append(boundaries, i)
		}
	}
	return boundaries
}
