// Package testutil provides shared test utilities and fixtures.
//
// This package centralises common test helpers to reduce code duplication
// across test files and improve test maintainability.
package testutil

import (
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// StepSequence builds a piecewise-constant sequence: segment i repeats
// levels[i] lengths[i] times. A non-zero jitter adds a deterministic,
// bounded wobble (|offset| <= jitter) so segments are not perfectly flat.
func StepSequence(levels [][]float64, lengths []int, jitter float64) [][]float64 {
	var samples [][]float64
	for seg, level := range levels {
		for k := 0; k < lengths[seg]; k++ {
			row := make([]float64, len(level))
			for d, v := range level {
				row[d] = v + jitter*math.Sin(float64(len(samples)*(d+3))*1.7)
			}
			samples = append(samples, row)
		}
	}
	return samples
}

// Ramp returns n one-dimensional samples 0, step, 2*step, ...
func Ramp(n int, step float64) [][]float64 {
	samples := make([][]float64, n)
	for i := range samples {
		samples[i] = []float64{float64(i) * step}
	}
	return samples
}

// FormatRows renders samples as whitespace-separated rows, one per line.
func FormatRows(samples [][]float64) string {
	var b strings.Builder
	for _, s := range samples {
		for d, v := range s {
			if d > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// WriteDataFile writes samples under dir/name and returns the full path.
func WriteDataFile(t *testing.T, dir, name string, samples [][]float64) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(FormatRows(samples)), 0644); err != nil {
		t.Fatalf("failed to write data file: %v", err)
	}
	return path
}
