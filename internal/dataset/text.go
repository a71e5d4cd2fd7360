// Package dataset loads ordered sequences of numeric vectors for clustering.
package dataset

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/banshee-data/wkm/internal/wkm"
)

// ReadText parses one sample per line with whitespace-separated fields.
// Blank lines are ignored. Every row must have the same number of fields.
func ReadText(r io.Reader) ([][]float64, error) {
	var (
		samples [][]float64
		lineNo  int
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		row := make([]float64, len(fields))
		for d, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d, field %d: %w", lineNo, d+1, err)
			}
			row[d] = v
		}

		if len(samples) > 0 && len(row) != len(samples[0]) {
			return nil, fmt.Errorf("%w: line %d has %d fields, want %d", wkm.ErrDimensionMismatch, lineNo, len(row), len(samples[0]))
		}
		samples = append(samples, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read samples: %w", err)
	}

	return samples, nil
}
