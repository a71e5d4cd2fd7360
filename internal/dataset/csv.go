package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"io"
	"strconv"
)

var ErrInvalidRange = errors.New("invalid column range")

// ImportCSV reads columns start..end (inclusive, zero based) of every CSV
// record. A negative end selects every column from start onwards. Records
// with a non-numeric field in range, such as a header row, or too few
// fields to cover the range are skipped.
func ImportCSV(r io.Reader, start, end int) ([][]float64, error) {
	if start < 0 || (end >= 0 && start > end) {
		return nil, ErrInvalidRange
	}

	var (
		d  [][]float64
		cr = csv.NewReader(bufio.NewReader(r))
	)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

Main:
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}

		last := end
		if last < 0 {
			last = len(record) - 1
		}
		if last >= len(record) || last < start {
			// Short trailers and ragged headers are skipped like any
			// other non-numeric row.
			continue
		}

		g := make([]float64, 0, last-start+1)
		for j := start; j <= last; j++ {
			f, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				continue Main
			}
			g = append(g, f)
		}

		d = append(d, g)
	}

	return d, nil
}
