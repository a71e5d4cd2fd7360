package dataset

import (
	"fmt"
	"strings"

	"github.com/banshee-data/wkm/internal/db"
	"github.com/banshee-data/wkm/internal/units"
)

// Observation columns that can be selected as sample dimensions.
const (
	ColumnUptime    = "uptime"
	ColumnMagnitude = "magnitude"
	ColumnSpeed     = "speed"
)

// ObservationQuery selects an ordered sequence from the observation store.
type ObservationQuery struct {
	// Columns become the sample dimensions, in order. Defaults to speed.
	Columns []string
	// From and To bound the uptime window (inclusive) when set.
	From *float64
	To   *float64
	// Units converts the speed column from the stored m/s. Empty keeps m/s.
	Units string
}

// ParseColumns splits a comma-separated column list such as "speed,magnitude".
func ParseColumns(s string) ([]string, error) {
	var cols []string
	for _, c := range strings.Split(s, ",") {
		c = strings.ToLower(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		switch c {
		case ColumnUptime, ColumnMagnitude, ColumnSpeed:
			cols = append(cols, c)
		default:
			return nil, fmt.Errorf("unknown observation column %q", c)
		}
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("no observation columns selected")
	}
	return cols, nil
}

// LoadObservations returns one sample per stored reading in ascending
// uptime order.
func LoadObservations(store *db.DB, q ObservationQuery) ([][]float64, error) {
	cols := q.Columns
	if len(cols) == 0 {
		cols = []string{ColumnSpeed}
	}

	obs, err := store.Observations(q.From, q.To)
	if err != nil {
		return nil, fmt.Errorf("failed to query observations: %w", err)
	}

	samples := make([][]float64, len(obs))
	for i, o := range obs {
		row := make([]float64, len(cols))
		for d, c := range cols {
			switch c {
			case ColumnUptime:
				row[d] = o.Uptime
			case ColumnMagnitude:
				row[d] = o.Magnitude
			case ColumnSpeed:
				row[d] = units.ConvertSpeed(o.Speed, q.Units)
			default:
				return nil, fmt.Errorf("unknown observation column %q", c)
			}
		}
		samples[i] = row
	}
	return samples, nil
}
