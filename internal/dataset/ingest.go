package dataset

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/banshee-data/wkm/internal/db"
	"github.com/banshee-data/wkm/internal/monitoring"
)

// ParseObservation parses one "uptime,magnitude,speed" sensor line.
func ParseObservation(payload string) (db.Observation, error) {
	segments := strings.Split(strings.TrimSpace(payload), ",")
	if len(segments) != 3 {
		return db.Observation{}, fmt.Errorf("invalid payload format: %q, expected 3 segments", payload)
	}

	var vals [3]float64
	for i, name := range []string{"uptime", "magnitude", "speed"} {
		v, err := strconv.ParseFloat(strings.TrimSpace(segments[i]), 64)
		if err != nil {
			return db.Observation{}, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		vals[i] = v
	}
	return db.Observation{Uptime: vals[0], Magnitude: vals[1], Speed: vals[2]}, nil
}

// ReadObservations parses a sensor log. Blank lines and JSON event lines
// (starting with "{") are skipped; any other malformed line is an error.
func ReadObservations(r io.Reader) ([]db.Observation, error) {
	var obs []db.Observation
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "{") {
			monitoring.Verbosef("skipping event on line %d: %s", lineNo, line)
			continue
		}
		o, err := ParseObservation(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		obs = append(obs, o)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read observations: %w", err)
	}
	return obs, nil
}

// ImportObservations reads a sensor log from r and stores every reading in
// one transaction. It returns the number of readings stored.
func ImportObservations(store *db.DB, r io.Reader) (int, error) {
	obs, err := ReadObservations(r)
	if err != nil {
		return 0, err
	}
	for i := range obs {
		monitoring.Verbosef("observation %d: %s", i+1, obs[i].String())
	}
	if err := store.RecordObservations(obs); err != nil {
		return 0, fmt.Errorf("failed to record observations: %w", err)
	}
	monitoring.Logf("Recorded %d observations", len(obs))
	return len(obs), nil
}
