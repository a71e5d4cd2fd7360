// Package report renders clustering results for humans and machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/wkm/internal/version"
	"github.com/banshee-data/wkm/internal/wkm"
)

// Result is the externally visible outcome of one clustering run.
type Result struct {
	RunID      string  `json:"run_id"`
	Version    string  `json:"version"`
	Samples    int     `json:"samples"`
	Dimensions int     `json:"dimensions"`
	Clusters   int     `json:"clusters"`
	Threshold  float64 `json:"threshold"`
	InitMethod string  `json:"init_method"`
	Whitened   bool    `json:"whitened"`

	StartedAt time.Time `json:"started_at"`
	ElapsedMS float64   `json:"elapsed_ms"`

	Boundaries   []int       `json:"boundaries"`
	Centroids    [][]float64 `json:"centroids"`
	LocalEnergy  []float64   `json:"localenergy"`
	TotalEnergy  float64     `json:"totalenergy"`
	Iterations   int         `json:"iterations"`
	NumTransfers int         `json:"numtransfers"`
	Cost         int         `json:"cost"`
}

// NewResult captures the outputs of s together with the run parameters of w.
// Slices are copied so later runs against the same state do not alter it.
func NewResult(w *wkm.WKM, s *wkm.State, method wkm.InitMethod, whitened bool) *Result {
	centroids := make([][]float64, len(s.Centroids))
	for j, c := range s.Centroids {
		centroids[j] = append([]float64(nil), c...)
	}
	return &Result{
		RunID:        uuid.NewString(),
		Version:      version.Version,
		Samples:      w.Len(),
		Dimensions:   w.Dimensions(),
		Clusters:     w.NumClusters(),
		Threshold:    w.Threshold(),
		InitMethod:   method.String(),
		Whitened:     whitened,
		Boundaries:   append([]int(nil), s.Boundaries...),
		Centroids:    centroids,
		LocalEnergy:  append([]float64(nil), s.LocalEnergy...),
		TotalEnergy:  s.TotalEnergy,
		Iterations:   s.Iterations,
		NumTransfers: s.NumTransfers,
		Cost:         s.Cost,
	}
}

// SetTiming records when the run started and how long it took.
func (r *Result) SetTiming(start time.Time, elapsed time.Duration) {
	r.StartedAt = start.UTC()
	r.ElapsedMS = float64(elapsed) / float64(time.Millisecond)
}

// WriteText prints one "name: value" line per output field.
func WriteText(w io.Writer, r *Result) error {
	lines := []struct {
		name  string
		value string
	}{
		{"boundaries", formatInts(r.Boundaries)},
		{"centroids", formatMatrix(r.Centroids)},
		{"localenergy", formatFloats(r.LocalEnergy)},
		{"totalenergy", formatFloat(r.TotalEnergy)},
		{"iterations", strconv.Itoa(r.Iterations)},
		{"numtransfers", strconv.Itoa(r.NumTransfers)},
		{"cost", strconv.Itoa(r.Cost)},
	}
	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "%s: %s\n", l.name, l.value); err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON writes r as indented JSON.
func WriteJSON(w io.Writer, r *Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// Write dispatches on format ("text" or "json").
func Write(w io.Writer, r *Result, format string) error {
	switch format {
	case "", "text":
		return WriteText(w, r)
	case "json":
		return WriteJSON(w, r)
	}
	return fmt.Errorf("unknown report format %q", format)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatInts(vs []int) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.Itoa(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func formatFloats(vs []float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = formatFloat(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func formatMatrix(rows [][]float64) string {
	parts := make([]string, len(rows))
	for i, row := range rows {
		parts[i] = formatFloats(row)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
