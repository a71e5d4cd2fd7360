// Package wkm implements Warped K-Means, a K-means variant for sequentially
// ordered data in which every cluster is a contiguous range of the input.
//
// Leiva, L. A. and Vidal, E. "Warped K-Means: An algorithm to cluster
// sequentially-distributed data." Information Sciences 237 (2013).
package wkm

import (
	"fmt"
	"math"
)

// DefaultMaxIterations caps the number of reallocation passes.
const DefaultMaxIterations = 100

// WKM holds the immutable inputs of a clustering problem. Mutable results
// live in a State so that the ordering contract of the reallocation loop is
// visible at every call site.
type WKM struct {
	samples     [][]float64
	numClusters int
	threshold   float64
	dimensions  int

	method        InitMethod
	maxIterations int
	observer      Observer
}

// Option configures a WKM.
type Option func(*WKM)

// WithInitMethod selects the boundary initialization strategy used by Cluster
// when the state has not been initialized yet.
func WithInitMethod(m InitMethod) Option {
	return func(w *WKM) { w.method = m }
}

// WithMaxIterations overrides DefaultMaxIterations. Values below 1 are ignored.
func WithMaxIterations(n int) Option {
	return func(w *WKM) {
		if n >= 1 {
			w.maxIterations = n
		}
	}
}

// WithObserver receives every candidate evaluation and a summary per pass.
func WithObserver(o Observer) Option {
	return func(w *WKM) { w.observer = o }
}

// New builds a WKM over samples. k is clamped to [1, len(samples)] and
// threshold to [0, 1]. The samples are copied.
func New(samples [][]float64, k int, threshold float64, opts ...Option) (*WKM, error) {
	if len(samples) == 0 {
		return nil, ErrEmptyDataset
	}
	dim := len(samples[0])
	if dim == 0 {
		return nil, fmt.Errorf("%w: sample 0 is empty", ErrDimensionMismatch)
	}
	data := make([][]float64, len(samples))
	for i, s := range samples {
		if len(s) != dim {
			return nil, fmt.Errorf("%w: sample %d has %d values, want %d", ErrDimensionMismatch, i, len(s), dim)
		}
		data[i] = append([]float64(nil), s...)
	}

	switch {
	case k < 1:
		k = 1
	case k > len(samples):
		k = len(samples)
	}
	switch {
	case threshold < 0 || math.IsNaN(threshold):
		threshold = 0
	case threshold > 1:
		threshold = 1
	}

	w := &WKM{
		samples:       data,
		numClusters:   k,
		threshold:     threshold,
		dimensions:    dim,
		maxIterations: DefaultMaxIterations,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// NumClusters returns the effective (clamped) number of clusters.
func (w *WKM) NumClusters() int { return w.numClusters }

// Threshold returns the effective (clamped) exploration threshold.
func (w *WKM) Threshold() float64 { return w.threshold }

// Dimensions returns the length of every sample.
func (w *WKM) Dimensions() int { return w.dimensions }

// Len returns the number of samples.
func (w *WKM) Len() int { return len(w.samples) }

// Reset returns a zeroed, uninitialized state sized for this problem.
func (w *WKM) Reset() *State {
	return &State{
		Boundaries:  make([]int, w.numClusters),
		Centroids:   make([][]float64, w.numClusters),
		LocalEnergy: make([]float64, w.numClusters),
		numSamples:  len(w.samples),
	}
}

// Init resets s and places the initial boundaries with the given method.
// Calling it twice with the same method yields the same boundaries.
func (w *WKM) Init(s *State, method InitMethod) {
	*s = *w.Reset()
	s.Boundaries = initialBoundaries(w.samples, w.numClusters, method)
	s.initialized = true
}

// Cluster initializes s if needed and runs the reallocation loop until a pass
// makes no transfers or the iteration cap is reached.
func (w *WKM) Cluster(s *State) error {
	if !s.initialized {
		w.Init(s, w.method)
	}
	if err := w.derivePartition(s); err != nil {
		return err
	}
	return w.optimize(s)
}

// ClusterPartition clusters starting from a caller-supplied partition given
// as the number of consecutive samples in each cluster.
func (w *WKM) ClusterPartition(s *State, sizes []int) error {
	if len(sizes) != w.numClusters {
		return fmt.Errorf("%w: %d cluster sizes for %d clusters", ErrPartitionSize, len(sizes), w.numClusters)
	}
	boundaries, err := boundariesFromSizes(sizes, len(w.samples))
	if err != nil {
		return err
	}
	*s = *w.Reset()
	s.Boundaries = boundaries
	s.initialized = true
	if err := w.derivePartition(s); err != nil {
		return err
	}
	return w.optimize(s)
}

// Run clusters a fresh state.
func (w *WKM) Run() (*State, error) {
	s := w.Reset()
	if err := w.Cluster(s); err != nil {
		return nil, err
	}
	return s, nil
}

func (w *WKM) optimize(s *State) error {
	w.computeEnergies(s)
	if w.numClusters < 2 {
		return nil
	}
	if err := w.reallocate(s); err != nil {
		return err
	}
	w.computeEnergies(s)
	return nil
}
