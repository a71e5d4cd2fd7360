package wkm

// State is the mutable output of a clustering run. A State is owned by a
// single goroutine: every transfer mutates Boundaries, Centroids and
// LocalEnergy in place and later evaluations in the same pass read them back.
type State struct {
	Boundaries   []int
	Centroids    [][]float64
	LocalEnergy  []float64
	TotalEnergy  float64
	Iterations   int
	NumTransfers int
	Cost         int

	initialized bool
	numSamples  int
	clusters    [][][]float64
}

// Initialized reports whether boundaries have been placed.
func (s *State) Initialized() bool {
	return s.initialized
}

// ClusterRange returns the half-open dataset range [start, end) of cluster j.
func (s *State) ClusterRange(j int) (start, end int) {
	start = s.Boundaries[j]
	end = s.numSamples
	if j+1 < len(s.Boundaries) {
		end = s.Boundaries[j+1]
	}
	return start, end
}

// Sizes returns the number of samples in each cluster.
func (s *State) Sizes() []int {
	sizes := make([]int, len(s.Boundaries))
	for j := range sizes {
		start, end := s.ClusterRange(j)
		sizes[j] = end - start
	}
	return sizes
}

// Labels returns the cluster index of every sample in dataset order.
func (s *State) Labels() []int {
	labels := make([]int, s.numSamples)
	for j := range s.Boundaries {
		start, end := s.ClusterRange(j)
		for i := start; i < end; i++ {
			labels[i] = j
		}
	}
	return labels
}
