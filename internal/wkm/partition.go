package wkm

import "fmt"

// derivePartition slices the dataset into the contiguous clusters described
// by s.Boundaries. An empty or out-of-range slice means the boundaries were
// corrupted upstream and clustering cannot continue.
func (w *WKM) derivePartition(s *State) error {
	if len(s.Boundaries) != w.numClusters {
		return fmt.Errorf("%w: %d boundaries for %d clusters", ErrPartitionSize, len(s.Boundaries), w.numClusters)
	}
	if s.Boundaries[0] != 0 {
		return fmt.Errorf("%w: first cluster starts at %d", ErrPartitionSize, s.Boundaries[0])
	}
	if len(s.clusters) != w.numClusters {
		s.clusters = make([][][]float64, w.numClusters)
	}
	for j := range s.clusters {
		start, end := s.ClusterRange(j)
		if start < 0 || end > len(w.samples) {
			return fmt.Errorf("%w: cluster %d spans [%d, %d) of %d samples", ErrPartitionSize, j, start, end, len(w.samples))
		}
		if end <= start {
			return fmt.Errorf("%w: cluster %d", ErrEmptyCluster, j)
		}
		s.clusters[j] = w.samples[start:end]
	}
	return nil
}

// boundariesFromSizes converts per-cluster sizes into absolute start offsets.
func boundariesFromSizes(sizes []int, numSamples int) ([]int, error) {
	boundaries := make([]int, len(sizes))
	offset := 0
	for j, size := range sizes {
		if size <= 0 {
			return nil, fmt.Errorf("%w: cluster %d", ErrEmptyCluster, j)
		}
		boundaries[j] = offset
		offset += size
	}
	if offset != numSamples {
		return nil, fmt.Errorf("%w: sizes sum to %d, dataset has %d samples", ErrPartitionSize, offset, numSamples)
	}
	return boundaries, nil
}
