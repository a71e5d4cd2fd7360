package wkm

import "math"

// reallocate repeatedly sweeps the clusters in index order and moves points
// across boundaries while doing so lowers the total energy. Each accepted
// transfer is visible to every later evaluation in the same pass.
func (w *WKM) reallocate(s *State) error {
	for {
		transfers := 0
		for j := 0; j < w.numClusters; j++ {
			if len(s.clusters[j]) < 2 {
				continue
			}

			// Left half: hand the leading points to cluster j-1.
			if j > 0 {
				points, start := s.clusters[j], s.Boundaries[j]
				last := int(math.Floor(float64(len(points)) / 2 * (1 - w.threshold)))
				for i := 0; i <= last; i++ {
					moved, err := w.transfer(s, points[i], start+i, j, j-1)
					if err != nil {
						return err
					}
					if !moved {
						break
					}
					transfers++
				}
			}

			// Right half: hand the trailing points to cluster j+1.
			if j+1 < w.numClusters {
				points, start := s.clusters[j], s.Boundaries[j]
				first := int(math.Floor(float64(len(points))/2*(1+w.threshold))) - 1
				for i := len(points) - 1; i >= first; i-- {
					moved, err := w.transfer(s, points[i], start+i, j, j+1)
					if err != nil {
						return err
					}
					if !moved {
						break
					}
					transfers++
				}
			}
		}

		s.Iterations++
		if w.observer != nil {
			w.observer.Pass(Pass{Iteration: s.Iterations, Transfers: transfers, TotalEnergy: s.TotalEnergy})
		}
		if transfers == 0 || s.Iterations >= w.maxIterations {
			return nil
		}
	}
}

// transfer evaluates moving sample (dataset index idx) from cluster j to the
// adjacent cluster best and applies the move when it lowers the energy.
// Clusters with fewer than two points are never evaluated as donors.
func (w *WKM) transfer(s *State, sample []float64, idx, j, best int) (bool, error) {
	n := len(s.clusters[j])
	if n < 2 {
		return false, nil
	}
	m := len(s.clusters[best])

	j1 := float64(m) / float64(m+1) * SqDist(sample, s.Centroids[best])
	j2 := float64(n) / float64(n-1) * SqDist(sample, s.Centroids[j])
	delta := j1 - j2
	s.Cost++

	accepted := delta < 0
	if w.observer != nil {
		w.observer.Candidate(Candidate{
			Iteration: s.Iterations + 1,
			Index:     idx,
			From:      j,
			To:        best,
			J1:        j1,
			J2:        j2,
			Delta:     delta,
			Accepted:  accepted,
		})
	}
	if !accepted {
		return false, nil
	}

	s.NumTransfers++
	if best < j {
		s.Boundaries[j]++
	} else {
		s.Boundaries[best]--
	}
	incrementalMeans(s.Centroids, sample, j, best, n, m)
	s.LocalEnergy[best] += j1
	s.LocalEnergy[j] -= j2
	s.TotalEnergy += delta
	return true, w.derivePartition(s)
}
