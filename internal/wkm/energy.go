package wkm

// computeEnergies recomputes every centroid and the squared-error energies
// from the current partition. It discards any drift accumulated by the
// incremental updates.
func (w *WKM) computeEnergies(s *State) {
	s.TotalEnergy = 0
	for j, points := range s.clusters {
		s.Centroids[j] = Centroid(points)
		energy := 0.0
		for _, p := range points {
			energy += SqDist(p, s.Centroids[j])
		}
		s.LocalEnergy[j] = energy
		s.TotalEnergy += energy
	}
}
