package wkm

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/wkm/internal/testutil"
)

func TestNew_Errors(t *testing.T) {
	_, err := New(nil, 2, 0)
	assert.True(t, errors.Is(err, ErrEmptyDataset))

	_, err = New([][]float64{{1, 2}, {3}}, 2, 0)
	assert.True(t, errors.Is(err, ErrDimensionMismatch))

	_, err = New([][]float64{{}, {}}, 1, 0)
	assert.True(t, errors.Is(err, ErrDimensionMismatch))
}

func TestNew_Clamping(t *testing.T) {
	samples := testutil.Ramp(3, 1)

	tests := []struct {
		name          string
		k             int
		threshold     float64
		wantK         int
		wantThreshold float64
	}{
		{"in range", 2, 0.5, 2, 0.5},
		{"k above N", 5, 0, 3, 0},
		{"k below 1", 0, 0, 1, 0},
		{"negative k", -4, 0, 1, 0},
		{"negative threshold", 2, -0.1, 2, 0},
		{"threshold above 1", 2, 3, 2, 1},
		{"NaN threshold", 2, math.NaN(), 2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := New(samples, tt.k, tt.threshold)
			require.NoError(t, err)
			assert.Equal(t, tt.wantK, w.NumClusters())
			assert.Equal(t, tt.wantThreshold, w.Threshold())
			assert.Equal(t, 3, w.Len())
			assert.Equal(t, 1, w.Dimensions())
		})
	}
}

func TestCluster_ClampedKYieldsSingletons(t *testing.T) {
	w, err := New([][]float64{{1, 1}, {2, 5}, {9, 0}}, 5, 0)
	require.NoError(t, err)

	s, err := w.Run()
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, s.Boundaries)
}

func TestNew_CopiesSamples(t *testing.T) {
	samples := [][]float64{{0}, {0}, {10}, {10}}
	w, err := New(samples, 2, 0)
	require.NoError(t, err)

	samples[0][0] = 1000
	s, err := w.Run()
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0}, s.Centroids[0], 1e-12)
}

func TestCluster_SingleCluster(t *testing.T) {
	samples := testutil.StepSequence([][]float64{{1, 2}, {4, -1}, {0, 3}}, []int{4, 6, 5}, 0.3)

	w, err := New(samples, 1, 0)
	require.NoError(t, err)
	s, err := w.Run()
	require.NoError(t, err)

	mean := make([]float64, 2)
	for _, p := range samples {
		mean[0] += p[0] / float64(len(samples))
		mean[1] += p[1] / float64(len(samples))
	}
	var want float64
	for _, p := range samples {
		want += (p[0]-mean[0])*(p[0]-mean[0]) + (p[1]-mean[1])*(p[1]-mean[1])
	}

	assert.Equal(t, []int{0}, s.Boundaries)
	assert.Zero(t, s.NumTransfers)
	assert.Zero(t, s.Cost)
	assert.Zero(t, s.Iterations)
	assert.InDelta(t, want, s.TotalEnergy, 1e-9*want)
	assert.InDelta(t, want, s.LocalEnergy[0], 1e-9*want)
	assert.InDeltaSlice(t, mean, s.Centroids[0], 1e-12)
}

func TestCluster_AllSingletons(t *testing.T) {
	samples := testutil.StepSequence([][]float64{{1}, {5}}, []int{3, 3}, 0.5)

	w, err := New(samples, len(samples), 0)
	require.NoError(t, err)
	s, err := w.Run()
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, s.Boundaries)
	for j, e := range s.LocalEnergy {
		assert.Zero(t, e, "cluster %d", j)
		assert.Equal(t, samples[j], s.Centroids[j])
	}
	assert.Zero(t, s.TotalEnergy)
	assert.Zero(t, s.NumTransfers)
	assert.Zero(t, s.Cost)
}

func TestCluster_HandComputed(t *testing.T) {
	samples := [][]float64{{0}, {0}, {0}, {10}, {10}, {10}}
	w, err := New(samples, 2, 0)
	require.NoError(t, err)

	s := w.Reset()
	require.NoError(t, w.ClusterPartition(s, []int{2, 4}))

	// Pass 1 moves sample 2 left (delta -75) and rejects sample 3; pass 2
	// rejects one candidate on each side of the boundary.
	assert.Equal(t, []int{0, 3}, s.Boundaries)
	assert.Equal(t, 1, s.NumTransfers)
	assert.Equal(t, 5, s.Cost)
	assert.Equal(t, 2, s.Iterations)
	assert.InDelta(t, 0, s.TotalEnergy, 1e-12)
	assert.InDeltaSlice(t, []float64{0}, s.Centroids[0], 1e-12)
	assert.InDeltaSlice(t, []float64{10}, s.Centroids[1], 1e-12)
}

func TestCluster_RecoversSteps(t *testing.T) {
	samples := testutil.StepSequence(
		[][]float64{{0, 0}, {8, 8}, {-6, 10}, {15, -4}},
		[]int{7, 9, 8, 8},
		0.2,
	)

	// Equal-count init starts at [0, 8, 16, 24]; one transfer fixes the
	// first boundary.
	w, err := New(samples, 4, 0, WithInitMethod(InitResample))
	require.NoError(t, err)
	s, err := w.Run()
	require.NoError(t, err)

	if diff := cmp.Diff([]int{0, 7, 16, 24}, s.Boundaries); diff != "" {
		t.Errorf("boundaries mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []int{7, 9, 8, 8}, s.Sizes())
	assert.Equal(t, 1, s.NumTransfers)
	assert.Equal(t, 2, s.Iterations)
}

func TestCluster_PartitionTotality(t *testing.T) {
	samples := testutil.StepSequence(
		[][]float64{{0}, {3}, {1}, {7}, {2}},
		[]int{5, 8, 3, 9, 6},
		1.5,
	)
	n := len(samples)

	for k := 1; k <= n; k++ {
		for _, threshold := range []float64{0, 0.3, 1} {
			w, err := New(samples, k, threshold)
			require.NoError(t, err)
			s, err := w.Run()
			require.NoError(t, err)

			require.Len(t, s.Boundaries, k)
			assert.Equal(t, 0, s.Boundaries[0])
			total := 0
			for j, size := range s.Sizes() {
				assert.Positive(t, size, "k=%d cluster %d", k, j)
				total += size
			}
			assert.Equal(t, n, total)

			labels := s.Labels()
			for i := 1; i < n; i++ {
				assert.LessOrEqual(t, labels[i-1], labels[i])
				assert.LessOrEqual(t, labels[i]-labels[i-1], 1)
			}
			assert.Equal(t, k-1, labels[n-1])
		}
	}
}

func TestClusterRange(t *testing.T) {
	w, err := New(testutil.Ramp(10, 1), 3, 0)
	require.NoError(t, err)
	s := w.Reset()
	require.NoError(t, w.ClusterPartition(s, []int{3, 3, 4}))

	start, end := s.ClusterRange(0)
	assert.Equal(t, [2]int{0, 3}, [2]int{start, end})
	start, end = s.ClusterRange(2)
	assert.Equal(t, 10, end)
	assert.Less(t, start, end)
}

func TestClusterPartition_Errors(t *testing.T) {
	w, err := New(testutil.Ramp(6, 1), 3, 0)
	require.NoError(t, err)

	tests := []struct {
		name  string
		sizes []int
		want  error
	}{
		{"empty cluster", []int{3, 0, 3}, ErrEmptyCluster},
		{"negative size", []int{4, -1, 3}, ErrEmptyCluster},
		{"short", []int{1, 1, 1}, ErrPartitionSize},
		{"long", []int{3, 3, 3}, ErrPartitionSize},
		{"wrong cluster count", []int{3, 3}, ErrPartitionSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := w.ClusterPartition(w.Reset(), tt.sizes)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestCluster_CorruptBoundaries(t *testing.T) {
	w, err := New(testutil.Ramp(6, 1), 3, 0)
	require.NoError(t, err)

	s := w.Reset()
	w.Init(s, InitResample)
	s.Boundaries = []int{0, 3, 3}
	err = w.Cluster(s)
	assert.True(t, errors.Is(err, ErrEmptyCluster), "got %v", err)
	assert.Contains(t, err.Error(), "cluster 1")

	s.Boundaries = []int{0, 2, 9}
	assert.True(t, errors.Is(w.Cluster(s), ErrPartitionSize))

	s.Boundaries = []int{0, 2}
	assert.True(t, errors.Is(w.Cluster(s), ErrPartitionSize))
}

func TestCluster_LeadingSamplesUncovered(t *testing.T) {
	w, err := New(testutil.Ramp(5, 1), 2, 0)
	require.NoError(t, err)

	s := w.Reset()
	w.Init(s, InitResample)
	s.Boundaries = []int{1, 3}
	err = w.Cluster(s)
	assert.True(t, errors.Is(err, ErrPartitionSize), "got %v", err)
	assert.Contains(t, err.Error(), "first cluster starts at 1")
}

func TestCluster_ReusesInitializedState(t *testing.T) {
	samples := testutil.StepSequence([][]float64{{0}, {5}}, []int{6, 6}, 0.1)
	w, err := New(samples, 2, 0)
	require.NoError(t, err)

	s := w.Reset()
	w.Init(s, InitResample)
	require.NoError(t, w.Cluster(s))
	first := append([]int(nil), s.Boundaries...)

	// A converged state stays put: one pass, no transfers.
	s.Iterations, s.NumTransfers, s.Cost = 0, 0, 0
	require.NoError(t, w.Cluster(s))
	assert.Equal(t, first, s.Boundaries)
	assert.Zero(t, s.NumTransfers)
	assert.Equal(t, 1, s.Iterations)
}

func TestRun_ConcurrentStatesShareDataset(t *testing.T) {
	samples := testutil.StepSequence(
		[][]float64{{1, 0}, {4, 4}, {0, 9}},
		[]int{10, 7, 13},
		0.8,
	)
	w, err := New(samples, 3, 0.2)
	require.NoError(t, err)

	want, err := w.Run()
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]*State, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := w.Run()
			if err != nil {
				t.Errorf("run %d: %v", i, err)
				return
			}
			results[i] = s
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		if diff := cmp.Diff(want, got, cmpopts.IgnoreUnexported(State{})); diff != "" {
			t.Errorf("run %d differs (-want +got):\n%s", i, diff)
		}
	}
}
