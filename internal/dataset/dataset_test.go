package dataset

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/wkm/internal/db"
	"github.com/banshee-data/wkm/internal/fsutil"
	"github.com/banshee-data/wkm/internal/monitoring"
	"github.com/banshee-data/wkm/internal/testutil"
	"github.com/banshee-data/wkm/internal/units"
	"github.com/banshee-data/wkm/internal/wkm"
)

func TestReadText(t *testing.T) {
	input := "1 2 3\n\n  2\t3 4  \n6 5 6\n\n"

	got, err := ReadText(strings.NewReader(input))
	require.NoError(t, err)

	want := [][]float64{{1, 2, 3}, {2, 3, 4}, {6, 5, 6}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ReadText mismatch (-want +got):\n%s", diff)
	}
}

func TestReadText_Empty(t *testing.T) {
	got, err := ReadText(strings.NewReader("\n\n   \n"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReadText_Errors(t *testing.T) {
	_, err := ReadText(strings.NewReader("1 2\n3 x\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2, field 2")

	_, err = ReadText(strings.NewReader("1 2\n\n3 4 5\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, wkm.ErrDimensionMismatch))
	assert.Contains(t, err.Error(), "line 3")
}

func TestImportCSV(t *testing.T) {
	input := "time,speed,magnitude\n0,10.5,30\n1,11,31\n2,bad,32\n3,12,33\n"

	got, err := ImportCSV(strings.NewReader(input), 1, 2)
	require.NoError(t, err)
	want := [][]float64{{10.5, 30}, {11, 31}, {12, 33}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ImportCSV mismatch (-want +got):\n%s", diff)
	}

	got, err = ImportCSV(strings.NewReader(input), 0, -1)
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Equal(t, []float64{3, 12, 33}, got[2])
}

func TestImportCSV_InvalidRange(t *testing.T) {
	_, err := ImportCSV(strings.NewReader("1,2\n"), -1, 1)
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = ImportCSV(strings.NewReader("1,2\n"), 2, 1)
	assert.ErrorIs(t, err, ErrInvalidRange)

}

func TestImportCSV_SkipsShortRecords(t *testing.T) {
	input := "speed,magnitude\n# sensor 4\n10,30\n11,31\n12\n"

	got, err := ImportCSV(strings.NewReader(input), 0, 1)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{10, 30}, {11, 31}}, got)

	got, err = ImportCSV(strings.NewReader("1,2\n3\n4,5,6\n"), 1, -1)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{2}, {5, 6}}, got)

	got, err = ImportCSV(strings.NewReader("1,2\n"), 0, 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoader(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	mfs.WriteFile("/data/seq.txt", []byte("1 1\n2 2\n"))
	mfs.WriteFile("/data/seq.csv", []byte("a,b,c\n1,2,3\n4,5,6\n"))

	l := NewLoader(mfs, strings.NewReader("7\n8\n9\n"))

	got, err := l.Load("/data/seq.txt")
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 1}, {2, 2}}, got)

	got, err = l.Load("/data/seq.csv")
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 2, 3}, {4, 5, 6}}, got)

	l.CSVStart, l.CSVEnd = 1, 1
	got, err = l.Load("/data/seq.csv")
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{2}, {5}}, got)

	got, err = l.Load(Stdin)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{7}, {8}, {9}}, got)

	_, err = l.Load("/data/missing.txt")
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestLoader_NoStdin(t *testing.T) {
	l := NewLoader(fsutil.NewMemoryFileSystem(), nil)
	_, err := l.Load(Stdin)
	assert.Error(t, err)
}

func TestLoader_OSFileSystem(t *testing.T) {
	samples := testutil.StepSequence([][]float64{{0, 0}, {4, 4}}, []int{3, 3}, 0.1)
	path := testutil.WriteDataFile(t, t.TempDir(), "steps.txt", samples)

	got, err := NewLoader(fsutil.OSFileSystem{}, nil).Load(path)
	require.NoError(t, err)
	require.Len(t, got, len(samples))
	for i := range samples {
		assert.InDeltaSlice(t, samples[i], got[i], 1e-12)
	}
}

func TestParseColumns(t *testing.T) {
	cols, err := ParseColumns(" Speed, magnitude ,,")
	require.NoError(t, err)
	assert.Equal(t, []string{ColumnSpeed, ColumnMagnitude}, cols)

	_, err = ParseColumns("speed,heading")
	assert.Error(t, err)

	_, err = ParseColumns(" , ")
	assert.Error(t, err)
}

func TestLoadObservations(t *testing.T) {
	original := monitoring.Logf
	monitoring.SetLogger(t.Logf)
	defer monitoring.SetLogger(original)

	store, err := db.NewDB(filepath.Join(t.TempDir(), "obs.db"))
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.RecordObservations([]db.Observation{
		{Uptime: 2, Magnitude: 21, Speed: 12},
		{Uptime: 1, Magnitude: 20, Speed: 11},
		{Uptime: 3, Magnitude: 22, Speed: 13},
	}))

	got, err := LoadObservations(store, ObservationQuery{})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{11}, {12}, {13}}, got)

	from := 2.0
	got, err = LoadObservations(store, ObservationQuery{
		Columns: []string{ColumnUptime, ColumnSpeed, ColumnMagnitude},
		From:    &from,
	})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{2, 12, 21}, {3, 13, 22}}, got)

	got, err = LoadObservations(store, ObservationQuery{Units: units.KPH})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.InDelta(t, 39.6, got[0][0], 1e-9)
	assert.InDelta(t, 46.8, got[2][0], 1e-9)

	_, err = LoadObservations(store, ObservationQuery{Columns: []string{"heading"}})
	assert.Error(t, err)
}
