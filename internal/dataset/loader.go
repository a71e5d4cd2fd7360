package dataset

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/banshee-data/wkm/internal/fsutil"
)

// Stdin is the path that selects the Loader's Stdin reader.
const Stdin = "-"

// Loader reads datasets from files or standard input.
type Loader struct {
	FS    fsutil.FileSystem
	Stdin io.Reader

	// CSVStart and CSVEnd select the columns read from .csv files.
	// A negative CSVEnd reads every column from CSVStart onwards.
	CSVStart int
	CSVEnd   int
}

// NewLoader returns a Loader over fsys reading "-" from stdin and every CSV
// column.
func NewLoader(fsys fsutil.FileSystem, stdin io.Reader) *Loader {
	return &Loader{FS: fsys, Stdin: stdin, CSVEnd: -1}
}

// Load reads the dataset at path. "-" reads whitespace-separated rows from
// Stdin, files ending in .csv go through ImportCSV and anything else is read
// as whitespace-separated rows.
func (l *Loader) Load(path string) ([][]float64, error) {
	if path == Stdin {
		if l.Stdin == nil {
			return nil, fmt.Errorf("no standard input configured")
		}
		return ReadText(l.Stdin)
	}

	f, err := l.FS.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	var samples [][]float64
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		samples, err = ImportCSV(f, l.CSVStart, l.CSVEnd)
	} else {
		samples, err = ReadText(f)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return samples, nil
}
