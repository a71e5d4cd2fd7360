// Command wkm segments a sequentially ordered dataset into K contiguous
// clusters with Warped K-Means.
//
//	wkm [flags] <file|-> <K> [threshold]
//	wkm [flags] -db sensor_data.db <K> [threshold]
//	wkm import -db sensor_data.db <file|->
//	wkm migrate -db sensor_data.db <up|down|status|version N|force N>
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/banshee-data/wkm/internal/config"
	"github.com/banshee-data/wkm/internal/dataset"
	"github.com/banshee-data/wkm/internal/db"
	"github.com/banshee-data/wkm/internal/fsutil"
	"github.com/banshee-data/wkm/internal/monitoring"
	"github.com/banshee-data/wkm/internal/report"
	"github.com/banshee-data/wkm/internal/timeutil"
	"github.com/banshee-data/wkm/internal/units"
	"github.com/banshee-data/wkm/internal/version"
	"github.com/banshee-data/wkm/internal/whiten"
	"github.com/banshee-data/wkm/internal/wkm"
)

const usageLine = "usage: wkm [flags] <file|-> <K> [threshold]"

var errUsage = errors.New("usage")

var clock timeutil.Clock = timeutil.RealClock{}

// options is the merged result of the config file, flags and positional
// arguments.
type options struct {
	source    string
	output    string
	dbPath    string
	query     dataset.ObservationQuery
	k         int
	threshold float64
	method    wkm.InitMethod
	maxIter   int
	whiten    bool
	format    string
	verbose   bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	prevLogf, prevVerbose := monitoring.Logf, monitoring.Verbose()
	defer func() {
		monitoring.SetLogger(prevLogf)
		monitoring.SetVerbose(prevVerbose)
	}()
	monitoring.SetLogger(log.New(stderr, "wkm: ", 0).Printf)

	if len(args) > 0 {
		switch args[0] {
		case "import":
			return runImport(args[1:], stdin, stdout, stderr)
		case "migrate":
			return runMigrate(args[1:], stdout, stderr)
		}
	}

	opts, err := parseArgs(args, fsutil.OSFileSystem{}, stdout, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(stderr, "wkm: %v\n", err)
		}
		return 1
	}
	if opts == nil {
		// -version
		return 0
	}
	monitoring.SetVerbose(opts.verbose)

	if err := cluster(opts, fsutil.OSFileSystem{}, stdin, stdout); err != nil {
		monitoring.Logf("%v", err)
		return 2
	}
	return 0
}

func parseArgs(args []string, fsys fsutil.FileSystem, stdout, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("wkm", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		initMethod  = fs.String("init", "default", "Boundary initialization: default, ts or eq")
		whitenFlag  = fs.Bool("whiten", false, "Divide every dimension by its standard deviation before clustering")
		maxIter     = fs.Int("max-iter", wkm.DefaultMaxIterations, "Maximum number of reallocation passes")
		configFile  = fs.String("config", "", "Path to a JSON clustering config")
		format      = fs.String("format", "text", "Output format: text or json")
		dbPath      = fs.String("db", "", "Read the sequence from this observation store instead of a file")
		columns     = fs.String("columns", dataset.ColumnSpeed, "Observation columns used as dimensions (with -db)")
		from        = fs.String("from", "", "Earliest uptime to load (with -db)")
		to          = fs.String("to", "", "Latest uptime to load (with -db)")
		speedUnits  = fs.String("units", units.MPS, "Speed units for the speed column: "+strings.Join(units.ValidUnits, ", ")+" (with -db)")
		output      = fs.String("o", "", "Write the report to this file instead of stdout")
		verbose     = fs.Bool("verbose", false, "Log every reallocation pass")
		showVersion = fs.Bool("version", false, "Print version and exit")
	)
	fs.Usage = func() {
		fmt.Fprintln(stderr, usageLine)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if *showVersion {
		fmt.Fprintln(stdout, version.String())
		return nil, nil
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	cfg := config.EmptyClusterConfig()
	if *configFile != "" {
		loaded, err := config.LoadClusterConfig(fsys, *configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if set["init"] {
		cfg.InitMethod = initMethod
	}
	if set["whiten"] {
		cfg.Whiten = whitenFlag
	}
	if set["max-iter"] {
		cfg.MaxIterations = maxIter
	}
	if set["format"] {
		cfg.Format = format
	}

	pos := fs.Args()
	opts := &options{dbPath: *dbPath, output: *output, verbose: *verbose}
	if opts.dbPath == "" {
		if len(pos) == 0 {
			fs.Usage()
			return nil, errUsage
		}
		opts.source, pos = pos[0], pos[1:]
	} else {
		cols, err := dataset.ParseColumns(*columns)
		if err != nil {
			return nil, err
		}
		opts.query.Columns = cols
		if opts.query.Units, err = units.Parse(*speedUnits); err != nil {
			return nil, err
		}
		if opts.query.From, err = parseBound("from", *from); err != nil {
			return nil, err
		}
		if opts.query.To, err = parseBound("to", *to); err != nil {
			return nil, err
		}
	}

	if len(pos) > 2 || (len(pos) == 0 && cfg.NumClusters == nil) {
		fs.Usage()
		return nil, errUsage
	}
	if len(pos) > 0 {
		k, err := strconv.Atoi(pos[0])
		if err != nil {
			return nil, fmt.Errorf("invalid K %q: %w", pos[0], err)
		}
		cfg.NumClusters = &k
	}
	if len(pos) > 1 {
		t, err := strconv.ParseFloat(pos[1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid threshold %q: %w", pos[1], err)
		}
		cfg.Threshold = &t
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts.k = cfg.GetNumClusters()
	opts.threshold = cfg.GetThreshold()
	opts.method = cfg.GetInitMethod()
	opts.maxIter = cfg.GetMaxIterations()
	opts.whiten = cfg.GetWhiten()
	opts.format = cfg.GetFormat()
	return opts, nil
}

func parseBound(name, s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid -%s %q: %w", name, s, err)
	}
	return &v, nil
}

func cluster(opts *options, fsys fsutil.FileSystem, stdin io.Reader, stdout io.Writer) error {
	samples, err := loadSamples(opts, fsys, stdin)
	if err != nil {
		return err
	}
	if opts.whiten {
		samples = whiten.Whiten(samples)
	}

	w, err := wkm.New(samples, opts.k, opts.threshold,
		wkm.WithInitMethod(opts.method),
		wkm.WithMaxIterations(opts.maxIter),
		wkm.WithObserver(passLogger()),
	)
	if err != nil {
		return err
	}
	monitoring.Verbosef("clustering %d samples of dimension %d into %d clusters (threshold %g, init %s)",
		w.Len(), w.Dimensions(), w.NumClusters(), w.Threshold(), opts.method)

	start := clock.Now()
	s, err := w.Run()
	if err != nil {
		return err
	}
	elapsed := clock.Since(start)
	monitoring.Verbosef("converged after %d passes, %d transfers, %d evaluations in %v",
		s.Iterations, s.NumTransfers, s.Cost, elapsed)

	r := report.NewResult(w, s, opts.method, opts.whiten)
	r.SetTiming(start, elapsed)
	if opts.output == "" {
		return report.Write(stdout, r, opts.format)
	}
	return writeReport(fsys, opts.output, r, opts.format)
}

// writeReport writes r to path. A failed Close is returned as an error.
func writeReport(fsys fsutil.FileSystem, path string, r *report.Result, format string) (err error) {
	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close report file: %w", cerr)
		}
	}()
	if err := report.Write(f, r, format); err != nil {
		return err
	}
	monitoring.Verbosef("wrote %s report to %s", format, path)
	return nil
}

func loadSamples(opts *options, fsys fsutil.FileSystem, stdin io.Reader) ([][]float64, error) {
	if opts.dbPath == "" {
		return dataset.NewLoader(fsys, stdin).Load(opts.source)
	}

	store, err := db.NewDB(opts.dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open observation store: %w", err)
	}
	defer store.Close()
	return dataset.LoadObservations(store, opts.query)
}

func passLogger() wkm.Observer {
	return wkm.ObserverFuncs{
		OnPass: func(p wkm.Pass) {
			monitoring.Verbosef("pass %d: %d transfers, energy %g", p.Iteration, p.Transfers, p.TotalEnergy)
		},
	}
}

// subcommandFlags parses the -db flag shared by the store subcommands.
func subcommandFlags(name string, args []string, stderr io.Writer) (dbPath string, rest []string, err error) {
	fs := flag.NewFlagSet("wkm "+name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	path := fs.String("db", "sensor_data.db", "Path to the observation store")
	verbose := fs.Bool("verbose", false, "Enable verbose logging")
	if err := fs.Parse(args); err != nil {
		return "", nil, err
	}
	monitoring.SetVerbose(*verbose)
	return *path, fs.Args(), nil
}

func runImport(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	dbPath, rest, err := subcommandFlags("import", args, stderr)
	if err != nil {
		return 1
	}
	if len(rest) != 1 {
		fmt.Fprintln(stderr, "usage: wkm import -db <path> <file|->")
		return 1
	}

	var in io.Reader = stdin
	if rest[0] != dataset.Stdin {
		f, err := fsutil.OSFileSystem{}.Open(rest[0])
		if err != nil {
			monitoring.Logf("failed to open sensor log: %v", err)
			return 2
		}
		defer f.Close()
		in = f
	}

	store, err := db.NewDB(dbPath)
	if err != nil {
		monitoring.Logf("failed to open observation store: %v", err)
		return 2
	}
	defer store.Close()

	n, err := dataset.ImportObservations(store, in)
	if err != nil {
		monitoring.Logf("import failed: %v", err)
		return 2
	}
	fmt.Fprintf(stdout, "imported %d observations into %s\n", n, dbPath)
	return 0
}

func runMigrate(args []string, stdout, stderr io.Writer) int {
	dbPath, rest, err := subcommandFlags("migrate", args, stderr)
	if err != nil {
		return 1
	}
	if err := db.RunMigrateCommand(rest, dbPath, stdout); err != nil {
		monitoring.Logf("%v", err)
		if errors.Is(err, db.ErrMigrateUsage) {
			return 1
		}
		return 2
	}
	return 0
}
