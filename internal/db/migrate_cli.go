package db

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/banshee-data/wkm/internal/monitoring"
)

// ErrMigrateUsage is returned when the migrate subcommand is called without a
// recognised action or with a missing argument.
var ErrMigrateUsage = errors.New("invalid migrate command")

// RunMigrateCommand handles the 'migrate' subcommand dispatching. Status
// output goes to out; progress is logged through monitoring.Logf.
func RunMigrateCommand(args []string, dbPath string, out io.Writer) error {
	if len(args) < 1 {
		PrintMigrateHelp(out)
		return ErrMigrateUsage
	}

	action := args[0]
	if action == "help" {
		PrintMigrateHelp(out)
		return nil
	}

	// Open without running migrations; the action decides the schema.
	database, err := OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	switch action {
	case "up":
		monitoring.Logf("Running migrations...")
		if err := database.MigrateUp(); err != nil {
			return err
		}
		return printMigrateStatus(database, out)

	case "down":
		monitoring.Logf("Rolling back one migration...")
		if err := database.MigrateDown(); err != nil {
			return err
		}
		return printMigrateStatus(database, out)

	case "status":
		return printMigrateStatus(database, out)

	case "version":
		if len(args) < 2 {
			return fmt.Errorf("%w: usage: wkm migrate version <N>", ErrMigrateUsage)
		}
		target, err := strconv.ParseUint(args[1], 10, 0)
		if err != nil {
			return fmt.Errorf("%w: invalid version number %q", ErrMigrateUsage, args[1])
		}
		monitoring.Logf("Migrating to version %d...", target)
		if err := database.MigrateTo(uint(target)); err != nil {
			return err
		}
		return printMigrateStatus(database, out)

	case "force":
		if len(args) < 2 {
			return fmt.Errorf("%w: usage: wkm migrate force <N>", ErrMigrateUsage)
		}
		target, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("%w: invalid version number %q", ErrMigrateUsage, args[1])
		}
		monitoring.Logf("Forcing migration version to %d", target)
		if err := database.MigrateForce(target); err != nil {
			return err
		}
		return printMigrateStatus(database, out)
	}

	PrintMigrateHelp(out)
	return fmt.Errorf("%w: unknown action %q", ErrMigrateUsage, action)
}

func printMigrateStatus(database *DB, out io.Writer) error {
	version, dirty, err := database.MigrateVersion()
	if err != nil {
		return fmt.Errorf("failed to get migration status: %w", err)
	}
	latest, err := LatestMigrationVersion()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Current version: %d\n", version)
	fmt.Fprintf(out, "Latest version: %d\n", latest)
	fmt.Fprintf(out, "Dirty: %v\n", dirty)
	if dirty {
		fmt.Fprintln(out, "WARNING: a migration failed mid-execution; inspect the database and run: wkm migrate force <version>")
	}
	return nil
}

// PrintMigrateHelp writes the migrate subcommand usage to out.
func PrintMigrateHelp(out io.Writer) {
	fmt.Fprintln(out, "Usage: wkm migrate -db <path> <command>")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  up              Apply all pending migrations")
	fmt.Fprintln(out, "  down            Rollback one migration")
	fmt.Fprintln(out, "  status          Show current migration version")
	fmt.Fprintln(out, "  version <N>     Migrate to specific version N")
	fmt.Fprintln(out, "  force <N>       Force migration version to N (recovery only)")
	fmt.Fprintln(out, "  help            Show this help message")
}
