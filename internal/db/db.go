// Package db is the SQLite observation store that sequences are loaded from.
// Readings are kept in the order the sensor produced them so that a run of
// rows maps directly onto an ordered dataset.
package db

import (
	"database/sql"
	"embed"
	"fmt"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type DB struct {
	*sql.DB
}

// NewDB opens (or creates) the database at path and applies any pending
// schema migrations.
func NewDB(path string) (*DB, error) {
	db, err := OpenDB(path)
	if err != nil {
		return nil, err
	}

	if err := db.MigrateUp(); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// OpenDB opens the database at path without touching the schema. The migrate
// subcommand uses it so that migrations stay under explicit control.
func OpenDB(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return &DB{sqlDB}, nil
}

// Observation is one radar reading.
type Observation struct {
	Uptime    float64
	Magnitude float64
	Speed     float64
}

func (o *Observation) String() string {
	return fmt.Sprintf("Uptime: %f, Magnitude: %f, Speed: %f", o.Uptime, o.Magnitude, o.Speed)
}

// RecordObservations inserts all readings in a single transaction.
func (db *DB) RecordObservations(obs []Observation) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT INTO data (uptime, magnitude, speed) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, o := range obs {
		if _, err := stmt.Exec(o.Uptime, o.Magnitude, o.Speed); err != nil {
			return fmt.Errorf("failed to insert observation %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// Observations returns readings in ascending uptime order, optionally
// restricted to the closed window [from, to]. Ties keep insertion order.
func (db *DB) Observations(from, to *float64) ([]Observation, error) {
	query := "SELECT uptime, magnitude, speed FROM data"
	var (
		where []string
		args  []any
	)
	if from != nil {
		where = append(where, "uptime >= ?")
		args = append(args, *from)
	}
	if to != nil {
		where = append(where, "uptime <= ?")
		args = append(args, *to)
	}
	for i, clause := range where {
		if i == 0 {
			query += " WHERE " + clause
		} else {
			query += " AND " + clause
		}
	}
	query += " ORDER BY uptime ASC, rowid ASC"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var observations []Observation
	for rows.Next() {
		var o Observation
		if err := rows.Scan(&o.Uptime, &o.Magnitude, &o.Speed); err != nil {
			return nil, err
		}
		observations = append(observations, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return observations, nil
}
