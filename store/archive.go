// Package store keeps a sqlite snapshot of the launch table so the dashboard
// can start without reaching the CSV source.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/glebarez/go-sqlite"

	"spacex-dash/launches"
)

// DefaultPath is used when no archive path is configured but one is needed.
const DefaultPath = "./spacex_launches.db"

const schema = `
CREATE TABLE IF NOT EXISTS launch_records (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    flight_number INTEGER,
    payload_mass REAL NOT NULL,
    launch_site TEXT NOT NULL,
    booster_version TEXT,
    orbit TEXT,
    class INTEGER NOT NULL,
    imported_at DATETIME DEFAULT CURRENT_TIMESTAMP
);`

// Archive is a sqlite-backed launches.RecordStore.
type Archive struct {
	db *sql.DB
}

// Open creates the database file and schema if needed.
func Open(path string) (*Archive, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create archive dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open archive %q: %w", path, err)
	}
	// One writer at a time; sqlite serialises anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Archive{db: db}, nil
}

func (a *Archive) Close() error { return a.db.Close() }

// ReplaceRecords swaps the archived table for records in a single transaction.
func (a *Archive) ReplaceRecords(ctx context.Context, records []launches.LaunchRecord) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM launch_records`); err != nil {
		return fmt.Errorf("clear archive: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO launch_records (flight_number, payload_mass, launch_site, booster_version, orbit, class)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, r.FlightNumber, r.PayloadMass, r.LaunchSite, r.BoosterVersion, r.Orbit, int(r.Class)); err != nil {
			return fmt.Errorf("insert record: %w", err)
		}
	}
	return tx.Commit()
}

// LoadRecords returns the archived records in insertion order.
func (a *Archive) LoadRecords(ctx context.Context) ([]launches.LaunchRecord, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT flight_number, payload_mass, launch_site, booster_version, orbit, class
		FROM launch_records ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []launches.LaunchRecord
	for rows.Next() {
		var (
			r       launches.LaunchRecord
			flight  sql.NullInt64
			booster sql.NullString
			orbit   sql.NullString
			class   int
		)
		if err := rows.Scan(&flight, &r.PayloadMass, &r.LaunchSite, &booster, &orbit, &class); err != nil {
			return nil, err
		}
		r.FlightNumber = int(flight.Int64)
		r.BoosterVersion = booster.String
		r.Orbit = orbit.String
		r.Class = launches.Outcome(class)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Count returns the number of archived records.
func (a *Archive) Count(ctx context.Context) (int, error) {
	var n int
	err := a.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM launch_records`).Scan(&n)
	return n, err
}
