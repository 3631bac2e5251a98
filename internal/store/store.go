// Package store persists benchmark sweep results in SQLite so simulator and
// hardware sweeps can be compared across invocations.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/theapemachine/qsurv"
	_ "modernc.org/sqlite" // SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    code TEXT NOT NULL,
    shots INTEGER NOT NULL,
    p_leak REAL NOT NULL,
    created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS rates (
    run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    strategy TEXT NOT NULL,
    noise REAL NOT NULL,
    rate REAL NOT NULL,
    PRIMARY KEY (run_id, strategy, noise)
);
`

// Store wraps a SQLite database holding sweep results.
type Store struct {
	db *sql.DB
}

// Open creates or opens the database at path and ensures the schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// SQLite works best with a single writer.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// SaveSweep records one sweep as a run with one row per successful
// (strategy, noise) point and returns the run id.
func (s *Store) SaveSweep(ctx context.Context, shots int, pLeak float64, res *qsurv.SweepResult) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	row, err := tx.ExecContext(ctx,
		`INSERT INTO runs (code, shots, p_leak, created_at) VALUES (?, ?, ?, ?)`,
		res.Code.Name, shots, pLeak, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	runID, err := row.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}

	for _, p := range res.Levels {
		for _, strat := range qsurv.Strategies {
			rate, ok := res.Rate(strat, p)
			if !ok {
				continue
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO rates (run_id, strategy, noise, rate) VALUES (?, ?, ?, ?)`,
				runID, strat.String(), p, rate,
			); err != nil {
				return 0, fmt.Errorf("insert rate: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return runID, nil
}

// RateRow is one persisted (strategy, noise, rate) point.
type RateRow struct {
	Strategy string
	Noise    float64
	Rate     float64
}

// Rates returns every point of a run ordered by noise level then strategy.
func (s *Store) Rates(ctx context.Context, runID int64) ([]RateRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT strategy, noise, rate FROM rates WHERE run_id = ? ORDER BY noise, strategy`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query rates: %w", err)
	}
	defer rows.Close()

	var out []RateRow
	for rows.Next() {
		var r RateRow
		if err := rows.Scan(&r.Strategy, &r.Noise, &r.Rate); err != nil {
			return nil, fmt.Errorf("scan rate: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
