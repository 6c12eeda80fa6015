// Package runlog persists training runs and their per-epoch losses to a
// SQLite database, giving experiments durable history without any external
// service.
package runlog

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Run is one training invocation.
type Run struct {
	ID         string
	Algorithm  string
	NumSteps   int
	K          int
	StartedAt  time.Time
	FinishedAt *time.Time
}

// Epoch is one recorded epoch of a run.
type Epoch struct {
	RunID      string
	Number     int
	Loss       float64
	Accuracy   float64
	RecordedAt time.Time
}

// Store is a SQLite-backed run log. Safe for concurrent use.
type Store struct {
	mu sync.Mutex
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	algorithm   TEXT NOT NULL,
	num_steps   INTEGER NOT NULL,
	k           INTEGER NOT NULL,
	started_at  TIMESTAMP NOT NULL,
	finished_at TIMESTAMP
);
CREATE TABLE IF NOT EXISTS epochs (
	run_id      TEXT NOT NULL REFERENCES runs(id),
	number      INTEGER NOT NULL,
	loss        REAL NOT NULL,
	accuracy    REAL NOT NULL,
	recorded_at TIMESTAMP NOT NULL,
	PRIMARY KEY (run_id, number)
);
`

// Open opens or creates the run log at path. Use ":memory:" for an ephemeral
// store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open run log: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize run log schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// StartRun records a new training run and returns its generated ID.
func (s *Store) StartRun(algorithm string, numSteps, k int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO runs (id, algorithm, num_steps, k, started_at) VALUES (?, ?, ?, ?, ?)`,
		id, algorithm, numSteps, k, time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to record run: %w", err)
	}
	return id, nil
}

// RecordEpoch appends one epoch's metrics to a run.
func (s *Store) RecordEpoch(runID string, number int, loss, accuracy float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO epochs (run_id, number, loss, accuracy, recorded_at) VALUES (?, ?, ?, ?, ?)`,
		runID, number, loss, accuracy, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record epoch %d: %w", number, err)
	}
	return nil
}

// FinishRun marks a run as completed.
func (s *Store) FinishRun(runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`UPDATE runs SET finished_at = ? WHERE id = ?`, time.Now().UTC(), runID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("unknown run %q", runID)
	}
	return nil
}

// GetRun fetches a single run by ID.
func (s *Store) GetRun(runID string) (*Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRow(
		`SELECT id, algorithm, num_steps, k, started_at, finished_at FROM runs WHERE id = ?`, runID,
	)
	var run Run
	if err := row.Scan(&run.ID, &run.Algorithm, &run.NumSteps, &run.K, &run.StartedAt, &run.FinishedAt); err != nil {
		return nil, fmt.Errorf("failed to load run %q: %w", runID, err)
	}
	return &run, nil
}

// Epochs returns a run's epochs in order.
func (s *Store) Epochs(runID string) ([]Epoch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(
		`SELECT run_id, number, loss, accuracy, recorded_at FROM epochs WHERE run_id = ? ORDER BY number`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load epochs: %w", err)
	}
	defer rows.Close()

	var epochs []Epoch
	for rows.Next() {
		var e Epoch
		if err := rows.Scan(&e.RunID, &e.Number, &e.Loss, &e.Accuracy, &e.RecordedAt); err != nil {
			return nil, err
		}
		epochs = append(epochs, e)
	}
	return epochs, rows.Err()
}
