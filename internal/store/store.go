// Package store persists the run history for every generation attempt.
// Each pipeline run writes one row per component generated so later
// invocations can answer "what did we generate, with which model, and did
// it pass" without re-reading exported files.
package store

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Run records one generation attempt for one material component.
type Run struct {
	ID         string
	Material   string
	Component  string
	Model      string
	DurationMS int64
	Success    bool
	Score      float64
	CreatedAt  time.Time
}

// Store is a SQLite-backed run history. Safe for concurrent use.
type Store struct {
	mu sync.RWMutex
	db *sql.DB
}

// Open opens (creating if needed) the run history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open run store: %w", err)
	}

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		material TEXT NOT NULL,
		component TEXT NOT NULL,
		model TEXT NOT NULL,
		duration_ms INTEGER NOT NULL,
		success INTEGER NOT NULL,
		score REAL NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_runs_material ON runs(material);
	CREATE INDEX IF NOT EXISTS idx_runs_component ON runs(component);
	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create runs schema: %w", err)
	}
	return nil
}

// Record inserts a run row. A fresh id is assigned if the run has none.
func (s *Store) Record(run Run) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	_, err := s.db.Exec(
		`INSERT INTO runs (id, material, component, model, duration_ms, success, score)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Material, run.Component, run.Model, run.DurationMS, run.Success, run.Score,
	)
	if err != nil {
		return "", fmt.Errorf("failed to record run: %w", err)
	}
	return run.ID, nil
}

// ByMaterial returns the most recent runs for a material, newest first.
func (s *Store) ByMaterial(material string, limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		`SELECT id, material, component, model, duration_ms, success, score, created_at
		 FROM runs WHERE material = ? ORDER BY created_at DESC LIMIT ?`,
		material, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// Recent returns the most recent runs across all materials, newest first.
func (s *Store) Recent(limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		`SELECT id, material, component, model, duration_ms, success, score, created_at
		 FROM runs ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

func scanRuns(rows *sql.Rows) ([]Run, error) {
	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Material, &r.Component, &r.Model,
			&r.DurationMS, &r.Success, &r.Score, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// SuccessRate returns the fraction of successful runs for a component,
// or 0 when no runs exist.
func (s *Store) SuccessRate(component string) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total, ok int
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(success), 0) FROM runs WHERE component = ?`,
		component,
	).Scan(&total, &ok)
	if err != nil {
		return 0, fmt.Errorf("failed to compute success rate: %w", err)
	}
	if total == 0 {
		return 0, nil
	}
	return float64(ok) / float64(total), nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
