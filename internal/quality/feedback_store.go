package quality

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/z-beam/zbeam/internal/logging"
)

// FeedbackStore persists Winston detection feedback to winston_feedback.db.
// Threshold learning reads the score history back out of this store.
type FeedbackStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
}

// FeedbackRow is one recorded detection result.
type FeedbackRow struct {
	ID        int64     `json:"id"`
	Material  string    `json:"material"`
	Component string    `json:"component"` // caption, faq, subtitle, frontmatter
	Score     float64   `json:"score"`
	Threshold float64   `json:"threshold"`
	Passed    bool      `json:"passed"`
	CreatedAt time.Time `json:"created_at"`
}

// NewFeedbackStore opens (creating if needed) the feedback database.
func NewFeedbackStore(dbPath string) (*FeedbackStore, error) {
	logging.StoreDebug("Opening feedback store at %s", dbPath)

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open feedback db: %w", err)
	}

	store := &FeedbackStore{db: db, dbPath: dbPath}
	if err := store.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure feedback schema: %w", err)
	}

	logging.Store("FeedbackStore initialized at %s", dbPath)
	return store, nil
}

// ensureSchema creates the winston_feedback table if it doesn't exist.
func (fs *FeedbackStore) ensureSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS winston_feedback (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		material TEXT NOT NULL,
		component TEXT NOT NULL,
		score REAL NOT NULL,
		threshold REAL NOT NULL,
		passed BOOLEAN NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_feedback_component ON winston_feedback(component);
	CREATE INDEX IF NOT EXISTS idx_feedback_created ON winston_feedback(created_at);
	`

	_, err := fs.db.Exec(schema)
	return err
}

// Record persists one detection result.
func (fs *FeedbackStore) Record(row FeedbackRow) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	_, err := fs.db.Exec(`
		INSERT INTO winston_feedback (material, component, score, threshold, passed)
		VALUES (?, ?, ?, ?, ?)`,
		row.Material, row.Component, row.Score, row.Threshold, row.Passed,
	)
	if err != nil {
		return fmt.Errorf("failed to record feedback: %w", err)
	}

	logging.StoreDebug("Recorded feedback: %s/%s score=%.1f passed=%v",
		row.Material, row.Component, row.Score, row.Passed)
	return nil
}

// Scores returns the most recent scores for a component, newest first,
// up to limit rows. A limit <= 0 returns all rows.
func (fs *FeedbackStore) Scores(component string, limit int) ([]float64, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	query := `SELECT score FROM winston_feedback WHERE component = ? ORDER BY id DESC`
	args := []interface{}{component}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := fs.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query scores: %w", err)
	}
	defer rows.Close()

	var scores []float64
	for rows.Next() {
		var s float64
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan score: %w", err)
		}
		scores = append(scores, s)
	}
	return scores, rows.Err()
}

// Count returns the number of feedback rows for a component.
func (fs *FeedbackStore) Count(component string) (int, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	var n int
	err := fs.db.QueryRow(`SELECT COUNT(*) FROM winston_feedback WHERE component = ?`, component).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count feedback: %w", err)
	}
	return n, nil
}

// PassRate returns the fraction of passing rows for a component, or an error
// when no rows exist.
func (fs *FeedbackStore) PassRate(component string) (float64, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	var total, passed int
	err := fs.db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN passed THEN 1 ELSE 0 END), 0)
		FROM winston_feedback WHERE component = ?`, component).Scan(&total, &passed)
	if err != nil {
		return 0, fmt.Errorf("failed to compute pass rate: %w", err)
	}
	if total == 0 {
		return 0, fmt.Errorf("no feedback rows for component %s", component)
	}
	return float64(passed) / float64(total), nil
}

// Close closes the underlying database.
func (fs *FeedbackStore) Close() error {
	return fs.db.Close()
}
