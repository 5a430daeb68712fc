// Package sqlite persists one row per review invocation, giving the
// operator a cost and volume history across runs.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/akarpov87/patchnote/internal/usecase/review"
)

// Store implements the review Store port using SQLite.
type Store struct {
	db *sql.DB
}

// NewStore creates a store at the given path.
// Use ":memory:" for an in-memory database (useful for testing).
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return s, nil
}

func (s *Store) createSchema() error {
	schema := `
	-- One row per review invocation
	CREATE TABLE IF NOT EXISTS runs (
		run_id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp INTEGER NOT NULL,
		owner TEXT NOT NULL,
		repo TEXT NOT NULL,
		pull_number INTEGER NOT NULL,
		provider TEXT NOT NULL,
		model TEXT NOT NULL,
		cost REAL DEFAULT 0.0,
		comments_posted INTEGER DEFAULT 0,
		comments_failed INTEGER DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp DESC);
	CREATE INDEX IF NOT EXISTS idx_runs_pull ON runs(owner, repo, pull_number);
	`
	_, err := s.db.Exec(schema)
	return err
}

// RecordRun inserts one invocation record.
func (s *Store) RecordRun(ctx context.Context, run review.RunRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (timestamp, owner, repo, pull_number, provider, model, cost, comments_posted, comments_failed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		time.Now().Unix(), run.Owner, run.Repo, run.PullNumber,
		run.Provider, run.Model, run.Cost, run.CommentsPosted, run.CommentsFailed,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// TotalCost sums recorded costs for one pull request across runs.
func (s *Store) TotalCost(ctx context.Context, owner, repo string, pullNumber int) (float64, error) {
	var total sql.NullFloat64
	err := s.db.QueryRowContext(ctx, `
		SELECT SUM(cost) FROM runs WHERE owner = ? AND repo = ? AND pull_number = ?`,
		owner, repo, pullNumber,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum cost: %w", err)
	}
	return total.Float64, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
