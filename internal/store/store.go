// Package store persists graded submissions in SQLite so results survive
// restarts and can be listed later.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/fyrsmithlabs/demoday/internal/grader"
)

// ErrNotFound indicates no submission exists with the requested ID.
var ErrNotFound = errors.New("submission not found")

const schema = `
CREATE TABLE IF NOT EXISTS submissions (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	github_url    TEXT NOT NULL,
	overall_grade REAL NOT NULL,
	result        TEXT NOT NULL,
	created_at    INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_submissions_created_at ON submissions(created_at);
`

var pragmas = []string{
	"PRAGMA foreign_keys = ON",
	"PRAGMA journal_mode = WAL",
	"PRAGMA busy_timeout = 10000",
	"PRAGMA synchronous = NORMAL",
}

// Store is the submissions database handle.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open opens (or creates) the submissions database at path, applies the
// connection pragmas and the schema. The special path ":memory:" opens an
// in-memory database.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating database directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("applying %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	return &Store{db: db, logger: logger.Named("store")}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save persists a graded submission. The full result is stored as JSON
// alongside the indexed columns; created_at is kept as Unix nanoseconds so
// ordering is numeric.
func (s *Store) Save(ctx context.Context, result *grader.Result) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO submissions (id, name, github_url, overall_grade, result, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		result.ID, result.Name, result.GitHubURL, result.OverallGrade,
		string(payload), result.CreatedAt.UTC().UnixNano())
	if err != nil {
		return fmt.Errorf("saving submission: %w", err)
	}

	s.logger.Debug("submission saved", zap.String("id", result.ID))
	return nil
}

// Get returns the graded submission with the given ID, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (*grader.Result, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT result FROM submissions WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading submission: %w", err)
	}

	var result grader.Result
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, fmt.Errorf("decoding submission %s: %w", id, err)
	}
	return &result, nil
}

// List returns all graded submissions, newest first.
func (s *Store) List(ctx context.Context) ([]*grader.Result, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT result FROM submissions ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing submissions: %w", err)
	}
	defer rows.Close()

	var results []*grader.Result
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scanning submission: %w", err)
		}
		var result grader.Result
		if err := json.Unmarshal([]byte(payload), &result); err != nil {
			return nil, fmt.Errorf("decoding submission: %w", err)
		}
		results = append(results, &result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing submissions: %w", err)
	}
	return results, nil
}
