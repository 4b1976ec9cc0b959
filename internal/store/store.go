package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned by single-row lookups that match nothing.
var ErrNotFound = errors.New("store: not found")

// Store owns the SQLite connection and hands out repositories. The same
// store backs both the client (credentials, nothing else) and the server.
type Store struct {
	db  *sql.DB
	drv *entsql.Driver
	seq *sequenceCounter
}

// Open creates a new Store connected to the SQLite database at dsn.
// It runs auto-migration and applies recommended pragmas.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db, drv: entsql.OpenDB(dialect.SQLite, db)}

	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	// One connection: SQLite has a single writer, and pragmas are per
	// connection.
	db.SetMaxOpenConns(1)
	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	seq, err := newSequenceCounter(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	s.seq = seq

	return s, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.drv.Close()
}

func (s *Store) UserRepo() UserRepo             { return &userRepo{db: s.db} }
func (s *Store) TopicRepo() TopicRepo           { return &topicRepo{db: s.db} }
func (s *Store) QuizRepo() QuizRepo             { return &quizRepo{db: s.db} }
func (s *Store) ScoreRepo() ScoreRepo           { return &scoreRepo{db: s.db} }
func (s *Store) CredentialRepo() CredentialRepo { return &credentialRepo{db: s.db} }

// EventRepo returns the LLM event log.
func (s *Store) EventRepo() EventRepo {
	return &eventRepo{db: s.db, seq: s.seq}
}

// builder returns a SQL builder for the SQLite dialect.
func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

// execute runs a built statement that returns no rows.
func execute(ctx context.Context, db *sql.DB, q entsql.Querier) (sql.Result, error) {
	query, args := q.Query()
	return db.ExecContext(ctx, query, args...)
}

// query runs a built statement and returns its rows.
func query(ctx context.Context, db *sql.DB, q entsql.Querier) (*sql.Rows, error) {
	stmt, args := q.Query()
	return db.QueryContext(ctx, stmt, args...)
}

// applyPragmas configures SQLite for optimal single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the client database path:
// 1. STUDYMATE_DB environment variable
// 2. DataPath("studymate.db")
func DefaultDBPath() (string, error) {
	if p := os.Getenv("STUDYMATE_DB"); p != "" {
		return p, EnsureDir(p)
	}
	return DataPath("studymate.db")
}

// DataPath places name under $XDG_DATA_HOME/studymate, falling back to
// ~/.local/share/studymate, and creates the directory.
func DataPath(name string) (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "studymate", name)
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
