// Package storage provides SQLite-based persistence for progress entries and
// play history. Uses the pure-Go modernc.org/sqlite driver to avoid CGO
// dependencies.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrNotFound is returned by Get when a key has never been written.
var ErrNotFound = errors.New("storage: key not found")

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// Entry is one key-value record.
type Entry struct {
	Key   string
	Value []byte
}

// Play is one finished session in the play history.
type Play struct {
	ID         int64
	SessionID  string
	Kind       string
	Score      int
	GlowShards int
	Streak     int
	CreatedAt  time.Time
}

// Batch is a set of writes committed atomically.
type Batch struct {
	Entries []Entry
	Plays   []Play
}

// Empty reports whether the batch has nothing to write.
func (b Batch) Empty() bool {
	return len(b.Entries) == 0 && len(b.Plays) == 0
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	return setup(db)
}

// OpenMemory opens a private in-memory database. Used by tests and dry runs.
func OpenMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// Every pooled connection would get its own empty database.
	db.SetMaxOpenConns(1)
	return setup(db)
}

func setup(db *sql.DB) (*Store, error) {
	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	// Run migrations
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value BLOB NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS plays (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL UNIQUE,
			kind TEXT NOT NULL,
			score INTEGER NOT NULL,
			glow_shards INTEGER NOT NULL DEFAULT 0,
			streak INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_plays_kind ON plays(kind);
		CREATE INDEX IF NOT EXISTS idx_plays_top ON plays(kind, score DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Get returns the value stored under key, or ErrNotFound.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot read %q: %w", key, err)
	}
	return value, nil
}

// Put stores a single entry.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	return s.Commit(ctx, Batch{Entries: []Entry{{Key: key, Value: value}}})
}

// Commit writes every entry and play in one transaction. Plays whose session
// id is already recorded are skipped, so a retried batch is not duplicated.
func (s *Store) Commit(ctx context.Context, b Batch) (err error) {
	if b.Empty() {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, e := range b.Entries {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			e.Key, e.Value,
		); err != nil {
			return fmt.Errorf("storage: cannot write %q: %w", e.Key, err)
		}
	}

	for _, p := range b.Plays {
		if _, err = tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO plays (session_id, kind, score, glow_shards, streak)
			 VALUES (?, ?, ?, ?, ?)`,
			p.SessionID, p.Kind, p.Score, p.GlowShards, p.Streak,
		); err != nil {
			return fmt.Errorf("storage: cannot save play: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit: %w", err)
	}
	return nil
}

// TopScores retrieves the top N plays for the given kind.
// Results are ordered by score descending.
func (s *Store) TopScores(ctx context.Context, kind string, limit int) ([]Play, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryPlays(ctx,
		`SELECT id, session_id, kind, score, glow_shards, streak, created_at
		 FROM plays
		 WHERE kind = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		kind, limit,
	)
}

// RecentPlays retrieves the most recent plays for the given kind.
func (s *Store) RecentPlays(ctx context.Context, kind string, limit int) ([]Play, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryPlays(ctx,
		`SELECT id, session_id, kind, score, glow_shards, streak, created_at
		 FROM plays
		 WHERE kind = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		kind, limit,
	)
}

// CountPlays returns the number of recorded plays for the given kind.
func (s *Store) CountPlays(ctx context.Context, kind string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM plays WHERE kind = ?", kind).Scan(&n); err != nil {
		return 0, fmt.Errorf("storage: cannot count plays: %w", err)
	}
	return n, nil
}

func (s *Store) queryPlays(ctx context.Context, query string, args ...any) ([]Play, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query plays: %w", err)
	}
	defer rows.Close()

	var plays []Play
	for rows.Next() {
		var p Play
		var createdAt any
		if err := rows.Scan(&p.ID, &p.SessionID, &p.Kind, &p.Score, &p.GlowShards, &p.Streak, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		p.CreatedAt = parseTime(createdAt)
		plays = append(plays, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return plays, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
