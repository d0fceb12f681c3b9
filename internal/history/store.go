// Package history persists per-file processing outcomes so unchanged files
// can be skipped on later runs.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store manages the processed-file cache backed by SQLite. A file is
// considered current when its size and modification time still match the
// recorded values; any on-disk change invalidates the entry.
type Store struct {
	db   *sql.DB
	path string
}

// DefaultPath returns the cache database location under the user cache
// directory.
func DefaultPath() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolve cache directory: %w", err)
	}
	return filepath.Join(base, "cattywampus", "history.db"), nil
}

// Open initializes or connects to the cache database and applies the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache directory %q: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	const schema = `
CREATE TABLE IF NOT EXISTS processed_files (
    path         TEXT PRIMARY KEY,
    size         INTEGER NOT NULL,
    mtime_ns     INTEGER NOT NULL,
    processed_at TEXT NOT NULL
)`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// IsCurrent reports whether the file at path was already processed and has
// not changed on disk since.
func (s *Store) IsCurrent(ctx context.Context, path string) (bool, error) {
	abs, info, err := statAbs(path)
	if err != nil {
		return false, err
	}

	var size, mtime int64
	row := s.db.QueryRowContext(ctx,
		`SELECT size, mtime_ns FROM processed_files WHERE path = ?`, abs)
	if err := row.Scan(&size, &mtime); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("query processed file: %w", err)
	}
	return size == info.Size() && mtime == info.ModTime().UnixNano(), nil
}

// Record stores the file's current size and modification time, replacing
// any earlier entry.
func (s *Store) Record(ctx context.Context, path string) error {
	abs, info, err := statAbs(path)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO processed_files (path, size, mtime_ns, processed_at)
         VALUES (?, ?, ?, ?)
         ON CONFLICT(path) DO UPDATE SET
             size = excluded.size,
             mtime_ns = excluded.mtime_ns,
             processed_at = excluded.processed_at`,
		abs, info.Size(), info.ModTime().UnixNano(),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record processed file: %w", err)
	}
	return nil
}

// Forget removes a file's entry, if any.
func (s *Store) Forget(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM processed_files WHERE path = ?`, abs); err != nil {
		return fmt.Errorf("forget processed file: %w", err)
	}
	return nil
}

func statAbs(path string) (string, os.FileInfo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", nil, fmt.Errorf("resolve path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", nil, fmt.Errorf("stat file: %w", err)
	}
	return abs, info, nil
}
