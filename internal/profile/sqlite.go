package profile

import (
	"context"
	"database/sql"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"time"

	"github.com/HartBrook/penman/internal/errors"
	_ "modernc.org/sqlite"
)

// schemaVersion is the latest profiles schema version.
const schemaVersion = 1

// SQLiteStore keeps profiles in a single SQLite table.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and migrates it.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.StoreFailed("init", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, errors.StoreFailed("init", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, errors.StoreFailed("migrate", err)
	}

	return &SQLiteStore{db: db}, nil
}

// migrate applies schema migrations based on user_version.
func migrate(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to read user_version: %w", err)
	}

	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS profiles (
		  name       TEXT PRIMARY KEY,
		  style      TEXT NOT NULL,
		  updated_at INTEGER NOT NULL
		);`
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	if version < schemaVersion {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
			return fmt.Errorf("failed to set user_version: %w", err)
		}
	}
	return nil
}

// Save upserts the profile row.
func (s *SQLiteStore) Save(ctx context.Context, name, style string) error {
	if err := checkName(name); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (name, style, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET style = excluded.style, updated_at = excluded.updated_at`,
		name, style, time.Now().Unix())
	if err != nil {
		return errors.StoreFailed("save", err)
	}
	return nil
}

// Get returns the style stored for name.
func (s *SQLiteStore) Get(ctx context.Context, name string) (string, error) {
	var style string
	err := s.db.QueryRowContext(ctx, `SELECT style FROM profiles WHERE name = ?`, name).Scan(&style)
	if err == sql.ErrNoRows {
		return "", errors.ProfileNotFound(name, nil)
	}
	if err != nil {
		return "", errors.StoreFailed("get", err)
	}
	return style, nil
}

// List streams names from a fresh query on every call.
func (s *SQLiteStore) List(ctx context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		rows, err := s.db.QueryContext(ctx, `SELECT name FROM profiles`)
		if err != nil {
			yield("", errors.StoreFailed("list", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				yield("", errors.StoreFailed("list", err))
				return
			}
			if !yield(name, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield("", errors.StoreFailed("list", err))
		}
	}
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
