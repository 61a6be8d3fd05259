// Package store keeps the bot's local SQLite state. Only client-side data
// lives here: profile prefill and submission dedupe; bookings themselves
// are owned by the platform API.
package store

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store wraps sql.DB for the bot.
type Store struct {
	*sql.DB
}

// Open opens the database at path and runs migrations.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return nil, fmt.Errorf("enable wal: %w", err)
	}
	if err := createTables(db); err != nil {
		return nil, err
	}
	return &Store{db}, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		// Profile prefill for the booking and contest forms
		`CREATE TABLE IF NOT EXISTS profiles (
			telegram_id INTEGER PRIMARY KEY,
			client_ref TEXT UNIQUE NOT NULL,
			name TEXT,
			phone TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Contest entries already submitted, to stop double submissions
		`CREATE TABLE IF NOT EXISTS contest_entries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			telegram_id INTEGER NOT NULL,
			contest_id INTEGER NOT NULL,
			external_ref TEXT NOT NULL,
			submitted_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(telegram_id, contest_id)
		)`,
	}

	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// Backup copies the database file to dest.
func (s *Store) Backup(dest string) error {
	var path string
	row := s.QueryRow("PRAGMA database_list")
	var seq int
	var name string
	if err := row.Scan(&seq, &name, &path); err != nil {
		return fmt.Errorf("resolve db path: %w", err)
	}
	if _, err := s.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return fmt.Errorf("checkpoint: %w", err)
	}

	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return err
	}
	return out.Sync()
}

// CleanupBackups deletes backups in dir older than retention.
func (s *Store) CleanupBackups(dir string, retention time.Duration) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-retention)
	deleted := 0
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".db" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(dir, e.Name())); err == nil {
				deleted++
			}
		}
	}
	return deleted, nil
}
