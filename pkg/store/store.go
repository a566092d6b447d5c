// Package store persists conversations and their messages in SQLite.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a conversation does not exist.
var ErrNotFound = errors.New("conversation not found")

// Store wraps the SQLite database connection.
type Store struct {
	conn *sql.DB
}

// Open creates a new database connection and runs migrations. A single
// connection is used: SQLite works best that way, and it also serializes
// message appends so near-simultaneous messages cannot lose updates.
func Open(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Ping verifies the database is reachable.
func (s *Store) Ping() error {
	return s.conn.Ping()
}

func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS conversations (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			doctor_language TEXT NOT NULL DEFAULT 'en',
			patient_language TEXT NOT NULL DEFAULT 'es',
			summary TEXT NOT NULL DEFAULT '',
			summary_generated_at DATETIME,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,

		// The *_fold columns hold Unicode-lowercased shadows of the text
		// columns. SQLite's LIKE folds only ASCII, so the search prefilter
		// matches against the shadows to agree with the excerpt engine.
		`CREATE TABLE IF NOT EXISTS messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			conversation_id TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL DEFAULT '',
			translated_content TEXT NOT NULL DEFAULT '',
			content_fold TEXT NOT NULL DEFAULT '',
			translated_content_fold TEXT NOT NULL DEFAULT '',
			source_language TEXT NOT NULL DEFAULT 'en',
			target_language TEXT NOT NULL DEFAULT 'en',
			kind TEXT NOT NULL DEFAULT 'text',
			audio_url TEXT NOT NULL DEFAULT '',
			audio_duration REAL NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			FOREIGN KEY(conversation_id) REFERENCES conversations(id) ON DELETE CASCADE
		)`,

		`CREATE INDEX IF NOT EXISTS idx_messages_conversation_id ON messages(conversation_id)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_conversation_created ON messages(conversation_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_conversations_updated_at ON conversations(updated_at DESC)`,
	}

	for _, migration := range migrations {
		if _, err := s.conn.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// escapeLike escapes LIKE wildcards so a user query is always matched as a
// literal substring, never interpreted as a pattern.
func escapeLike(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(q)
}
