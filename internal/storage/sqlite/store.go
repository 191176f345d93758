package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Store wraps access to the SQLite database and exposes high level helpers
// for every entity table of the board.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open initializes a new SQLite store and runs the required migrations.
func Open(dbPath string, logger *slog.Logger) (*Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("empty database path")
	}

	if logger == nil {
		logger = slog.Default()
	}

	if err := ensureDir(dbPath); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=ON", dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	conn.SetMaxOpenConns(1)
	conn.SetConnMaxLifetime(0)

	s := &Store{db: conn, logger: logger}
	if err := s.migrate(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return s, nil
}

// Close releases the database resources.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func ensureDir(dbPath string) error {
	dir := filepath.Dir(dbPath)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS accounts (
            id TEXT PRIMARY KEY,
            email TEXT NOT NULL UNIQUE,
            password_hash TEXT NOT NULL,
            created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
        );`,
		`CREATE TABLE IF NOT EXISTS profiles (
            id TEXT PRIMARY KEY,
            account_id TEXT NOT NULL UNIQUE,
            display_name TEXT NOT NULL,
            avatar_initials TEXT NOT NULL DEFAULT '?',
            expertise TEXT NOT NULL DEFAULT '[]',
            created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            FOREIGN KEY(account_id) REFERENCES accounts(id) ON DELETE CASCADE
        );`,
		`CREATE TABLE IF NOT EXISTS user_roles (
            id TEXT PRIMARY KEY,
            account_id TEXT NOT NULL UNIQUE,
            role TEXT NOT NULL CHECK(role IN ('leader','member')),
            FOREIGN KEY(account_id) REFERENCES accounts(id) ON DELETE CASCADE
        );`,
		`CREATE TABLE IF NOT EXISTS tasks (
            id TEXT PRIMARY KEY,
            title TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            priority TEXT NOT NULL DEFAULT 'medium' CHECK(priority IN ('high','medium','low')),
            status TEXT NOT NULL DEFAULT 'todo' CHECK(status IN ('todo','in-progress','review','done')),
            assignee_id TEXT,
            created_by_id TEXT NOT NULL,
            deadline DATETIME NOT NULL,
            tags TEXT NOT NULL DEFAULT '[]',
            created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            completed_at DATETIME,
            FOREIGN KEY(assignee_id) REFERENCES profiles(id) ON DELETE SET NULL,
            FOREIGN KEY(created_by_id) REFERENCES profiles(id)
        );`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_assignee ON tasks(assignee_id);`,
		`CREATE TABLE IF NOT EXISTS task_comments (
            id TEXT PRIMARY KEY,
            task_id TEXT NOT NULL,
            author_id TEXT NOT NULL,
            content TEXT NOT NULL,
            created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            FOREIGN KEY(task_id) REFERENCES tasks(id) ON DELETE CASCADE,
            FOREIGN KEY(author_id) REFERENCES profiles(id)
        );`,
		`CREATE INDEX IF NOT EXISTS idx_comments_task ON task_comments(task_id, created_at);`,
		`CREATE TABLE IF NOT EXISTS task_documentation (
            id TEXT PRIMARY KEY,
            task_id TEXT NOT NULL UNIQUE,
            content TEXT NOT NULL DEFAULT '',
            updated_by TEXT,
            created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            FOREIGN KEY(task_id) REFERENCES tasks(id) ON DELETE CASCADE,
            FOREIGN KEY(updated_by) REFERENCES profiles(id)
        );`,
		`CREATE TABLE IF NOT EXISTS task_reminders (
            id TEXT PRIMARY KEY,
            task_id TEXT NOT NULL,
            sent_by TEXT NOT NULL,
            sent_to TEXT NOT NULL,
            message TEXT NOT NULL,
            is_read INTEGER NOT NULL DEFAULT 0,
            created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            FOREIGN KEY(task_id) REFERENCES tasks(id) ON DELETE CASCADE,
            FOREIGN KEY(sent_by) REFERENCES profiles(id),
            FOREIGN KEY(sent_to) REFERENCES profiles(id)
        );`,
		`CREATE INDEX IF NOT EXISTS idx_reminders_recipient ON task_reminders(sent_to, created_at);`,
		`CREATE TABLE IF NOT EXISTS queries (
            id TEXT PRIMARY KEY,
            from_profile_id TEXT NOT NULL,
            to_profile_id TEXT NOT NULL,
            task_id TEXT,
            subject TEXT NOT NULL,
            message TEXT NOT NULL,
            response TEXT,
            status TEXT NOT NULL DEFAULT 'pending' CHECK(status IN ('pending','responded')),
            created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            responded_at DATETIME,
            FOREIGN KEY(from_profile_id) REFERENCES profiles(id),
            FOREIGN KEY(to_profile_id) REFERENCES profiles(id),
            FOREIGN KEY(task_id) REFERENCES tasks(id) ON DELETE SET NULL
        );`,
		`CREATE INDEX IF NOT EXISTS idx_queries_recipient ON queries(to_profile_id, status);`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// newID generates a fresh v4 uuid for a row about to be inserted.
func newID() uuid.UUID {
	return uuid.Must(uuid.NewV4())
}

// encodeStrings serializes a string list for a JSON text column.
func encodeStrings(values []string) string {
	if values == nil {
		values = []string{}
	}
	b, err := json.Marshal(values)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// decodeStrings parses a JSON text column back into a string list.
// Unparseable rows decode as empty rather than failing the whole scan.
func decodeStrings(raw string) []string {
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil || values == nil {
		return []string{}
	}
	return values
}

// scanUUID converts a nullable TEXT column into a *uuid.UUID.
func scanUUID(ns sql.NullString) *uuid.UUID {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	id, err := uuid.FromString(ns.String)
	if err != nil {
		return nil
	}
	return &id
}

// uuidValue converts a *uuid.UUID into a driver value for a nullable column.
func uuidValue(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return id.String()
}
