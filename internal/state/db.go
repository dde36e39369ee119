// Package state provides SQLite-backed persistence for taskpilot. The
// task list and the plan artifact are each stored as one JSON snapshot
// under a fixed key, loaded once at startup and written through on every
// mutation. Persistence is best-effort: callers treat failures as
// non-fatal.
package state

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"taskpilot/pkg/models"
)

// Snapshot keys. One row per artifact.
const (
	keyTasks = "tasks"
	keyPlan  = "plan"
)

// DB wraps an SQLite database holding taskpilot snapshots.
type DB struct {
	conn *sql.DB
	path string
	mu   sync.Mutex
}

// DefaultPath returns the default database location under XDG data home.
func DefaultPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, _ := os.UserHomeDir()
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "taskpilot", "taskpilot.db")
}

// Open opens the database at path, creating parent directories and the
// schema as needed. WAL mode is enabled for concurrent reads.
func Open(path string) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	db := &DB{conn: conn, path: path}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.conn.Close()
}

// Path returns the path to the database file.
func (db *DB) Path() string {
	return db.path
}

// migrate applies pending schema migrations.
func (db *DB) migrate() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_version table: %w", err)
	}

	var currentVersion int
	row := db.conn.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("get schema version: %w", err)
	}

	migrations := []struct {
		version int
		sql     string
	}{
		{1, migrationV1Snapshots},
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}

		tx, err := db.conn.Begin()
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		if _, err := tx.Exec(m.sql); err != nil {
			tx.Rollback()
			return fmt.Errorf("apply migration v%d: %w", m.version, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", m.version); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration v%d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration v%d: %w", m.version, err)
		}
	}

	return nil
}

const migrationV1Snapshots = `
CREATE TABLE IF NOT EXISTS snapshots (
	key TEXT PRIMARY KEY,
	body TEXT NOT NULL,
	saved_at DATETIME NOT NULL
);
`

// SaveTasks writes the whole task collection as one JSON snapshot.
func (db *DB) SaveTasks(tasks []models.Task) error {
	body, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("marshal tasks: %w", err)
	}
	return db.put(keyTasks, string(body))
}

// LoadTasks restores the task collection. A missing snapshot yields an
// empty list, not an error.
func (db *DB) LoadTasks() ([]models.Task, error) {
	body, ok, err := db.get(keyTasks)
	if err != nil || !ok {
		return nil, err
	}

	var tasks []models.Task
	if err := json.Unmarshal([]byte(body), &tasks); err != nil {
		return nil, fmt.Errorf("unmarshal tasks snapshot: %w", err)
	}
	return tasks, nil
}

// SavePlan writes the plan artifact.
func (db *DB) SavePlan(plan models.Plan) error {
	body, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("marshal plan: %w", err)
	}
	return db.put(keyPlan, string(body))
}

// LoadPlan restores the plan artifact, or nil when none is saved.
func (db *DB) LoadPlan() (*models.Plan, error) {
	body, ok, err := db.get(keyPlan)
	if err != nil || !ok {
		return nil, err
	}

	var plan models.Plan
	if err := json.Unmarshal([]byte(body), &plan); err != nil {
		return nil, fmt.Errorf("unmarshal plan snapshot: %w", err)
	}
	return &plan, nil
}

// DeletePlan removes the plan snapshot.
func (db *DB) DeletePlan() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, err := db.conn.Exec("DELETE FROM snapshots WHERE key = ?", keyPlan); err != nil {
		return fmt.Errorf("delete plan snapshot: %w", err)
	}
	return nil
}

// put upserts one snapshot row.
func (db *DB) put(key, body string) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	_, err := db.conn.Exec(`
		INSERT INTO snapshots (key, body, saved_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET body = excluded.body, saved_at = excluded.saved_at
	`, key, body, formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("save %s snapshot: %w", key, err)
	}
	return nil
}

// get reads one snapshot row. ok is false when the key has no row.
func (db *DB) get(key string) (body string, ok bool, err error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	row := db.conn.QueryRow("SELECT body FROM snapshots WHERE key = ?", key)
	switch err := row.Scan(&body); err {
	case nil:
		return body, true, nil
	case sql.ErrNoRows:
		return "", false, nil
	default:
		return "", false, fmt.Errorf("load %s snapshot: %w", key, err)
	}
}

// formatTime formats a time.Time for SQLite storage.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
