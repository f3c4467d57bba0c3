// Package store is the persistence adapter: a durable, string-valued
// key-value store backed by SQLite. The whole engine uses exactly two
// well-known keys — the portfolio snapshot and the one-shot landing
// action — so the schema is a single kv table.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	_ "modernc.org/sqlite"

	"folio/internal/types"
)

// Well-known storage keys.
const (
	SnapshotKey = "portfolioData"
	ActionKey   = "landingAction"
)

// Local is a SQLite-backed key-value store. Writes are last-write-wins
// upserts; a reader never observes a partial write.
type Local struct {
	db     *sql.DB
	mu     sync.Mutex
	dbPath string
	log    *zap.Logger
}

// Open initializes the database at the given path, creating parent
// directories and the kv table as needed.
func Open(path string, logger *zap.Logger) (*Local, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logger.Debug("failed to set sqlite busy_timeout", zap.Error(err))
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logger.Debug("failed to set sqlite journal_mode=WAL", zap.Error(err))
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Local{db: db, dbPath: path, log: logger}, nil
}

// Close releases the database handle.
func (l *Local) Close() error {
	return l.db.Close()
}

// Set upserts a value under key.
func (l *Local) Set(key, value string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, err := l.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

// Get returns the value under key, and whether it was present.
func (l *Local) Get(key string) (string, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var value string
	err := l.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

// Delete removes a key. Deleting an absent key is a no-op.
func (l *Local) Delete(key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := l.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

// Take reads and deletes a key in one transaction, so a value is
// observed at most once across all readers.
func (l *Local) Take(key string) (string, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	tx, err := l.db.Begin()
	if err != nil {
		return "", false, fmt.Errorf("take %q: %w", key, err)
	}
	defer tx.Rollback()

	var value string
	err = tx.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("take %q: %w", key, err)
	}
	if _, err := tx.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return "", false, fmt.Errorf("take %q: %w", key, err)
	}
	if err := tx.Commit(); err != nil {
		return "", false, fmt.Errorf("take %q: %w", key, err)
	}
	return value, true, nil
}

// SaveSnapshot persists the portfolio under SnapshotKey. The transient
// generation flag is excluded by the entity's json tags, so a snapshot
// written mid-enrichment round trip is indistinguishable from one
// written at rest. Safe to call on every mutation.
func (l *Local) SaveSnapshot(p types.Portfolio) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	return l.Set(SnapshotKey, string(data))
}

// LoadSnapshot returns the stored portfolio, or nil if none exists.
// A corrupt snapshot is logged and treated as absent — startup must
// never fail because of unparseable stored data.
func (l *Local) LoadSnapshot() (*types.Portfolio, error) {
	raw, ok, err := l.Get(SnapshotKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var p types.Portfolio
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		l.log.Warn("discarding corrupt portfolio snapshot", zap.Error(err))
		return nil, nil
	}
	return &p, nil
}

// ClearSnapshot deletes the stored portfolio.
func (l *Local) ClearSnapshot() error {
	return l.Delete(SnapshotKey)
}
