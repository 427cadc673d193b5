// Package storage provides the persistent swap ledger using SQLite.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Storage provides persistent storage for the crosslock engine.
type Storage struct {
	db     *sql.DB
	dbPath string
	mu     sync.RWMutex
}

// Config holds storage configuration.
type Config struct {
	DataDir string
}

// New creates a new Storage instance.
func New(cfg *Config) (*Storage, error) {
	dataDir := expandPath(cfg.DataDir)

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "crosslock.db")

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// SQLite only supports one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &Storage{
		db:     db,
		dbPath: dbPath,
	}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Storage) Close() error {
	return s.db.Close()
}

// DB returns the underlying database connection.
func (s *Storage) DB() *sql.DB {
	return s.db
}

// initSchema creates all database tables.
func (s *Storage) initSchema() error {
	schema := `
	-- Primary swap ledger. One row per swap, never deleted.
	-- Amounts are decimal strings to keep arbitrary precision.
	CREATE TABLE IF NOT EXISTS swaps (
		swap_id TEXT PRIMARY KEY,
		initiator TEXT NOT NULL,
		participant TEXT NOT NULL,
		denom TEXT NOT NULL,
		amount TEXT NOT NULL,
		hashlock TEXT NOT NULL,
		timelock INTEGER NOT NULL,
		state TEXT NOT NULL DEFAULT 'initiated',
		secret TEXT,
		ethereum_recipient TEXT NOT NULL DEFAULT '',
		ethereum_chain_id TEXT NOT NULL DEFAULT '',
		safety_deposit TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		completed_at INTEGER
	);

	CREATE INDEX IF NOT EXISTS idx_swaps_state ON swaps(state);

	-- Secondary indexes. Insert-only: the partition keys are immutable
	-- after creation, so rows are written once alongside the primary
	-- record and never touched again. The swaps table stays authoritative
	-- for existence and state.
	CREATE TABLE IF NOT EXISTS swaps_by_initiator (
		initiator TEXT NOT NULL,
		swap_id TEXT NOT NULL,
		PRIMARY KEY (initiator, swap_id)
	);

	CREATE TABLE IF NOT EXISTS swaps_by_participant (
		participant TEXT NOT NULL,
		swap_id TEXT NOT NULL,
		PRIMARY KEY (participant, swap_id)
	);

	CREATE TABLE IF NOT EXISTS swaps_by_hashlock (
		hashlock TEXT NOT NULL,
		swap_id TEXT NOT NULL,
		PRIMARY KEY (hashlock, swap_id)
	);

	-- Monotonic counters. Singleton row, never decremented.
	CREATE TABLE IF NOT EXISTS swap_stats (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		total_swaps INTEGER NOT NULL DEFAULT 0,
		completed_swaps INTEGER NOT NULL DEFAULT 0,
		refunded_swaps INTEGER NOT NULL DEFAULT 0
	);

	-- Cumulative initiated volume per denomination.
	CREATE TABLE IF NOT EXISTS swap_volume (
		denom TEXT PRIMARY KEY,
		amount TEXT NOT NULL
	);

	-- Administrative policy. Singleton row, mutable only by admin.
	CREATE TABLE IF NOT EXISTS policy (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		admin TEXT NOT NULL,
		minimum_safety_deposit TEXT NOT NULL,
		min_timelock_duration INTEGER NOT NULL,
		max_timelock_duration INTEGER NOT NULL,
		paused INTEGER NOT NULL DEFAULT 0
	);

	-- Settings/config table (block sequence counter lives here)
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT,
		updated_at INTEGER
	);
	`

	_, err := s.db.Exec(schema)
	if err != nil {
		return err
	}

	// Seed the stats singleton so increments can use plain UPDATEs.
	_, err = s.db.Exec(`INSERT OR IGNORE INTO swap_stats (id) VALUES (1)`)
	return err
}

// expandPath expands ~ to home directory.
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[1:])
	}
	return path
}
