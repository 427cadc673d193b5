// Package storage - call sequence counter.
package storage

import (
	"database/sql"
	"strconv"
	"time"
)

const sequenceKey = "call_sequence"

// CurrentSequence returns the call counter without advancing it.
func (s *Storage) CurrentSequence() (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, sequenceKey).Scan(&value)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(value, 10, 64)
}

// NextSequence increments and returns the monotonic call counter. It plays
// the role of a block height for swap ID derivation: two otherwise
// identical initiations at different points in the call order still derive
// distinct swap IDs.
func (s *Storage) NextSequence() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var current int64
	var value string
	err = tx.QueryRow(`SELECT value FROM settings WHERE key = ?`, sequenceKey).Scan(&value)
	switch {
	case err == sql.ErrNoRows:
		current = 0
	case err != nil:
		return 0, err
	default:
		current, err = strconv.ParseInt(value, 10, 64)
		if err != nil {
			return 0, err
		}
	}

	next := current + 1
	_, err = tx.Exec(`
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, sequenceKey, strconv.FormatInt(next, 10), time.Now().Unix())
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return next, nil
}
