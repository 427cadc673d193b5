// Package storage - swap ledger CRUD.
// A swap row is written once by CreateSwap together with its three
// secondary-index rows and the stats bump, all in one transaction.
// FinalizeSwap is the only mutation afterwards.
package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"cosmossdk.io/math"
)

// Swap ledger errors.
var (
	ErrSwapNotFound    = errors.New("swap not found")
	ErrSwapExists      = errors.New("swap already exists")
	ErrSwapFinalized   = errors.New("swap already finalized")
	ErrMalformedAmount = errors.New("malformed amount in ledger")
	ErrPolicyNotFound  = errors.New("policy not configured")
)

// Pagination bounds for index listings.
const (
	DefaultListLimit = 10
	MaxListLimit     = 30
)

// clampLimit applies the default and hard cap to a caller-supplied limit.
func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

// CreateSwap inserts a new swap record, its three index rows, and the
// stats/volume update as one atomic unit. Fails with ErrSwapExists if the
// swap ID is already present; in that case nothing is written.
func (s *Storage) CreateSwap(swap *Swap) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRow(`SELECT COUNT(*) FROM swaps WHERE swap_id = ?`, swap.SwapID).Scan(&exists)
	if err != nil {
		return err
	}
	if exists > 0 {
		return ErrSwapExists
	}

	_, err = tx.Exec(`
		INSERT INTO swaps (
			swap_id, initiator, participant, denom, amount,
			hashlock, timelock, state, secret,
			ethereum_recipient, ethereum_chain_id,
			safety_deposit, created_at, completed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, NULL, ?, ?, ?, ?, NULL)
	`,
		swap.SwapID,
		swap.Initiator,
		swap.Participant,
		swap.Amount.Denom,
		swap.Amount.Amount.String(),
		swap.Hashlock,
		swap.Timelock,
		string(swap.State),
		swap.EthereumRecipient,
		swap.EthereumChainID,
		swap.SafetyDeposit.String(),
		swap.CreatedAt,
	)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`INSERT INTO swaps_by_initiator (initiator, swap_id) VALUES (?, ?)`,
		swap.Initiator, swap.SwapID)
	if err != nil {
		return err
	}
	_, err = tx.Exec(`INSERT INTO swaps_by_participant (participant, swap_id) VALUES (?, ?)`,
		swap.Participant, swap.SwapID)
	if err != nil {
		return err
	}
	_, err = tx.Exec(`INSERT INTO swaps_by_hashlock (hashlock, swap_id) VALUES (?, ?)`,
		swap.Hashlock, swap.SwapID)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`UPDATE swap_stats SET total_swaps = total_swaps + 1 WHERE id = 1`)
	if err != nil {
		return err
	}

	if err := addVolume(tx, swap.Amount); err != nil {
		return err
	}

	return tx.Commit()
}

// addVolume accumulates the initiated amount into the per-denom volume row.
// math.Int makes the accumulation overflow-free.
func addVolume(tx *sql.Tx, amount Coin) error {
	var current string
	err := tx.QueryRow(`SELECT amount FROM swap_volume WHERE denom = ?`, amount.Denom).Scan(&current)
	switch {
	case err == sql.ErrNoRows:
		_, err = tx.Exec(`INSERT INTO swap_volume (denom, amount) VALUES (?, ?)`,
			amount.Denom, amount.Amount.String())
		return err
	case err != nil:
		return err
	}

	total, ok := math.NewIntFromString(current)
	if !ok {
		return fmt.Errorf("%w: denom %s", ErrMalformedAmount, amount.Denom)
	}
	total = total.Add(amount.Amount)

	_, err = tx.Exec(`UPDATE swap_volume SET amount = ? WHERE denom = ?`,
		total.String(), amount.Denom)
	return err
}

// GetSwap retrieves a swap by ID.
func (s *Storage) GetSwap(swapID string) (*Swap, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT swap_id, initiator, participant, denom, amount,
			hashlock, timelock, state, secret,
			ethereum_recipient, ethereum_chain_id,
			safety_deposit, created_at, completed_at
		FROM swaps WHERE swap_id = ?
	`, swapID)
	return scanSwapRow(row)
}

// FinalizeSwap moves a swap into a terminal state and bumps the matching
// counter, atomically. The WHERE guard on state is the backstop against
// double finalization; callers are expected to have checked already.
func (s *Storage) FinalizeSwap(swapID string, state SwapState, secret string, completedAt int64) error {
	if !state.IsTerminal() {
		return fmt.Errorf("finalize to non-terminal state %q", state)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// The secret column is set exactly when the swap completes. An empty
	// preimage is a legal secret, so completion stores it verbatim;
	// refunds store NULL.
	var secretVal interface{}
	if state == SwapStateCompleted {
		secretVal = secret
	}

	result, err := tx.Exec(`
		UPDATE swaps
		SET state = ?, secret = ?, completed_at = ?
		WHERE swap_id = ? AND state = ?
	`, string(state), secretVal, completedAt, swapID, string(SwapStateInitiated))
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		// Distinguish missing from already-terminal.
		var existing string
		err := tx.QueryRow(`SELECT state FROM swaps WHERE swap_id = ?`, swapID).Scan(&existing)
		if err == sql.ErrNoRows {
			return ErrSwapNotFound
		}
		if err != nil {
			return err
		}
		return ErrSwapFinalized
	}

	var counter string
	switch state {
	case SwapStateCompleted:
		counter = "completed_swaps"
	case SwapStateRefunded:
		counter = "refunded_swaps"
	}
	_, err = tx.Exec(fmt.Sprintf(`UPDATE swap_stats SET %s = %s + 1 WHERE id = 1`, counter, counter))
	if err != nil {
		return err
	}

	return tx.Commit()
}

// ListSwapsByInitiator returns swaps created by an initiator, ascending by
// swap ID, startAfter exclusive. limit <= 0 means the default.
func (s *Storage) ListSwapsByInitiator(initiator, startAfter string, limit int) ([]*Swap, error) {
	return s.listByIndex("swaps_by_initiator", "initiator", initiator, startAfter, limit)
}

// ListSwapsByParticipant returns swaps addressed to a participant.
func (s *Storage) ListSwapsByParticipant(participant, startAfter string, limit int) ([]*Swap, error) {
	return s.listByIndex("swaps_by_participant", "participant", participant, startAfter, limit)
}

// ListSwapsByHashlock returns swaps committed to a hashlock.
func (s *Storage) ListSwapsByHashlock(hashlock, startAfter string, limit int) ([]*Swap, error) {
	return s.listByIndex("swaps_by_hashlock", "hashlock", hashlock, startAfter, limit)
}

// listByIndex walks one partition of a secondary index and loads the
// primary record for each hit. The join keeps the swaps table
// authoritative: an index row without a primary row is never returned.
func (s *Storage) listByIndex(table, column, key, startAfter string, limit int) ([]*Swap, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit = clampLimit(limit)

	query := fmt.Sprintf(`
		SELECT w.swap_id, w.initiator, w.participant, w.denom, w.amount,
			w.hashlock, w.timelock, w.state, w.secret,
			w.ethereum_recipient, w.ethereum_chain_id,
			w.safety_deposit, w.created_at, w.completed_at
		FROM %s i
		JOIN swaps w ON w.swap_id = i.swap_id
		WHERE i.%s = ? AND i.swap_id > ?
		ORDER BY i.swap_id ASC
		LIMIT ?
	`, table, column)

	rows, err := s.db.Query(query, key, startAfter, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var swaps []*Swap
	for rows.Next() {
		swap, err := scanSwapRows(rows)
		if err != nil {
			return nil, err
		}
		swaps = append(swaps, swap)
	}
	return swaps, rows.Err()
}

// Scan helpers

func scanSwapRow(row *sql.Row) (*Swap, error) {
	swap, err := scanSwap(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrSwapNotFound
	}
	return swap, err
}

func scanSwapRows(rows *sql.Rows) (*Swap, error) {
	return scanSwap(rows.Scan)
}

func scanSwap(scan func(dest ...interface{}) error) (*Swap, error) {
	var swap Swap
	var amount, safetyDeposit string
	var secret sql.NullString
	var completedAt sql.NullInt64

	err := scan(
		&swap.SwapID,
		&swap.Initiator,
		&swap.Participant,
		&swap.Amount.Denom,
		&amount,
		&swap.Hashlock,
		&swap.Timelock,
		&swap.State,
		&secret,
		&swap.EthereumRecipient,
		&swap.EthereumChainID,
		&safetyDeposit,
		&swap.CreatedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}

	var ok bool
	swap.Amount.Amount, ok = math.NewIntFromString(amount)
	if !ok {
		return nil, fmt.Errorf("%w: swap %s amount", ErrMalformedAmount, swap.SwapID)
	}
	swap.SafetyDeposit, ok = math.NewIntFromString(safetyDeposit)
	if !ok {
		return nil, fmt.Errorf("%w: swap %s safety deposit", ErrMalformedAmount, swap.SwapID)
	}

	if secret.Valid {
		swap.Secret = secret.String
	}
	if completedAt.Valid {
		swap.CompletedAt = completedAt.Int64
	}

	return &swap, nil
}
