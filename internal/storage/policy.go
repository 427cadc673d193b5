// Package storage - administrative policy persistence.
package storage

import (
	"database/sql"
	"fmt"

	"cosmossdk.io/math"
)

// EnsurePolicy seeds the policy singleton on first boot. An existing row
// always wins; the supplied defaults are only used when none is present.
func (s *Storage) EnsurePolicy(defaults Policy) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT OR IGNORE INTO policy (
			id, admin, minimum_safety_deposit,
			min_timelock_duration, max_timelock_duration, paused
		) VALUES (1, ?, ?, ?, ?, ?)
	`,
		defaults.Admin,
		defaults.MinimumSafetyDeposit.String(),
		defaults.MinTimelockDuration,
		defaults.MaxTimelockDuration,
		boolToInt(defaults.Paused),
	)
	return err
}

// GetPolicy loads the policy singleton.
func (s *Storage) GetPolicy() (*Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var p Policy
	var deposit string
	var paused int
	err := s.db.QueryRow(`
		SELECT admin, minimum_safety_deposit,
			min_timelock_duration, max_timelock_duration, paused
		FROM policy WHERE id = 1
	`).Scan(&p.Admin, &deposit, &p.MinTimelockDuration, &p.MaxTimelockDuration, &paused)
	if err == sql.ErrNoRows {
		return nil, ErrPolicyNotFound
	}
	if err != nil {
		return nil, err
	}

	var ok bool
	p.MinimumSafetyDeposit, ok = math.NewIntFromString(deposit)
	if !ok {
		return nil, fmt.Errorf("%w: minimum safety deposit", ErrMalformedAmount)
	}
	p.Paused = paused == 1

	return &p, nil
}

// SavePolicy overwrites the policy singleton.
func (s *Storage) SavePolicy(p *Policy) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.Exec(`
		UPDATE policy
		SET admin = ?, minimum_safety_deposit = ?,
			min_timelock_duration = ?, max_timelock_duration = ?, paused = ?
		WHERE id = 1
	`,
		p.Admin,
		p.MinimumSafetyDeposit.String(),
		p.MinTimelockDuration,
		p.MaxTimelockDuration,
		boolToInt(p.Paused),
	)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrPolicyNotFound
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
