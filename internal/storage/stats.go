// Package storage - swap statistics.
package storage

import (
	"fmt"

	"cosmossdk.io/math"
)

// GetStats returns the running counters plus per-denomination cumulative
// volume. ActiveSwaps is derived, not stored.
func (s *Storage) GetStats() (*SwapStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats SwapStats
	err := s.db.QueryRow(`
		SELECT total_swaps, completed_swaps, refunded_swaps
		FROM swap_stats WHERE id = 1
	`).Scan(&stats.TotalSwaps, &stats.CompletedSwaps, &stats.RefundedSwaps)
	if err != nil {
		return nil, err
	}
	stats.ActiveSwaps = stats.TotalSwaps - stats.CompletedSwaps - stats.RefundedSwaps

	rows, err := s.db.Query(`SELECT denom, amount FROM swap_volume ORDER BY denom ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var denom, amount string
		if err := rows.Scan(&denom, &amount); err != nil {
			return nil, err
		}
		value, ok := math.NewIntFromString(amount)
		if !ok {
			return nil, fmt.Errorf("%w: volume for %s", ErrMalformedAmount, denom)
		}
		stats.TotalVolume = append(stats.TotalVolume, NewCoin(denom, value))
	}
	return &stats, rows.Err()
}
