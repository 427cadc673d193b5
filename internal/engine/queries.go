// Package engine - read-only queries.
package engine

import (
	"github.com/crosslock-exchange/crosslock/internal/storage"
)

// Policy returns the current administrative parameters.
func (e *Engine) Policy() (*storage.Policy, error) {
	return e.loadPolicy()
}

// Swap returns one swap record by ID.
func (e *Engine) Swap(swapID string) (*storage.Swap, error) {
	return e.loadSwap(swapID)
}

// SwapsByInitiator lists swaps created by an initiator, ascending by swap
// ID. startAfter is an exclusive cursor; limit defaults to 10, capped at 30.
func (e *Engine) SwapsByInitiator(initiator, startAfter string, limit int) ([]*storage.Swap, error) {
	return e.store.ListSwapsByInitiator(initiator, startAfter, limit)
}

// SwapsByParticipant lists swaps addressed to a participant.
func (e *Engine) SwapsByParticipant(participant, startAfter string, limit int) ([]*storage.Swap, error) {
	return e.store.ListSwapsByParticipant(participant, startAfter, limit)
}

// SwapsByHashlock lists swaps committed to a hashlock.
func (e *Engine) SwapsByHashlock(hashlock, startAfter string, limit int) ([]*storage.Swap, error) {
	return e.store.ListSwapsByHashlock(hashlock, startAfter, limit)
}

// Stats returns the running swap counters and cumulative volume.
func (e *Engine) Stats() (*storage.SwapStats, error) {
	return e.store.GetStats()
}
