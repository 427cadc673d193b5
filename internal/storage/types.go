// Package storage - persisted types for the swap ledger.
package storage

import (
	"cosmossdk.io/math"
)

// SwapState represents the lifecycle state of a swap.
type SwapState string

const (
	SwapStateInitiated SwapState = "initiated"
	SwapStateCompleted SwapState = "completed"
	SwapStateRefunded  SwapState = "refunded"
)

// IsTerminal reports whether no further transition is permitted.
func (s SwapState) IsTerminal() bool {
	return s == SwapStateCompleted || s == SwapStateRefunded
}

// Coin is an amount of a single denomination.
type Coin struct {
	Denom  string   `json:"denom"`
	Amount math.Int `json:"amount"`
}

// NewCoin constructs a Coin.
func NewCoin(denom string, amount math.Int) Coin {
	return Coin{Denom: denom, Amount: amount}
}

// Swap is one hash time-locked swap record.
// Created once by Initiate; only state, secret and completed_at ever change.
type Swap struct {
	SwapID      string    `json:"swap_id"`
	Initiator   string    `json:"initiator"`
	Participant string    `json:"participant"`
	Amount      Coin      `json:"amount"`
	Hashlock    string    `json:"hashlock"`
	Timelock    int64     `json:"timelock"`
	State       SwapState `json:"state"`
	Secret      string    `json:"secret,omitempty"`

	// Opaque counterpart-leg metadata, stored and echoed verbatim.
	EthereumRecipient string `json:"ethereum_recipient"`
	EthereumChainID   string `json:"ethereum_chain_id"`

	SafetyDeposit math.Int `json:"safety_deposit"`

	CreatedAt   int64 `json:"created_at"`
	CompletedAt int64 `json:"completed_at,omitempty"`
}

// SwapStats holds the running counters for the ledger.
// Counters only ever increase; ActiveSwaps is derived at query time.
type SwapStats struct {
	TotalSwaps     uint64 `json:"total_swaps"`
	CompletedSwaps uint64 `json:"completed_swaps"`
	RefundedSwaps  uint64 `json:"refunded_swaps"`
	ActiveSwaps    uint64 `json:"active_swaps"`
	TotalVolume    []Coin `json:"total_volume"`
}

// Policy holds the administrative engine parameters.
type Policy struct {
	Admin                string   `json:"admin"`
	MinimumSafetyDeposit math.Int `json:"minimum_safety_deposit"`
	MinTimelockDuration  int64    `json:"min_timelock_duration"`
	MaxTimelockDuration  int64    `json:"max_timelock_duration"`
	Paused               bool     `json:"paused"`
}

// Default policy bounds.
const (
	DefaultMinTimelockDuration = 3600          // 1 hour
	DefaultMaxTimelockDuration = 7 * 24 * 3600 // 1 week
)

// DefaultMinimumSafetyDeposit is the default minimum deposit in base units.
func DefaultMinimumSafetyDeposit() math.Int {
	return math.NewInt(1000000)
}

// DefaultPolicy returns the policy seeded on first boot.
func DefaultPolicy(admin string) Policy {
	return Policy{
		Admin:                admin,
		MinimumSafetyDeposit: DefaultMinimumSafetyDeposit(),
		MinTimelockDuration:  DefaultMinTimelockDuration,
		MaxTimelockDuration:  DefaultMaxTimelockDuration,
	}
}
