// Package engine implements the cross-chain HTLC swap lifecycle.
//
// Every operation runs to completion against the ledger with no internal
// concurrency; the caller (the RPC layer, or whatever host dispatches
// calls) is responsible for serializing execute calls. Each operation
// validates first and mutates last, so a rejection leaves storage
// untouched; the compound ledger writes themselves commit atomically
// inside storage.
package engine

import (
	"cosmossdk.io/math"

	"github.com/crosslock-exchange/crosslock/internal/storage"
	"github.com/crosslock-exchange/crosslock/pkg/logging"
)

// AddressValidator checks that a string is a well-formed address in the
// host's identity scheme. The engine never interprets addresses beyond
// equality comparison.
type AddressValidator interface {
	Validate(address string) error
}

// Engine is the swap lifecycle state machine.
type Engine struct {
	store     *storage.Storage
	validator AddressValidator
	log       *logging.Logger
}

// New creates an engine over the given ledger.
func New(store *storage.Storage, validator AddressValidator) *Engine {
	return &Engine{
		store:     store,
		validator: validator,
		log:       logging.GetDefault().Component("engine"),
	}
}

// CallContext carries the host-supplied facts about one external call:
// who is calling, what funds they attached, and the call's canonical
// logical time and sequence height.
type CallContext struct {
	Sender string
	Funds  []storage.Coin
	Now    int64
	Height int64
}

// AttachedAmount returns the attached quantity in the given denomination.
func (c CallContext) AttachedAmount(denom string) storage.Coin {
	for _, coin := range c.Funds {
		if coin.Denom == denom {
			return coin
		}
	}
	return storage.NewCoin(denom, math.ZeroInt())
}

// Transfer is one asset-transfer instruction emitted by a terminal
// transition. Execution belongs to the host collaborator.
type Transfer struct {
	Recipient string       `json:"recipient"`
	Amount    storage.Coin `json:"amount"`
}

// loadPolicy fetches the policy singleton at the start of an operation.
func (e *Engine) loadPolicy() (*storage.Policy, error) {
	return e.store.GetPolicy()
}

// validateAddress runs the identity validator and wraps failures.
func (e *Engine) validateAddress(address string) error {
	if err := e.validator.Validate(address); err != nil {
		return &InvalidAddressError{Address: address, Reason: err}
	}
	return nil
}
