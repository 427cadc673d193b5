// Package identity validates account addresses for the swap engine.
// Addresses follow the bech32 scheme used by Cosmos-family chains.
package identity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"
)

// Validation errors.
var (
	ErrEmptyAddress  = errors.New("address is empty")
	ErrMixedCase     = errors.New("address must be lowercase")
	ErrWrongPrefix   = errors.New("address has wrong prefix")
	ErrNotBech32     = errors.New("address is not valid bech32")
	ErrEmptyDataPart = errors.New("address has no data part")
)

// Validator checks bech32 addresses, optionally pinned to one
// human-readable prefix.
type Validator struct {
	prefix string
}

// New creates a validator. An empty prefix accepts any bech32 HRP.
func New(prefix string) *Validator {
	return &Validator{prefix: prefix}
}

// Validate reports whether address is well-formed bech32 with the expected
// prefix.
func (v *Validator) Validate(address string) error {
	if address == "" {
		return ErrEmptyAddress
	}
	// bech32 forbids mixed case; the engine stores addresses verbatim, so
	// require the canonical lowercase form outright.
	if address != strings.ToLower(address) {
		return ErrMixedCase
	}

	hrp, data, err := bech32.Decode(address)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotBech32, err)
	}
	if len(data) == 0 {
		return ErrEmptyDataPart
	}
	if v.prefix != "" && hrp != v.prefix {
		return fmt.Errorf("%w: want %q, got %q", ErrWrongPrefix, v.prefix, hrp)
	}
	return nil
}
