// Package engine - the closed error taxonomy for swap operations.
// Every rejection is terminal and leaves storage untouched; callers branch
// on the error kind, not on message text.
package engine

import (
	"errors"
	"fmt"

	"cosmossdk.io/math"
)

// Field-less rejections.
var (
	ErrContractPaused       = errors.New("contract is paused")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrOnlyInitiator        = errors.New("only the initiator can refund")
	ErrOnlyParticipant      = errors.New("only the participant can complete")
	ErrInvalidAmount        = errors.New("swap amount must be greater than zero")
	ErrSwapAlreadyCompleted = errors.New("swap already completed")
	ErrSwapAlreadyRefunded  = errors.New("swap already refunded")
	ErrSwapNotFound         = errors.New("swap not found")
)

// SwapExistsError is returned when a derived swap ID collides with an
// existing record.
type SwapExistsError struct {
	SwapID string
}

func (e *SwapExistsError) Error() string {
	return fmt.Sprintf("swap already exists: %s", e.SwapID)
}

// InvalidTimelockError carries the allowed bounds in seconds.
type InvalidTimelockError struct {
	Min int64
	Max int64
}

func (e *InvalidTimelockError) Error() string {
	return fmt.Sprintf("invalid timelock: must be between %d and %d seconds from now", e.Min, e.Max)
}

// InvalidHashlockError is returned when the hashlock is not a 64-character
// hex string.
type InvalidHashlockError struct {
	Hashlock string
}

func (e *InvalidHashlockError) Error() string {
	return "invalid hashlock format: must be a 64-character hex string"
}

// SafetyDepositTooLowError carries the configured minimum.
type SafetyDepositTooLowError struct {
	Minimum  math.Int
	Provided math.Int
}

func (e *SafetyDepositTooLowError) Error() string {
	return fmt.Sprintf("safety deposit too low: minimum required is %s, got %s",
		e.Minimum.String(), e.Provided.String())
}

// SwapExpiredError is returned when completion is attempted at or after the
// timelock.
type SwapExpiredError struct {
	Now    int64
	Expiry int64
}

func (e *SwapExpiredError) Error() string {
	return fmt.Sprintf("swap expired: current time %d, expiry %d", e.Now, e.Expiry)
}

// SwapNotExpiredError is returned when refund is attempted before the
// timelock.
type SwapNotExpiredError struct {
	Now    int64
	Expiry int64
}

func (e *SwapNotExpiredError) Error() string {
	return fmt.Sprintf("swap not yet expired: current time %d, expiry %d", e.Now, e.Expiry)
}

// InvalidSecretError carries both hashes so the caller can diagnose the
// mismatch.
type InvalidSecretError struct {
	Expected string
	Actual   string
}

func (e *InvalidSecretError) Error() string {
	return fmt.Sprintf("invalid secret: expected hash %s, got %s", e.Expected, e.Actual)
}

// InvalidAddressError wraps an identity-validator rejection.
type InvalidAddressError struct {
	Address string
	Reason  error
}

func (e *InvalidAddressError) Error() string {
	return fmt.Sprintf("invalid address %q: %v", e.Address, e.Reason)
}

func (e *InvalidAddressError) Unwrap() error {
	return e.Reason
}
