// Package rpc - mapping from the engine error taxonomy to JSON-RPC codes.
package rpc

import (
	"errors"

	"github.com/crosslock-exchange/crosslock/internal/engine"
)

// Application error codes, one per engine error kind, so callers can
// branch without parsing messages.
const (
	CodeContractPaused       = -32000
	CodeUnauthorized         = -32001
	CodeOnlyInitiator        = -32002
	CodeOnlyParticipant      = -32003
	CodeSwapAlreadyExists    = -32004
	CodeSwapNotFound         = -32005
	CodeSwapAlreadyCompleted = -32006
	CodeSwapAlreadyRefunded  = -32007
	CodeSwapNotExpired       = -32008
	CodeSwapExpired          = -32009
	CodeInvalidTimelock      = -32010
	CodeInvalidAmount        = -32011
	CodeInvalidSecret        = -32012
	CodeInvalidHashlock      = -32013
	CodeSafetyDepositTooLow  = -32014
	CodeInvalidAddress       = -32015
)

// paramError marks a malformed-request failure so it maps to the standard
// InvalidParams code instead of an application code.
type paramError struct {
	err error
}

func (e *paramError) Error() string { return e.err.Error() }
func (e *paramError) Unwrap() error { return e.err }

func invalidParams(err error) error {
	return &paramError{err: err}
}

// toRPCError converts a handler error into a structured JSON-RPC error.
func toRPCError(err error) *Error {
	var param *paramError
	if errors.As(err, &param) {
		return &Error{Code: InvalidParams, Message: err.Error()}
	}

	switch {
	case errors.Is(err, engine.ErrContractPaused):
		return &Error{Code: CodeContractPaused, Message: err.Error()}
	case errors.Is(err, engine.ErrUnauthorized):
		return &Error{Code: CodeUnauthorized, Message: err.Error()}
	case errors.Is(err, engine.ErrOnlyInitiator):
		return &Error{Code: CodeOnlyInitiator, Message: err.Error()}
	case errors.Is(err, engine.ErrOnlyParticipant):
		return &Error{Code: CodeOnlyParticipant, Message: err.Error()}
	case errors.Is(err, engine.ErrSwapNotFound):
		return &Error{Code: CodeSwapNotFound, Message: err.Error()}
	case errors.Is(err, engine.ErrSwapAlreadyCompleted):
		return &Error{Code: CodeSwapAlreadyCompleted, Message: err.Error()}
	case errors.Is(err, engine.ErrSwapAlreadyRefunded):
		return &Error{Code: CodeSwapAlreadyRefunded, Message: err.Error()}
	case errors.Is(err, engine.ErrInvalidAmount):
		return &Error{Code: CodeInvalidAmount, Message: err.Error()}
	}

	var exists *engine.SwapExistsError
	if errors.As(err, &exists) {
		return &Error{Code: CodeSwapAlreadyExists, Message: err.Error(),
			Data: map[string]string{"swap_id": exists.SwapID}}
	}

	var notExpired *engine.SwapNotExpiredError
	if errors.As(err, &notExpired) {
		return &Error{Code: CodeSwapNotExpired, Message: err.Error(),
			Data: map[string]int64{"current_time": notExpired.Now, "expiry": notExpired.Expiry}}
	}

	var expired *engine.SwapExpiredError
	if errors.As(err, &expired) {
		return &Error{Code: CodeSwapExpired, Message: err.Error(),
			Data: map[string]int64{"current_time": expired.Now, "expiry": expired.Expiry}}
	}

	var timelock *engine.InvalidTimelockError
	if errors.As(err, &timelock) {
		return &Error{Code: CodeInvalidTimelock, Message: err.Error(),
			Data: map[string]int64{"min": timelock.Min, "max": timelock.Max}}
	}

	var secret *engine.InvalidSecretError
	if errors.As(err, &secret) {
		return &Error{Code: CodeInvalidSecret, Message: err.Error(),
			Data: map[string]string{"expected": secret.Expected, "actual": secret.Actual}}
	}

	var hashlock *engine.InvalidHashlockError
	if errors.As(err, &hashlock) {
		return &Error{Code: CodeInvalidHashlock, Message: err.Error()}
	}

	var deposit *engine.SafetyDepositTooLowError
	if errors.As(err, &deposit) {
		return &Error{Code: CodeSafetyDepositTooLow, Message: err.Error(),
			Data: map[string]string{
				"minimum":  deposit.Minimum.String(),
				"provided": deposit.Provided.String(),
			}}
	}

	var address *engine.InvalidAddressError
	if errors.As(err, &address) {
		return &Error{Code: CodeInvalidAddress, Message: err.Error(),
			Data: map[string]string{"address": address.Address}}
	}

	return &Error{Code: InternalError, Message: err.Error()}
}
