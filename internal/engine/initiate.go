// Package engine - swap initiation.
package engine

import (
	"errors"

	"github.com/crosslock-exchange/crosslock/internal/storage"
)

// InitiateParams are the caller-supplied swap creation parameters.
type InitiateParams struct {
	Participant       string
	Amount            storage.Coin
	Hashlock          string
	Timelock          int64
	EthereumRecipient string
	EthereumChainID   string
}

// Initiate locks a new swap under a hash commitment and an expiry.
//
// The principal is assumed escrowed by the host's funds-attachment
// mechanism, so no transfer instruction is emitted here. The attached
// funds in the swap denomination are held as the safety deposit and must
// meet the configured minimum.
func (e *Engine) Initiate(call CallContext, params InitiateParams) (*storage.Swap, error) {
	policy, err := e.loadPolicy()
	if err != nil {
		return nil, err
	}
	if policy.Paused {
		return nil, ErrContractPaused
	}

	if err := e.validateAddress(params.Participant); err != nil {
		return nil, err
	}

	if params.Amount.Amount.IsNil() || !params.Amount.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	// Strict on both ends.
	if params.Timelock <= call.Now+policy.MinTimelockDuration ||
		params.Timelock >= call.Now+policy.MaxTimelockDuration {
		return nil, &InvalidTimelockError{
			Min: policy.MinTimelockDuration,
			Max: policy.MaxTimelockDuration,
		}
	}

	if !ValidHashlock(params.Hashlock) {
		return nil, &InvalidHashlockError{Hashlock: params.Hashlock}
	}

	safetyDeposit := call.AttachedAmount(params.Amount.Denom).Amount
	if safetyDeposit.LT(policy.MinimumSafetyDeposit) {
		return nil, &SafetyDepositTooLowError{
			Minimum:  policy.MinimumSafetyDeposit,
			Provided: safetyDeposit,
		}
	}

	swapID := DeriveSwapID(call.Sender, params.Participant, params.Hashlock,
		params.Timelock, call.Height)

	swap := &storage.Swap{
		SwapID:            swapID,
		Initiator:         call.Sender,
		Participant:       params.Participant,
		Amount:            params.Amount,
		Hashlock:          params.Hashlock,
		Timelock:          params.Timelock,
		State:             storage.SwapStateInitiated,
		EthereumRecipient: params.EthereumRecipient,
		EthereumChainID:   params.EthereumChainID,
		SafetyDeposit:     safetyDeposit,
		CreatedAt:         call.Now,
	}

	if err := e.store.CreateSwap(swap); err != nil {
		if errors.Is(err, storage.ErrSwapExists) {
			return nil, &SwapExistsError{SwapID: swapID}
		}
		return nil, err
	}

	e.log.Info("swap initiated",
		"swap_id", swapID,
		"initiator", swap.Initiator,
		"participant", swap.Participant,
		"amount", swap.Amount.Amount.String()+swap.Amount.Denom,
		"timelock", swap.Timelock)

	return swap, nil
}
