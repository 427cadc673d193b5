// Package engine - refund paths.
package engine

import (
	"errors"

	"github.com/crosslock-exchange/crosslock/internal/storage"
)

// Refund returns a swap's principal and safety deposit to the initiator
// after the timelock has elapsed. Only the initiator may refund.
func (e *Engine) Refund(call CallContext, swapID string) (*storage.Swap, []Transfer, error) {
	policy, err := e.loadPolicy()
	if err != nil {
		return nil, nil, err
	}
	if policy.Paused {
		return nil, nil, ErrContractPaused
	}

	swap, err := e.loadSwap(swapID)
	if err != nil {
		return nil, nil, err
	}

	if call.Sender != swap.Initiator {
		return nil, nil, ErrOnlyInitiator
	}

	if err := checkInitiated(swap); err != nil {
		return nil, nil, err
	}

	if call.Now < swap.Timelock {
		return nil, nil, &SwapNotExpiredError{Now: call.Now, Expiry: swap.Timelock}
	}

	transfers, err := e.finalizeRefund(call, swap)
	if err != nil {
		return nil, nil, err
	}

	e.log.Info("swap refunded",
		"swap_id", swapID,
		"refunded_to", swap.Initiator)

	return swap, transfers, nil
}

// EmergencyRefund is the admin circuit-breaker: it bypasses the pause gate
// and ignores the timelock entirely, but still refuses terminal swaps.
// Funds always go back to the initiator, never the admin.
func (e *Engine) EmergencyRefund(call CallContext, swapID string) (*storage.Swap, []Transfer, error) {
	policy, err := e.loadPolicy()
	if err != nil {
		return nil, nil, err
	}

	if call.Sender != policy.Admin {
		return nil, nil, ErrUnauthorized
	}

	swap, err := e.loadSwap(swapID)
	if err != nil {
		return nil, nil, err
	}

	if err := checkInitiated(swap); err != nil {
		return nil, nil, err
	}

	transfers, err := e.finalizeRefund(call, swap)
	if err != nil {
		return nil, nil, err
	}

	e.log.Warn("swap refunded by admin override",
		"swap_id", swapID,
		"admin", call.Sender,
		"refunded_to", swap.Initiator)

	return swap, transfers, nil
}

// finalizeRefund persists the terminal transition and builds the refund
// transfer instructions.
func (e *Engine) finalizeRefund(call CallContext, swap *storage.Swap) ([]Transfer, error) {
	if err := e.store.FinalizeSwap(swap.SwapID, storage.SwapStateRefunded, "", call.Now); err != nil {
		return nil, mapFinalizeErr(err, swap)
	}

	swap.State = storage.SwapStateRefunded
	swap.CompletedAt = call.Now

	transfers := []Transfer{
		{Recipient: swap.Initiator, Amount: swap.Amount},
	}
	if !swap.SafetyDeposit.IsZero() {
		transfers = append(transfers, Transfer{
			Recipient: swap.Initiator,
			Amount:    storage.NewCoin(swap.Amount.Denom, swap.SafetyDeposit),
		})
	}
	return transfers, nil
}

// loadSwap fetches a swap, mapping the storage sentinel to the engine's.
func (e *Engine) loadSwap(swapID string) (*storage.Swap, error) {
	swap, err := e.store.GetSwap(swapID)
	if err != nil {
		if errors.Is(err, storage.ErrSwapNotFound) {
			return nil, ErrSwapNotFound
		}
		return nil, err
	}
	return swap, nil
}

// checkInitiated rejects terminal swaps with the matching Already* error.
func checkInitiated(swap *storage.Swap) error {
	switch swap.State {
	case storage.SwapStateInitiated:
		return nil
	case storage.SwapStateCompleted:
		return ErrSwapAlreadyCompleted
	case storage.SwapStateRefunded:
		return ErrSwapAlreadyRefunded
	}
	return ErrSwapNotFound
}

// mapFinalizeErr translates storage finalize failures into the taxonomy.
// ErrSwapFinalized can only mean the record reached a terminal state, which
// the earlier checkInitiated read did not see.
func mapFinalizeErr(err error, swap *storage.Swap) error {
	switch {
	case errors.Is(err, storage.ErrSwapNotFound):
		return ErrSwapNotFound
	case errors.Is(err, storage.ErrSwapFinalized):
		if swap.State == storage.SwapStateRefunded {
			return ErrSwapAlreadyRefunded
		}
		return ErrSwapAlreadyCompleted
	}
	return err
}
