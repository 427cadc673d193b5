// Package engine - swap completion by preimage reveal.
package engine

import (
	"github.com/crosslock-exchange/crosslock/internal/storage"
)

// Complete claims a swap by revealing the hashlock preimage. Only the
// participant may complete, only before the timelock, and only while the
// swap is still in the initiated state. On success the principal moves to
// the participant and the safety deposit returns to the initiator.
func (e *Engine) Complete(call CallContext, swapID, secret string) (*storage.Swap, []Transfer, error) {
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

	if call.Sender != swap.Participant {
		return nil, nil, ErrOnlyParticipant
	}

	if err := checkInitiated(swap); err != nil {
		return nil, nil, err
	}

	if call.Now >= swap.Timelock {
		return nil, nil, &SwapExpiredError{Now: call.Now, Expiry: swap.Timelock}
	}

	if !VerifySecret(swap.Hashlock, secret) {
		return nil, nil, &InvalidSecretError{
			Expected: swap.Hashlock,
			Actual:   SecretHash(secret),
		}
	}

	if err := e.store.FinalizeSwap(swapID, storage.SwapStateCompleted, secret, call.Now); err != nil {
		return nil, nil, mapFinalizeErr(err, swap)
	}

	swap.State = storage.SwapStateCompleted
	swap.Secret = secret
	swap.CompletedAt = call.Now

	transfers := []Transfer{
		{Recipient: swap.Participant, Amount: swap.Amount},
	}
	if !swap.SafetyDeposit.IsZero() {
		transfers = append(transfers, Transfer{
			Recipient: swap.Initiator,
			Amount:    storage.NewCoin(swap.Amount.Denom, swap.SafetyDeposit),
		})
	}

	e.log.Info("swap completed",
		"swap_id", swapID,
		"completed_by", call.Sender)

	return swap, transfers, nil
}
