// Package engine - administrative policy updates.
package engine

import (
	"cosmossdk.io/math"

	"github.com/crosslock-exchange/crosslock/internal/storage"
)

// PolicyUpdate carries the optional fields of an UpdateConfig call. Only
// non-nil fields are applied; no cross-field validation is performed, the
// admin is trusted to supply sensible bounds.
type PolicyUpdate struct {
	Admin                *string
	MinimumSafetyDeposit *math.Int
	MinTimelockDuration  *int64
	MaxTimelockDuration  *int64
	Paused               *bool
}

// UpdatePolicy applies an admin-only partial update to the policy
// singleton and returns the resulting policy.
func (e *Engine) UpdatePolicy(call CallContext, update PolicyUpdate) (*storage.Policy, error) {
	policy, err := e.loadPolicy()
	if err != nil {
		return nil, err
	}

	if call.Sender != policy.Admin {
		return nil, ErrUnauthorized
	}

	if update.Admin != nil {
		if err := e.validateAddress(*update.Admin); err != nil {
			return nil, err
		}
		policy.Admin = *update.Admin
	}
	if update.MinimumSafetyDeposit != nil {
		policy.MinimumSafetyDeposit = *update.MinimumSafetyDeposit
	}
	if update.MinTimelockDuration != nil {
		policy.MinTimelockDuration = *update.MinTimelockDuration
	}
	if update.MaxTimelockDuration != nil {
		policy.MaxTimelockDuration = *update.MaxTimelockDuration
	}
	if update.Paused != nil {
		policy.Paused = *update.Paused
	}

	if policy.MinTimelockDuration >= policy.MaxTimelockDuration {
		// Accepted as-is; every future Initiate will fail InvalidTimelock
		// until the admin fixes the bounds.
		e.log.Warn("accepted inverted timelock bounds",
			"min", policy.MinTimelockDuration,
			"max", policy.MaxTimelockDuration)
	}

	if err := e.store.SavePolicy(policy); err != nil {
		return nil, err
	}

	e.log.Info("policy updated", "admin", policy.Admin, "paused", policy.Paused)

	return policy, nil
}
