// Package rpc - request and response types for the swap API.
package rpc

import (
	"github.com/crosslock-exchange/crosslock/internal/engine"
	"github.com/crosslock-exchange/crosslock/internal/storage"
)

// SwapInitiateParams are the parameters for swap_initiate. Sender and
// Funds stand in for the host environment's message info: who calls, and
// what value the call attached.
type SwapInitiateParams struct {
	Sender            string         `json:"sender"`
	Funds             []storage.Coin `json:"funds,omitempty"`
	Participant       string         `json:"participant"`
	Amount            storage.Coin   `json:"amount"`
	Hashlock          string         `json:"hashlock"`
	Timelock          int64          `json:"timelock"`
	EthereumRecipient string         `json:"ethereum_recipient,omitempty"`
	EthereumChainID   string         `json:"ethereum_chain_id,omitempty"`
}

// SwapCompleteParams are the parameters for swap_complete.
type SwapCompleteParams struct {
	Sender string `json:"sender"`
	SwapID string `json:"swap_id"`
	Secret string `json:"secret"`
}

// SwapRefundParams are the parameters for swap_refund and
// swap_emergencyRefund.
type SwapRefundParams struct {
	Sender string `json:"sender"`
	SwapID string `json:"swap_id"`
}

// ConfigUpdateParams are the parameters for config_update. Omitted fields
// are left unchanged.
type ConfigUpdateParams struct {
	Sender               string  `json:"sender"`
	Admin                *string `json:"admin,omitempty"`
	MinimumSafetyDeposit *string `json:"minimum_safety_deposit,omitempty"`
	MinTimelockDuration  *int64  `json:"min_timelock_duration,omitempty"`
	MaxTimelockDuration  *int64  `json:"max_timelock_duration,omitempty"`
	Paused               *bool   `json:"paused,omitempty"`
}

// SwapGetParams are the parameters for swap_get.
type SwapGetParams struct {
	SwapID string `json:"swap_id"`
}

// SwapListParams are the shared pagination parameters for the index
// queries. StartAfter is an exclusive cursor on swap ID; Limit defaults to
// 10 and is capped at 30.
type SwapListParams struct {
	Initiator   string `json:"initiator,omitempty"`
	Participant string `json:"participant,omitempty"`
	Hashlock    string `json:"hashlock,omitempty"`
	StartAfter  string `json:"start_after,omitempty"`
	Limit       int    `json:"limit,omitempty"`
}

// ExecuteResult is the response to a successful execute call: the swap
// after the transition plus the asset-transfer instructions the host must
// carry out.
type ExecuteResult struct {
	Swap      *storage.Swap     `json:"swap"`
	Transfers []engine.Transfer `json:"transfers,omitempty"`
}

// SwapListResult is the response to the index queries.
type SwapListResult struct {
	Swaps []*storage.Swap `json:"swaps"`
}

// NewSecretResult is the response to swap_newSecret.
type NewSecretResult struct {
	Secret   string `json:"secret"`
	Hashlock string `json:"hashlock"`
}

// NodeStatusResult is the response to node_status.
type NodeStatusResult struct {
	Version   string `json:"version"`
	Height    int64  `json:"height"`
	WSClients int    `json:"ws_clients"`
}
