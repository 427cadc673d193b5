// Package rpc - JSON-RPC method handlers.
// Execute handlers serialize on execMu, stamp the call with the wall clock
// and the next sequence height, invoke the engine, and broadcast the
// resulting lifecycle event.
package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"cosmossdk.io/math"

	"github.com/crosslock-exchange/crosslock/internal/engine"
	"github.com/crosslock-exchange/crosslock/pkg/helpers"
)

// Version is the daemon version reported by node_status.
var Version = "dev"

func (s *Server) swapInitiate(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p SwapInitiateParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, invalidParams(err)
	}
	if p.Sender == "" {
		return nil, invalidParams(fmt.Errorf("sender is required"))
	}
	for _, coin := range p.Funds {
		if coin.Amount.IsNil() || coin.Amount.IsNegative() {
			return nil, invalidParams(fmt.Errorf("funds amounts must be non-negative"))
		}
	}

	s.execMu.Lock()
	defer s.execMu.Unlock()

	call, err := s.newCall(&p)
	if err != nil {
		return nil, err
	}

	swap, err := s.engine.Initiate(call, engine.InitiateParams{
		Participant:       p.Participant,
		Amount:            p.Amount,
		Hashlock:          p.Hashlock,
		Timelock:          p.Timelock,
		EthereumRecipient: p.EthereumRecipient,
		EthereumChainID:   p.EthereumChainID,
	})
	if err != nil {
		return nil, err
	}

	s.broadcast(EventSwapInitiated, swap)
	return &ExecuteResult{Swap: swap}, nil
}

func (s *Server) swapComplete(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p SwapCompleteParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, invalidParams(err)
	}
	if p.Sender == "" || p.SwapID == "" {
		return nil, invalidParams(fmt.Errorf("sender and swap_id are required"))
	}

	s.execMu.Lock()
	defer s.execMu.Unlock()

	call, err := s.newCall(nil)
	if err != nil {
		return nil, err
	}
	call.Sender = p.Sender

	swap, transfers, err := s.engine.Complete(call, p.SwapID, p.Secret)
	if err != nil {
		return nil, err
	}

	result := &ExecuteResult{Swap: swap, Transfers: transfers}
	s.broadcast(EventSwapCompleted, result)
	return result, nil
}

func (s *Server) swapRefund(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p SwapRefundParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, invalidParams(err)
	}
	if p.Sender == "" || p.SwapID == "" {
		return nil, invalidParams(fmt.Errorf("sender and swap_id are required"))
	}

	s.execMu.Lock()
	defer s.execMu.Unlock()

	call, err := s.newCall(nil)
	if err != nil {
		return nil, err
	}
	call.Sender = p.Sender

	swap, transfers, err := s.engine.Refund(call, p.SwapID)
	if err != nil {
		return nil, err
	}

	result := &ExecuteResult{Swap: swap, Transfers: transfers}
	s.broadcast(EventSwapRefunded, result)
	return result, nil
}

func (s *Server) swapEmergencyRefund(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p SwapRefundParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, invalidParams(err)
	}
	if p.Sender == "" || p.SwapID == "" {
		return nil, invalidParams(fmt.Errorf("sender and swap_id are required"))
	}

	s.execMu.Lock()
	defer s.execMu.Unlock()

	call, err := s.newCall(nil)
	if err != nil {
		return nil, err
	}
	call.Sender = p.Sender

	swap, transfers, err := s.engine.EmergencyRefund(call, p.SwapID)
	if err != nil {
		return nil, err
	}

	result := &ExecuteResult{Swap: swap, Transfers: transfers}
	s.broadcast(EventSwapRefunded, result)
	return result, nil
}

func (s *Server) configUpdate(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p ConfigUpdateParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, invalidParams(err)
	}
	if p.Sender == "" {
		return nil, invalidParams(fmt.Errorf("sender is required"))
	}

	update := engine.PolicyUpdate{
		Admin:               p.Admin,
		MinTimelockDuration: p.MinTimelockDuration,
		MaxTimelockDuration: p.MaxTimelockDuration,
		Paused:              p.Paused,
	}
	if p.MinimumSafetyDeposit != nil {
		deposit, ok := math.NewIntFromString(*p.MinimumSafetyDeposit)
		if !ok || deposit.IsNegative() {
			return nil, invalidParams(fmt.Errorf("minimum_safety_deposit must be a non-negative integer"))
		}
		update.MinimumSafetyDeposit = &deposit
	}

	s.execMu.Lock()
	defer s.execMu.Unlock()

	call, err := s.newCall(nil)
	if err != nil {
		return nil, err
	}
	call.Sender = p.Sender

	policy, err := s.engine.UpdatePolicy(call, update)
	if err != nil {
		return nil, err
	}

	s.broadcast(EventConfigUpdated, policy)
	return policy, nil
}

func (s *Server) configGet(ctx context.Context, params json.RawMessage) (interface{}, error) {
	return s.engine.Policy()
}

func (s *Server) swapGet(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p SwapGetParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, invalidParams(err)
	}
	if p.SwapID == "" {
		return nil, invalidParams(fmt.Errorf("swap_id is required"))
	}
	return s.engine.Swap(p.SwapID)
}

func (s *Server) swapsByInitiator(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p SwapListParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, invalidParams(err)
	}
	if p.Initiator == "" {
		return nil, invalidParams(fmt.Errorf("initiator is required"))
	}
	swaps, err := s.engine.SwapsByInitiator(p.Initiator, p.StartAfter, p.Limit)
	if err != nil {
		return nil, err
	}
	return &SwapListResult{Swaps: swaps}, nil
}

func (s *Server) swapsByParticipant(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p SwapListParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, invalidParams(err)
	}
	if p.Participant == "" {
		return nil, invalidParams(fmt.Errorf("participant is required"))
	}
	swaps, err := s.engine.SwapsByParticipant(p.Participant, p.StartAfter, p.Limit)
	if err != nil {
		return nil, err
	}
	return &SwapListResult{Swaps: swaps}, nil
}

func (s *Server) swapsByHashlock(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p SwapListParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, invalidParams(err)
	}
	if p.Hashlock == "" {
		return nil, invalidParams(fmt.Errorf("hashlock is required"))
	}
	swaps, err := s.engine.SwapsByHashlock(p.Hashlock, p.StartAfter, p.Limit)
	if err != nil {
		return nil, err
	}
	return &SwapListResult{Swaps: swaps}, nil
}

func (s *Server) swapStats(ctx context.Context, params json.RawMessage) (interface{}, error) {
	return s.engine.Stats()
}

func (s *Server) nodeStatus(ctx context.Context, params json.RawMessage) (interface{}, error) {
	height, err := s.store.CurrentSequence()
	if err != nil {
		return nil, err
	}
	clients := 0
	if s.wsHub != nil {
		clients = s.wsHub.ClientCount()
	}
	return &NodeStatusResult{
		Version:   Version,
		Height:    height,
		WSClients: clients,
	}, nil
}

// swapNewSecret mints a fresh 32-byte secret and its hashlock. Client
// convenience only; the engine never generates or stores secrets before
// they are revealed.
func (s *Server) swapNewSecret(ctx context.Context, params json.RawMessage) (interface{}, error) {
	secret, err := helpers.RandomHex(32)
	if err != nil {
		return nil, err
	}
	return &NewSecretResult{
		Secret:   secret,
		Hashlock: engine.SecretHash(secret),
	}, nil
}

// newCall builds the CallContext for an execute call: wall-clock time and
// the next sequence height. For Initiate the params supply sender and
// attached funds; the other executes fill the sender afterwards.
func (s *Server) newCall(p *SwapInitiateParams) (engine.CallContext, error) {
	height, err := s.store.NextSequence()
	if err != nil {
		return engine.CallContext{}, err
	}
	call := engine.CallContext{
		Now:    s.now(),
		Height: height,
	}
	if p != nil {
		call.Sender = p.Sender
		call.Funds = p.Funds
	}
	return call, nil
}

// broadcast publishes a lifecycle event if the hub is running.
func (s *Server) broadcast(eventType EventType, data interface{}) {
	if s.wsHub != nil {
		s.wsHub.Broadcast(eventType, data)
	}
}
