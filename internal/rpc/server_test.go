package rpc

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"cosmossdk.io/math"

	"github.com/crosslock-exchange/crosslock/internal/engine"
	"github.com/crosslock-exchange/crosslock/internal/storage"
)

const (
	testNow   = int64(1700000000)
	testAdmin = "admin1"
	alice     = "alice1"
	bob       = "bob1"
)

type stubValidator struct{}

func (stubValidator) Validate(addr string) error {
	if addr == "" {
		return errors.New("empty address")
	}
	return nil
}

// rawResponse mirrors Response with a raw result so tests can re-unmarshal
// into the typed result they expect.
type rawResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result"`
	Error   *Error          `json:"error"`
	ID      interface{}     `json:"id"`
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	store, err := storage.New(&storage.Config{DataDir: t.TempDir()})
	if err != nil {
		t.Fatalf("storage.New() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })

	if err := store.EnsurePolicy(storage.DefaultPolicy(testAdmin)); err != nil {
		t.Fatalf("EnsurePolicy() error = %v", err)
	}

	s := NewServer(engine.New(store, stubValidator{}), store)
	s.now = func() int64 { return testNow }
	return s
}

// rpcCall posts one JSON-RPC request through the HTTP handler.
func rpcCall(t *testing.T, s *Server, method string, params interface{}) *rawResponse {
	t.Helper()

	req := map[string]interface{}{
		"jsonrpc": "2.0",
		"method":  method,
		"id":      1,
	}
	if params != nil {
		req["params"] = params
	}
	body, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	return rpcPost(t, s, string(body))
}

func rpcPost(t *testing.T, s *Server, body string) *rawResponse {
	t.Helper()

	rec := httptest.NewRecorder()
	s.handleRPC(rec, httptest.NewRequest("POST", "/", strings.NewReader(body)))

	var resp rawResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response %q: %v", rec.Body.String(), err)
	}
	if resp.JSONRPC != "2.0" {
		t.Fatalf("jsonrpc = %q, want 2.0", resp.JSONRPC)
	}
	return &resp
}

func mustResult(t *testing.T, resp *rawResponse, out interface{}) {
	t.Helper()
	if resp.Error != nil {
		t.Fatalf("rpc error %d: %s", resp.Error.Code, resp.Error.Message)
	}
	if err := json.Unmarshal(resp.Result, out); err != nil {
		t.Fatalf("unmarshal result %s: %v", resp.Result, err)
	}
}

func wantCode(t *testing.T, resp *rawResponse, code int) {
	t.Helper()
	if resp.Error == nil {
		t.Fatalf("result = %s, want error code %d", resp.Result, code)
	}
	if resp.Error.Code != code {
		t.Fatalf("error code = %d (%s), want %d", resp.Error.Code, resp.Error.Message, code)
	}
}

func initiateParams(hashlock string) SwapInitiateParams {
	return SwapInitiateParams{
		Sender:      alice,
		Funds:       []storage.Coin{storage.NewCoin("ujuno", math.NewInt(2000000))},
		Participant: bob,
		Amount:      storage.NewCoin("ujuno", math.NewInt(1000)),
		Hashlock:    hashlock,
		Timelock:    testNow + 7200,
	}
}

func TestSwapLifecycleOverRPC(t *testing.T) {
	s := newTestServer(t)
	hashlock := engine.SecretHash("secret1")

	var initiated ExecuteResult
	mustResult(t, rpcCall(t, s, "swap_initiate", initiateParams(hashlock)), &initiated)
	if initiated.Swap == nil || initiated.Swap.State != storage.SwapStateInitiated {
		t.Fatalf("initiate result = %+v", initiated)
	}
	swapID := initiated.Swap.SwapID

	var fetched storage.Swap
	mustResult(t, rpcCall(t, s, "swap_get", SwapGetParams{SwapID: swapID}), &fetched)
	if fetched.SwapID != swapID || fetched.Hashlock != hashlock {
		t.Errorf("swap_get = %+v", fetched)
	}
	if !fetched.Amount.Amount.Equal(math.NewInt(1000)) {
		t.Errorf("Amount = %s, want 1000", fetched.Amount.Amount)
	}

	var completed ExecuteResult
	mustResult(t, rpcCall(t, s, "swap_complete", SwapCompleteParams{
		Sender: bob, SwapID: swapID, Secret: "secret1",
	}), &completed)
	if completed.Swap.State != storage.SwapStateCompleted {
		t.Errorf("State = %s, want completed", completed.Swap.State)
	}
	if len(completed.Transfers) != 2 {
		t.Errorf("Transfers = %d, want principal and deposit", len(completed.Transfers))
	}
	if completed.Transfers[0].Recipient != bob {
		t.Errorf("principal recipient = %s, want %s", completed.Transfers[0].Recipient, bob)
	}

	var stats storage.SwapStats
	mustResult(t, rpcCall(t, s, "swap_stats", nil), &stats)
	if stats.TotalSwaps != 1 || stats.CompletedSwaps != 1 || stats.ActiveSwaps != 0 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestProtocolErrors(t *testing.T) {
	s := newTestServer(t)

	t.Run("parse error", func(t *testing.T) {
		wantCode(t, rpcPost(t, s, "{not json"), ParseError)
	})

	t.Run("wrong version", func(t *testing.T) {
		wantCode(t, rpcPost(t, s, `{"jsonrpc":"1.0","method":"swap_stats","id":1}`), InvalidRequest)
	})

	t.Run("unknown method", func(t *testing.T) {
		wantCode(t, rpcCall(t, s, "swap_teleport", nil), MethodNotFound)
	})

	t.Run("missing sender", func(t *testing.T) {
		params := initiateParams(engine.SecretHash("secret1"))
		params.Sender = ""
		wantCode(t, rpcCall(t, s, "swap_initiate", params), InvalidParams)
	})

	t.Run("missing swap_id", func(t *testing.T) {
		wantCode(t, rpcCall(t, s, "swap_get", SwapGetParams{}), InvalidParams)
	})
}

func TestEngineErrorMapping(t *testing.T) {
	s := newTestServer(t)
	hashlock := engine.SecretHash("secret1")

	var initiated ExecuteResult
	mustResult(t, rpcCall(t, s, "swap_initiate", initiateParams(hashlock)), &initiated)
	swapID := initiated.Swap.SwapID

	t.Run("swap not found", func(t *testing.T) {
		wantCode(t, rpcCall(t, s, "swap_get", SwapGetParams{SwapID: "deadbeef"}), CodeSwapNotFound)
	})

	t.Run("wrong secret", func(t *testing.T) {
		resp := rpcCall(t, s, "swap_complete", SwapCompleteParams{
			Sender: bob, SwapID: swapID, Secret: "secret2",
		})
		wantCode(t, resp, CodeInvalidSecret)
		data, ok := resp.Error.Data.(map[string]interface{})
		if !ok || data["expected"] != hashlock {
			t.Errorf("error data = %v, want expected hashlock", resp.Error.Data)
		}
	})

	t.Run("only participant", func(t *testing.T) {
		wantCode(t, rpcCall(t, s, "swap_complete", SwapCompleteParams{
			Sender: alice, SwapID: swapID, Secret: "secret1",
		}), CodeOnlyParticipant)
	})

	t.Run("refund before expiry", func(t *testing.T) {
		resp := rpcCall(t, s, "swap_refund", SwapRefundParams{Sender: alice, SwapID: swapID})
		wantCode(t, resp, CodeSwapNotExpired)
		data, ok := resp.Error.Data.(map[string]interface{})
		if !ok || data["expiry"] == nil {
			t.Errorf("error data = %v, want expiry", resp.Error.Data)
		}
	})

	t.Run("emergency refund by non-admin", func(t *testing.T) {
		wantCode(t, rpcCall(t, s, "swap_emergencyRefund",
			SwapRefundParams{Sender: alice, SwapID: swapID}), CodeUnauthorized)
	})

	t.Run("deposit too low", func(t *testing.T) {
		params := initiateParams(engine.SecretHash("secret2"))
		params.Funds = []storage.Coin{storage.NewCoin("ujuno", math.NewInt(1))}
		wantCode(t, rpcCall(t, s, "swap_initiate", params), CodeSafetyDepositTooLow)
	})

	t.Run("bad hashlock", func(t *testing.T) {
		wantCode(t, rpcCall(t, s, "swap_initiate", initiateParams("xyz")), CodeInvalidHashlock)
	})

	t.Run("negative amount", func(t *testing.T) {
		params := initiateParams(engine.SecretHash("secret3"))
		params.Amount = storage.NewCoin("ujuno", math.NewInt(-500))
		wantCode(t, rpcCall(t, s, "swap_initiate", params), CodeInvalidAmount)
	})

	t.Run("negative funds", func(t *testing.T) {
		params := initiateParams(engine.SecretHash("secret4"))
		params.Funds = []storage.Coin{storage.NewCoin("ujuno", math.NewInt(-1))}
		wantCode(t, rpcCall(t, s, "swap_initiate", params), InvalidParams)
	})
}

func TestConfigUpdateOverRPC(t *testing.T) {
	s := newTestServer(t)

	paused := true
	var policy storage.Policy
	mustResult(t, rpcCall(t, s, "config_update", ConfigUpdateParams{
		Sender: testAdmin, Paused: &paused,
	}), &policy)
	if !policy.Paused {
		t.Fatalf("Paused = false after update")
	}

	// Paused engine rejects executes with the dedicated code.
	wantCode(t, rpcCall(t, s, "swap_initiate",
		initiateParams(engine.SecretHash("secret1"))), CodeContractPaused)

	// config_get reflects the stored policy.
	mustResult(t, rpcCall(t, s, "config_get", nil), &policy)
	if !policy.Paused || policy.Admin != testAdmin {
		t.Errorf("config_get = %+v", policy)
	}

	// Bad deposit strings never reach the engine.
	badDeposit := "12x4"
	wantCode(t, rpcCall(t, s, "config_update", ConfigUpdateParams{
		Sender: testAdmin, MinimumSafetyDeposit: &badDeposit,
	}), InvalidParams)

	// Non-admin gets the application code, not InvalidParams.
	wantCode(t, rpcCall(t, s, "config_update", ConfigUpdateParams{
		Sender: alice, Paused: &paused,
	}), CodeUnauthorized)
}

func TestSwapListOverRPC(t *testing.T) {
	s := newTestServer(t)

	for i := 0; i < 12; i++ {
		params := initiateParams(engine.SecretHash(fmt.Sprintf("secret%d", i)))
		var res ExecuteResult
		mustResult(t, rpcCall(t, s, "swap_initiate", params), &res)
	}

	var page SwapListResult
	mustResult(t, rpcCall(t, s, "swaps_byInitiator", SwapListParams{Initiator: alice}), &page)
	if len(page.Swaps) != storage.DefaultListLimit {
		t.Fatalf("default page = %d swaps, want %d", len(page.Swaps), storage.DefaultListLimit)
	}

	var rest SwapListResult
	mustResult(t, rpcCall(t, s, "swaps_byInitiator", SwapListParams{
		Initiator:  alice,
		StartAfter: page.Swaps[len(page.Swaps)-1].SwapID,
		Limit:      30,
	}), &rest)
	if len(rest.Swaps) != 2 {
		t.Errorf("second page = %d swaps, want 2", len(rest.Swaps))
	}

	var byParticipant SwapListResult
	mustResult(t, rpcCall(t, s, "swaps_byParticipant", SwapListParams{
		Participant: bob, Limit: 30,
	}), &byParticipant)
	if len(byParticipant.Swaps) != 12 {
		t.Errorf("byParticipant = %d swaps, want 12", len(byParticipant.Swaps))
	}

	hashlock := engine.SecretHash("secret0")
	var byHashlock SwapListResult
	mustResult(t, rpcCall(t, s, "swaps_byHashlock", SwapListParams{Hashlock: hashlock}), &byHashlock)
	if len(byHashlock.Swaps) != 1 || byHashlock.Swaps[0].Hashlock != hashlock {
		t.Errorf("byHashlock = %+v", byHashlock.Swaps)
	}

	// Key is mandatory on each index.
	wantCode(t, rpcCall(t, s, "swaps_byInitiator", SwapListParams{}), InvalidParams)
}

func TestNewSecretOverRPC(t *testing.T) {
	s := newTestServer(t)

	var res NewSecretResult
	mustResult(t, rpcCall(t, s, "swap_newSecret", nil), &res)
	if len(res.Secret) != 64 {
		t.Errorf("secret length = %d, want 64 hex chars", len(res.Secret))
	}
	if res.Hashlock != engine.SecretHash(res.Secret) {
		t.Errorf("hashlock = %s does not commit to the secret", res.Hashlock)
	}
	if !engine.ValidHashlock(res.Hashlock) {
		t.Errorf("hashlock %q not well-formed", res.Hashlock)
	}

	// Two calls never hand out the same secret.
	var other NewSecretResult
	mustResult(t, rpcCall(t, s, "swap_newSecret", nil), &other)
	if other.Secret == res.Secret {
		t.Error("swap_newSecret repeated a secret")
	}
}

func TestNodeStatusHeight(t *testing.T) {
	s := newTestServer(t)

	var status NodeStatusResult
	mustResult(t, rpcCall(t, s, "node_status", nil), &status)
	if status.Height != 0 {
		t.Errorf("fresh height = %d, want 0", status.Height)
	}

	var res ExecuteResult
	mustResult(t, rpcCall(t, s, "swap_initiate", initiateParams(engine.SecretHash("secret1"))), &res)

	// Every execute call advances the logical height, even failed ones.
	wantCode(t, rpcCall(t, s, "swap_initiate", initiateParams("bad")), CodeInvalidHashlock)

	mustResult(t, rpcCall(t, s, "node_status", nil), &status)
	if status.Height != 2 {
		t.Errorf("height = %d, want 2", status.Height)
	}
}
