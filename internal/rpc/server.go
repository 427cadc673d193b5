// Package rpc provides a JSON-RPC 2.0 server for the crosslock daemon.
package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/crosslock-exchange/crosslock/internal/engine"
	"github.com/crosslock-exchange/crosslock/internal/storage"
	"github.com/crosslock-exchange/crosslock/pkg/logging"
)

// Server is a JSON-RPC 2.0 server.
type Server struct {
	engine *engine.Engine
	store  *storage.Storage
	log    *logging.Logger
	wsHub  *WSHub

	server   *http.Server
	listener net.Listener

	handlers map[string]Handler
	mu       sync.RWMutex

	// execMu serializes execute calls. The engine runs every call to
	// completion with no interleaving; this mutex is the host-side
	// sequencing the engine relies on. Queries do not take it.
	execMu sync.Mutex

	// now supplies the canonical logical time for execute calls.
	// Swapped out in tests.
	now func() int64
}

// Handler is a JSON-RPC method handler.
type Handler func(ctx context.Context, params json.RawMessage) (interface{}, error)

// Request represents a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      interface{}     `json:"id,omitempty"`
}

// Response represents a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string      `json:"jsonrpc"`
	Result  interface{} `json:"result,omitempty"`
	Error   *Error      `json:"error,omitempty"`
	ID      interface{} `json:"id"`
}

// Error represents a JSON-RPC 2.0 error.
type Error struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Standard error codes.
const (
	ParseError     = -32700
	InvalidRequest = -32600
	MethodNotFound = -32601
	InvalidParams  = -32602
	InternalError  = -32603
)

// NewServer creates a new JSON-RPC server.
func NewServer(eng *engine.Engine, store *storage.Storage) *Server {
	s := &Server{
		engine:   eng,
		store:    store,
		log:      logging.GetDefault().Component("rpc"),
		handlers: make(map[string]Handler),
		now:      func() int64 { return time.Now().Unix() },
	}

	s.registerHandlers()

	return s
}

// registerHandlers registers all JSON-RPC method handlers.
func (s *Server) registerHandlers() {
	// Execute methods
	s.handlers["swap_initiate"] = s.swapInitiate
	s.handlers["swap_complete"] = s.swapComplete
	s.handlers["swap_refund"] = s.swapRefund
	s.handlers["swap_emergencyRefund"] = s.swapEmergencyRefund
	s.handlers["config_update"] = s.configUpdate

	// Query methods
	s.handlers["config_get"] = s.configGet
	s.handlers["swap_get"] = s.swapGet
	s.handlers["swaps_byInitiator"] = s.swapsByInitiator
	s.handlers["swaps_byParticipant"] = s.swapsByParticipant
	s.handlers["swaps_byHashlock"] = s.swapsByHashlock
	s.handlers["swap_stats"] = s.swapStats
	s.handlers["node_status"] = s.nodeStatus

	// Convenience methods
	s.handlers["swap_newSecret"] = s.swapNewSecret
}

// Start starts the RPC server.
func (s *Server) Start(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener

	s.wsHub = NewWSHub()
	go s.wsHub.Run()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /", s.handleRPC)
	mux.HandleFunc("POST /{$}", s.handleRPC)
	mux.HandleFunc("OPTIONS /", s.handleCORS)
	mux.HandleFunc("OPTIONS /{$}", s.handleCORS)
	mux.HandleFunc("GET /ws", s.handleWS)
	mux.HandleFunc("GET /ws/", s.handleWS)

	s.server = &http.Server{
		Handler:      corsMiddleware(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.log.Error("RPC server error", "error", err)
		}
	}()

	s.log.Info("RPC server started", "addr", addr, "ws", "ws://"+addr+"/ws")
	return nil
}

// Stop stops the RPC server.
func (s *Server) Stop() error {
	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(ctx)
	}
	return nil
}

// handleRPC processes a single JSON-RPC request.
func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, nil, &Error{Code: ParseError, Message: "Parse error"})
		return
	}

	if req.JSONRPC != "2.0" {
		s.writeError(w, req.ID, &Error{Code: InvalidRequest, Message: "Invalid Request"})
		return
	}

	s.mu.RLock()
	handler, ok := s.handlers[req.Method]
	s.mu.RUnlock()

	if !ok {
		s.writeError(w, req.ID, &Error{Code: MethodNotFound, Message: "Method not found", Data: req.Method})
		return
	}

	result, err := handler(r.Context(), req.Params)
	if err != nil {
		s.writeError(w, req.ID, toRPCError(err))
		return
	}

	s.writeResult(w, req.ID, result)
}

func (s *Server) writeResult(w http.ResponseWriter, id, result interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(&Response{
		JSONRPC: "2.0",
		Result:  result,
		ID:      id,
	})
}

func (s *Server) writeError(w http.ResponseWriter, id interface{}, rpcErr *Error) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(&Response{
		JSONRPC: "2.0",
		Error:   rpcErr,
		ID:      id,
	})
}

func (s *Server) handleCORS(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
