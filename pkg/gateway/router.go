package gateway

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// defaultIdempotencyTTL bounds how long a completed response is replayed
// for a repeated idempotency key when no TTL is configured.
const defaultIdempotencyTTL = 5 * time.Minute

// RPCRouter dispatches parsed JSON-RPC requests to registered tool and
// gateway method handlers. Requests carrying an idempotency key are
// answered from a bounded replay cache instead of re-executing the tool.
type RPCRouter struct {
	mu      sync.RWMutex
	methods map[string]RequestHandler
	replays *idempotencyStore
}

// NewRPCRouter creates a router whose idempotency cache retains responses
// for ttl. A non-positive ttl falls back to the default retention.
func NewRPCRouter(ttl time.Duration) *RPCRouter {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &RPCRouter{
		methods: make(map[string]RequestHandler),
		replays: newIdempotencyStore(ttl),
	}
}

// RegisterMethod registers an RPC method handler, replacing any handler
// already registered under the same name.
func (r *RPCRouter) RegisterMethod(name string, handler RequestHandler) error {
	if handler == nil {
		return fmt.Errorf("handler cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.methods[name] = handler
	return nil
}

// ParseRequest parses and validates a JSON-RPC request
func (r *RPCRouter) ParseRequest(data []byte) (*RPCRequest, error) {
	var req RPCRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, &RPCError{
			Code:    ParseError,
			Message: "Parse error",
			Data:    err.Error(),
		}
	}

	if req.ID == "" {
		return nil, &RPCError{Code: InvalidRequest, Message: "Invalid request: missing id field"}
	}
	if req.Method == "" {
		return nil, &RPCError{Code: InvalidRequest, Message: "Invalid request: missing method field"}
	}
	if req.JSONRPC == "" {
		req.JSONRPC = "2.0"
	}

	return &req, nil
}

// RouteRequest executes the handler registered for the request's method.
// When the request carries an idempotency key and a fresh cached response
// exists for it, that response is replayed under the new request id.
func (r *RPCRouter) RouteRequest(req *RPCRequest) *RPCResponse {
	if req == nil {
		return errorResponse("", InvalidRequest, "invalid request")
	}

	replayKey := ""
	if req.IdempotencyKey != "" {
		replayKey = req.Method + ":" + req.IdempotencyKey
		if cached, ok := r.replays.lookup(replayKey); ok {
			cached.ID = req.ID
			return &cached
		}
	}

	r.mu.RLock()
	handler, exists := r.methods[req.Method]
	r.mu.RUnlock()

	if !exists {
		return errorResponse(req.ID, MethodNotFound, fmt.Sprintf("Method not found: %s", req.Method))
	}

	result, err := handler(req.Params)

	var response *RPCResponse
	if err != nil {
		response = errorResponse(req.ID, InternalError, err.Error())
	} else {
		response = &RPCResponse{ID: req.ID, JSONRPC: "2.0", Result: result}
	}

	if replayKey != "" {
		r.replays.store(replayKey, *response)
	}
	return response
}

func errorResponse(id string, code int, message string) *RPCResponse {
	return &RPCResponse{
		ID:      id,
		JSONRPC: "2.0",
		Error:   &RPCError{Code: code, Message: message},
	}
}

// idempotencyStore is a TTL-bounded cache of completed RPC responses,
// keyed by method plus idempotency key. Expired entries are evicted
// opportunistically on writes.
type idempotencyStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]idempotencyEntry
}

type idempotencyEntry struct {
	response  RPCResponse
	expiresAt time.Time
}

func newIdempotencyStore(ttl time.Duration) *idempotencyStore {
	return &idempotencyStore{
		ttl:     ttl,
		entries: make(map[string]idempotencyEntry),
	}
}

func (s *idempotencyStore) lookup(key string) (RPCResponse, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.entries[key]
	if !exists {
		return RPCResponse{}, false
	}
	if time.Now().After(entry.expiresAt) {
		delete(s.entries, key)
		return RPCResponse{}, false
	}
	return cloneRPCResponse(entry.response), true
}

func (s *idempotencyStore) store(key string, response RPCResponse) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, k)
		}
	}
	s.entries[key] = idempotencyEntry{
		response:  cloneRPCResponse(response),
		expiresAt: now.Add(s.ttl),
	}
}

// cloneRPCResponse copies a response so cached entries cannot be mutated
// by callers that rewrite the request id on replay.
func cloneRPCResponse(src RPCResponse) RPCResponse {
	cloned := RPCResponse{
		ID:      src.ID,
		Result:  src.Result,
		JSONRPC: src.JSONRPC,
	}
	if src.Error != nil {
		errCopy := *src.Error
		cloned.Error = &errCopy
	}
	return cloned
}
