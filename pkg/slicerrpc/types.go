package slicerrpc

import (
	"encoding/json"
	"fmt"
)

// Request represents a JSON-RPC 2.0 request sent to the Slicer bridge
type Request struct {
	ID      string                 `json:"id"`
	Method  string                 `json:"method"`
	Params  map[string]interface{} `json:"params,omitempty"`
	JSONRPC string                 `json:"jsonrpc"`
}

// Response represents a JSON-RPC 2.0 response from the Slicer bridge
type Response struct {
	ID      string          `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
	JSONRPC string          `json:"jsonrpc"`
}

// Error represents a JSON-RPC 2.0 error returned by the bridge
type Error struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	return e.Message
}

// RPC error codes
const (
	ParseError     = -32700
	InvalidRequest = -32600
	MethodNotFound = -32601
	InvalidParams  = -32602
	InternalError  = -32603
)

// Object handle keys in bridge results. A result of the form
// {"$object": "<id>", "$class": "<class>"} is decoded into an *Object proxy.
const (
	objectKey = "$object"
	classKey  = "$class"
)

// decodeValue converts a decoded JSON result into Go values, replacing
// object handle maps with *Object proxies bound to the given caller.
func decodeValue(caller Caller, value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case map[string]interface{}:
		if id, ok := v[objectKey].(string); ok {
			class, _ := v[classKey].(string)
			return &Object{caller: caller, id: id, class: class}, nil
		}
		decoded := make(map[string]interface{}, len(v))
		for key, elem := range v {
			d, err := decodeValue(caller, elem)
			if err != nil {
				return nil, err
			}
			decoded[key] = d
		}
		return decoded, nil
	case []interface{}:
		decoded := make([]interface{}, len(v))
		for i, elem := range v {
			d, err := decodeValue(caller, elem)
			if err != nil {
				return nil, err
			}
			decoded[i] = d
		}
		return decoded, nil
	case nil, bool, float64, string:
		return v, nil
	default:
		return nil, fmt.Errorf("unsupported result type %T", value)
	}
}

// decodeResult unmarshals a raw JSON-RPC result and resolves object handles.
func decodeResult(caller Caller, raw json.RawMessage) (interface{}, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var value interface{}
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, fmt.Errorf("failed to decode result: %w", err)
	}
	return decodeValue(caller, value)
}
