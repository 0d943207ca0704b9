package slicerrpc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bridgeHandler is the per-request script of a fake bridge server
type bridgeHandler func(conn *websocket.Conn, req Request)

// newFakeBridgeServer starts a WebSocket server dispatching every incoming
// request to the handler. Returns the ws:// URL.
func newFakeBridgeServer(t *testing.T, handler bridgeHandler) string {
	t.Helper()

	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		for {
			var req Request
			if err := conn.ReadJSON(&req); err != nil {
				return
			}
			handler(conn, req)
		}
	}))
	t.Cleanup(server.Close)

	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func dialTestClient(t *testing.T, url string) *Client {
	t.Helper()

	client, err := Dial(context.Background(), Config{
		URL:              url,
		HandshakeTimeout: 5 * time.Second,
		Logger:           zerolog.Nop(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return client
}

func TestDial(t *testing.T) {
	t.Run("should require a URL", func(t *testing.T) {
		_, err := Dial(context.Background(), Config{Logger: zerolog.Nop()})
		assert.ErrorContains(t, err, "bridge URL is required")
	})

	t.Run("should fail when the bridge is unreachable", func(t *testing.T) {
		_, err := Dial(context.Background(), Config{
			URL:              "ws://127.0.0.1:1/slicer",
			HandshakeTimeout: time.Second,
			Logger:           zerolog.Nop(),
		})
		assert.ErrorContains(t, err, "failed to dial Slicer bridge")
	})

	t.Run("should assign a session id", func(t *testing.T) {
		url := newFakeBridgeServer(t, func(conn *websocket.Conn, req Request) {})
		client := dialTestClient(t, url)
		assert.NotEmpty(t, client.SessionID())
	})
}

func TestClient_Call(t *testing.T) {
	t.Run("should complete a request and response exchange", func(t *testing.T) {
		url := newFakeBridgeServer(t, func(conn *websocket.Conn, req Request) {
			assert.Equal(t, "2.0", req.JSONRPC)
			assert.Equal(t, "slicer_util_getNodesByClass", req.Method)
			_ = conn.WriteJSON(map[string]interface{}{
				"id":      req.ID,
				"jsonrpc": "2.0",
				"result":  []string{"Segmentation_1"},
			})
		})
		client := dialTestClient(t, url)

		result, err := client.Call(context.Background(), "slicer_util_getNodesByClass",
			map[string]interface{}{"class_name": "vtkMRMLSegmentationNode"})
		require.NoError(t, err)
		assert.Equal(t, []interface{}{"Segmentation_1"}, result)
	})

	t.Run("should decode object handles in results", func(t *testing.T) {
		url := newFakeBridgeServer(t, func(conn *websocket.Conn, req Request) {
			_ = conn.WriteJSON(map[string]interface{}{
				"id":      req.ID,
				"jsonrpc": "2.0",
				"result": map[string]string{
					"$object": "node-1",
					"$class":  "vtkMRMLSegmentationNode",
				},
			})
		})
		client := dialTestClient(t, url)

		result, err := client.Call(context.Background(), "slicer_util_getNode",
			map[string]interface{}{"node_id": "Segmentation"})
		require.NoError(t, err)

		obj, ok := result.(*Object)
		require.True(t, ok)
		assert.Equal(t, "node-1", obj.ID())
		assert.Equal(t, "vtkMRMLSegmentationNode", obj.Class())
	})

	t.Run("should surface bridge errors", func(t *testing.T) {
		url := newFakeBridgeServer(t, func(conn *websocket.Conn, req Request) {
			_ = conn.WriteJSON(map[string]interface{}{
				"id":      req.ID,
				"jsonrpc": "2.0",
				"error":   map[string]interface{}{"code": MethodNotFound, "message": "no such method"},
			})
		})
		client := dialTestClient(t, url)

		_, err := client.Call(context.Background(), "slicer_bogus", nil)
		require.Error(t, err)

		var rpcErr *Error
		require.ErrorAs(t, err, &rpcErr)
		assert.Equal(t, MethodNotFound, rpcErr.Code)
		assert.Equal(t, "no such method", rpcErr.Message)
	})

	t.Run("should discard responses with unmatched ids", func(t *testing.T) {
		url := newFakeBridgeServer(t, func(conn *websocket.Conn, req Request) {
			_ = conn.WriteJSON(map[string]interface{}{
				"id":      "stale-request",
				"jsonrpc": "2.0",
				"result":  "stale",
			})
			_ = conn.WriteJSON(map[string]interface{}{
				"id":      req.ID,
				"jsonrpc": "2.0",
				"result":  "fresh",
			})
		})
		client := dialTestClient(t, url)

		result, err := client.Call(context.Background(), "slicer_app_layoutManager", nil)
		require.NoError(t, err)
		assert.Equal(t, "fresh", result)
	})

	t.Run("should honor the context deadline", func(t *testing.T) {
		url := newFakeBridgeServer(t, func(conn *websocket.Conn, req Request) {
			// Never respond
		})
		client := dialTestClient(t, url)

		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		_, err := client.Call(ctx, "slicer_app_layoutManager", nil)
		assert.ErrorContains(t, err, "failed to read bridge response")
	})

	t.Run("should reject calls on a closed client", func(t *testing.T) {
		url := newFakeBridgeServer(t, func(conn *websocket.Conn, req Request) {})
		client := dialTestClient(t, url)
		require.NoError(t, client.Close())

		_, err := client.Call(context.Background(), "slicer_app_layoutManager", nil)
		assert.ErrorContains(t, err, "bridge connection is closed")
	})
}

func TestClient_CallObject(t *testing.T) {
	url := newFakeBridgeServer(t, func(conn *websocket.Conn, req Request) {
		assert.Equal(t, "object_call", req.Method)
		assert.Equal(t, "node-1", req.Params["object"])
		assert.Equal(t, "SetSegmentVisibility", req.Params["method"])
		assert.Equal(t, []interface{}{"seg1", true}, req.Params["args"])
		_ = conn.WriteJSON(map[string]interface{}{
			"id":      req.ID,
			"jsonrpc": "2.0",
			"result":  nil,
		})
	})
	client := dialTestClient(t, url)

	result, err := client.CallObject(context.Background(), "node-1", "SetSegmentVisibility", []interface{}{"seg1", true})
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestClient_Close(t *testing.T) {
	t.Run("should be idempotent", func(t *testing.T) {
		url := newFakeBridgeServer(t, func(conn *websocket.Conn, req Request) {})
		client := dialTestClient(t, url)

		assert.NoError(t, client.Close())
		assert.NoError(t, client.Close())
	})
}
