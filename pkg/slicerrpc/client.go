package slicerrpc

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"

	"github.com/A2B-Technology-Corporation/SlicerTools/internal/metrics"
)

// Config holds bridge client configuration
type Config struct {
	URL              string
	HandshakeTimeout time.Duration
	Logger           zerolog.Logger
	Metrics          *metrics.Metrics
}

// Client is the connection handle to the Slicer bridge. It is created once,
// shared by every tool operation for its entire lifetime, and closed by
// whoever constructed it. Calls are synchronous request/response exchanges;
// the client serializes them internally so concurrent tool invocations do
// not interleave frames on the wire.
type Client struct {
	conn      *websocket.Conn
	sessionID string
	logger    zerolog.Logger
	metrics   *metrics.Metrics
	mu        sync.Mutex
	closed    bool
}

// Dial connects to the Slicer bridge over WebSocket
func Dial(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("bridge URL is required")
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: cfg.HandshakeTimeout,
	}

	conn, resp, err := dialer.DialContext(ctx, cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial Slicer bridge at %s: %w", cfg.URL, err)
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	c := &Client{
		conn:      conn,
		sessionID: uuid.NewString(),
		logger:    cfg.Logger,
		metrics:   cfg.Metrics,
	}

	c.logger.Info().
		Str("url", cfg.URL).
		Str("session_id", c.sessionID).
		Msg("Connected to Slicer bridge")

	return c, nil
}

// SessionID returns the client's session identifier
func (c *Client) SessionID() string {
	return c.sessionID
}

// Call invokes a method on the bridge root namespace and blocks until the
// bridge responds. There is no retry and no implicit timeout; a context
// deadline, when present, is applied to the underlying reads and writes.
func (c *Client) Call(ctx context.Context, method string, params map[string]interface{}) (interface{}, error) {
	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate request id: %w", err)
	}

	req := Request{
		ID:      id,
		Method:  method,
		Params:  params,
		JSONRPC: "2.0",
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, fmt.Errorf("bridge connection is closed")
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		deadline = time.Time{}
	}
	_ = c.conn.SetWriteDeadline(deadline)
	_ = c.conn.SetReadDeadline(deadline)

	if err := c.conn.WriteJSON(req); err != nil {
		c.metrics.RecordRPCCall(method, "error")
		return nil, fmt.Errorf("failed to send bridge request: %w", err)
	}

	for {
		var resp Response
		if err := c.conn.ReadJSON(&resp); err != nil {
			c.metrics.RecordRPCCall(method, "error")
			return nil, fmt.Errorf("failed to read bridge response: %w", err)
		}

		if resp.ID != id {
			// Stray frame from a previous aborted exchange
			c.logger.Warn().
				Str("expected", id).
				Str("received", resp.ID).
				Msg("Discarding unmatched bridge response")
			continue
		}

		if resp.Error != nil {
			c.metrics.RecordRPCCall(method, "error")
			return nil, resp.Error
		}

		result, err := decodeResult(c, resp.Result)
		if err != nil {
			c.metrics.RecordRPCCall(method, "error")
			return nil, err
		}

		c.metrics.RecordRPCCall(method, "ok")
		c.logger.Debug().
			Str("method", method).
			Str("request_id", id).
			Msg("Bridge call completed")

		return result, nil
	}
}

// CallObject invokes a method on a remote object identified by its handle ID
func (c *Client) CallObject(ctx context.Context, objectID string, method string, args []interface{}) (interface{}, error) {
	if args == nil {
		args = []interface{}{}
	}
	return c.Call(ctx, "object_call", map[string]interface{}{
		"object": objectID,
		"method": method,
		"args":   args,
	})
}

// Close closes the bridge connection. Close is idempotent.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	_ = c.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)

	c.logger.Info().Str("session_id", c.sessionID).Msg("Disconnected from Slicer bridge")

	return c.conn.Close()
}
