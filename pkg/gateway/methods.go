package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/A2B-Technology-Corporation/SlicerTools/internal/tracing"
	"github.com/A2B-Technology-Corporation/SlicerTools/pkg/toolexecutor"
)

// registerBuiltinMethods registers all built-in RPC methods
func (s *Server) registerBuiltinMethods() {
	_ = s.router.RegisterMethod("tools.list", s.handleToolsList)
	_ = s.router.RegisterMethod("tools.call", s.handleToolsCall)
	_ = s.router.RegisterMethod("clients.list", s.handleClientsList)
}

// handleToolsList handles the tools.list RPC method. It returns the
// declarative descriptors of every registered tool so the orchestrator can
// discover names, descriptions and parameter schemas.
func (s *Server) handleToolsList(params map[string]interface{}) (interface{}, error) {
	descriptors := s.executor.Descriptors()

	return map[string]interface{}{
		"tools": descriptors,
		"count": len(descriptors),
	}, nil
}

// handleToolsCall handles the tools.call RPC method
func (s *Server) handleToolsCall(params map[string]interface{}) (interface{}, error) {
	name, ok := params["name"].(string)
	if !ok {
		return nil, fmt.Errorf("name parameter is required and must be a string")
	}

	toolParams, ok := params["params"].(map[string]interface{})
	if !ok {
		if params["params"] == nil {
			toolParams = map[string]interface{}{}
		} else {
			return nil, fmt.Errorf("params parameter must be an object")
		}
	}

	execCtx := &toolexecutor.ExecutionContext{}
	if timeout, ok := params["timeout"].(float64); ok && timeout > 0 {
		execCtx.Timeout = time.Duration(timeout) * time.Second
	}

	ctx := tracing.WithToolName(context.Background(), name)
	logger := tracing.LoggerFromContext(ctx, s.logger)

	start := time.Now()
	result := s.executor.Execute(ctx, name, toolParams, execCtx)

	status := "ok"
	if !result.Success {
		status = "error"
	}
	s.metrics.RecordToolInvocation(name, status, time.Since(start))

	logger.Debug().
		Bool("success", result.Success).
		Msg("Tool call completed")

	return result, nil
}

// handleClientsList handles the clients.list RPC method
func (s *Server) handleClientsList(params map[string]interface{}) (interface{}, error) {
	clients := s.clients.GetConnectedClients()

	return map[string]interface{}{
		"clients": clients,
		"count":   len(clients),
	}, nil
}
