// Package devtools exposes the assistant's tools over MCP so external
// clients (editors, other agents) can call them directly.
package devtools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/devmate-ai/devmate/internal/session"
	"github.com/devmate-ai/devmate/internal/tool"
)

// ServerName is the MCP server identity reported during initialization.
const ServerName = "devmate-tools"

// Config holds the registries behind the MCP surface.
type Config struct {
	Tools   *tool.Registry
	State   *session.State
	WorkDir string
}

// NewServer creates an MCP server exposing every registered tool. Tool
// failures are reported as MCP tool errors carrying the error text, never
// as protocol errors.
func NewServer(cfg Config) *server.MCPServer {
	s := server.NewMCPServer(
		ServerName,
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	for _, t := range cfg.Tools.List() {
		s.AddTool(
			mcp.NewToolWithRawSchema(t.ID(), t.Description(), t.Parameters()),
			handlerFor(t, cfg),
		)
	}

	return s
}

// handlerFor adapts one devmate tool to the MCP call contract.
func handlerFor(t tool.Tool, cfg Config) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, err := json.Marshal(request.GetArguments())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		toolCtx := &tool.Context{
			SessionID: "mcp",
			CallID:    request.Params.Name,
			Agent:     ServerName,
			WorkDir:   cfg.WorkDir,
			State:     cfg.State,
		}

		result, err := t.Execute(ctx, args, toolCtx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		output := result.Output
		if output == "" && result.Payload != nil {
			data, err := json.Marshal(result.Payload)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("encode payload: %v", err)), nil
			}
			output = string(data)
		}

		return mcp.NewToolResultText(output), nil
	}
}
