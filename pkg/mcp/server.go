package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/typhonlabs/typhon/pkg/core"
)

// OutputProcessor rewrites tool output before it is returned to the
// MCP client. The session package provides the sloppiness/corruption
// implementation.
type OutputProcessor interface {
	Process(msg string) string
}

// Server exposes chaos-wrapped tools over the Model Context Protocol.
type Server struct {
	mcpServer *server.MCPServer
	processor OutputProcessor
}

// ServerOption configures the MCP server.
type ServerOption func(*Server)

// WithOutputProcessor applies consumption-side chaos (digit
// transposition, record corruption) to every tool result served.
func WithOutputProcessor(p OutputProcessor) ServerOption {
	return func(s *Server) { s.processor = p }
}

// NewServer creates a new MCP server.
func NewServer(name, version string, opts ...ServerOption) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer(name, version),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterTool registers a single core.Tool with the server.
func (s *Server) RegisterTool(tool core.Tool, description string) {
	def := mcp.NewTool(tool.Name(), mcp.WithDescription(description))

	s.mcpServer.AddTool(def, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})
		out, err := tool.Call(ctx, args)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		text := stringifyOutput(out)
		if s.processor != nil {
			text = s.processor.Process(text)
		}
		return mcp.NewToolResultText(text), nil
	})
}

// RegisterTools registers every tool in the list.
func (s *Server) RegisterTools(tools []core.Tool) {
	for _, tool := range tools {
		s.RegisterTool(tool, "")
	}
}

// Underlying exposes the wrapped mcp-go server for transports beyond
// stdio.
func (s *Server) Underlying() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdio.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func stringifyOutput(out any) string {
	switch v := out.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}
