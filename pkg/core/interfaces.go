package core

import "context"

// Tool is a callable capability exposed to the agent layer.
// Implementations must keep Name stable: the surrounding framework
// introspects tools by name before and after chaos wrapping.
type Tool interface {
	Name() string
	Call(ctx context.Context, input any) (any, error)
}

// ToolFunc adapts a plain function into a Tool.
type ToolFunc struct {
	ToolName    string
	Description string
	Fn          func(ctx context.Context, input any) (any, error)
}

// Name returns the tool name. A ToolFunc with an empty name is treated
// as anonymous and skipped by interceptors.
func (t ToolFunc) Name() string { return t.ToolName }

// Call invokes the underlying function.
func (t ToolFunc) Call(ctx context.Context, input any) (any, error) {
	return t.Fn(ctx, input)
}

// NewTool builds a named ToolFunc.
func NewTool(name, description string, fn func(ctx context.Context, input any) (any, error)) ToolFunc {
	return ToolFunc{ToolName: name, Description: description, Fn: fn}
}

var _ Tool = ToolFunc{}
