package types

import (
	"context"
	"time"
)

// Args holds the named arguments of a tool invocation.
type Args = map[string]any

// Tool is the capability interface every tool implements. The instrumented
// base composes over this interface; tools only provide the domain logic.
type Tool interface {
	// Name returns the tool identifier used in schemas, logs and cache keys.
	Name() string
	// Description explains what the tool does, for agent prompting.
	Description() string
	// Schema declares the tool's parameters. It must return the same
	// schema for the lifetime of the tool.
	Schema() ParameterSchema
	// Cacheable reports whether results depend only on the arguments and
	// may be reused within a TTL window.
	Cacheable() bool
	// Execute runs the tool with validated, defaulted arguments.
	Execute(ctx context.Context, args Args) (string, error)
}

// ToolCall is a single invocation request routed through an executor.
type ToolCall struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Args Args   `json:"args"`
}

// ToolResult is the outcome of one ToolCall.
type ToolResult struct {
	CallID    string        `json:"call_id"`
	Name      string        `json:"name"`
	Output    string        `json:"output,omitempty"`
	Error     string        `json:"error,omitempty"`
	Duration  time.Duration `json:"duration"`
	FromCache bool          `json:"from_cache"`
}
