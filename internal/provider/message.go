// Package provider defines the boundary to the reasoning engine: the
// conversation types exchanged with it, the tool declarations it may call,
// and the Provider interface implemented by concrete backends.
package provider

// Message represents a single turn in the conversation history.
type Message struct {
	Role    string // "user", "model", "function"
	Content string

	// For model messages with tool calls
	ToolCalls []ToolCall

	// For function messages with tool results
	ToolResults []ToolResult
}

// ToolCall represents a structured tool invocation requested by the model.
type ToolCall struct {
	ID   string
	Name string
	Args map[string]any
}

// ToolResult represents the result of a tool execution, correlated back to
// its ToolCall by ID and name.
type ToolResult struct {
	ID      string
	Name    string
	Content string
}

// IsToolResult reports whether the message carries tool results. The agent
// loop uses this to keep model-call/tool-result pairs together when the
// history window is truncated.
func (m Message) IsToolResult() bool {
	return len(m.ToolResults) > 0
}

// HasToolCalls reports whether the message requests tool invocations.
func (m Message) HasToolCalls() bool {
	return len(m.ToolCalls) > 0
}
