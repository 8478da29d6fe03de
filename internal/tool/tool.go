// Package tool defines the capabilities the agent can invoke and the
// registry that declares them to the reasoning engine.
//
// A capability's Execute contract: expected failure modes (missing file,
// binary content, non-zero exit, timeout) are turned into a descriptive
// result string starting with "Error:" so the reasoning engine can react to
// them within the same round. Only unexpected failures are returned as Go
// errors; the agent loop stringifies those too, so nothing a tool does can
// abort a round.
package tool

import (
	"context"

	"github.com/antigravity-labs/controller/internal/provider"
)

// Tool represents a capability the agent can use.
// Each tool must be stateless and safe for concurrent use.
type Tool interface {
	// Name returns the unique identifier for this tool
	Name() string

	// Description returns a human-readable description
	Description() string

	// Parameters returns the JSON-Schema-shaped parameter spec, or nil
	Parameters() *provider.Schema

	// Dangerous reports whether the tool needs user confirmation
	Dangerous() bool

	// Execute runs the tool with the arguments provided by the model
	Execute(ctx context.Context, args map[string]any) (string, error)
}

// Registry maps names to capabilities and exposes a uniform declaration
// list for the reasoning engine. Registration happens once at startup;
// the registry is read-only afterwards and safe for concurrent reads.
type Registry struct {
	tools map[string]Tool
	order []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register inserts a tool, overwriting any previous tool of the same name.
func (r *Registry) Register(t Tool) {
	name := t.Name()
	if _, exists := r.tools[name]; !exists {
		r.order = append(r.order, name)
	}
	r.tools[name] = t
}

// Get returns the tool with the given name, or false if unknown.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Declarations returns the tool declarations in registration order.
func (r *Registry) Declarations() []provider.ToolDefinition {
	defs := make([]provider.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		defs = append(defs, provider.ToolDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		})
	}
	return defs
}

// IsDangerous reports whether the named tool requires confirmation.
// Unknown names are not dangerous; they fail resolution before execution.
func (r *Registry) IsDangerous(name string) bool {
	t, ok := r.tools[name]
	return ok && t.Dangerous()
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
