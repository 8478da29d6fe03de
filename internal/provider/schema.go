package provider

// ToolDefinition declares a tool to the reasoning engine. This is the only
// surface of a capability the engine ever sees; execution stays local.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  *Schema // nil means the tool takes no parameters
}

// Schema maps directly to standard JSON Schema for an object parameter set.
type Schema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required,omitempty"`
}

// Property defines a single parameter.
type Property struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// ObjectSchema is a convenience constructor for the common case of an object
// schema with named properties.
func ObjectSchema(props map[string]Property, required ...string) *Schema {
	return &Schema{
		Type:       "object",
		Properties: props,
		Required:   required,
	}
}
