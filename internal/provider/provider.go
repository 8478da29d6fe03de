package provider

import (
	"context"
	"errors"
)

// ErrNoCandidates is returned when the backend produced no usable response.
var ErrNoCandidates = errors.New("provider returned no candidates")

// GenerateRequest encapsulates all parameters for one generation round.
type GenerateRequest struct {
	// History contains the retained conversation, oldest first.
	History []Message

	// Tools contains the declarations for native tool calling.
	Tools []ToolDefinition

	// SystemInstructions steers the model; empty disables it.
	SystemInstructions string

	// Temperature is a pointer to distinguish "not set" from zero.
	Temperature *float32
}

// GenerateResponse contains the model's response for one round.
type GenerateResponse struct {
	Content ResponseContent
}

// ResponseContent is a union: exactly one of the type-specific fields is
// meaningful, indicated by Type.
type ResponseContent struct {
	Type ResponseType

	// For ResponseTypeText: text fragments in the order emitted.
	TextParts []string

	// For ResponseTypeToolCall
	ToolCalls []ToolCall

	// For ResponseTypeRefusal (safety block, policy violation)
	RefusalReason string
}

// ResponseType indicates what the model produced.
type ResponseType string

const (
	ResponseTypeText     ResponseType = "text"
	ResponseTypeToolCall ResponseType = "tool_call"
	ResponseTypeRefusal  ResponseType = "refusal"
)

// Provider is the reasoning-engine backend. The agent loop treats it as an
// opaque call: send conversation plus declarations, get back either text or
// a list of requested tool invocations.
type Provider interface {
	// Generate sends a request to the model and returns the response.
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)

	// Model returns the active model name, for status display.
	Model() string
}
