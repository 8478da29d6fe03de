package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessage_IsToolResult(t *testing.T) {
	assert.False(t, Message{Role: "user", Content: "hi"}.IsToolResult())
	assert.False(t, Message{Role: "model", ToolCalls: []ToolCall{{Name: "t"}}}.IsToolResult())
	assert.True(t, Message{Role: "function", ToolResults: []ToolResult{{Name: "t"}}}.IsToolResult())
}

func TestMessage_HasToolCalls(t *testing.T) {
	assert.True(t, Message{Role: "model", ToolCalls: []ToolCall{{Name: "t"}}}.HasToolCalls())
	assert.False(t, Message{Role: "model", Content: "text"}.HasToolCalls())
}

func TestObjectSchema(t *testing.T) {
	s := ObjectSchema(map[string]Property{
		"path": {Type: "string", Description: "a path"},
	}, "path")

	assert.Equal(t, "object", s.Type)
	assert.Equal(t, []string{"path"}, s.Required)
	assert.Equal(t, "string", s.Properties["path"].Type)
}
