package gemini

import (
	"testing"

	"github.com/antigravity-labs/controller/internal/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestToGeminiContents_RolesAndParts(t *testing.T) {
	history := []provider.Message{
		{Role: "user", Content: "hello"},
		{Role: "model", ToolCalls: []provider.ToolCall{
			{Name: "read_file", Args: map[string]any{"path": "/tmp/a"}},
		}},
		{Role: "function", ToolResults: []provider.ToolResult{
			{Name: "read_file", Content: "file contents"},
		}},
		{Role: "model", Content: "done"},
	}

	contents := toGeminiContents(history)
	require.Len(t, contents, 4)

	assert.Equal(t, "user", contents[0].Role)
	assert.Equal(t, "hello", contents[0].Parts[0].Text)

	assert.Equal(t, "model", contents[1].Role)
	require.NotNil(t, contents[1].Parts[0].FunctionCall)
	assert.Equal(t, "read_file", contents[1].Parts[0].FunctionCall.Name)

	// Tool results go back under the user role.
	assert.Equal(t, "user", contents[2].Role)
	require.NotNil(t, contents[2].Parts[0].FunctionResponse)
	assert.Equal(t, map[string]any{"result": "file contents"},
		contents[2].Parts[0].FunctionResponse.Response)

	assert.Equal(t, "model", contents[3].Role)
}

func TestToGeminiContents_SkipsEmptyMessages(t *testing.T) {
	history := []provider.Message{
		{Role: "user", Content: "hi"},
		{Role: "model"},
	}
	contents := toGeminiContents(history)
	assert.Len(t, contents, 1)
}

func TestToGeminiConfig(t *testing.T) {
	temp := float32(0.3)
	req := &provider.GenerateRequest{
		SystemInstructions: "be terse",
		Temperature:        &temp,
		Tools: []provider.ToolDefinition{
			{
				Name:        "read_file",
				Description: "reads a file",
				Parameters: provider.ObjectSchema(map[string]provider.Property{
					"path": {Type: "string"},
				}, "path"),
			},
			{Name: "noop", Description: "no params"},
		},
	}

	cfg := toGeminiConfig(req)

	require.NotNil(t, cfg.SystemInstruction)
	assert.Equal(t, "be terse", cfg.SystemInstruction.Parts[0].Text)
	require.NotNil(t, cfg.Temperature)
	assert.InDelta(t, 0.3, float64(*cfg.Temperature), 1e-6)

	require.Len(t, cfg.Tools, 1)
	decls := cfg.Tools[0].FunctionDeclarations
	require.Len(t, decls, 2)
	assert.Equal(t, "read_file", decls[0].Name)
	require.NotNil(t, decls[0].Parameters)
	assert.Equal(t, genai.TypeObject, decls[0].Parameters.Type)
	assert.Equal(t, genai.TypeString, decls[0].Parameters.Properties["path"].Type)
	assert.Equal(t, []string{"path"}, decls[0].Parameters.Required)
	assert.Nil(t, decls[1].Parameters)
}

func TestToGeminiType(t *testing.T) {
	assert.Equal(t, genai.TypeString, toGeminiType("string"))
	assert.Equal(t, genai.TypeInteger, toGeminiType("integer"))
	assert.Equal(t, genai.TypeBoolean, toGeminiType("boolean"))
	assert.Equal(t, genai.TypeString, toGeminiType("mystery"))
}

func TestFromGeminiResponse_Text(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{Text: "first"},
				{Text: "second"},
			}},
		}},
	}

	got, err := fromGeminiResponse(resp)
	require.NoError(t, err)
	assert.Equal(t, provider.ResponseTypeText, got.Content.Type)
	assert.Equal(t, []string{"first", "second"}, got.Content.TextParts)
}

func TestFromGeminiResponse_ToolCallsTakePrecedence(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{Text: "thinking out loud"},
				{FunctionCall: &genai.FunctionCall{Name: "read_file", Args: map[string]any{"path": "/x"}}},
			}},
		}},
	}

	got, err := fromGeminiResponse(resp)
	require.NoError(t, err)
	assert.Equal(t, provider.ResponseTypeToolCall, got.Content.Type)
	require.Len(t, got.Content.ToolCalls, 1)
	assert.Equal(t, "read_file", got.Content.ToolCalls[0].Name)
	assert.Equal(t, map[string]any{"path": "/x"}, got.Content.ToolCalls[0].Args)
}

func TestFromGeminiResponse_NilArgsBecomeEmptyMap(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{FunctionCall: &genai.FunctionCall{Name: "git_status"}},
			}},
		}},
	}

	got, err := fromGeminiResponse(resp)
	require.NoError(t, err)
	assert.NotNil(t, got.Content.ToolCalls[0].Args)
	assert.Empty(t, got.Content.ToolCalls[0].Args)
}

func TestFromGeminiResponse_SafetyRefusal(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			FinishReason: genai.FinishReasonSafety,
		}},
	}

	got, err := fromGeminiResponse(resp)
	require.NoError(t, err)
	assert.Equal(t, provider.ResponseTypeRefusal, got.Content.Type)
	assert.NotEmpty(t, got.Content.RefusalReason)
}

func TestFromGeminiResponse_NoCandidates(t *testing.T) {
	_, err := fromGeminiResponse(&genai.GenerateContentResponse{})
	assert.ErrorIs(t, err, provider.ErrNoCandidates)
}
