// Package gemini implements the provider boundary on top of the Google
// Gemini API via the official genai SDK.
package gemini

import (
	"context"

	"github.com/antigravity-labs/controller/internal/provider"
)

// Provider implements provider.Provider for Google Gemini.
type Provider struct {
	client    Client
	modelName string
}

// New creates a Provider with the specified client and model.
func New(client Client, modelName string) *Provider {
	return &Provider{
		client:    client,
		modelName: modelName,
	}
}

// Generate sends one round of the conversation to the Gemini API and maps
// the response back into the provider union type.
func (p *Provider) Generate(ctx context.Context, req *provider.GenerateRequest) (*provider.GenerateResponse, error) {
	contents := toGeminiContents(req.History)
	config := toGeminiConfig(req)

	resp, err := p.client.GenerateContent(ctx, p.modelName, contents, config)
	if err != nil {
		return nil, err
	}

	return fromGeminiResponse(resp)
}

// Model returns the active model name.
func (p *Provider) Model() string {
	return p.modelName
}
