package explain

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/partrace/partrace/internal/models"
)

// DefaultGeminiModel matches the model the upstream MES deployment uses.
const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiGenerator implements Generator using the Gemini API.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a Gemini-backed generator with an explicit
// API key.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiGenerator{
		client: client,
		model:  model,
	}, nil
}

// Generate implements Generator.Generate for Gemini.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini API call failed: %w", err)
	}
	return resp.Text(), nil
}

// Source implements Generator.Source.
func (g *GeminiGenerator) Source() models.ExplainerSource {
	return models.ExplainerGemini
}
