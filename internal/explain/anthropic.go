package explain

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/partrace/partrace/internal/models"
)

// Defaults for the Anthropic-backed generator.
const (
	DefaultAnthropicModel     = "claude-3-5-haiku-20241022"
	defaultAnthropicMaxTokens = 512
)

// AnthropicGenerator implements Generator using the Anthropic Claude API.
type AnthropicGenerator struct {
	client anthropic.Client
	model  string
}

// NewAnthropicGenerator creates an Anthropic-backed generator with an
// explicit API key.
func NewAnthropicGenerator(apiKey, model string) *AnthropicGenerator {
	if model == "" {
		model = DefaultAnthropicModel
	}
	return &AnthropicGenerator{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

// Generate implements Generator.Generate for Anthropic.
func (a *AnthropicGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: defaultAnthropicMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API call failed: %w", err)
	}

	var textParts []string
	for i := range resp.Content {
		block := &resp.Content[i]
		if block.Type == "text" {
			textParts = append(textParts, block.Text)
		}
	}
	return strings.Join(textParts, ""), nil
}

// Source implements Generator.Source.
func (a *AnthropicGenerator) Source() models.ExplainerSource {
	return models.ExplainerAnthropic
}
