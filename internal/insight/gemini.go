package insight

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// PlaceholderAPIKey is the template value shipped in sample configs. It
// counts as no key.
const PlaceholderAPIKey = "YOUR_API_KEY_HERE"

// ModelConfig defines configuration for a Gemini model.
type ModelConfig struct {
	Name        string
	Temperature float32
	TopP        float32
	TopK        int32
}

// DefaultModelKey selects the model used when none is configured.
const DefaultModelKey = "flash-preview"

// AvailableModels defines the selectable Gemini models.
var AvailableModels = map[string]ModelConfig{
	"flash-preview": {
		Name:        "gemini-2.5-flash-preview-04-17",
		Temperature: 0.7,
		TopP:        0.95,
		TopK:        40,
	},
	"flash": {
		Name:        "gemini-flash-latest",
		Temperature: 0.7,
		TopP:        0.95,
		TopK:        40,
	},
	"pro": {
		Name:        "gemini-pro-latest",
		Temperature: 0.7,
		TopP:        0.95,
		TopK:        40,
	},
	"flash-2": {
		Name:        "gemini-2.0-flash",
		Temperature: 0.7,
		TopP:        0.95,
		TopK:        40,
	},
}

// ResolveModel maps a model key to its config. A full "gemini-..." model
// name is accepted as-is with default sampling; anything else unknown falls
// back to the default model.
func ResolveModel(key string) ModelConfig {
	if key == "" {
		key = DefaultModelKey
	}
	if cfg, ok := AvailableModels[key]; ok {
		return cfg
	}
	if strings.HasPrefix(key, "gemini-") {
		cfg := AvailableModels[DefaultModelKey]
		cfg.Name = key
		return cfg
	}
	return AvailableModels[DefaultModelKey]
}

// HasAPIKey reports whether key is usable.
func HasAPIKey(key string) bool {
	key = strings.TrimSpace(key)
	return key != "" && key != PlaceholderAPIKey
}

// GeminiGenerator implements Generator on the Gemini API.
type GeminiGenerator struct {
	client *genai.Client
	model  ModelConfig
}

// NewGeminiGenerator connects to Gemini with the given key and model key.
func NewGeminiGenerator(ctx context.Context, apiKey, modelKey string) (*GeminiGenerator, error) {
	if !HasAPIKey(apiKey) {
		return nil, errors.New("gemini api key not configured")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiGenerator{client: client, model: ResolveModel(modelKey)}, nil
}

// Model returns the resolved model configuration.
func (g *GeminiGenerator) Model() ModelConfig {
	return g.model
}

// getModel returns a configured GenerativeModel instance.
func (g *GeminiGenerator) getModel() *genai.GenerativeModel {
	model := g.client.GenerativeModel(g.model.Name)
	model.SetTemperature(g.model.Temperature)
	model.SetTopP(g.model.TopP)
	model.SetTopK(g.model.TopK)
	return model
}

// GenerateText sends prompt to the model and returns the text of the first
// candidate.
func (g *GeminiGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := g.getModel().GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	return responseText(resp)
}

// Close releases the underlying client.
func (g *GeminiGenerator) Close() error {
	return g.client.Close()
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("no response from Gemini")
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	if b.Len() == 0 {
		return "", errors.New("no text in Gemini response")
	}
	return b.String(), nil
}
