package chat

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

// contentGenerator is the subset of *genai.Models the completer uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiCompleter calls the Gemini API directly through the genai SDK.
type GeminiCompleter struct {
	models contentGenerator
	model  string
}

// NewGeminiClient creates a genai client for the Gemini Developer API.
func NewGeminiClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return client, nil
}

// NewGeminiCompleter uses client.Models with the given model name
// (gemini-2.5-flash when empty).
func NewGeminiCompleter(client *genai.Client, model string) *GeminiCompleter {
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiCompleter{models: client.Models, model: model}
}

// Complete implements Completer.
func (g *GeminiCompleter) Complete(ctx context.Context, messages []Message, opts Options) (string, error) {
	resp, err := g.models.GenerateContent(ctx, g.model, toContents(messages), generateConfig(messages, opts))
	if err != nil {
		return "", fmt.Errorf("failed to generate content with Gemini: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no response candidates from Gemini")
	}

	text := strings.TrimSpace(contentText(resp.Candidates[0].Content))
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}
