package chat

import (
	"context"
	"fmt"
	"time"

	"website_backend/platform/ai/moonshot"
	"website_backend/platform/config"
)

// NewFromConfig builds the Completer selected by AI_PROVIDER. It returns
// (nil, nil) when AI is disabled so callers can fall back to rule-only mode.
func NewFromConfig(ctx context.Context, cfg config.AIConfig) (Completer, error) {
	switch cfg.GetAIProvider() {
	case config.AIProviderNone:
		return nil, nil
	case config.AIProviderMoonshot:
		kimi := moonshot.NewModel(moonshot.Config{
			APIKey:  cfg.GetMoonshotAPIKey(),
			BaseURL: cfg.GetMoonshotBaseURL(),
			Model:   cfg.GetAIModel(),
			Timeout: cfg.GetAITimeout(),
		})
		return WithTimeout(NewLLMCompleter(kimi), cfg.GetAITimeout()), nil
	case config.AIProviderGemini:
		client, err := NewGeminiClient(ctx, cfg.GetGeminiAPIKey())
		if err != nil {
			return nil, err
		}
		return WithTimeout(NewGeminiCompleter(client, cfg.GetAIModel()), cfg.GetAITimeout()), nil
	default:
		return nil, fmt.Errorf("unsupported AI provider %q", cfg.GetAIProvider())
	}
}

// WithTimeout bounds every Complete call of c to d. A non-positive d returns c unchanged.
func WithTimeout(c Completer, d time.Duration) Completer {
	if d <= 0 {
		return c
	}
	return CompleterFunc(func(ctx context.Context, messages []Message, opts Options) (string, error) {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		return c.Complete(ctx, messages, opts)
	})
}
