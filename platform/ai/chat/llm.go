package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

// ErrEmptyCompletion is returned when the provider answered without text.
var ErrEmptyCompletion = errors.New("chat: empty completion")

// LLMCompleter drives any ADK model.LLM as a Completer.
type LLMCompleter struct {
	llm model.LLM
}

// NewLLMCompleter wraps llm.
func NewLLMCompleter(llm model.LLM) *LLMCompleter {
	return &LLMCompleter{llm: llm}
}

// Complete sends messages as a single non-streaming request.
func (c *LLMCompleter) Complete(ctx context.Context, messages []Message, opts Options) (string, error) {
	req := &model.LLMRequest{
		Model:    c.llm.Name(),
		Contents: toContents(messages),
		Config:   generateConfig(messages, opts),
	}

	var builder strings.Builder
	for resp, err := range c.llm.GenerateContent(ctx, req, false) {
		if err != nil {
			return "", fmt.Errorf("%s: %w", c.llm.Name(), err)
		}
		if resp == nil {
			continue
		}
		builder.WriteString(contentText(resp.Content))
	}

	text := strings.TrimSpace(builder.String())
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}

func toContents(messages []Message) []*genai.Content {
	_, turns := splitSystem(messages)
	contents := make([]*genai.Content, 0, len(turns))
	for _, msg := range turns {
		if msg.Role == RoleAssistant {
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
			continue
		}
		contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
	}
	return contents
}

func generateConfig(messages []Message, opts Options) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(opts.Temperature),
		MaxOutputTokens: opts.MaxTokens,
	}
	if system, _ := splitSystem(messages); system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	if opts.JSON {
		cfg.ResponseMIMEType = "application/json"
	}
	return cfg
}

func contentText(content *genai.Content) string {
	if content == nil {
		return ""
	}
	var builder strings.Builder
	for _, part := range content.Parts {
		if part != nil && part.Text != "" && !part.Thought {
			builder.WriteString(part.Text)
		}
	}
	return builder.String()
}
