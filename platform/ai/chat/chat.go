// Package chat defines the chat-completion collaborator used by callers that
// need a single text answer from a language model, plus adapters for the
// model providers the application supports.
package chat

import "context"

// Role is the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one chat turn.
type Message struct {
	Role    Role
	Content string
}

// Options tune a single completion call.
type Options struct {
	Temperature float32
	MaxTokens   int32
	// JSON asks the provider for a JSON-only response when it supports that.
	JSON bool
}

// Completer returns the raw text the model produced for messages.
// Timeouts and retries are the implementation's concern; callers pass a
// context and treat any error as "no answer".
type Completer interface {
	Complete(ctx context.Context, messages []Message, opts Options) (string, error)
}

// CompleterFunc adapts an ordinary function to Completer.
type CompleterFunc func(ctx context.Context, messages []Message, opts Options) (string, error)

// Complete calls f.
func (f CompleterFunc) Complete(ctx context.Context, messages []Message, opts Options) (string, error) {
	return f(ctx, messages, opts)
}

// splitSystem separates system messages (joined by blank lines) from the
// conversation turns.
func splitSystem(messages []Message) (string, []Message) {
	var system string
	turns := make([]Message, 0, len(messages))
	for _, msg := range messages {
		if msg.Role == RoleSystem {
			if system != "" {
				system += "\n\n"
			}
			system += msg.Content
			continue
		}
		turns = append(turns, msg)
	}
	return system, turns
}
