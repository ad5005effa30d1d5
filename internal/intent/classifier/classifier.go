// Package classifier decides what a chat visitor wants. A deterministic
// keyword and pattern pass runs first; when it is not confident enough an
// optional language model gets a chance to do better.
package classifier

import (
	"context"

	"website_backend/internal/intent/domain"
	"website_backend/platform/ai/chat"
	"website_backend/platform/logger"
	"website_backend/platform/validator"
)

const (
	// ruleConfidenceThreshold is the rule confidence above which the model
	// is never consulted.
	ruleConfidenceThreshold = 0.8

	keywordWeight    = 0.3
	expressionWeight = 0.5
)

// Classifier is stateless and safe for concurrent use.
type Classifier struct {
	completer chat.Completer
	val       *validator.Validator
	log       *logger.Logger
}

// New creates a classifier. A nil completer disables the model pass.
func New(completer chat.Completer, log *logger.Logger) *Classifier {
	if log == nil {
		log = logger.Discard()
	}
	return &Classifier{
		completer: completer,
		val:       validator.New(),
		log:       log,
	}
}

// AIEnabled reports whether a completer is configured.
func (c *Classifier) AIEnabled() bool {
	return c.completer != nil
}

// Detect classifies text. It never fails: model errors are logged and the
// rule-based result is returned instead.
func (c *Classifier) Detect(ctx context.Context, text string, useAI bool) domain.Result {
	ruleResult := c.DetectFromRules(text)
	if ruleResult.Confidence > ruleConfidenceThreshold || !useAI || c.completer == nil {
		return ruleResult
	}

	aiResult, err := c.detectWithAI(ctx, text)
	if err != nil {
		c.log.WithContext(ctx).ClassifierFallback("ai", string(ruleResult.Intent), ruleResult.Confidence, err)
		return ruleResult
	}
	if aiResult.Confidence > ruleResult.Confidence {
		return aiResult
	}
	return ruleResult
}
