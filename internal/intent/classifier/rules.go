package classifier

import (
	"math"
	"regexp"
	"strings"

	"website_backend/internal/intent/domain"
	"website_backend/platform/phone"
)

var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phonePattern = regexp.MustCompile(`(?:\+31|0)\d{9,10}`)
)

// DetectFromRules scores every intent against the keyword and pattern tables
// and returns the strictly highest scorer. Ties keep the intent that comes
// first in table order; no hits at all yield unknown with confidence 0.
func (c *Classifier) DetectFromRules(text string) domain.Result {
	lower := strings.ToLower(text)

	best := domain.IntentUnknown
	bestScore := 0.0
	for _, p := range domain.Patterns() {
		score := scorePattern(p, lower)
		if score > bestScore {
			best = p.Intent
			bestScore = score
		}
	}

	return domain.Result{
		Intent:          best,
		Confidence:      bestScore,
		Entities:        ExtractEntities(text),
		Urgency:         DetectUrgency(lower),
		SuggestedAction: domain.SuggestedAction(best),
		Source:          domain.SourceRules,
	}
}

// scorePattern adds a fixed weight per keyword hit and per matching
// expression. Repeated keywords are not deduplicated.
func scorePattern(p domain.Pattern, lower string) float64 {
	score := 0.0
	for _, kw := range p.Keywords {
		if strings.Contains(lower, kw) {
			score += keywordWeight
		}
	}
	for _, re := range p.Expressions {
		if re.MatchString(lower) {
			score += expressionWeight
		}
	}
	return math.Min(score, 1.0)
}

// DetectUrgency returns the most severe level with a keyword present in
// lowerText, or low when none match.
func DetectUrgency(lowerText string) domain.Urgency {
	for _, level := range domain.UrgencyOrder() {
		for _, kw := range domain.UrgencyKeywords(level) {
			if strings.Contains(lowerText, kw) {
				return level
			}
		}
	}
	return domain.UrgencyLow
}

// ExtractEntities pulls known service names, the first e-mail address and
// the first Dutch phone number out of text.
func ExtractEntities(text string) domain.Entities {
	var entities domain.Entities
	lower := strings.ToLower(text)

	for _, service := range domain.KnownServices() {
		if strings.Contains(lower, service) {
			entities.Services = append(entities.Services, service)
		}
	}
	if email := emailPattern.FindString(text); email != "" {
		entities.Email = email
	}
	if number := phonePattern.FindString(text); number != "" {
		entities.Phone = number
		if e164, ok := phone.ToE164(number); ok {
			entities.PhoneE164 = e164
		}
	}
	return entities
}
