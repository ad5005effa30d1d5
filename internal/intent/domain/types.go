// Package domain holds the intent taxonomy, the urgency scale and the static
// pattern, urgency and routing tables the classifier works from.
// Everything here is immutable after package initialisation and safe for
// concurrent use.
package domain

import "strings"

// Intent is what a visitor is trying to accomplish.
type Intent string

const (
	IntentServiceInquiry     Intent = "service_inquiry"
	IntentServiceComparison  Intent = "service_comparison"
	IntentPricingRequest     Intent = "pricing_request"
	IntentTechnicalSupport   Intent = "technical_support"
	IntentUrgentIssue        Intent = "urgent_issue"
	IntentPasswordReset      Intent = "password_reset"
	IntentAccountIssue       Intent = "account_issue"
	IntentQuoteRequest       Intent = "quote_request"
	IntentDemoRequest        Intent = "demo_request"
	IntentContactSales       Intent = "contact_sales"
	IntentGeneralInformation Intent = "general_information"
	IntentDocumentation      Intent = "documentation"
	IntentFAQ                Intent = "faq"
	IntentNavigation         Intent = "navigation"
	IntentSearch             Intent = "search"
	IntentScheduleMeeting    Intent = "schedule_meeting"
	IntentFileTicket         Intent = "file_ticket"
	IntentFeedback           Intent = "feedback"
	IntentUnknown            Intent = "unknown"
)

// allIntents is the table order. Rule scoring iterates in this order and
// keeps the first intent on ties.
var allIntents = [...]Intent{
	IntentServiceInquiry,
	IntentServiceComparison,
	IntentPricingRequest,
	IntentTechnicalSupport,
	IntentUrgentIssue,
	IntentPasswordReset,
	IntentAccountIssue,
	IntentQuoteRequest,
	IntentDemoRequest,
	IntentContactSales,
	IntentGeneralInformation,
	IntentDocumentation,
	IntentFAQ,
	IntentNavigation,
	IntentSearch,
	IntentScheduleMeeting,
	IntentFileTicket,
	IntentFeedback,
	IntentUnknown,
}

// All returns every intent in table order, unknown last.
func All() []Intent {
	out := make([]Intent, len(allIntents))
	copy(out, allIntents[:])
	return out
}

// Valid reports whether i is part of the taxonomy.
func (i Intent) Valid() bool {
	for _, known := range allIntents {
		if i == known {
			return true
		}
	}
	return false
}

func (i Intent) String() string { return string(i) }

// ParseIntent maps a loosely formatted name ("Pricing Request",
// "pricing-request") onto the taxonomy. Unrecognised input yields
// (IntentUnknown, false).
func ParseIntent(s string) (Intent, bool) {
	candidate := Intent(normaliseName(s))
	if candidate.Valid() {
		return candidate, true
	}
	return IntentUnknown, false
}

// Urgency is a severity signal independent of the intent.
type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

var urgencyOrder = [...]Urgency{UrgencyCritical, UrgencyHigh, UrgencyMedium, UrgencyLow}

// UrgencyOrder returns the levels from most to least severe.
func UrgencyOrder() []Urgency {
	out := make([]Urgency, len(urgencyOrder))
	copy(out, urgencyOrder[:])
	return out
}

// Valid reports whether u is a known level.
func (u Urgency) Valid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyCritical:
		return true
	}
	return false
}

func (u Urgency) String() string { return string(u) }

// ParseUrgency maps s onto a level, returning (UrgencyLow, false) when it is
// not recognised.
func ParseUrgency(s string) (Urgency, bool) {
	candidate := Urgency(normaliseName(s))
	if candidate.Valid() {
		return candidate, true
	}
	return UrgencyLow, false
}

func normaliseName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("-", "_", " ", "_").Replace(s)
}

// Result sources.
const (
	SourceRules = "rules"
	SourceAI    = "ai"
)

// Entities are structured values pulled out of the utterance. Absent values
// are omitted from JSON, so an utterance without matches encodes as {}.
type Entities struct {
	Services  []string `json:"services,omitempty"`
	Email     string   `json:"email,omitempty"`
	Phone     string   `json:"phone,omitempty"`
	PhoneE164 string   `json:"phoneE164,omitempty"`
}

// IsEmpty reports whether nothing was extracted.
func (e Entities) IsEmpty() bool {
	return len(e.Services) == 0 && e.Email == "" && e.Phone == "" && e.PhoneE164 == ""
}

// Result is the classification of one utterance.
type Result struct {
	Intent          Intent   `json:"intent"`
	Confidence      float64  `json:"confidence"`
	Entities        Entities `json:"entities"`
	Urgency         Urgency  `json:"urgency"`
	SuggestedAction string   `json:"suggestedAction"`
	Source          string   `json:"source"`
	Reason          string   `json:"reason,omitempty"`
}
