// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"website_backend/platform/events"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Intent Domain Events
// =============================================================================

// IntentClassifiedName is the bus name of IntentClassified.
const IntentClassifiedName = "intent.classified"

// IntentClassified is published after a chat message was classified.
// It carries plain values so subscribers do not depend on the intent module.
type IntentClassified struct {
	BaseEvent
	RequestID       string   `json:"requestId,omitempty"`
	SessionID       string   `json:"sessionId,omitempty"`
	PageURL         string   `json:"pageUrl,omitempty"`
	Text            string   `json:"text"`
	Intent          string   `json:"intent"`
	Confidence      float64  `json:"confidence"`
	Urgency         string   `json:"urgency"`
	Source          string   `json:"source"`
	SuggestedAction string   `json:"suggestedAction"`
	Department      string   `json:"department"`
	Priority        int      `json:"priority"`
	AutoResponse    bool     `json:"autoResponse"`
	Services        []string `json:"services,omitempty"`
	Email           string   `json:"email,omitempty"`
	Phone           string   `json:"phone,omitempty"`
}

func (e IntentClassified) EventName() string { return IntentClassifiedName }
