package events

import (
	platformevents "website_backend/platform/events"
	"website_backend/platform/logger"
)

// InMemoryBus carries IntentClassified from the intent module to the handoff
// module inside one API process.
type InMemoryBus = platformevents.InMemoryBus

// NewInMemoryBus creates the bus the API wires intent publishers and handoff
// subscribers onto.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return platformevents.NewInMemoryBus(log)
}
