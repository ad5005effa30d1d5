package handoff

import (
	"context"

	"website_backend/internal/events"
)

// Module connects the handoff service to the event bus.
type Module struct {
	service *Service
}

func New(service *Service) *Module {
	return &Module{service: service}
}

// Service returns the handoff service, which is also the worker's processor.
func (m *Module) Service() *Service {
	return m.service
}

// RegisterHandlers subscribes the module to classification events.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.IntentClassifiedName, m)
}

// Handle implements events.Handler.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.IntentClassified:
		return m.service.Schedule(ctx, e)
	default:
		return nil
	}
}
