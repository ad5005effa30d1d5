// Package intent provides the intent detection bounded context module.
package intent

import (
	"website_backend/internal/events"
	apphttp "website_backend/internal/http"
	"website_backend/internal/intent/classifier"
	"website_backend/internal/intent/handler"
	"website_backend/internal/intent/service"
	"website_backend/platform/ai/chat"
	"website_backend/platform/logger"
	"website_backend/platform/validator"
)

// Module is the intent bounded context module implementing http.Module.
type Module struct {
	handler    *handler.Handler
	service    *service.Service
	classifier *classifier.Classifier
}

// NewModule creates and initializes the intent module. completer may be nil
// to run on rules only.
func NewModule(completer chat.Completer, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	c := classifier.New(completer, log)
	svc := service.New(c, bus, log)

	return &Module{
		handler:    handler.New(svc, val),
		service:    svc,
		classifier: c,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "intent"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Classifier returns the underlying classifier.
func (m *Module) Classifier() *classifier.Classifier {
	return m.classifier
}

// RegisterRoutes mounts intent routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Public.Group("/intent")
	group.POST("/detect", m.handler.Detect)
	group.POST("/detect/batch", m.handler.DetectBatch)
	group.GET("/routing", m.handler.ListRouting)
	group.GET("/routing/:intent", m.handler.GetRouting)
}
